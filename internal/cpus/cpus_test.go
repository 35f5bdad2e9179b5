// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCPU(t *testing.T) {
	tests := []struct {
		name     string
		family   int
		model    int
		stepping int
		expected string
	}{
		{"SandyBridge", 6, 42, 7, UarchSNB},
		{"IvyBridge", 6, 58, 9, UarchIVB},
		{"SandyBridge-EP", 6, 45, 6, UarchSNBEP},
		{"IvyBridge-EP", 6, 62, 4, UarchIVBEP},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu, err := GetCPU(test.family, test.model, test.stepping)
			require.NoError(t, err)
			assert.Equal(t, test.expected, cpu.MicroArchitecture)
		})
	}
}

func TestGetCPU_Characteristics(t *testing.T) {
	cpu, err := GetCPU(6, 58, 9)
	require.NoError(t, err)
	assert.Equal(t, "Ivy Bridge", cpu.Name)
	assert.True(t, cpu.ConfigurableTDP)
	assert.Equal(t, 6, cpu.MaxCStateIndex)
}

func TestGetCPU_Unknown(t *testing.T) {
	// Haswell is out of scope for these tables
	_, err := GetCPU(6, 60, 3)
	assert.Error(t, err)

	// model regex must match the whole model
	_, err = GetCPU(6, 420, 0)
	assert.Error(t, err)

	_, err = GetCPU(15, 42, 0)
	assert.Error(t, err)
}

func TestGetCPUByMicroArchitecture(t *testing.T) {
	cpu, err := GetCPUByMicroArchitecture("ivb")
	require.NoError(t, err)
	assert.Equal(t, UarchIVB, cpu.MicroArchitecture)

	cpu, err = GetCPUByMicroArchitecture(UarchSNBEP)
	require.NoError(t, err)
	assert.Equal(t, "Sandy Bridge-EP", cpu.Name)

	_, err = GetCPUByMicroArchitecture("HSW")
	assert.Error(t, err)
}

func TestIsIntelCPUFamily(t *testing.T) {
	assert.True(t, IsIntelCPUFamily(6))
	assert.False(t, IsIntelCPUFamily(23))
}

package madt

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"acpigen/internal/common"
	"acpigen/internal/madt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	common.FlagBoard = ""
	flagInput = ""
	flagFormat = formatBin
}

func writeDefaultTable(t *testing.T) string {
	table, err := madt.Build(madt.DefaultConfig(4))
	require.NoError(t, err)
	data, err := table.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "APIC")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestValidateFlags(t *testing.T) {
	input := writeDefaultTable(t)
	tests := []struct {
		name    string
		setup   func()
		wantErr string
	}{
		{"defaults", func() {}, ""},
		{"input", func() { flagInput = input; flagFormat = "txt" }, ""},
		{"board and input", func() { flagInput = input; common.FlagBoard = input }, "mutually exclusive"},
		{"bad format", func() { flagFormat = "prom" }, "format options are"},
		{"missing input", func() { flagInput = input + ".missing" }, "does not exist"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resetFlags()
			defer resetFlags()
			test.setup()
			err := validateFlags(Cmd, []string{})
			if test.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestLoadTableDefault(t *testing.T) {
	resetFlags()
	defer resetFlags()
	table, err := loadTable()
	require.NoError(t, err)
	data, err := render(table)
	require.NoError(t, err)
	assert.Len(t, data, 126)
	assert.Equal(t, "APIC", string(data[:4]))
}

func TestLoadTableInput(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagInput = writeDefaultTable(t)
	table, err := loadTable()
	require.NoError(t, err)
	assert.Len(t, table.Subtables, 9)

	// decoding and encoding again yields the same bytes
	original, err := os.ReadFile(flagInput)
	require.NoError(t, err)
	data, err := render(table)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestLoadTableBadInput(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagInput = filepath.Join(t.TempDir(), "FACP")
	require.NoError(t, os.WriteFile(flagInput, []byte(strings.Repeat("FACP", 20)), 0644))
	_, err := loadTable()
	require.Error(t, err)
	assert.Contains(t, err.Error(), flagInput)
}

func TestRenderFormats(t *testing.T) {
	resetFlags()
	defer resetFlags()
	table, err := loadTable()
	require.NoError(t, err)

	flagFormat = formatHex
	out, err := render(table)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "00000000  41 50 49 43"))

	flagFormat = "txt"
	out, err = render(table)
	require.NoError(t, err)
	assert.Contains(t, string(out), "MADT Subtables")
	assert.Contains(t, string(out), "COREBOOT")
}

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package msr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `
name: i7-3770
logical_cpus: 8
msr:
  "0x35": "0x00040008"
  "0xce": "0x0000080838012200"
  "0x1a0": "0x850089"
  "0x1aa": "0"
  "0x1ad": "0x25262727"
  "0x606": "0xa0e03"
  "0x614": "0x168"
  "0x648": "0x22"
cpuid:
  "0x1": {eax: 0x306a9, ebx: 0x1100800, ecx: 0x7fbae3ff, edx: 0xbfebfbff}
  "0x5": {eax: 0x40, ebx: 0x40, ecx: 0x3, edx: 0x1120}
  "0x6": {eax: 0x77, ebx: 0x2, ecx: 0x9, edx: 0x0}
`

func TestParseSnapshot(t *testing.T) {
	s, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)
	assert.Equal(t, "i7-3770", s.Name)

	cpus, err := s.LogicalCPUs()
	require.NoError(t, err)
	assert.Equal(t, 8, cpus)

	val, err := s.ReadMSR(PlatformInfo)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0000080838012200), val)

	regs, err := s.CPUID(LeafMonitor)
	require.NoError(t, err)
	assert.Equal(t, CPUID{EAX: 0x40, EBX: 0x40, ECX: 0x3, EDX: 0x1120}, regs)

}

func TestSnapshotMissingValues(t *testing.T) {
	s, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	_, err = s.ReadMSR(0x199)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0x199")

	_, err = s.CPUID(0x7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpuid leaf 0x7")
}

func TestParseSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no cpus", "name: x\nmsr:\n  \"0xce\": \"0x1\"\n"},
		{"bad address", "logical_cpus: 1\nmsr:\n  \"platform\": \"0x1\"\n"},
		{"bad value", "logical_cpus: 1\nmsr:\n  \"0xce\": \"nope\"\n"},
		{"bad leaf", "logical_cpus: 1\ncpuid:\n  \"leaf\": {eax: 1}\n"},
		{"unknown field", "logical_cpus: 1\nregisters: {}\n"},
		{"not yaml", "logical_cpus: [\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(test.doc))
			assert.Error(t, err)
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	data, err := s.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

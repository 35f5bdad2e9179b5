// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package msr

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevRoot lays out /dev/cpu/N/{msr,cpuid} as regular files under a temp
// dir. pread on a regular file behaves like the drivers for our offsets.
func fakeDevRoot(t *testing.T, cpus int) string {
	root := t.TempDir()
	for cpu := 0; cpu < cpus; cpu++ {
		dir := filepath.Join(root, "dev", "cpu", string(rune('0'+cpu)))
		require.NoError(t, os.MkdirAll(dir, 0o755))

		msrs := make([]byte, 0x700)
		binary.LittleEndian.PutUint64(msrs[PlatformInfo:], 0x0000080838012200)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "msr"), msrs, 0o600))

		cpuid := make([]byte, 32)
		binary.LittleEndian.PutUint32(cpuid[LeafThermalPwr:], 0x77)
		binary.LittleEndian.PutUint32(cpuid[LeafThermalPwr+4:], 0x2)
		binary.LittleEndian.PutUint32(cpuid[LeafThermalPwr+8:], 0x9)
		binary.LittleEndian.PutUint32(cpuid[LeafThermalPwr+12:], 0x1)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cpuid"), cpuid, 0o600))
	}
	return root
}

func TestDevReader(t *testing.T) {
	r := &DevReader{CPU: 0, root: fakeDevRoot(t, 4)}
	require.NoError(t, r.validate())

	val, err := r.ReadMSR(PlatformInfo)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0000080838012200), val)

	regs, err := r.CPUID(LeafThermalPwr)
	require.NoError(t, err)
	assert.Equal(t, CPUID{EAX: 0x77, EBX: 0x2, ECX: 0x9, EDX: 0x1}, regs)

	cpus, err := r.LogicalCPUs()
	require.NoError(t, err)
	assert.Equal(t, 4, cpus)
}

func TestDevReaderShortRead(t *testing.T) {
	r := &DevReader{CPU: 0, root: fakeDevRoot(t, 1)}
	_, err := r.ReadMSR(0x6fc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong byte count")
}

func TestDevReaderMissingDriver(t *testing.T) {
	r := &DevReader{CPU: 3, root: fakeDevRoot(t, 1)}
	err := r.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modprobe")

	_, err = (&DevReader{root: t.TempDir()}).LogicalCPUs()
	assert.Error(t, err)
}

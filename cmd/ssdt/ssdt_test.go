package ssdt

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"acpigen/internal/board"
	"acpigen/internal/common"
	"acpigen/internal/cpupm"
	"acpigen/internal/msr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ivyBridgeSnapshot(signature uint32) *msr.Snapshot {
	return &msr.Snapshot{
		Name: "i5-3470",
		CPUs: 4,
		MSRs: map[uint32]uint64{
			msr.CoreThreadCount:  0x00040004,
			msr.PlatformInfo:     16<<40 | 32<<8,
			msr.IA32MiscEnable:   0,
			msr.MiscPwrMgmt:      0,
			msr.TurboRatioLimit:  0x24242424,
			msr.PkgPowerSKUUnit:  0x3,
			msr.PkgPowerSKU:      77 * 8,
			msr.ConfigTDPNominal: 0,
		},
		Leafs: map[uint32]msr.CPUID{
			msr.LeafVersion:    {EAX: signature},
			msr.LeafMonitor:    {EDX: 0x00001120},
			msr.LeafThermalPwr: {EAX: 0x2},
		},
	}
}

func resetFlags() {
	common.FlagBoard = ""
	flagFormat = formatASL
	flagForce = false
	flagSnapshot = ""
	flagLive = false
	flagCPU = 0
	flagCheckPower = false
	flagCapture = ""
}

func TestValidateFlags(t *testing.T) {
	dir := t.TempDir()
	data, err := ivyBridgeSnapshot(0x000306a9).Marshal()
	require.NoError(t, err)
	snapshot := filepath.Join(dir, "regs.yaml")
	require.NoError(t, os.WriteFile(snapshot, data, 0644))

	tests := []struct {
		name    string
		setup   func()
		wantErr string
	}{
		{"snapshot", func() { flagSnapshot = snapshot }, ""},
		{"live", func() { flagLive = true }, ""},
		{"no source", func() {}, "is required"},
		{"both sources", func() { flagSnapshot = snapshot; flagLive = true }, "mutually exclusive"},
		{"missing snapshot", func() { flagSnapshot = filepath.Join(dir, "none.yaml") }, "does not exist"},
		{"missing board", func() { flagSnapshot = snapshot; common.FlagBoard = filepath.Join(dir, "board.yaml") }, "does not exist"},
		{"bad format", func() { flagSnapshot = snapshot; flagFormat = "html" }, "format options are"},
		{"negative cpu", func() { flagLive = true; flagCPU = -1 }, "cpu must be"},
		{"capture directory", func() { flagLive = true; flagCapture = filepath.Join(dir, "none", "regs.yaml") }, "output directory"},
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

func TestGenerateASL(t *testing.T) {
	resetFlags()
	defer resetFlags()
	out, err := generate(board.Default(), ivyBridgeSnapshot(0x000306a9))
	require.NoError(t, err)
	text := string(out)
	assert.True(t, strings.HasPrefix(text, "DefinitionBlock"))
	assert.Equal(t, 4, strings.Count(text, "Processor (\\_SB.CP"))
	assert.Contains(t, text, "Method (\\_SB.CNOT, 1, NotSerialized)")
}

func TestGenerateJSON(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagFormat = "json"
	out, err := generate(&board.Board{Name: "baskingridge"}, ivyBridgeSnapshot(0x000306a9))
	require.NoError(t, err)

	var doc struct {
		Board   string `json:"board"`
		CPU     string `json:"cpu"`
		Entries []struct {
			Kind string `json:"kind"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "baskingridge", doc.Board)
	assert.Equal(t, "Ivy Bridge", doc.CPU)
	require.NotEmpty(t, doc.Entries)
	assert.Equal(t, "Processor", doc.Entries[0].Kind)
}

func TestGenerateReport(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagFormat = "txt"
	flagCheckPower = true
	out, err := generate(board.Default(), ivyBridgeSnapshot(0x000306a9))
	require.NoError(t, err)
	assert.Contains(t, string(out), "P-States")
	assert.Contains(t, string(out), "Power Check")
}

func TestGenerateUnknownCPU(t *testing.T) {
	resetFlags()
	defer resetFlags()
	// Haswell
	_, err := generate(board.Default(), ivyBridgeSnapshot(0x000306c3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	flagForce = true
	out, err := generate(board.Default(), ivyBridgeSnapshot(0x000306c3))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCheckPower(t *testing.T) {
	snapshot := ivyBridgeSnapshot(0x000306a9)
	caps, err := cpupm.ReadCapabilities(snapshot)
	require.NoError(t, err)
	entries, err := cpupm.Build(caps, cpupm.DefaultConfig())
	require.NoError(t, err)

	deviations, err := checkPower(caps, entries)
	require.NoError(t, err)
	assert.NotEmpty(t, deviations)

	deviations, err = checkPower(caps, nil)
	require.NoError(t, err)
	assert.NotNil(t, deviations)
	assert.Empty(t, deviations)
}

func TestCapture(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagCapture = filepath.Join(t.TempDir(), "regs.yaml")
	require.NoError(t, capture(ivyBridgeSnapshot(0x000306a9), "i5-3470"))

	s, err := msr.LoadSnapshot(flagCapture)
	require.NoError(t, err)
	assert.Equal(t, "i5-3470", s.Name)
	assert.Equal(t, 4, s.CPUs)
	assert.Equal(t, uint64(77*8), s.MSRs[msr.PkgPowerSKU])
}

func TestCaptureSandyBridge(t *testing.T) {
	resetFlags()
	defer resetFlags()
	source := ivyBridgeSnapshot(0x000206a7)
	delete(source.MSRs, msr.ConfigTDPNominal)
	flagCapture = filepath.Join(t.TempDir(), "regs.yaml")
	require.NoError(t, capture(source, "i5-2500"))

	s, err := msr.LoadSnapshot(flagCapture)
	require.NoError(t, err)
	assert.NotContains(t, s.MSRs, msr.ConfigTDPNominal)

	flagForce = true
	out, err := generate(board.Default(), s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "DefinitionBlock")
}

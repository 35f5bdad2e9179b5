package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"acpigen/internal/cpupm"
	"acpigen/internal/irqroute"
	"acpigen/internal/madt"
	"acpigen/internal/msr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sandyBridgeSnapshot() *msr.Snapshot {
	return &msr.Snapshot{
		CPUs: 4,
		MSRs: map[uint32]uint64{
			msr.CoreThreadCount:  0x00040004,
			msr.PlatformInfo:     16<<40 | 32<<8,
			msr.IA32MiscEnable:   0,
			msr.MiscPwrMgmt:      0,
			msr.TurboRatioLimit:  0x24242424,
			msr.PkgPowerSKUUnit:  0x3,
			msr.PkgPowerSKU:      35 * 8,
			msr.ConfigTDPNominal: 0,
		},
		Leafs: map[uint32]msr.CPUID{
			msr.LeafVersion:    {EAX: 0x000206a7},
			msr.LeafMonitor:    {EDX: 0x00001120},
			msr.LeafThermalPwr: {EAX: 0x2},
		},
	}
}

func fieldValues(t *testing.T, tv TableValues, name string) []string {
	idx, err := GetFieldIndex(name, tv)
	require.NoError(t, err)
	return tv.Fields[idx].Values
}

func TestSSDTTables(t *testing.T) {
	entries, caps, err := cpupm.NewGenerator(sandyBridgeSnapshot(), cpupm.DefaultConfig()).Generate()
	require.NoError(t, err)

	tables := SSDTTables("Sandy Bridge", caps, entries, nil)
	require.Len(t, tables, 5)
	for _, tv := range tables {
		require.NoError(t, validateTableValues(tv))
	}

	summary := tables[0]
	assert.Equal(t, ProcessorSummaryTableName, summary.Name)
	assert.Equal(t, []string{"Sandy Bridge"}, fieldValues(t, summary, "CPU"))
	assert.Equal(t, []string{"42"}, fieldValues(t, summary, "Model"))
	assert.Equal(t, []string{"35000"}, fieldValues(t, summary, "TDP (mW)"))
	assert.Equal(t, []string{"enabled"}, fieldValues(t, summary, "Turbo"))

	processors := tables[1]
	assert.Equal(t, []string{`\_SB.CP00`, `\_SB.CP01`, `\_SB.CP02`, `\_SB.CP03`}, fieldValues(t, processors, "Name"))
	assert.Equal(t, []string{"0x510", "0x510", "0x510", "0x510"}, fieldValues(t, processors, "PBLK Address"))
	assert.Equal(t, []string{"HW_ALL", "HW_ALL", "HW_ALL", "HW_ALL"}, fieldValues(t, processors, "P-State Coordination"))
	assert.Equal(t, []string{"SW_ALL", "SW_ALL", "SW_ALL", "SW_ALL"}, fieldValues(t, processors, "T-State Coordination"))

	var pss []cpupm.PState
	for _, e := range entries {
		if e.Kind == cpupm.KindPSS {
			pss = e.PStates
			break
		}
	}
	pstates := tables[2]
	freqs := fieldValues(t, pstates, "Frequency (MHz)")
	require.Len(t, freqs, len(pss))
	assert.Equal(t, "3201", freqs[0])
	assert.Equal(t, "0x2400", fieldValues(t, pstates, "Control")[0])

	assert.Equal(t, CStateTableName, tables[3].Name)
	assert.Equal(t, "C1", fieldValues(t, tables[3], "ACPI State")[0])
	assert.Equal(t, TStateTableName, tables[4].Name)

	deviations, err := cpupm.CheckPower(caps, pss)
	require.NoError(t, err)
	tables = SSDTTables("Sandy Bridge", caps, entries, deviations)
	require.Len(t, tables, 6)
	assert.Equal(t, PowerCheckTableName, tables[5].Name)
	assert.Len(t, fieldValues(t, tables[5], "Ratio"), len(deviations))

	_, err = Create(FormatProm, tables)
	require.NoError(t, err)
}

func TestMADTTables(t *testing.T) {
	table, err := madt.Build(madt.DefaultConfig(2))
	require.NoError(t, err)
	_, err = table.Marshal()
	require.NoError(t, err)

	tables := MADTTables(table)
	require.Len(t, tables, 2)
	header := tables[0]
	assert.Equal(t, []string{"APIC"}, fieldValues(t, header, "Signature"))
	assert.Equal(t, []string{"110"}, fieldValues(t, header, "Length"))
	assert.Equal(t, []string{"COREv4"}, fieldValues(t, header, "OEM ID"))
	assert.Equal(t, []string{"0xfee00000"}, fieldValues(t, header, "Local APIC Address"))

	subtables := tables[1]
	kinds := fieldValues(t, subtables, "Type")
	assert.Equal(t, []string{"Local APIC", "Local APIC", "Local APIC NMI", "I/O APIC", "I/O APIC", "Interrupt Source Override", "Interrupt Source Override"}, kinds)
	details := fieldValues(t, subtables, "Details")
	assert.Equal(t, "processor 0, apic id 0, flags 0x1", details[0])
	assert.Equal(t, "processor 0xff, flags 0x5, lint 1", details[2])
	assert.Equal(t, "id 2, address 0xfec00000, gsi base 0", details[3])
	assert.Equal(t, "bus 0, irq 9, gsi 9, flags 0xf", details[6])
}

func TestRoutingTables(t *testing.T) {
	routing := irqroute.Routing{
		Chipset: "lynxpoint",
		Pins:    []irqroute.PinAssignment{{Device: 31, Function: "sip", Pin: irqroute.IntA}},
		Routes:  []irqroute.Route{{Device: 31, PIRQs: []irqroute.PIRQ{irqroute.PIRQA, irqroute.PIRQB, irqroute.PIRQC, irqroute.PIRQD}}},
	}
	writes, err := irqroute.Plan(routing)
	require.NoError(t, err)
	tables := RoutingTables(routing, writes)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"D31IP"}, fieldValues(t, tables[0], "Register"))
	assert.Equal(t, []string{"SIP"}, fieldValues(t, tables[0], "Function"))
	assert.Equal(t, []string{"INTA"}, fieldValues(t, tables[0], "Pin"))
	assert.Equal(t, []string{"D31IP", "D31IR"}, fieldValues(t, tables[1], "Register"))
	assert.Equal(t, []string{"0x3100", "0x3140"}, fieldValues(t, tables[1], "Offset"))
	assert.Equal(t, []string{"0x00000100", "0x00003210"}, fieldValues(t, tables[1], "Value"))

	out, err := Create(FormatTxt, RoutingTables(irqroute.Routing{}, nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "No registers to write.")
}

package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"
	"strings"

	"acpigen/internal/cpupm"
)

// Table names
const (
	ProcessorSummaryTableName = "Processor Summary"
	ProcessorTableName        = "Processors"
	PStateTableName           = "P-States"
	CStateTableName           = "C-States"
	TStateTableName           = "T-States"
	PowerCheckTableName       = "Power Check"
)

func hexValue(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func boolValue(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// SSDTTables summarizes the capabilities and the generated processor
// objects. The state tables are taken from the first processor, every
// processor carries the same ones. Deviations may be nil.
func SSDTTables(cpuName string, caps cpupm.Capabilities, entries []cpupm.Entry, deviations []cpupm.PowerDeviation) []TableValues {
	tables := []TableValues{
		processorSummaryTable(cpuName, caps),
		processorTable(entries),
	}
	var pss []cpupm.PState
	var cst []cpupm.CState
	var tss []cpupm.TState
	for _, e := range entries {
		switch {
		case e.Kind == cpupm.KindPSS && pss == nil:
			pss = e.PStates
		case e.Kind == cpupm.KindCST && cst == nil:
			cst = e.CStates
		case e.Kind == cpupm.KindTSS && tss == nil:
			tss = e.TStates
		}
	}
	tables = append(tables, pStateTable(pss), cStateTable(cst), tStateTable(tss))
	if deviations != nil {
		tables = append(tables, powerCheckTable(deviations))
	}
	return tables
}

func processorSummaryTable(cpuName string, caps cpupm.Capabilities) TableValues {
	tv := newTable(ProcessorSummaryTableName, false,
		"CPU", "Family", "Model", "Stepping", "Logical CPUs", "Cores per Package",
		"Min Ratio", "Non-Turbo Ratio", "Max Ratio", "Turbo", "TDP (mW)",
		"Config TDP Levels", "P-State Coordination", "Extended Throttle", "Supported C-States")
	tv.addRow(
		cpuName,
		strconv.Itoa(caps.Family),
		strconv.Itoa(caps.Model),
		strconv.Itoa(caps.Stepping),
		strconv.Itoa(caps.LogicalCPUs),
		strconv.Itoa(caps.CoresPerPackage),
		strconv.Itoa(caps.RatioMin),
		strconv.Itoa(caps.RatioNonTurbo),
		strconv.Itoa(caps.RatioMax()),
		caps.Turbo.String(),
		strconv.Itoa(caps.PowerMax()),
		strconv.Itoa(caps.ConfigTDPLevels),
		caps.PStateCoordination().String(),
		boolValue(caps.ExtendedThrottle),
		strings.Join(cpupm.SupportedCStates(caps), ", "),
	)
	return tv
}

func processorTable(entries []cpupm.Entry) TableValues {
	tv := newTable(ProcessorTableName, true,
		"Name", "ID", "PBLK Address", "PBLK Length", "P-State Domain", "P-State Coordination", "T-State Domain", "T-State Coordination")
	tv.NoDataFound = "No processors generated."
	var row []string
	for _, e := range entries {
		if e.Kind != cpupm.KindProcessor && row == nil {
			continue
		}
		switch e.Kind {
		case cpupm.KindProcessor:
			p := e.Processor
			row = []string{cpupm.ProcessorName(p.Index), strconv.Itoa(p.Index), hexValue(uint64(p.PBlkAddress)), strconv.Itoa(int(p.PBlkLength)), "", "", "", ""}
		case cpupm.KindPSD:
			row[4], row[5] = strconv.Itoa(e.Dependency.Domain), e.Dependency.Coordination.String()
		case cpupm.KindTSD:
			row[6], row[7] = strconv.Itoa(e.Dependency.Domain), e.Dependency.Coordination.String()
		case cpupm.KindProcessorEnd:
			tv.addRow(row...)
			row = nil
		}
	}
	return tv
}

func pStateTable(states []cpupm.PState) TableValues {
	tv := newTable(PStateTableName, true,
		"Index", "Frequency (MHz)", "Power (mW)", "Latency (us)", "BM Latency (us)", "Ratio", "Control", "Status")
	for i, p := range states {
		tv.addRow(strconv.Itoa(i), strconv.Itoa(p.CoreFreq), strconv.Itoa(p.Power), strconv.Itoa(p.Latency),
			strconv.Itoa(p.BMLatency), strconv.Itoa(p.Ratio()), hexValue(uint64(p.Control)), hexValue(uint64(p.Status)))
	}
	return tv
}

func cStateTable(states []cpupm.CState) TableValues {
	tv := newTable(CStateTableName, true,
		"ACPI State", "Name", "Type", "Latency (us)", "Power (mW)", "MWAIT Hint")
	for i, c := range states {
		tv.addRow(fmt.Sprintf("C%d", i+1), c.Name, strconv.Itoa(c.Type), strconv.Itoa(c.Latency), strconv.Itoa(c.Power), hexValue(c.Resource.Address))
	}
	return tv
}

func tStateTable(states []cpupm.TState) TableValues {
	tv := newTable(TStateTableName, true,
		"Percent", "Power", "Latency (us)", "Control", "Status")
	tv.Fields[1].Description = "per mille of full speed power"
	for _, t := range states {
		tv.addRow(strconv.Itoa(t.Percent), strconv.Itoa(t.Power), strconv.Itoa(t.Latency), hexValue(uint64(t.Control)), hexValue(uint64(t.Status)))
	}
	return tv
}

func powerCheckTable(deviations []cpupm.PowerDeviation) TableValues {
	tv := newTable(PowerCheckTableName, true,
		"Ratio", "Calculated (mW)", "Reference (mW)", "Deviation (%)")
	tv.NoDataFound = "No intermediate P-states to check."
	for _, d := range deviations {
		tv.addRow(strconv.Itoa(d.Ratio), strconv.Itoa(d.Calculated), strconv.FormatFloat(d.Reference, 'f', 1, 64), strconv.FormatFloat(d.Percent, 'f', 3, 64))
	}
	return tv
}

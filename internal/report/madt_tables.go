package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"
	"strings"

	"acpigen/internal/madt"
)

// Table names
const (
	MADTHeaderTableName   = "MADT Header"
	MADTSubtableTableName = "MADT Subtables"
)

// MADTTables describes the table header and its interrupt controller
// structures.
func MADTTables(t *madt.Table) []TableValues {
	header := newTable(MADTHeaderTableName, false,
		"Signature", "Length", "Revision", "Checksum", "OEM ID", "OEM Table ID", "OEM Revision",
		"Creator ID", "Creator Revision", "Local APIC Address", "Flags")
	header.addRow(
		string(t.Signature[:]),
		strconv.Itoa(int(t.Length)),
		strconv.Itoa(int(t.Revision)),
		hexValue(uint64(t.Checksum)),
		strings.TrimSpace(string(t.OEMID[:])),
		strings.TrimSpace(string(t.OEMTableID[:])),
		strconv.Itoa(int(t.OEMRevision)),
		strings.TrimSpace(string(t.CreatorID[:])),
		strconv.Itoa(int(t.CreatorRevision)),
		hexValue(uint64(t.LocalAPICAddress)),
		hexValue(uint64(t.Flags)),
	)
	subtables := newTable(MADTSubtableTableName, true, "Index", "Type", "Length", "Details")
	subtables.NoDataFound = "No interrupt controller structures."
	for i, s := range t.Subtables {
		subtables.addRow(strconv.Itoa(i), s.Kind().String(), strconv.Itoa(int(s.Len())), subtableDetails(s))
	}
	return []TableValues{header, subtables}
}

func subtableDetails(s madt.Subtable) string {
	switch v := s.(type) {
	case *madt.LocalAPIC:
		return fmt.Sprintf("processor %d, apic id %d, flags 0x%x", v.ProcessorID, v.APICID, v.Flags)
	case *madt.IOAPIC:
		return fmt.Sprintf("id %d, address 0x%08x, gsi base %d", v.IOAPICID, v.APICAddress, v.GSIBase)
	case *madt.InterruptSourceOverride:
		return fmt.Sprintf("bus %d, irq %d, gsi %d, flags 0x%x", v.Bus, v.Source, v.GSI, v.Flags)
	case *madt.LocalAPICNMI:
		return fmt.Sprintf("processor 0x%x, flags 0x%x, lint %d", v.ProcessorID, v.Flags, v.LINT)
	case *madt.LocalX2APIC:
		return fmt.Sprintf("processor uid %d, x2apic id %d, flags 0x%x", v.ProcessorUID, v.X2APICID, v.Flags)
	case *madt.LocalX2APICNMI:
		return fmt.Sprintf("processor uid 0x%x, flags 0x%x, lint %d", v.ProcessorUID, v.Flags, v.LINT)
	case *madt.Raw:
		return fmt.Sprintf("% x", v.Data)
	}
	return ""
}

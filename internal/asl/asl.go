// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package asl renders the processor power management entries as ACPI
// Source Language, wrapped in an SSDT definition block.
package asl

import (
	"fmt"
	"io"
	"strings"

	"acpigen/internal/cpupm"
)

// Definition block header fields.
const (
	TableSignature  = "SSDT"
	ComplianceRev   = 2
	OEMID           = "COREv4"
	OEMTableID      = "COREBOOT"
	OEMRevision     = 0x2a
	dependencyCount = 5 // number of entries in a _PSD/_TSD package
	indentUnit      = "    "
)

// fixedHWRegister is the FFixedHW register of _PCT and _PTC: the OS uses
// the MSRs directly.
const fixedHWRegister = "ResourceTemplate () { Register (FFixedHW, 0x00, 0x00, 0x0000000000000000, ,) }"

type writer struct {
	sb     strings.Builder
	indent int
}

func (w *writer) line(format string, args ...any) {
	w.sb.WriteString(strings.Repeat(indentUnit, w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *writer) open(format string, args ...any) {
	w.line(format, args...)
	w.line("{")
	w.indent++
}

func (w *writer) close(suffix string) {
	w.indent--
	w.line("}%s", suffix)
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%02X", v)
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

// Render returns the ASL text of the entries.
func Render(entries []cpupm.Entry) (string, error) {
	w := &writer{}
	w.open("DefinitionBlock (\"\", %q, %d, %q, %q, 0x%02X)", TableSignature, ComplianceRev, OEMID, OEMTableID, OEMRevision)
	open := false
	for _, e := range entries {
		switch e.Kind {
		case cpupm.KindProcessor:
			if e.Processor == nil {
				return "", fmt.Errorf("%s entry without processor", e.Kind)
			}
			if open {
				return "", fmt.Errorf("processor %s opened inside another processor", cpupm.ProcessorName(e.Processor.Index))
			}
			p := e.Processor
			w.open("Processor (%s, %s, %s, %s)", cpupm.ProcessorName(p.Index), hex(uint64(p.Index)), hex32(p.PBlkAddress), hex(uint64(p.PBlkLength)))
			open = true
		case cpupm.KindProcessorEnd:
			if !open {
				return "", fmt.Errorf("%s without processor", e.Kind)
			}
			w.close("")
			open = false
		case cpupm.KindPCT, cpupm.KindPTC:
			w.fixedHWControl(e.Kind)
		case cpupm.KindPPC, cpupm.KindTPC:
			if e.Object == "" {
				return "", fmt.Errorf("%s entry without object", e.Kind)
			}
			w.open("Method (%s, 0, NotSerialized)", e.Kind)
			w.line("Return (%s)", e.Object)
			w.close("")
		case cpupm.KindPSD, cpupm.KindTSD:
			if e.Dependency == nil {
				return "", fmt.Errorf("%s entry without dependency", e.Kind)
			}
			w.dependency(e.Kind, *e.Dependency)
		case cpupm.KindPSS:
			w.pss(e.PStates)
		case cpupm.KindCST:
			w.cst(e.CStates)
		case cpupm.KindTSS:
			w.tss(e.TStates)
		case cpupm.KindProcessorPackage:
			if e.Group == nil {
				return "", fmt.Errorf("%s entry without group", e.Kind)
			}
			w.processorPackage(*e.Group)
		case cpupm.KindProcessorNotify:
			if e.Group == nil {
				return "", fmt.Errorf("%s entry without group", e.Kind)
			}
			w.processorNotify(*e.Group)
		default:
			return "", fmt.Errorf("unsupported entry %s", e.Kind)
		}
	}
	if open {
		return "", fmt.Errorf("unterminated processor block")
	}
	w.close("")
	return w.sb.String(), nil
}

// Write renders the entries to out.
func Write(out io.Writer, entries []cpupm.Entry) error {
	text, err := Render(entries)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

func (w *writer) fixedHWControl(kind cpupm.EntryKind) {
	w.open("Name (%s, Package (0x02)", kind)
	w.line("%s,", fixedHWRegister)
	w.line("%s", fixedHWRegister)
	w.close(")")
}

func (w *writer) dependency(kind cpupm.EntryKind, d cpupm.Dependency) {
	w.open("Name (%s, Package (0x01)", kind)
	w.open("Package (%s)", hex(dependencyCount))
	w.line("%s, 0x00, %s, %s, %s", hex(dependencyCount), hex(uint64(d.Domain)), hex(uint64(d.Coordination)), hex(uint64(d.NumProcessors)))
	w.close("")
	w.close(")")
}

func separator(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func (w *writer) pss(states []cpupm.PState) {
	w.open("Name (_PSS, Package (%s)", hex(uint64(len(states))))
	for i, p := range states {
		w.line("Package (0x06) { %d, %d, %d, %d, %s, %s }%s",
			p.CoreFreq, p.Power, p.Latency, p.BMLatency, hex32(p.Control), hex32(p.Status), separator(i, len(states)))
	}
	w.close(")")
}

func (w *writer) cst(states []cpupm.CState) {
	w.open("Name (_CST, Package (%s)", hex(uint64(len(states)+1)))
	w.line("%s,", hex(uint64(len(states))))
	for i, c := range states {
		r := c.Resource
		w.open("Package (0x04)")
		w.line("ResourceTemplate () { Register (FFixedHW, %s, %s, 0x%016X, %s,) },",
			hex(uint64(r.BitWidth)), hex(uint64(r.BitOffset)), r.Address, hex(uint64(r.AccessSize)))
		w.line("%s, %d, %d", hex(uint64(c.Type)), c.Latency, c.Power)
		w.close(separator(i, len(states)))
	}
	w.close(")")
}

func (w *writer) tss(states []cpupm.TState) {
	w.open("Name (_TSS, Package (%s)", hex(uint64(len(states))))
	for i, t := range states {
		w.line("Package (0x05) { %d, %d, %d, %s, %s }%s",
			t.Percent, t.Power, t.Latency, hex32(t.Control), hex32(t.Status), separator(i, len(states)))
	}
	w.close(")")
}

func (w *writer) processorPackage(g cpupm.ProcessorGroup) {
	w.open("Name (\\_SB.%s, Package (%s)", g.Name, hex(uint64(g.Count)))
	for i := 0; i < g.Count; i++ {
		w.line("%s%s", cpupm.ProcessorName(g.First+i), separator(i, g.Count))
	}
	w.close(")")
}

func (w *writer) processorNotify(g cpupm.ProcessorGroup) {
	w.open("Method (\\_SB.CNOT, 1, NotSerialized)")
	for i := 0; i < g.Count; i++ {
		w.line("Notify (%s, Arg0)", cpupm.ProcessorName(g.First+i))
	}
	w.close("")
}

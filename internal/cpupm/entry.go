// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

import (
	"fmt"
)

// EntryKind identifies the ACPI object an Entry describes.
type EntryKind int

const (
	KindProcessor EntryKind = iota
	KindProcessorEnd
	KindPCT
	KindPPC
	KindPSD
	KindPSS
	KindCST
	KindTSD
	KindPTC
	KindTPC
	KindTSS
	KindProcessorPackage
	KindProcessorNotify
)

var kindNames = map[EntryKind]string{
	KindProcessor:        "Processor",
	KindProcessorEnd:     "ProcessorEnd",
	KindPCT:              "_PCT",
	KindPPC:              "_PPC",
	KindPSD:              "_PSD",
	KindPSS:              "_PSS",
	KindCST:              "_CST",
	KindTSD:              "_TSD",
	KindPTC:              "_PTC",
	KindTPC:              "_TPC",
	KindTSS:              "_TSS",
	KindProcessorPackage: "ProcessorPackage",
	KindProcessorNotify:  "ProcessorNotify",
}

func (k EntryKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EntryKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Processor opens a processor object block.
type Processor struct {
	Index       int    `json:"index" yaml:"index"`
	PBlkAddress uint32 `json:"pblk_address" yaml:"pblk_address"`
	PBlkLength  uint8  `json:"pblk_length" yaml:"pblk_length"`
}

// Dependency is a _PSD or _TSD coordination domain.
type Dependency struct {
	Domain        int              `json:"domain" yaml:"domain"`
	NumProcessors int              `json:"num_processors" yaml:"num_processors"`
	Coordination  CoordinationType `json:"coordination" yaml:"coordination"`
}

// ProcessorGroup is a package of processor references, e.g. PPKG.
type ProcessorGroup struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	First int    `json:"first" yaml:"first"`
	Count int    `json:"count" yaml:"count"`
}

// Entry is one element of the generated table sequence handed to an encoder.
// Only the payload matching Kind is set.
type Entry struct {
	Kind       EntryKind       `json:"kind" yaml:"kind"`
	Processor  *Processor      `json:"processor,omitempty" yaml:"processor,omitempty"`
	Object     string          `json:"object,omitempty" yaml:"object,omitempty"` // NVS object for _PPC and _TPC
	Dependency *Dependency     `json:"dependency,omitempty" yaml:"dependency,omitempty"`
	PStates    []PState        `json:"pstates,omitempty" yaml:"pstates,omitempty"`
	CStates    []CState        `json:"cstates,omitempty" yaml:"cstates,omitempty"`
	TStates    []TState        `json:"tstates,omitempty" yaml:"tstates,omitempty"`
	Group      *ProcessorGroup `json:"group,omitempty" yaml:"group,omitempty"`
}

// ProcessorName is the ACPI path of the processor object with the given index.
func ProcessorName(index int) string {
	return fmt.Sprintf("\\_SB.CP%02X", index)
}

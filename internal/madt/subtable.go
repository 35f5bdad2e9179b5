// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package madt

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SubtableType is the type byte of a MADT interrupt controller structure.
type SubtableType uint8

const (
	TypeLocalAPIC      SubtableType = 0x0
	TypeIOAPIC         SubtableType = 0x1
	TypeIntSrcOverride SubtableType = 0x2
	TypeLocalAPICNMI   SubtableType = 0x4
	TypeLocalX2APIC    SubtableType = 0x9
	TypeLocalX2APICNMI SubtableType = 0xa
)

const (
	localAPICLength      = 8
	ioAPICLength         = 12
	intSrcOverrideLength = 10
	localAPICNMILength   = 6
	localX2APICLength    = 16
	localX2APICNMILength = 12
)

var typeNames = map[SubtableType]string{
	TypeLocalAPIC:      "Local APIC",
	TypeIOAPIC:         "I/O APIC",
	TypeIntSrcOverride: "Interrupt Source Override",
	TypeLocalAPICNMI:   "Local APIC NMI",
	TypeLocalX2APIC:    "Local x2APIC",
	TypeLocalX2APICNMI: "Local x2APIC NMI",
}

func (t SubtableType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Subtable(0x%x)", uint8(t))
}

// Local APIC flags.
const (
	LocalAPICEnabled = 1 << 0
)

// MPS INTI flags: polarity in bits 1:0, trigger mode in bits 3:2.
const (
	IRQPolarityHigh = 0x1
	IRQPolarityLow  = 0x3
	IRQTriggerEdge  = 0x4
	IRQTriggerLevel = 0xc
)

// AllProcessors addresses every processor in a local APIC NMI structure.
const (
	AllProcessors    = 0xff
	AllX2Processors  = 0xffffffff
	x2APICIDBoundary = 0xff
)

// Subtable is an interrupt controller structure following the MADT header.
type Subtable interface {
	Kind() SubtableType
	Len() uint8
	ToBytes() ([]byte, error)
}

func toBytes(s any) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type LocalAPIC struct {
	Type        SubtableType
	Length      uint8
	ProcessorID uint8
	APICID      uint8
	Flags       uint32
}

func NewLocalAPIC(processorID, apicID uint8) *LocalAPIC {
	return &LocalAPIC{Type: TypeLocalAPIC, Length: localAPICLength, ProcessorID: processorID, APICID: apicID, Flags: LocalAPICEnabled}
}

func (l *LocalAPIC) Kind() SubtableType { return l.Type }
func (l *LocalAPIC) Len() uint8 { return l.Length }
func (l *LocalAPIC) ToBytes() ([]byte, error) { return toBytes(l) }

type IOAPIC struct {
	Type        SubtableType
	Length      uint8
	IOAPICID    uint8
	_           uint8
	APICAddress uint32
	GSIBase     uint32
}

func NewIOAPIC(id uint8, address, gsiBase uint32) *IOAPIC {
	return &IOAPIC{Type: TypeIOAPIC, Length: ioAPICLength, IOAPICID: id, APICAddress: address, GSIBase: gsiBase}
}

func (i *IOAPIC) Kind() SubtableType { return i.Type }
func (i *IOAPIC) Len() uint8 { return i.Length }
func (i *IOAPIC) ToBytes() ([]byte, error) { return toBytes(i) }

type InterruptSourceOverride struct {
	Type   SubtableType
	Length uint8
	Bus    uint8
	Source uint8
	GSI    uint32
	Flags  uint16
}

func NewInterruptSourceOverride(bus, source uint8, gsi uint32, flags uint16) *InterruptSourceOverride {
	return &InterruptSourceOverride{Type: TypeIntSrcOverride, Length: intSrcOverrideLength, Bus: bus, Source: source, GSI: gsi, Flags: flags}
}

func (i *InterruptSourceOverride) Kind() SubtableType { return i.Type }
func (i *InterruptSourceOverride) Len() uint8 { return i.Length }
func (i *InterruptSourceOverride) ToBytes() ([]byte, error) { return toBytes(i) }

type LocalAPICNMI struct {
	Type        SubtableType
	Length      uint8
	ProcessorID uint8
	Flags       uint16
	LINT        uint8
}

func NewLocalAPICNMI(processorID uint8, flags uint16, lint uint8) *LocalAPICNMI {
	return &LocalAPICNMI{Type: TypeLocalAPICNMI, Length: localAPICNMILength, ProcessorID: processorID, Flags: flags, LINT: lint}
}

func (l *LocalAPICNMI) Kind() SubtableType { return l.Type }
func (l *LocalAPICNMI) Len() uint8 { return l.Length }
func (l *LocalAPICNMI) ToBytes() ([]byte, error) { return toBytes(l) }

type LocalX2APIC struct {
	Type         SubtableType
	Length       uint8
	_            uint16
	X2APICID     uint32
	Flags        uint32
	ProcessorUID uint32
}

func NewLocalX2APIC(processorUID, x2apicID uint32) *LocalX2APIC {
	return &LocalX2APIC{Type: TypeLocalX2APIC, Length: localX2APICLength, X2APICID: x2apicID, Flags: LocalAPICEnabled, ProcessorUID: processorUID}
}

func (l *LocalX2APIC) Kind() SubtableType { return l.Type }
func (l *LocalX2APIC) Len() uint8 { return l.Length }
func (l *LocalX2APIC) ToBytes() ([]byte, error) { return toBytes(l) }

type LocalX2APICNMI struct {
	Type         SubtableType
	Length       uint8
	Flags        uint16
	ProcessorUID uint32
	LINT         uint8
	_            [3]uint8
}

func NewLocalX2APICNMI(processorUID uint32, flags uint16, lint uint8) *LocalX2APICNMI {
	return &LocalX2APICNMI{Type: TypeLocalX2APICNMI, Length: localX2APICNMILength, Flags: flags, ProcessorUID: processorUID, LINT: lint}
}

func (l *LocalX2APICNMI) Kind() SubtableType { return l.Type }
func (l *LocalX2APICNMI) Len() uint8 { return l.Length }
func (l *LocalX2APICNMI) ToBytes() ([]byte, error) { return toBytes(l) }

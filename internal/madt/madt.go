// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package madt builds, serializes and parses the ACPI Multiple APIC
// Description Table.
package madt

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	Signature        = "APIC"
	Revision         = 3
	LocalAPICAddress = 0xfee00000
	FlagPCATCompat   = 1 << 0
	headerLength     = 36
	madtFieldsLength = 8
)

const (
	DefaultOEMID      = "COREv4"
	DefaultOEMTableID = "COREBOOT"
	DefaultCreatorID  = "ACPG"
)

// Header is the common ACPI system description table header.
type Header struct {
	Signature       [4]byte
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       [4]byte
	CreatorRevision uint32
}

// padded copies s into a fixed size field, padding with spaces.
func padded(dst []byte, s string) {
	for i := range dst {
		if i < len(s) {
			dst[i] = s[i]
		} else {
			dst[i] = ' '
		}
	}
}

func newHeader() Header {
	h := Header{Revision: Revision, OEMRevision: 1, CreatorRevision: 1}
	copy(h.Signature[:], Signature)
	padded(h.OEMID[:], DefaultOEMID)
	padded(h.OEMTableID[:], DefaultOEMTableID)
	padded(h.CreatorID[:], DefaultCreatorID)
	return h
}

// Table is a MADT: the header, the local APIC address, the flags and the
// interrupt controller structures in order.
type Table struct {
	Header
	LocalAPICAddress uint32
	Flags            uint32
	Subtables        []Subtable
}

// New returns an empty table with the default header.
func New() *Table {
	return &Table{Header: newHeader(), LocalAPICAddress: LocalAPICAddress, Flags: FlagPCATCompat}
}

// Add appends interrupt controller structures.
func (t *Table) Add(subtables ...Subtable) {
	t.Subtables = append(t.Subtables, subtables...)
}

// Marshal serializes the table, setting the length and checksum fields.
func (t *Table) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, t.Header); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, [2]uint32{t.LocalAPICAddress, t.Flags}); err != nil {
		return nil, err
	}
	for _, s := range t.Subtables {
		data, err := s.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", s.Kind(), err)
		}
		if len(data) != int(s.Len()) {
			return nil, fmt.Errorf("%s encoded to %d bytes, expected %d", s.Kind(), len(data), s.Len())
		}
		buf.Write(data)
	}
	b := buf.Bytes()
	binary.LittleEndian.PutUint32(b[4:], uint32(len(b)))
	b[9] = 0
	b[9] = -checksum(b)
	t.Length = uint32(len(b))
	t.Checksum = b[9]
	return b, nil
}

func checksum(b []byte) uint8 {
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return sum
}

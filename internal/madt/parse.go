// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package madt

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Raw is a subtable of a type this package doesn't decode.
type Raw struct {
	Type   SubtableType
	Length uint8
	Data   []byte // including the type and length bytes
}

func (r *Raw) Kind() SubtableType { return r.Type }
func (r *Raw) Len() uint8 { return r.Length }
func (r *Raw) ToBytes() ([]byte, error) { return bytes.Clone(r.Data), nil }

// Parse decodes a serialized MADT, validating signature, length and checksum.
func Parse(data []byte) (*Table, error) {
	if len(data) < headerLength+madtFieldsLength {
		return nil, fmt.Errorf("table too short: %d bytes", len(data))
	}
	t := &Table{}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &t.Header); err != nil {
		return nil, err
	}
	if string(t.Signature[:]) != Signature {
		return nil, fmt.Errorf("invalid signature %q", t.Signature[:])
	}
	if int(t.Length) != len(data) {
		return nil, fmt.Errorf("header length %d doesn't match table size %d", t.Length, len(data))
	}
	if sum := checksum(data); sum != 0 {
		return nil, fmt.Errorf("invalid checksum, bytes sum to 0x%02x", sum)
	}
	var fields [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &fields); err != nil {
		return nil, err
	}
	t.LocalAPICAddress, t.Flags = fields[0], fields[1]

	for offset := headerLength + madtFieldsLength; offset < len(data); {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("truncated subtable header at offset %d", offset)
		}
		kind, length := SubtableType(data[offset]), int(data[offset+1])
		if length < 2 || offset+length > len(data) {
			return nil, fmt.Errorf("invalid %s length %d at offset %d", kind, length, offset)
		}
		s, err := parseSubtable(kind, data[offset:offset+length])
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", offset, err)
		}
		t.Subtables = append(t.Subtables, s)
		offset += length
	}
	return t, nil
}

func parseSubtable(kind SubtableType, data []byte) (Subtable, error) {
	var s Subtable
	switch kind {
	case TypeLocalAPIC:
		s = &LocalAPIC{}
	case TypeIOAPIC:
		s = &IOAPIC{}
	case TypeIntSrcOverride:
		s = &InterruptSourceOverride{}
	case TypeLocalAPICNMI:
		s = &LocalAPICNMI{}
	case TypeLocalX2APIC:
		s = &LocalX2APIC{}
	case TypeLocalX2APICNMI:
		s = &LocalX2APICNMI{}
	default:
		return &Raw{Type: kind, Length: uint8(len(data)), Data: bytes.Clone(data)}, nil
	}
	if size := binary.Size(s); size != len(data) {
		return nil, fmt.Errorf("%s has length %d, expected %d", kind, len(data), size)
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, s); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return s, nil
}

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package irqroute

import (
	"fmt"
	"strings"
)

// Pin is the PCI interrupt pin a device function raises.
type Pin uint8

const (
	NoInt Pin = iota
	IntA
	IntB
	IntC
	IntD
)

var pinNames = []string{"NOINT", "INTA", "INTB", "INTC", "INTD"}

func (p Pin) String() string {
	if int(p) < len(pinNames) {
		return pinNames[p]
	}
	return fmt.Sprintf("Pin(%d)", uint8(p))
}

// ParsePin accepts NOINT and INTA to INTD, case insensitive.
func ParsePin(s string) (Pin, error) {
	for i, name := range pinNames {
		if strings.EqualFold(s, name) {
			return Pin(i), nil
		}
	}
	return NoInt, fmt.Errorf("invalid interrupt pin %q, expected one of %s", s, strings.Join(pinNames, ", "))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pin) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	pin, err := ParsePin(s)
	if err != nil {
		return err
	}
	*p = pin
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Pin) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PIRQ is one of the eight PCH interrupt routing lines PIRQA to PIRQH.
type PIRQ uint8

const (
	PIRQA PIRQ = iota
	PIRQB
	PIRQC
	PIRQD
	PIRQE
	PIRQF
	PIRQG
	PIRQH
	numPIRQs
)

func (p PIRQ) String() string {
	if p < numPIRQs {
		return "PIRQ" + string(rune('A'+p))
	}
	return fmt.Sprintf("PIRQ(%d)", uint8(p))
}

// ParsePIRQ accepts A to H with an optional PIRQ prefix, case insensitive.
func ParsePIRQ(s string) (PIRQ, error) {
	name := strings.TrimPrefix(strings.ToUpper(s), "PIRQ")
	if len(name) == 1 && name[0] >= 'A' && name[0] < 'A'+byte(numPIRQs) {
		return PIRQ(name[0] - 'A'), nil
	}
	return PIRQA, fmt.Errorf("invalid PIRQ %q, expected A to H", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PIRQ) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	pirq, err := ParsePIRQ(s)
	if err != nil {
		return err
	}
	*p = pirq
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p PIRQ) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

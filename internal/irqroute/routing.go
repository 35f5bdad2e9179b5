// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package irqroute computes the PCH device interrupt pin and route register
// values of a board from its declarative routing table.
package irqroute

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// PinAssignment selects the interrupt pin of one device function.
type PinAssignment struct {
	Device   int    `yaml:"device" json:"device"`
	Function string `yaml:"function" json:"function"`
	Pin      Pin    `yaml:"pin" json:"pin"`
}

// Route maps a device's INTA to INTD onto PIRQ lines.
type Route struct {
	Device int    `yaml:"device" json:"device"`
	PIRQs  []PIRQ `yaml:"pirqs" json:"pirqs"` // INTA, INTB, INTC, INTD
}

// Routing is the board's interrupt routing table.
type Routing struct {
	Chipset string          `yaml:"chipset" json:"chipset"`
	Pins    []PinAssignment `yaml:"pins" json:"pins"`
	Routes  []Route         `yaml:"routes" json:"routes"`
}

// RegisterWrite is one 32-bit RCBA register write.
type RegisterWrite struct {
	Name   string `json:"name" yaml:"name"`
	Offset uint32 `json:"offset" yaml:"offset"`
	Value  uint32 `json:"value" yaml:"value"`
}

// RegisterWriter performs RCBA register writes.
type RegisterWriter interface {
	Write32(offset uint32, value uint32) error
}

// DirRoute packs the PIRQs for INTA to INTD into a DxxIR value.
func DirRoute(a, b, c, d PIRQ) uint32 {
	return uint32(a) | uint32(b)<<4 | uint32(c)<<8 | uint32(d)<<12
}

// Validate checks the routing against the chipset's register layout.
func (r Routing) Validate() error {
	chipset, err := GetChipset(r.Chipset)
	if err != nil {
		return err
	}
	assigned := mapset.NewThreadUnsafeSet[string]()
	for _, p := range r.Pins {
		device, ok := chipset.Devices[p.Device]
		if !ok {
			return fmt.Errorf("device %d has no interrupt pin register on %s", p.Device, chipset.Name)
		}
		if _, ok := device.PinFields[strings.ToUpper(p.Function)]; !ok {
			return fmt.Errorf("%s has no %s pin field", PinRegisterName(p.Device), p.Function)
		}
		if p.Pin > IntD {
			return fmt.Errorf("%s_%s: invalid pin %s", PinRegisterName(p.Device), p.Function, p.Pin)
		}
		key := fmt.Sprintf("%d/%s", p.Device, strings.ToUpper(p.Function))
		if !assigned.Add(key) {
			return fmt.Errorf("%s_%s assigned more than once", PinRegisterName(p.Device), strings.ToUpper(p.Function))
		}
	}
	routed := mapset.NewThreadUnsafeSet[int]()
	for _, route := range r.Routes {
		if _, ok := chipset.Devices[route.Device]; !ok {
			return fmt.Errorf("device %d has no interrupt route register on %s", route.Device, chipset.Name)
		}
		if len(route.PIRQs) != 4 {
			return fmt.Errorf("%s: expected 4 PIRQs for INTA to INTD, got %d", RouteRegisterName(route.Device), len(route.PIRQs))
		}
		for _, pirq := range route.PIRQs {
			if pirq >= numPIRQs {
				return fmt.Errorf("%s: invalid %s", RouteRegisterName(route.Device), pirq)
			}
		}
		if !routed.Add(route.Device) {
			return fmt.Errorf("%s routed more than once", RouteRegisterName(route.Device))
		}
	}
	return nil
}

// Plan returns the register writes for the routing table: the pin registers,
// then the route registers, each by descending device number.
func Plan(r Routing) ([]RegisterWrite, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	chipset, _ := GetChipset(r.Chipset)

	pinValues := map[int]uint32{}
	for _, p := range r.Pins {
		shift := chipset.Devices[p.Device].PinFields[strings.ToUpper(p.Function)]
		pinValues[p.Device] |= uint32(p.Pin) << shift
	}
	var writes []RegisterWrite
	for _, number := range descending(pinValues) {
		device := chipset.Devices[number]
		writes = append(writes, RegisterWrite{Name: PinRegisterName(number), Offset: device.PinOffset, Value: pinValues[number]})
	}

	routes := slices.Clone(r.Routes)
	slices.SortFunc(routes, func(a, b Route) int { return cmp.Compare(b.Device, a.Device) })
	for _, route := range routes {
		device := chipset.Devices[route.Device]
		value := DirRoute(route.PIRQs[0], route.PIRQs[1], route.PIRQs[2], route.PIRQs[3])
		writes = append(writes, RegisterWrite{Name: RouteRegisterName(route.Device), Offset: device.RouteOffset, Value: value})
	}
	return writes, nil
}

func descending(m map[int]uint32) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys
}

// Apply performs the writes in order and stops at the first failure.
func Apply(w RegisterWriter, writes []RegisterWrite) error {
	for _, write := range writes {
		if err := w.Write32(write.Offset, write.Value); err != nil {
			return fmt.Errorf("failed to write %s: %w", write.Name, err)
		}
	}
	return nil
}

// LogWriter is a RegisterWriter that only logs the writes.
type LogWriter struct{}

func (LogWriter) Write32(offset uint32, value uint32) error {
	slog.Info("RCBA write", slog.String("offset", fmt.Sprintf("0x%04x", offset)), slog.String("value", fmt.Sprintf("0x%08x", value)))
	return nil
}

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package madt

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// IOAPICConfig describes one I/O APIC.
type IOAPICConfig struct {
	ID      uint8  `yaml:"id"`
	Address uint32 `yaml:"address"`
	GSIBase uint32 `yaml:"gsi_base"`
}

// OverrideConfig describes one interrupt source override.
type OverrideConfig struct {
	Bus    uint8  `yaml:"bus"`
	Source uint8  `yaml:"source"`
	GSI    uint32 `yaml:"gsi"`
	Flags  uint16 `yaml:"flags"`
}

// Config is the board's interrupt controller layout.
type Config struct {
	MaxCPUs   int              `yaml:"max_cpus"`
	LAPICs    []uint32         `yaml:"lapics"`
	IOAPICs   []IOAPICConfig   `yaml:"ioapics"`
	Overrides []OverrideConfig `yaml:"overrides"`
}

const (
	DefaultMaxCPUs       = 4
	defaultIOAPICAddress = 0xfec00000
	secondIOAPICAddress  = 0xfec20000
	secondIOAPICGSIBase  = 24
)

// DefaultConfig returns the layout used when a board doesn't describe one:
// maxCPUs local APICs numbered from zero, two I/O APICs numbered after
// them and the ISA timer and SCI overrides.
func DefaultConfig(maxCPUs int) Config {
	return Config{MaxCPUs: maxCPUs}.WithDefaults()
}

// WithDefaults fills in the fields left empty.
func (c Config) WithDefaults() Config {
	if c.MaxCPUs == 0 {
		c.MaxCPUs = max(len(c.LAPICs), DefaultMaxCPUs)
	}
	if c.LAPICs == nil {
		for id := 0; id < c.MaxCPUs; id++ {
			c.LAPICs = append(c.LAPICs, uint32(id))
		}
	}
	if c.IOAPICs == nil {
		// numbered after the highest local APIC id so sparse ids don't collide
		base := c.MaxCPUs
		for _, id := range c.LAPICs {
			base = max(base, int(id)+1)
		}
		c.IOAPICs = []IOAPICConfig{
			{ID: uint8(base), Address: defaultIOAPICAddress, GSIBase: 0},
			{ID: uint8(base + 1), Address: secondIOAPICAddress, GSIBase: secondIOAPICGSIBase},
		}
	}
	if c.Overrides == nil {
		c.Overrides = []OverrideConfig{
			{Bus: 0, Source: 0, GSI: 2, Flags: 0},
			{Bus: 0, Source: 9, GSI: 9, Flags: IRQPolarityLow | IRQTriggerLevel},
		}
	}
	return c
}

// Validate checks the layout for conflicting identifiers.
func (c Config) Validate() error {
	if c.MaxCPUs <= 0 {
		return fmt.Errorf("max_cpus must be positive, got %d", c.MaxCPUs)
	}
	if len(c.LAPICs) > c.MaxCPUs {
		return fmt.Errorf("%d local APICs configured, max_cpus is %d", len(c.LAPICs), c.MaxCPUs)
	}
	apicIDs := mapset.NewThreadUnsafeSet[uint32]()
	for _, id := range c.LAPICs {
		if !apicIDs.Add(id) {
			return fmt.Errorf("duplicate local APIC id %d", id)
		}
	}
	ioapicIDs := mapset.NewThreadUnsafeSet[uint32]()
	gsiBases := mapset.NewThreadUnsafeSet[uint32]()
	for _, io := range c.IOAPICs {
		if !ioapicIDs.Add(uint32(io.ID)) {
			return fmt.Errorf("duplicate I/O APIC id %d", io.ID)
		}
		if !gsiBases.Add(io.GSIBase) {
			return fmt.Errorf("duplicate I/O APIC GSI base %d", io.GSIBase)
		}
	}
	if shared := apicIDs.Intersect(ioapicIDs); shared.Cardinality() > 0 {
		ids := shared.ToSlice()
		slices.Sort(ids)
		return fmt.Errorf("I/O APIC ids %v collide with local APIC ids", ids)
	}
	return nil
}

// LapicsWithNMIs returns a local APIC entry per CPU, ordered by APIC id,
// followed by the LINT1 NMI entries for all processors.
func LapicsWithNMIs(apicIDs []uint32) []Subtable {
	ids := slices.Clone(apicIDs)
	slices.Sort(ids)
	var subtables []Subtable
	x2apic := false
	for index, id := range ids {
		if id >= x2APICIDBoundary || index >= AllProcessors {
			subtables = append(subtables, NewLocalX2APIC(uint32(index), id))
			x2apic = true
			continue
		}
		subtables = append(subtables, NewLocalAPIC(uint8(index), uint8(id)))
	}
	subtables = append(subtables, NewLocalAPICNMI(AllProcessors, IRQPolarityHigh|IRQTriggerEdge, 1))
	if x2apic {
		subtables = append(subtables, NewLocalX2APICNMI(AllX2Processors, IRQPolarityHigh|IRQTriggerEdge, 1))
	}
	return subtables
}

// Build validates the layout and assembles the table.
func Build(c Config) (*Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	t := New()
	t.Add(LapicsWithNMIs(c.LAPICs)...)
	for _, io := range c.IOAPICs {
		t.Add(NewIOAPIC(io.ID, io.Address, io.GSIBase))
	}
	for _, o := range c.Overrides {
		t.Add(NewInterruptSourceOverride(o.Bus, o.Source, o.GSI, o.Flags))
	}
	return t, nil
}

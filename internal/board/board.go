// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package board loads the board description the ACPI tables are generated
// from: processor power management settings, the interrupt controller
// layout and the chipset interrupt routing.
package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"acpigen/internal/cpupm"
	"acpigen/internal/irqroute"
	"acpigen/internal/madt"

	"gopkg.in/yaml.v2"
)

// CPU is the processor power management section.
type CPU struct {
	ACPIC1       *int    `yaml:"acpi_c1"`
	ACPIC2       *int    `yaml:"acpi_c2"`
	ACPIC3       *int    `yaml:"acpi_c3"`
	PBlkAddress  *uint32 `yaml:"pblk_address"`
	PBlkLength   *uint8  `yaml:"pblk_length"`
	PPCObject    string  `yaml:"ppc_object"`
	TPCObject    string  `yaml:"tpc_object"`
	DisableTurbo bool    `yaml:"disable_turbo"`
}

// Board is a parsed board description.
type Board struct {
	Name string            `yaml:"name"`
	CPU  *CPU              `yaml:"cpu"`
	MADT *madt.Config      `yaml:"madt"`
	IRQ  *irqroute.Routing `yaml:"irq"`
}

// Parse decodes a board description. Unknown keys are rejected.
func Parse(data []byte) (*Board, error) {
	var b Board
	if err := yaml.UnmarshalStrict(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse board: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Load reads and parses the board description at path.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b.Name == "" {
		b.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return b, nil
}

// Default is the board used when none is given.
func Default() *Board {
	return &Board{Name: "default"}
}

func (b *Board) validate() error {
	if b.CPU != nil {
		for _, object := range []string{b.CPU.PPCObject, b.CPU.TPCObject} {
			if object != "" && strings.ContainsAny(object, " \t\"") {
				return fmt.Errorf("invalid ACPI object name %q", object)
			}
		}
		if b.CPU.PBlkLength != nil && *b.CPU.PBlkLength == 0 {
			return fmt.Errorf("pblk_length must be positive")
		}
	}
	if b.MADT != nil {
		if err := b.MADTConfig().Validate(); err != nil {
			return fmt.Errorf("madt: %w", err)
		}
	}
	if b.IRQ != nil {
		if err := b.Routing().Validate(); err != nil {
			return fmt.Errorf("irq: %w", err)
		}
	}
	return nil
}

// CPUConfig returns the generator configuration, defaults filled in.
func (b *Board) CPUConfig() cpupm.Config {
	config := cpupm.DefaultConfig()
	c := b.CPU
	if c == nil {
		return config
	}
	for i, index := range []*int{c.ACPIC1, c.ACPIC2, c.ACPIC3} {
		if index != nil {
			config.CStates[i] = *index
		}
	}
	if c.PBlkAddress != nil {
		config.PBlkAddress = *c.PBlkAddress
	}
	if c.PBlkLength != nil {
		config.PBlkLength = *c.PBlkLength
	}
	if c.PPCObject != "" {
		config.PPCObject = c.PPCObject
	}
	if c.TPCObject != "" {
		config.TPCObject = c.TPCObject
	}
	config.DisableTurbo = c.DisableTurbo
	return config
}

// MADTConfig returns the interrupt controller layout, defaults filled in.
func (b *Board) MADTConfig() madt.Config {
	if b.MADT == nil {
		return madt.DefaultConfig(madt.DefaultMaxCPUs)
	}
	return b.MADT.WithDefaults()
}

// Routing returns the interrupt routing. A board without one routes
// nothing.
func (b *Board) Routing() irqroute.Routing {
	if b.IRQ == nil {
		return irqroute.Routing{Chipset: irqroute.DefaultChipset}
	}
	r := *b.IRQ
	if r.Chipset == "" {
		r.Chipset = irqroute.DefaultChipset
	}
	return r
}

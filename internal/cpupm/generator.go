// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpupm generates the ACPI processor power management objects
// (C-states, P-states, T-states) of Intel SandyBridge/IvyBridge processors
// from the processor's capability registers and the board configuration.
package cpupm

import (
	"fmt"
	"log/slog"
)

// Processor block and NVS object defaults.
const (
	DefaultPBlkAddress = 0x510
	DefaultPBlkLength  = 6
	DefaultPPCObject   = "\\PPCM"
	DefaultTPCObject   = "\\TLVL"
	PackageGroupName   = "PPKG"
)

// Config is the board supplied configuration of the generator.
type Config struct {
	// CStates are the table indexes requested for ACPI C1, C2 and C3.
	CStates      [MaxACPICStates]int
	PBlkAddress  uint32
	PBlkLength   uint8
	PPCObject    string
	TPCObject    string
	DisableTurbo bool
}

// DefaultConfig returns the configuration used when the board sets nothing.
func DefaultConfig() Config {
	return Config{
		CStates:     [MaxACPICStates]int{C1, C3, C6},
		PBlkAddress: DefaultPBlkAddress,
		PBlkLength:  DefaultPBlkLength,
		PPCObject:   DefaultPPCObject,
		TPCObject:   DefaultTPCObject,
	}
}

// Topology is the package layout derived from the capabilities.
type Topology struct {
	Packages        int
	CoresPerPackage int
}

// TopologyOf splits the logical CPUs into packages. A CPU count that isn't a
// multiple of the cores per package is rejected.
func TopologyOf(caps Capabilities) (Topology, error) {
	if caps.CoresPerPackage <= 0 {
		return Topology{}, fmt.Errorf("invalid logical cores per package: %d", caps.CoresPerPackage)
	}
	if caps.LogicalCPUs <= 0 {
		return Topology{}, fmt.Errorf("invalid logical cpu count: %d", caps.LogicalCPUs)
	}
	if caps.LogicalCPUs%caps.CoresPerPackage != 0 {
		return Topology{}, fmt.Errorf("%d logical cpus can't be split into packages of %d cores", caps.LogicalCPUs, caps.CoresPerPackage)
	}
	return Topology{Packages: caps.LogicalCPUs / caps.CoresPerPackage, CoresPerPackage: caps.CoresPerPackage}, nil
}

// Generator produces the processor table sequence.
type Generator struct {
	probe  Probe
	config Config
}

// NewGenerator returns a generator reading capabilities through probe.
func NewGenerator(probe Probe, config Config) *Generator {
	return &Generator{probe: probe, config: config}
}

// Generate reads the capabilities and builds the table sequence.
func (g *Generator) Generate() ([]Entry, Capabilities, error) {
	caps, err := ReadCapabilities(g.probe)
	if err != nil {
		return nil, Capabilities{}, err
	}
	entries, err := Build(caps, g.config)
	if err != nil {
		return nil, caps, err
	}
	return entries, caps, nil
}

// Build produces the table sequence for every logical core of every package,
// followed by the package group and the processor notification helper.
func Build(caps Capabilities, config Config) ([]Entry, error) {
	topology, err := TopologyOf(caps)
	if err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("Found %d CPU(s) with %d core(s) each.", topology.Packages, topology.CoresPerPackage))
	logSupportedCStates(caps)

	turbo := caps.Turbo == TurboEnabled && !config.DisableTurbo
	if caps.Turbo == TurboEnabled && config.DisableTurbo {
		slog.Info("Turbo disabled by board configuration")
	}

	var entries []Entry
	for pkg := 0; pkg < topology.Packages; pkg++ {
		for core := 0; core < topology.CoresPerPackage; core++ {
			entries = append(entries, cpuEntries(caps, config, topology, pkg, core, turbo)...)
		}
	}

	// PPKG is usually used for thermal management of the first and only package
	entries = append(entries,
		Entry{Kind: KindProcessorPackage, Group: &ProcessorGroup{Name: PackageGroupName, First: 0, Count: topology.CoresPerPackage}},
		// method to notify the processor nodes
		Entry{Kind: KindProcessorNotify, Group: &ProcessorGroup{First: 0, Count: topology.CoresPerPackage}},
	)
	return entries, nil
}

// cpuEntries builds the processor block of one logical core. The _PSD and _TSD
// domain is the package.
func cpuEntries(caps Capabilities, config Config, topology Topology, pkg, core int, turbo bool) []Entry {
	entries := []Entry{{
		Kind: KindProcessor,
		Processor: &Processor{
			Index:       pkg*topology.CoresPerPackage + core,
			PBlkAddress: config.PBlkAddress,
			PBlkLength:  config.PBlkLength,
		},
	}}
	entries = append(entries, pStateEntries(caps, config, pkg, topology.CoresPerPackage, turbo)...)
	entries = append(entries, cStateEntries(caps, config))
	entries = append(entries, tStateEntries(caps, config, pkg, topology.CoresPerPackage)...)
	return append(entries, Entry{Kind: KindProcessorEnd})
}

func pStateEntries(caps Capabilities, config Config, domain, coresPerPackage int, turbo bool) []Entry {
	return []Entry{
		// FFixedHW, the OS uses the MSRs
		{Kind: KindPCT},
		// no limit on the supported P-states
		{Kind: KindPPC, Object: config.PPCObject},
		{Kind: KindPSD, Dependency: &Dependency{Domain: domain, NumProcessors: coresPerPackage, Coordination: caps.PStateCoordination()}},
		{Kind: KindPSS, PStates: PStates(caps, turbo)},
	}
}

func cStateEntries(caps Capabilities, config Config) Entry {
	return Entry{Kind: KindCST, CStates: CStates(caps, config.CStates)}
}

func tStateEntries(caps Capabilities, config Config, domain, coresPerPackage int) []Entry {
	return []Entry{
		{Kind: KindTSD, Dependency: &Dependency{Domain: domain, NumProcessors: coresPerPackage, Coordination: SWAll}},
		// FFixedHW, the OS uses the MSRs
		{Kind: KindPTC},
		// T-state limit modifiable in NVS
		{Kind: KindTPC, Object: config.TPCObject},
		{Kind: KindTSS, TStates: TStates(caps)},
	}
}

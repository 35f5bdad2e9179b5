// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

import (
	"fmt"
	"log/slog"

	"acpigen/internal/msr"
)

// Probe is the capability probe the generator reads hardware state through.
// msr.DevReader and msr.Snapshot both satisfy it.
type Probe interface {
	ReadMSR(reg uint32) (uint64, error)
	CPUID(leaf uint32) (msr.CPUID, error)
	LogicalCPUs() (int, error)
}

// TurboState is the global turbo availability of the processor.
type TurboState int

const (
	TurboUnavailable TurboState = iota
	TurboDisabled
	TurboEnabled
)

func (t TurboState) String() string {
	switch t {
	case TurboUnavailable:
		return "unavailable"
	case TurboDisabled:
		return "disabled"
	case TurboEnabled:
		return "enabled"
	}
	return fmt.Sprintf("TurboState(%d)", int(t))
}

const (
	miscPwrMgmtEISTHWDisable = 1 << 0  // MSR_MISC_PWR_MGMT[0]
	miscEnableTurboDisable   = 1 << 38 // IA32_MISC_ENABLE[38]
	pmCapTurboMode           = 1 << 1  // CPUID.06H:EAX[1]
	pmCapExtThrottle         = 1 << 5  // CPUID.06H:EAX[5]
)

// Capabilities is the decoded register state the tables are derived from.
type Capabilities struct {
	LogicalCPUs     int
	CoresPerPackage int
	Family          int
	Model           int
	Stepping        int
	// MwaitSubstates is CPUID.05H:EDX, one nibble of sub-state count per
	// MWAIT C-state starting with C0 in bits 3:0.
	MwaitSubstates uint32
	// HWCoordinationDisabled mirrors the EIST hardware coordination disable bit.
	HWCoordinationDisabled bool
	RatioMin               int // maximum efficiency ratio
	RatioNonTurbo          int // maximum non-turbo ratio
	ConfigTDPLevels        int
	RatioTDPNominal        int
	RatioTurbo             int // 1-core turbo ratio limit
	Turbo                  TurboState
	PowerUnitExponent      int // MSR_PKG_POWER_SKU_UNIT[3:0]
	PowerSKU               int // MSR_PKG_POWER_SKU[14:0], in power units
	ExtendedThrottle       bool
}

// SubstateSupport returns the number of MWAIT sub-states the processor
// reports for the given MWAIT C-state.
func (c Capabilities) SubstateSupport(state int) int {
	if state < 0 || state > 7 {
		return 0
	}
	return int((c.MwaitSubstates >> (uint(state) * 4)) & 0xf)
}

// RatioMax is the highest non-turbo ratio advertised, the nominal TDP ratio
// when configurable TDP is present.
func (c Capabilities) RatioMax() int {
	if c.ConfigTDPLevels > 0 {
		return c.RatioTDPNominal
	}
	return c.RatioNonTurbo
}

// PowerUnit is the divisor converting MSR_PKG_POWER_SKU to watts.
func (c Capabilities) PowerUnit() int {
	if c.PowerUnitExponent <= 0 {
		return 1
	}
	return 2 << (c.PowerUnitExponent - 1)
}

// PowerMax is the package TDP in mW.
func (c Capabilities) PowerMax() int {
	return (c.PowerSKU / c.PowerUnit()) * 1000
}

// PStateCoordination is SW_ANY when hardware coordination is disabled.
func (c Capabilities) PStateCoordination() CoordinationType {
	if c.HWCoordinationDisabled {
		return SWAny
	}
	return HWAll
}

type probeReader struct {
	probe Probe
	err   error
}

func (r *probeReader) msr(reg uint32) uint64 {
	if r.err != nil {
		return 0
	}
	val, err := r.probe.ReadMSR(reg)
	if err != nil {
		r.err = fmt.Errorf("failed to read %s: %w", msr.RegName(reg), err)
	}
	return val
}

func (r *probeReader) cpuid(leaf uint32) msr.CPUID {
	if r.err != nil {
		return msr.CPUID{}
	}
	regs, err := r.probe.CPUID(leaf)
	if err != nil {
		r.err = fmt.Errorf("failed to read cpuid leaf 0x%x: %w", leaf, err)
	}
	return regs
}

// ReadCapabilities reads and decodes every register the generator needs.
func ReadCapabilities(probe Probe) (Capabilities, error) {
	var caps Capabilities
	r := &probeReader{probe: probe}

	version := r.cpuid(msr.LeafVersion)
	caps.Family, caps.Model, caps.Stepping = decodeSignature(version.EAX)
	caps.MwaitSubstates = r.cpuid(msr.LeafMonitor).EDX
	thermal := r.cpuid(msr.LeafThermalPwr)
	caps.ExtendedThrottle = thermal.EAX&pmCapExtThrottle != 0

	caps.CoresPerPackage = int(msr.Field(r.msr(msr.CoreThreadCount), 15, 0))
	caps.HWCoordinationDisabled = r.msr(msr.MiscPwrMgmt)&miscPwrMgmtEISTHWDisable != 0

	platformInfo := r.msr(msr.PlatformInfo)
	caps.RatioMin = int(msr.Field(platformInfo, 47, 40))
	caps.RatioNonTurbo = int(msr.Field(platformInfo, 15, 8))
	caps.ConfigTDPLevels = int(msr.Field(platformInfo, 34, 33))
	if caps.ConfigTDPLevels > 0 {
		caps.RatioTDPNominal = int(msr.Field(r.msr(msr.ConfigTDPNominal), 7, 0))
	}

	caps.PowerUnitExponent = int(msr.Field(r.msr(msr.PkgPowerSKUUnit), 3, 0))
	caps.PowerSKU = int(msr.Field(r.msr(msr.PkgPowerSKU), 14, 0))

	switch {
	case thermal.EAX&pmCapTurboMode == 0:
		caps.Turbo = TurboUnavailable
	case r.msr(msr.IA32MiscEnable)&miscEnableTurboDisable != 0:
		caps.Turbo = TurboDisabled
	default:
		caps.Turbo = TurboEnabled
	}
	if caps.Turbo == TurboEnabled {
		caps.RatioTurbo = int(msr.Field(r.msr(msr.TurboRatioLimit), 7, 0))
	}

	if r.err != nil {
		return Capabilities{}, r.err
	}
	var err error
	if caps.LogicalCPUs, err = probe.LogicalCPUs(); err != nil {
		return Capabilities{}, fmt.Errorf("failed to count logical cpus: %w", err)
	}
	slog.Debug("read capabilities",
		slog.Int("family", caps.Family),
		slog.Int("model", caps.Model),
		slog.Int("logicalCPUs", caps.LogicalCPUs),
		slog.Int("coresPerPackage", caps.CoresPerPackage),
		slog.Int("ratioMin", caps.RatioMin),
		slog.Int("ratioMax", caps.RatioMax()),
		slog.String("turbo", caps.Turbo.String()))
	return caps, nil
}

// decodeSignature returns the display family, model and stepping from
// CPUID.01H:EAX.
func decodeSignature(eax uint32) (family, model, stepping int) {
	stepping = int(eax & 0xf)
	model = int((eax >> 4) & 0xf)
	family = int((eax >> 8) & 0xf)
	if family == 0xf {
		family += int((eax >> 20) & 0xff)
	}
	if family == 0x6 || family >= 0xf {
		model += int((eax>>16)&0xf) << 4
	}
	return
}

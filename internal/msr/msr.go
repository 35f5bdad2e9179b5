// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package msr provides model specific register and CPUID access for the
// capability probe, either from the live Linux device files or from a
// recorded YAML snapshot.
package msr

import (
	"fmt"
)

// Model specific registers consumed by the power state table generator.
const (
	CoreThreadCount  uint32 = 0x35
	PlatformInfo     uint32 = 0xce
	IA32MiscEnable   uint32 = 0x1a0
	MiscPwrMgmt      uint32 = 0x1aa
	TurboRatioLimit  uint32 = 0x1ad
	PkgPowerSKUUnit  uint32 = 0x606
	PkgPowerSKU      uint32 = 0x614
	ConfigTDPNominal uint32 = 0x648
)

// CPUID leaves consumed by the generator.
const (
	LeafVersion    uint32 = 0x1
	LeafMonitor    uint32 = 0x5
	LeafThermalPwr uint32 = 0x6
)

// Names maps the registers above to the names used in logs and errors.
var Names = map[uint32]string{
	CoreThreadCount:  "MSR_CORE_THREAD_COUNT",
	PlatformInfo:     "MSR_PLATFORM_INFO",
	IA32MiscEnable:   "IA32_MISC_ENABLE",
	MiscPwrMgmt:      "MSR_MISC_PWR_MGMT",
	TurboRatioLimit:  "MSR_TURBO_RATIO_LIMIT",
	PkgPowerSKUUnit:  "MSR_PKG_POWER_SKU_UNIT",
	PkgPowerSKU:      "MSR_PKG_POWER_SKU",
	ConfigTDPNominal: "MSR_CONFIG_TDP_NOMINAL",
}

// RegName returns the symbolic name of reg, or its hex address if unknown.
func RegName(reg uint32) string {
	if name, ok := Names[reg]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", reg)
}

// CPUID holds the four result registers of a CPUID leaf.
type CPUID struct {
	EAX uint32 `yaml:"eax"`
	EBX uint32 `yaml:"ebx"`
	ECX uint32 `yaml:"ecx"`
	EDX uint32 `yaml:"edx"`
}

// Reader reads registers from the bootstrap processor.
type Reader interface {
	ReadMSR(reg uint32) (uint64, error)
	CPUID(leaf uint32) (CPUID, error)
	LogicalCPUs() (int, error)
}

// Field extracts bits [lsb, msb] of val.
func Field(val uint64, msb, lsb uint) uint64 {
	width := msb - lsb + 1
	if width >= 64 {
		return val >> lsb
	}
	return (val >> lsb) & ((uint64(1) << width) - 1)
}

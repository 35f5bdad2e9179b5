// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpus provides CPU definitions and lookup utilities for the
// microarchitectures the power state tables are generated for.
package cpus

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var IntelFamilies = []int{6}

// Microarchitecture constants
const (
	// Intel Core CPUs
	UarchSNB = "SNB"
	UarchIVB = "IVB"
	// Intel Xeon CPUs
	UarchSNBEP = "SNB-EP"
	UarchIVBEP = "IVB-EP"
)

type CPUCharacteristics struct {
	MicroArchitecture string
	Name              string
	ConfigurableTDP   bool // MSR_CONFIG_TDP_* may be present
	MaxCStateIndex    int  // deepest C-state table index the part implements
}

type CPUIdentifier struct {
	Family   string
	Model    string // regex match
	Stepping string // empty field means 'any' stepping, otherwise regex match
}

// cpuCharacteristicsMap maps microarchitecture name to CPU characteristics
var cpuCharacteristicsMap = map[string]CPUCharacteristics{
	// Intel Core CPUs
	UarchSNB: {MicroArchitecture: UarchSNB, Name: "Sandy Bridge", ConfigurableTDP: false, MaxCStateIndex: 6},
	UarchIVB: {MicroArchitecture: UarchIVB, Name: "Ivy Bridge", ConfigurableTDP: true, MaxCStateIndex: 6},
	// Intel Xeon CPUs
	UarchSNBEP: {MicroArchitecture: UarchSNBEP, Name: "Sandy Bridge-EP", ConfigurableTDP: false, MaxCStateIndex: 4},
	UarchIVBEP: {MicroArchitecture: UarchIVBEP, Name: "Ivy Bridge-EP", ConfigurableTDP: false, MaxCStateIndex: 4},
}

// cpuIdentifiers maps CPU identification to microarchitecture names
var cpuIdentifiers = []struct {
	Identifier        CPUIdentifier
	MicroArchitecture string
}{
	// Intel Core CPUs
	{CPUIdentifier{Family: "6", Model: "42", Stepping: ""}, UarchSNB}, // Sandy Bridge
	{CPUIdentifier{Family: "6", Model: "58", Stepping: ""}, UarchIVB}, // Ivy Bridge
	// Intel Xeon CPUs
	{CPUIdentifier{Family: "6", Model: "45", Stepping: ""}, UarchSNBEP}, // Sandy Bridge-EP
	{CPUIdentifier{Family: "6", Model: "62", Stepping: ""}, UarchIVBEP}, // Ivy Bridge-EP
}

// GetCPU retrieves the characteristics of the CPU with the given display
// family, model and stepping.
func GetCPU(family, model, stepping int) (cpu CPUCharacteristics, err error) {
	f, m, s := strconv.Itoa(family), strconv.Itoa(model), strconv.Itoa(stepping)
	for _, entry := range cpuIdentifiers {
		id := entry.Identifier
		if id.Family != f {
			continue
		}
		var reModel *regexp.Regexp
		reModel, err = regexp.Compile("^" + id.Model + "$")
		if err != nil {
			return
		}
		if !reModel.MatchString(m) {
			continue
		}
		// if there is a stepping
		if id.Stepping != "" {
			var reStepping *regexp.Regexp
			reStepping, err = regexp.Compile("^" + id.Stepping + "$")
			if err != nil {
				return
			}
			if !reStepping.MatchString(s) {
				continue
			}
		}
		// Found matching identifier, look up characteristics
		uarch := entry.MicroArchitecture
		var ok bool
		cpu, ok = cpuCharacteristicsMap[uarch]
		if !ok {
			err = fmt.Errorf("CPU characteristics not found for microarchitecture %s", uarch)
		}
		return
	}
	err = fmt.Errorf("CPU match not found for family %d, model %d, stepping %d", family, model, stepping)
	return
}

func GetCPUByMicroArchitecture(uarch string) (cpu CPUCharacteristics, err error) {
	// Try exact match first
	if chars, ok := cpuCharacteristicsMap[uarch]; ok {
		cpu = chars
		return
	}
	// Try case-insensitive match
	for key, chars := range cpuCharacteristicsMap {
		if strings.EqualFold(key, uarch) {
			cpu = chars
			return
		}
	}
	err = fmt.Errorf("CPU match not found for uarch %s", uarch)
	return
}

// IsIntelCPUFamily checks if the CPU family corresponds to Intel CPUs.
func IsIntelCPUFamily(family int) bool {
	return slices.Contains(IntelFamilies, family)
}

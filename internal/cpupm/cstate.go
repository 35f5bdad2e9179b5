// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

import (
	"fmt"
	"log/slog"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Indexes into the C-state table.
const (
	C0 = iota
	C1
	C1E
	C3
	C6
	C7
	C7S
	NumCStates
)

// MaxACPICStates is the number of ACPI C-state slots (C1, C2, C3).
const MaxACPICStates = 3

// FFixedHW register encoding used for MWAIT based C-state entry.
const (
	AddressSpaceFixedHW  = 0x7f
	FFixedHWVendorIntel  = 1
	FFixedHWClassMwait   = 2
	FFixedHWFlagHWCoord  = 1
	cstateSubstateBits   = 4
	cstateSubstateMask   = 0xf
	cstateHintStateShift = cstateSubstateBits
)

// GenericAddress is an ACPI generic address structure.
type GenericAddress struct {
	SpaceID    uint8  `json:"space_id" yaml:"space_id"`
	BitWidth   uint8  `json:"bit_width" yaml:"bit_width"`
	BitOffset  uint8  `json:"bit_offset" yaml:"bit_offset"`
	AccessSize uint8  `json:"access_size" yaml:"access_size"`
	Address    uint64 `json:"address" yaml:"address"`
}

// CState is a C-state table entry. Type is the ACPI C-state type the entry
// is advertised as and is zero in the static table.
type CState struct {
	Index    int            `json:"index" yaml:"index"`
	Name     string         `json:"name" yaml:"name"`
	Type     int            `json:"type" yaml:"type"`
	Latency  int            `json:"latency" yaml:"latency"`
	Power    int            `json:"power" yaml:"power"`
	Resource GenericAddress `json:"resource" yaml:"resource"`
}

// Tier is the MWAIT C-state of the entry's wake register.
func (c CState) Tier() int {
	return int(c.Resource.Address >> cstateHintStateShift)
}

// Subtier is the MWAIT sub-state of the entry's wake register.
func (c CState) Subtier() int {
	return int(c.Resource.Address & cstateSubstateMask)
}

func mwaitResource(state, substate uint64) GenericAddress {
	return GenericAddress{
		SpaceID:    AddressSpaceFixedHW,
		BitWidth:   FFixedHWVendorIntel,
		BitOffset:  FFixedHWClassMwait,
		AccessSize: FFixedHWFlagHWCoord,
		Address:    state<<cstateHintStateShift | substate,
	}
}

// cStateMap lists the C-states of the processor. Latencies are typical
// worst-case package exit times in uS.
var cStateMap = [NumCStates]CState{
	C0:  {Index: C0, Name: "C0"},
	C1:  {Index: C1, Name: "C1", Latency: 1, Power: 1000, Resource: mwaitResource(0, 0)},
	C1E: {Index: C1E, Name: "C1E", Latency: 1, Power: 1000, Resource: mwaitResource(0, 1)},
	C3:  {Index: C3, Name: "C3", Latency: 63, Power: 500, Resource: mwaitResource(1, 0)},
	C6:  {Index: C6, Name: "C6", Latency: 87, Power: 350, Resource: mwaitResource(2, 0)},
	C7:  {Index: C7, Name: "C7", Latency: 90, Power: 200, Resource: mwaitResource(3, 0)},
	C7S: {Index: C7S, Name: "C7S", Latency: 90, Power: 200, Resource: mwaitResource(3, 1)},
}

// CStateMap returns a copy of the C-state table.
func CStateMap() []CState {
	table := make([]CState, len(cStateMap))
	copy(table, cStateMap[:])
	return table
}

// CStateName returns the name of a C-state table index.
func CStateName(index int) string {
	if index < 0 || index >= NumCStates {
		return fmt.Sprintf("C-state(%d)", index)
	}
	return cStateMap[index].Name
}

// cstateSupported reports whether the table entry at index is supported by
// the hardware. The probe enumerates C0 at nibble 0, hence the tier offset.
func cstateSupported(caps Capabilities, index int) bool {
	entry := cStateMap[index]
	return caps.SubstateSupport(entry.Tier()+1) > entry.Subtier()
}

// SupportedCStates lists the names of the table entries the hardware supports.
func SupportedCStates(caps Capabilities) []string {
	var names []string
	for i := range cStateMap {
		// C0 is always supported
		if i == C0 || cstateSupported(caps, i) {
			names = append(names, cStateMap[i].Name)
		}
	}
	return names
}

// ResolveSupportedCState returns the requested C-state when supported, else
// the next lower supported one. C0 is the floor.
func ResolveSupportedCState(caps Capabilities, cstate int) int {
	if cstate <= C0 {
		return C0
	}
	if cstate >= NumCStates {
		cstate = NumCStates - 1
	}
	i := cstate
	for ; i > 0; i-- {
		if cstateSupported(caps, i) {
			break
		}
	}
	if cstate != i {
		slog.Info("Requested C-state not supported, using a lower one instead",
			slog.String("requested", CStateName(cstate)), slog.String("using", CStateName(i)))
	}
	return i
}

// CStates builds the _CST entries for the three ACPI slots. Invalid requests
// are dropped, unsupported ones downgraded and duplicates removed so that no
// physical C-state is advertised twice. The ACPI type of each entry is its
// slot position.
func CStates(caps Capabilities, requests [MaxACPICStates]int) []CState {
	resolved := requests
	for i := range resolved {
		// remove invalid states
		if resolved[i] < 0 || resolved[i] >= NumCStates {
			slog.Error("Invalid C-state in devicetree", slog.Int("slot", i+1), slog.Int("cstate", resolved[i]))
			resolved[i] = C0
			continue
		}
		// C0 is always supported
		if resolved[i] == C0 {
			continue
		}
		// might downgrade a state
		resolved[i] = ResolveSupportedCState(caps, resolved[i])
	}

	var states []CState
	advertised := mapset.NewThreadUnsafeSet[int]()
	for i, index := range resolved {
		if index == C0 {
			continue
		}
		// remove duplicate states
		if !advertised.Add(index) {
			continue
		}
		state := cStateMap[index]
		state.Type = i + 1
		states = append(states, state)
		slog.Debug("Advertising ACPI C-state", slog.String("type", fmt.Sprintf("C%d", state.Type)), slog.String("cpu", state.Name))
	}
	return states
}

func logSupportedCStates(caps Capabilities) {
	slog.Debug("Supported C-states", slog.String("cstates", strings.Join(SupportedCStates(caps), " ")))
}

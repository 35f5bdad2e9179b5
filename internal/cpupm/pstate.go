// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

import (
	"fmt"
	"log/slog"
)

// CoordinationType is the _PSD/_TSD coordination type.
type CoordinationType int

const (
	SWAll CoordinationType = 0xfc
	SWAny CoordinationType = 0xfd
	HWAll CoordinationType = 0xfe
)

func (c CoordinationType) String() string {
	switch c {
	case SWAll:
		return "SW_ALL"
	case SWAny:
		return "SW_ANY"
	case HWAll:
		return "HW_ALL"
	}
	return fmt.Sprintf("CoordinationType(0x%x)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c CoordinationType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// P-state table parameters.
const (
	BusClock              = 100 // MHz
	PSSRatioStep          = 2
	PSSMaxEntries         = 16
	PSSLatencyTransition  = 10 // uS
	PSSLatencyBusmaster   = 10 // uS
	ratioControlShift     = 8
	maxIntermediateRatios = PSSMaxEntries - 1
)

// PState is a _PSS entry.
type PState struct {
	CoreFreq  int    `json:"core_freq" yaml:"core_freq"` // MHz
	Power     int    `json:"power" yaml:"power"`         // mW
	Latency   int    `json:"latency" yaml:"latency"`     // uS
	BMLatency int    `json:"bm_latency" yaml:"bm_latency"`
	Control   uint32 `json:"control" yaml:"control"`
	Status    uint32 `json:"status" yaml:"status"`
}

// Ratio is the bus ratio encoded in the entry's control value.
func (p PState) Ratio() int {
	return int(p.Control >> ratioControlShift)
}

func newPState(clock, power, ratio int) PState {
	return PState{
		CoreFreq:  clock,
		Power:     power,
		Latency:   PSSLatencyTransition,
		BMLatency: PSSLatencyBusmaster,
		Control:   uint32(ratio) << ratioControlShift,
		Status:    uint32(ratio) << ratioControlShift,
	}
}

// CalculatePower estimates the power in mW at ratio from the TDP at p1Ratio:
//
//	M = ((1.1 - ((p1_ratio - ratio) * 0.00625)) / 1.1) ^ 2
//	Power = (ratio / p1_ratio) * M * TDP
//
// in 32-bit fixed point. The operation order is part of the table contents
// consumers compare against and must not change.
func CalculatePower(tdp, p1Ratio, ratio int) int {
	if p1Ratio == 0 {
		return 0
	}
	m := uint32(int32(110000-(int32(p1Ratio)-int32(ratio))*625) / 11)
	m = (m * m) / 1000

	power := uint32((int32(ratio) * 100000 / int32(p1Ratio)) / 100)
	power *= (m / 100) * uint32(int32(tdp)/1000)
	power /= 1000

	return int(int32(power))
}

// ratioPoints returns the step between calculated ratios and the number of
// calculated entries below ratioMax.
func ratioPoints(ratioMin, ratioMax int) (step, count int) {
	step = PSSRatioStep
	count = (ratioMax - ratioMin) / step
	for count > maxIntermediateRatios {
		step <<= 1
		count >>= 1
	}
	return step, count
}

// PStates builds the _PSS entries, highest frequency first: the turbo entry
// when turbo is enabled, the max ratio at full TDP, then the calculated
// ratios down to the max efficiency ratio.
func PStates(caps Capabilities, turbo bool) []PState {
	ratioMin := caps.RatioMin
	ratioMax := caps.RatioMax()
	clockMax := ratioMax * BusClock
	powerMax := caps.PowerMax()

	step, count := ratioPoints(ratioMin, ratioMax)
	states := make([]PState, 0, max(count, 0)+2)

	// P[T] is the turbo state if enabled
	if turbo {
		states = append(states, newPState(clockMax+1, powerMax, caps.RatioTurbo))
	}

	// first regular entry is the max non-turbo ratio
	states = append(states, newPState(clockMax, powerMax, ratioMax))

	for ratio := ratioMin + (count-1)*step; ratio >= ratioMin; ratio -= step {
		power := CalculatePower(powerMax, ratioMax, ratio)
		states = append(states, newPState(ratio*BusClock, power, ratio))
	}

	slog.Debug("Generated P-states",
		slog.Int("entries", len(states)),
		slog.Int("ratioMin", ratioMin),
		slog.Int("ratioMax", ratioMax),
		slog.Int("step", step),
		slog.Bool("turbo", turbo))
	return states
}

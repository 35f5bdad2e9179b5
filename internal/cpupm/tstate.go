// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

// TState is a _TSS entry.
type TState struct {
	Percent int    `json:"percent" yaml:"percent"`
	Power   int    `json:"power" yaml:"power"` // per mille of full speed
	Latency int    `json:"latency" yaml:"latency"`
	Control uint32 `json:"control" yaml:"control"`
	Status  uint32 `json:"status" yaml:"status"`
}

var tssTableFine = [...]TState{
	{100, 1000, 0, 0x00, 0},
	{94, 940, 0, 0x1f, 0},
	{88, 880, 0, 0x1e, 0},
	{82, 820, 0, 0x1d, 0},
	{75, 760, 0, 0x1c, 0},
	{69, 700, 0, 0x1b, 0},
	{63, 640, 0, 0x1a, 0},
	{57, 580, 0, 0x19, 0},
	{50, 520, 0, 0x18, 0},
	{44, 460, 0, 0x17, 0},
	{38, 400, 0, 0x16, 0},
	{32, 340, 0, 0x15, 0},
	{25, 280, 0, 0x14, 0},
	{19, 220, 0, 0x13, 0},
	{13, 160, 0, 0x12, 0},
}

var tssTableCoarse = [...]TState{
	{100, 1000, 0, 0x00, 0},
	{88, 875, 0, 0x1f, 0},
	{75, 750, 0, 0x1e, 0},
	{63, 625, 0, 0x1d, 0},
	{50, 500, 0, 0x1c, 0},
	{38, 375, 0, 0x1b, 0},
	{25, 250, 0, 0x1a, 0},
	{13, 125, 0, 0x19, 0},
}

// TStates returns the _TSS entries: the fine grained table when the
// processor supports extended throttle levels, the coarse one otherwise.
func TStates(caps Capabilities) []TState {
	if caps.ExtendedThrottle {
		return append([]TState(nil), tssTableFine[:]...)
	}
	return append([]TState(nil), tssTableCoarse[:]...)
}

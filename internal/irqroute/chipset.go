// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package irqroute

import (
	"fmt"
	"slices"
	"strings"
)

// Device describes the interrupt registers of one PCH device in RCBA space.
type Device struct {
	Number      int
	PinOffset   uint32         // DxxIP
	PinFields   map[string]int // function pin field name to bit position
	RouteOffset uint32         // DxxIR
}

// Chipset is the set of devices with configurable interrupt routing.
type Chipset struct {
	Name    string
	Devices map[int]Device
}

// Lynx Point and Cougar Point share the RCBA interrupt register layout.
var lynxPoint = Chipset{
	Name: "lynxpoint",
	Devices: map[int]Device{
		31: {Number: 31, PinOffset: 0x3100, RouteOffset: 0x3140, PinFields: map[string]int{"TTIP": 24, "SIP2": 20, "SMIP": 12, "SIP": 8}},
		30: {Number: 30, PinOffset: 0x3104, RouteOffset: 0x3142, PinFields: map[string]int{"PIP": 0}},
		29: {Number: 29, PinOffset: 0x3108, RouteOffset: 0x3144, PinFields: map[string]int{"E1P": 0}},
		28: {Number: 28, PinOffset: 0x310c, RouteOffset: 0x3146, PinFields: map[string]int{
			"P1IP": 0, "P2IP": 4, "P3IP": 8, "P4IP": 12, "P5IP": 16, "P6IP": 20, "P7IP": 24, "P8IP": 28,
		}},
		27: {Number: 27, PinOffset: 0x3110, RouteOffset: 0x3148, PinFields: map[string]int{"ZIP": 0}},
		26: {Number: 26, PinOffset: 0x3114, RouteOffset: 0x314c, PinFields: map[string]int{"E2P": 0}},
		25: {Number: 25, PinOffset: 0x3118, RouteOffset: 0x3150, PinFields: map[string]int{"LIP": 0}},
		22: {Number: 22, PinOffset: 0x3124, RouteOffset: 0x315c, PinFields: map[string]int{"MEI1IP": 0, "MEI2IP": 4, "IDERIP": 8, "KTIP": 12}},
		20: {Number: 20, PinOffset: 0x3128, RouteOffset: 0x3160, PinFields: map[string]int{"XHCIIP": 0}},
	},
}

var chipsets = map[string]Chipset{
	"lynxpoint": lynxPoint,
	"bd82x6x":   lynxPoint,
}

// DefaultChipset is used when the board names none.
const DefaultChipset = "lynxpoint"

// ChipsetNames lists the known chipset names.
func ChipsetNames() []string {
	var names []string
	for name := range chipsets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetChipset returns the chipset with the given name.
func GetChipset(name string) (Chipset, error) {
	if name == "" {
		name = DefaultChipset
	}
	chipset, ok := chipsets[strings.ToLower(name)]
	if !ok {
		return Chipset{}, fmt.Errorf("unknown chipset %q, expected one of %s", name, strings.Join(ChipsetNames(), ", "))
	}
	return chipset, nil
}

// PinRegisterName is the name of the device's interrupt pin register.
func PinRegisterName(device int) string {
	return fmt.Sprintf("D%dIP", device)
}

// RouteRegisterName is the name of the device's interrupt route register.
func RouteRegisterName(device int) string {
	return fmt.Sprintf("D%dIR", device)
}

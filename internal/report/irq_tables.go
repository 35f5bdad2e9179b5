package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"acpigen/internal/irqroute"
)

// Table names
const (
	InterruptPinTableName  = "Interrupt Pins"
	RegisterWriteTableName = "RCBA Register Writes"
)

// RoutingTables lists the pin assignments and the register writes of the
// routing plan.
func RoutingTables(r irqroute.Routing, writes []irqroute.RegisterWrite) []TableValues {
	pins := newTable(InterruptPinTableName, true, "Register", "Function", "Pin")
	pins.NoDataFound = "No interrupt pins assigned."
	for _, p := range r.Pins {
		pins.addRow(irqroute.PinRegisterName(p.Device), strings.ToUpper(p.Function), p.Pin.String())
	}
	registers := newTable(RegisterWriteTableName, true, "Register", "Offset", "Value")
	registers.NoDataFound = "No registers to write."
	for _, w := range writes {
		registers.addRow(w.Name, hexValue(uint64(w.Offset)), fmt.Sprintf("0x%08x", w.Value))
	}
	return []TableValues{pins, registers}
}

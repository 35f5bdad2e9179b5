package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// integers at or above this magnitude get thousands separators, e.g., 41,371 mW
const thousandsThreshold = 10000

func createTextReport(allTableValues []TableValues) (out []byte, err error) {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("%s\n", tableValues.Name))
		for i := 0; i < len(tableValues.Name); i++ {
			sb.WriteString("=")
		}
		sb.WriteString("\n")
		if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
			msg := noDataFound
			if tableValues.NoDataFound != "" {
				msg = tableValues.NoDataFound
			}
			sb.WriteString(msg + "\n\n")
			continue
		}
		sb.WriteString(DefaultTextTableRendererFunc(tableValues))
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// formatTextValue adds thousands separators to large integer values.
func formatTextValue(p *message.Printer, value string) string {
	n, err := strconv.Atoi(value)
	if err != nil || (n < thousandsThreshold && n > -thousandsThreshold) {
		return value
	}
	return p.Sprintf("%d", n)
}

func DefaultTextTableRendererFunc(tableValues TableValues) string {
	var sb strings.Builder
	p := newPrinter()
	if tableValues.HasRows { // print the field names as column headings across the top of the table
		values := make([][]string, len(tableValues.Fields))
		for i, field := range tableValues.Fields {
			for _, val := range field.Values {
				values[i] = append(values[i], formatTextValue(p, val))
			}
		}
		// find the longest item per column -- can be the field name (column header) or a value
		maxFieldLen := make([]int, len(tableValues.Fields))
		for i, field := range tableValues.Fields {
			// the last column shouldn't occupy more space than the value
			if i == len(tableValues.Fields)-1 {
				continue
			}
			maxFieldLen[i] = len(field.Name)
			for _, val := range values[i] {
				if len(val) > maxFieldLen[i] {
					maxFieldLen[i] = len(val)
				}
			}
		}
		columnSpacing := 3
		lastColumn := len(tableValues.Fields) - 1
		writeCell := func(col int, s string) {
			if col == lastColumn {
				sb.WriteString(s)
				return
			}
			sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[col]+columnSpacing, s))
		}
		// print the field names
		for i, field := range tableValues.Fields {
			writeCell(i, field.Name)
		}
		sb.WriteString("\n")
		// underline the field names
		for i, field := range tableValues.Fields {
			writeCell(i, strings.Repeat("-", len(field.Name)))
		}
		sb.WriteString("\n")
		// print the rows
		numRows := len(tableValues.Fields[0].Values)
		for row := 0; row < numRows; row++ {
			for i := range tableValues.Fields {
				writeCell(i, values[i][row])
			}
			sb.WriteString("\n")
		}
	} else {
		// get the longest field name to format the table nicely
		maxFieldNameLen := 0
		for _, field := range tableValues.Fields {
			if len(field.Name) > maxFieldNameLen {
				maxFieldNameLen = len(field.Name)
			}
		}
		// print the field names followed by their value
		for _, field := range tableValues.Fields {
			var value string
			if len(field.Values) > 0 {
				value = formatTextValue(p, field.Values[0])
			}
			sb.WriteString(fmt.Sprintf("%s%-*s %s\n", field.Name, maxFieldNameLen-len(field.Name)+1, ":", value))
		}
	}
	return sb.String()
}

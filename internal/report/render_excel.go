package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const XlsxPrimarySheetName = "Report"

// xlsxSheet writes tables one below the other on a single sheet.
type xlsxSheet struct {
	f         *excelize.File
	name      string
	row       int
	bold      int
	alignLeft int
}

func newXlsxSheet(f *excelize.File, name string) (*xlsxSheet, error) {
	s := &xlsxSheet{f: f, name: name, row: 1}
	var err error
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if s.alignLeft, err = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "left"}}); err != nil {
		return nil, err
	}
	return s, nil
}

// set writes value to the cell at col on the current row. A zero style leaves
// the default.
func (s *xlsxSheet) set(col int, value any, style int) {
	cell, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil {
		return
	}
	_ = s.f.SetCellValue(s.name, cell, value)
	if style != 0 {
		_ = s.f.SetCellStyle(s.name, cell, cell, style)
	}
}

func (s *xlsxSheet) writeTable(tableValues TableValues) {
	s.set(1, tableValues.Name, s.bold)
	s.row++
	switch {
	case len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0:
		msg := noDataFound
		if tableValues.NoDataFound != "" {
			msg = tableValues.NoDataFound
		}
		s.set(1, msg, 0)
		s.row++
	case tableValues.HasRows:
		// headings in the row below the name, one column per field starting at B
		for i, field := range tableValues.Fields {
			s.set(i+2, field.Name, s.bold)
		}
		s.row++
		for valueIdx := range tableValues.Fields[0].Values {
			for i, field := range tableValues.Fields {
				s.set(i+2, getValueForCell(field.Values[valueIdx]), s.alignLeft)
			}
			s.row++
		}
	default:
		for _, field := range tableValues.Fields {
			s.set(1, field.Name, 0)
			s.set(2, getValueForCell(field.Values[0]), s.alignLeft)
			s.row++
		}
	}
	// blank separator row
	s.row++
}

func createXlsxReport(allTableValues []TableValues) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), XlsxPrimarySheetName); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(XlsxPrimarySheetName, "A", "A", 25)
	_ = f.SetColWidth(XlsxPrimarySheetName, "B", "L", 18)
	sheet, err := newXlsxSheet(f, XlsxPrimarySheetName)
	if err != nil {
		return nil, err
	}
	for _, tableValues := range allTableValues {
		sheet.writeTable(tableValues)
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx report: %w", err)
	}
	return buf.Bytes(), nil
}

// getValueForCell converts numeric strings so spreadsheets and json see numbers.
func getValueForCell(value string) any {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return value
}

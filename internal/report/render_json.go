package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"

	"gopkg.in/yaml.v2"
)

type outRecord = yaml.MapSlice

// tableRecords converts a table into one record per row, keeping the field
// order. Numeric values are emitted as numbers.
func tableRecords(tableValues TableValues) []outRecord {
	var records []outRecord
	if len(tableValues.Fields) == 0 {
		return records
	}
	numRecords := len(tableValues.Fields[0].Values)
	if numRecords == 0 {
		// insert an empty record
		var record outRecord
		for _, field := range tableValues.Fields {
			record = append(record, yaml.MapItem{Key: field.Name, Value: ""})
		}
		return append(records, record)
	}
	for recordIdx := 0; recordIdx < numRecords; recordIdx++ {
		var record outRecord
		for _, field := range tableValues.Fields {
			record = append(record, yaml.MapItem{Key: field.Name, Value: getValueForCell(field.Values[recordIdx])})
		}
		records = append(records, record)
	}
	return records
}

func createJsonReport(allTableValues []TableValues) (out []byte, err error) {
	type outReport map[string][]map[string]any
	oReport := make(outReport)
	for _, tableValues := range allTableValues {
		oTable := []map[string]any{}
		for _, record := range tableRecords(tableValues) {
			oRecord := make(map[string]any)
			for _, item := range record {
				oRecord[item.Key.(string)] = item.Value
			}
			oTable = append(oTable, oRecord)
		}
		oReport[tableValues.Name] = oTable
	}
	return json.MarshalIndent(oReport, "", " ")
}

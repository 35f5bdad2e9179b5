package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "gopkg.in/yaml.v2"

// createYamlReport renders the tables in order, each as a list of records
// with the fields in table order.
func createYamlReport(allTableValues []TableValues) (out []byte, err error) {
	var oReport yaml.MapSlice
	for _, tableValues := range allTableValues {
		oReport = append(oReport, yaml.MapItem{Key: tableValues.Name, Value: tableRecords(tableValues)})
	}
	return yaml.Marshal(oReport)
}

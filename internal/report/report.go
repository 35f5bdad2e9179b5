// Package report provides functions to render the generated tables in various formats such as txt, json, yaml, xlsx and prom.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"
)

const (
	FormatTxt  = "txt"
	FormatJson = "json"
	FormatYaml = "yaml"
	FormatXlsx = "xlsx"
	FormatProm = "prom"
)

const noDataFound = "No data found."

var FormatOptions = []string{FormatTxt, FormatJson, FormatYaml, FormatXlsx, FormatProm}

// Create generates a report in the specified format from the provided tables.
// The function ensures that all fields of a table have the same number of values
// before generating the report.
func Create(format string, allTableValues []TableValues) (out []byte, err error) {
	for _, tableValues := range allTableValues {
		if err = validateTableValues(tableValues); err != nil {
			return
		}
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues)
	case FormatYaml:
		return createYamlReport(allTableValues)
	case FormatXlsx:
		return createXlsxReport(allTableValues)
	case FormatProm:
		return createPrometheusReport(allTableValues)
	}
	err = fmt.Errorf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format)
	return
}

package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const promMetricPrefix = "acpigen_"

// sanitizePromName maps a table or field name onto the prometheus name
// alphabet, e.g., "Frequency (MHz)" becomes "frequency_mhz".
func sanitizePromName(name string) string {
	var sb strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			underscore = false
			continue
		}
		if r == '%' {
			sb.WriteString("pct")
			underscore = false
			continue
		}
		if !underscore {
			sb.WriteRune('_')
			underscore = true
		}
	}
	sanitized := strings.Trim(sb.String(), "_")
	if sanitized != "" && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}
	return sanitized
}

// parsePromValue accepts decimal, hex and float values.
func parsePromValue(value string) (float64, bool) {
	if i, err := strconv.ParseInt(value, 0, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}
	return 0, false
}

func numericField(field Field) bool {
	if len(field.Values) == 0 {
		return false
	}
	for _, value := range field.Values {
		if _, ok := parsePromValue(value); !ok {
			return false
		}
	}
	return true
}

// createPrometheusReport renders every numeric field as a gauge, labeled
// with the row index and the table's non-numeric fields, in the text
// exposition format.
func createPrometheusReport(allTableValues []TableValues) (out []byte, err error) {
	registry := prometheus.NewRegistry()
	for _, tableValues := range allTableValues {
		if len(tableValues.Fields) == 0 {
			continue
		}
		var labelFields, valueFields []Field
		for _, field := range tableValues.Fields {
			if numericField(field) {
				valueFields = append(valueFields, field)
			} else {
				labelFields = append(labelFields, field)
			}
		}
		labelNames := []string{"row"}
		for _, field := range labelFields {
			labelNames = append(labelNames, sanitizePromName(field.Name))
		}
		tablePrefix := promMetricPrefix + sanitizePromName(tableValues.Name) + "_"
		for _, field := range valueFields {
			help := fmt.Sprintf("%s: %s", tableValues.Name, field.Name)
			if field.Description != "" {
				help += " (" + field.Description + ")"
			}
			gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: tablePrefix + sanitizePromName(field.Name),
				Help: help,
			}, labelNames)
			if err = registry.Register(gauge); err != nil {
				err = fmt.Errorf("failed to register gauge for %s: %w", help, err)
				return
			}
			for row, value := range field.Values {
				labelValues := []string{strconv.Itoa(row)}
				for _, labelField := range labelFields {
					labelValues = append(labelValues, labelField.Values[row])
				}
				v, _ := parsePromValue(value)
				gauge.WithLabelValues(labelValues...).Set(v)
			}
		}
	}
	families, err := registry.Gather()
	if err != nil {
		return
	}
	var buf bytes.Buffer
	for _, family := range families {
		if _, err = expfmt.MetricFamilyToText(&buf, family); err != nil {
			return
		}
	}
	out = buf.Bytes()
	return
}

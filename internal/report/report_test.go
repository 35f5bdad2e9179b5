package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func rowTable() TableValues {
	return TableValues{
		TableDefinition: TableDefinition{Name: "Test", HasRows: true},
		Fields: []Field{
			{Name: "A", Values: []string{"1", "22"}},
			{Name: "Power", Values: []string{"45000", "7"}},
		},
	}
}

func summaryTable() TableValues {
	return TableValues{
		TableDefinition: TableDefinition{Name: "Summary"},
		Fields: []Field{
			{Name: "CPU", Values: []string{"IVB"}},
			{Name: "TDP (mW)", Values: []string{"45000"}},
		},
	}
}

func TestCreateText(t *testing.T) {
	out, err := Create(FormatTxt, []TableValues{rowTable(), summaryTable()})
	require.NoError(t, err)
	expected := "Test\n====\n" +
		"A    Power\n" +
		"-    -----\n" +
		"1    45,000\n" +
		"22   7\n" +
		"\n" +
		"Summary\n=======\n" +
		"CPU:      IVB\n" +
		"TDP (mW): 45,000\n" +
		"\n"
	assert.Equal(t, expected, string(out))
}

func TestCreateTextNoData(t *testing.T) {
	empty := TableValues{TableDefinition: TableDefinition{Name: "Empty", NoDataFound: "Nothing here."}}
	out, err := Create(FormatTxt, []TableValues{empty})
	require.NoError(t, err)
	assert.Equal(t, "Empty\n=====\nNothing here.\n\n", string(out))
}

func TestFormatTextValue(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"9999", "9999"},
		{"10000", "10,000"},
		{"1234567", "1,234,567"},
		{"-20000", "-20,000"},
		{"0x2200", "0x2200"},
		{"12.5", "12.5"},
		{"C1E", "C1E"},
	}
	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			assert.Equal(t, test.expected, formatTextValue(newPrinter(), test.value))
		})
	}
}

func TestCreateJson(t *testing.T) {
	out, err := Create(FormatJson, []TableValues{rowTable(), summaryTable()})
	require.NoError(t, err)
	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded["Test"], 2)
	assert.Equal(t, float64(45000), decoded["Test"][0]["Power"])
	assert.Equal(t, float64(22), decoded["Test"][1]["A"])
	assert.Equal(t, "IVB", decoded["Summary"][0]["CPU"])
}

func TestCreateYaml(t *testing.T) {
	out, err := Create(FormatYaml, []TableValues{rowTable(), summaryTable()})
	require.NoError(t, err)
	text := string(out)
	assert.True(t, strings.HasPrefix(text, "Test:\n- A: 1\n  Power: 45000\n"))
	assert.Less(t, strings.Index(text, "Test:"), strings.Index(text, "Summary:"))
	assert.Contains(t, text, "CPU: IVB")
}

func TestCreateXlsx(t *testing.T) {
	out, err := Create(FormatXlsx, []TableValues{rowTable(), summaryTable()})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	cell := func(name string) string {
		value, err := f.GetCellValue(XlsxPrimarySheetName, name)
		require.NoError(t, err)
		return value
	}
	assert.Equal(t, "Test", cell("A1"))
	assert.Equal(t, "A", cell("B2"))
	assert.Equal(t, "Power", cell("C2"))
	assert.Equal(t, "45000", cell("C3"))
	assert.Equal(t, "22", cell("B4"))
	// a blank row separates the tables
	assert.Equal(t, "Summary", cell("A6"))
	assert.Equal(t, "CPU", cell("A7"))
	assert.Equal(t, "IVB", cell("B7"))
}

func TestCreatePrometheus(t *testing.T) {
	cstates := TableValues{
		TableDefinition: TableDefinition{Name: "C-States", HasRows: true},
		Fields: []Field{
			{Name: "Name", Values: []string{"C1", "C6"}},
			{Name: "Power (mW)", Values: []string{"1000", "350"}},
			{Name: "MWAIT Hint", Values: []string{"0x0", "0x20"}},
		},
	}
	out, err := Create(FormatProm, []TableValues{cstates, summaryTable()})
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "# TYPE acpigen_c_states_power_mw gauge\n")
	assert.Contains(t, text, `acpigen_c_states_power_mw{name="C1",row="0"} 1000`)
	assert.Contains(t, text, `acpigen_c_states_power_mw{name="C6",row="1"} 350`)
	assert.Contains(t, text, `acpigen_c_states_mwait_hint{name="C6",row="1"} 32`)
	assert.Contains(t, text, `acpigen_summary_tdp_mw{cpu="IVB",row="0"} 45000`)
	assert.NotContains(t, text, "acpigen_c_states_name")
}

func TestSanitizePromName(t *testing.T) {
	assert.Equal(t, "frequency_mhz", sanitizePromName("Frequency (MHz)"))
	assert.Equal(t, "p_states", sanitizePromName("P-States"))
	assert.Equal(t, "deviation_pct", sanitizePromName("Deviation (%)"))
	assert.Equal(t, "_2nd", sanitizePromName("2nd"))
}

func TestCreateErrors(t *testing.T) {
	_, err := Create("html", []TableValues{rowTable()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of")

	bad := rowTable()
	bad.Fields[1].Values = bad.Fields[1].Values[:1]
	_, err = Create(FormatTxt, []TableValues{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "number of entries must be the same")

	_, err = Create(FormatTxt, []TableValues{{}})
	assert.Error(t, err)
}

func TestGetFieldIndex(t *testing.T) {
	idx, err := GetFieldIndex("Power", rowTable())
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	_, err = GetFieldIndex("Missing", rowTable())
	assert.Error(t, err)
}

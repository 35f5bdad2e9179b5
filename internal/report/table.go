package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "fmt"

// Field is one named column of a table.
type Field struct {
	Name        string
	Description string // shown as metric help in the prom format
	Values      []string
}

// TableDefinition names a table and selects its layout.
type TableDefinition struct {
	Name        string
	HasRows     bool   // one row per value set, otherwise a single name/value list
	NoDataFound string // replaces noDataFound for empty tables
}

// TableValues is a table with its fields filled in.
type TableValues struct {
	TableDefinition
	Fields []Field
}

// GetFieldIndex returns the position of the named field, which must hold values.
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i := range tableValues.Fields {
		if tableValues.Fields[i].Name != fieldName {
			continue
		}
		if len(tableValues.Fields[i].Values) == 0 {
			return -1, fmt.Errorf("field %q of table %q has no values", fieldName, tableValues.Name)
		}
		return i, nil
	}
	return -1, fmt.Errorf("table %q has no field %q", tableValues.Name, fieldName)
}

// validateTableValues requires a table name, named fields and the same
// number of values in every field.
func validateTableValues(tableValues TableValues) error {
	if tableValues.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	for i, field := range tableValues.Fields {
		if field.Name == "" {
			return fmt.Errorf("table %s: field %d has no name", tableValues.Name, i)
		}
		if want := len(tableValues.Fields[0].Values); len(field.Values) != want {
			return fmt.Errorf("table %s: field %s has %d values, number of entries must be the same for all fields (%d)", tableValues.Name, field.Name, len(field.Values), want)
		}
	}
	return nil
}

// addRow appends one value per field, missing trailing values are empty.
func (tv *TableValues) addRow(values ...string) {
	for i := range tv.Fields {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		tv.Fields[i].Values = append(tv.Fields[i].Values, value)
	}
}

func newTable(name string, hasRows bool, fieldNames ...string) TableValues {
	fields := make([]Field, len(fieldNames))
	for i, fieldName := range fieldNames {
		fields[i].Name = fieldName
	}
	return TableValues{TableDefinition: TableDefinition{Name: name, HasRows: hasRows}, Fields: fields}
}

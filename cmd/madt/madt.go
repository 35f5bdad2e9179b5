// Package madt is a subcommand of the root command. It builds or inspects the Multiple APIC Description Table.
package madt

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"acpigen/internal/board"
	"acpigen/internal/common"
	"acpigen/internal/madt"
	"acpigen/internal/report"
	"acpigen/internal/util"

	"github.com/spf13/cobra"
)

const cmdName = "madt"

var examples = []string{
	fmt.Sprintf("  Build the MADT of a board:     $ %s %s --board board.yaml --output madt.bin", common.AppName, cmdName),
	fmt.Sprintf("  Hex dump the default MADT:     $ %s %s --format hex", common.AppName, cmdName),
	fmt.Sprintf("  Inspect a dumped table:        $ %s %s --input /sys/firmware/acpi/tables/APIC --format txt", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Build or inspect the Multiple APIC Description Table",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

const (
	formatBin = "bin"
	formatHex = "hex"
)

var formatOptions = []string{formatBin, formatHex, report.FormatTxt, report.FormatJson, report.FormatYaml, report.FormatXlsx}

var (
	flagFormat string
	flagInput  string
)

const (
	flagInputName = "input"
)

func init() {
	Cmd.Flags().StringVar(&common.FlagBoard, common.FlagBoardName, "", "")
	Cmd.Flags().StringVar(&flagInput, flagInputName, "", "")
	Cmd.Flags().StringVar(&flagFormat, common.FlagFormatName, formatBin, "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	flags := []common.Flag{
		{
			Name: common.FlagBoardName,
			Help: "board description file, the default layout for 4 CPUs is used when not given",
		},
		{
			Name: flagInputName,
			Help: "decode this binary table instead of building one",
		},
		{
			Name: common.FlagFormatName,
			Help: fmt.Sprintf("choose output format from: %s", strings.Join(formatOptions, ", ")),
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Options",
		Flags:     flags,
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if common.FlagBoard != "" && flagInput != "" {
		err := fmt.Errorf("--%s and --%s are mutually exclusive", common.FlagBoardName, flagInputName)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if !slices.Contains(formatOptions, flagFormat) {
		err := fmt.Errorf("format options are: %s", strings.Join(formatOptions, ", "))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	for _, path := range []string{common.FlagBoard, flagInput} {
		if path == "" {
			continue
		}
		if err := util.RequireFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	table, err := loadTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	out, err := render(table)
	if err != nil {
		err = fmt.Errorf("failed to render table: %w", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	binary := flagFormat == formatBin || flagFormat == report.FormatXlsx
	if err = common.WriteOutput(cmd.OutOrStdout(), appContext.OutputPath, out, binary); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	return nil
}

// loadTable decodes the --input table, or builds one from the board.
func loadTable() (*madt.Table, error) {
	if flagInput != "" {
		data, err := os.ReadFile(flagInput)
		if err != nil {
			return nil, err
		}
		table, err := madt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", flagInput, err)
		}
		slog.Debug("decoded table", slog.String("input", flagInput), slog.Int("subtables", len(table.Subtables)))
		return table, nil
	}
	b := board.Default()
	if common.FlagBoard != "" {
		var err error
		if b, err = board.Load(common.FlagBoard); err != nil {
			return nil, err
		}
	}
	table, err := madt.Build(b.MADTConfig())
	if err != nil {
		return nil, fmt.Errorf("board %s: %w", b.Name, err)
	}
	return table, nil
}

func render(table *madt.Table) ([]byte, error) {
	switch flagFormat {
	case formatBin:
		return table.Marshal()
	case formatHex:
		data, err := table.Marshal()
		if err != nil {
			return nil, err
		}
		return []byte(hex.Dump(data)), nil
	}
	// the report shows the patched length and checksum
	if _, err := table.Marshal(); err != nil {
		return nil, err
	}
	return report.Create(flagFormat, report.MADTTables(table))
}

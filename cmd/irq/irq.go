// Package irq is a subcommand of the root command. It plans the chipset interrupt routing register writes.
package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"acpigen/internal/board"
	"acpigen/internal/common"
	"acpigen/internal/irqroute"
	"acpigen/internal/report"
	"acpigen/internal/util"

	"github.com/spf13/cobra"
)

const cmdName = "irq"

var examples = []string{
	fmt.Sprintf("  Show the register writes of a board: $ %s %s --board board.yaml", common.AppName, cmdName),
	fmt.Sprintf("  Dry run the writes to the log:       $ %s %s --board board.yaml --apply --log-stdout", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Plan the chipset interrupt pin and PIRQ routing registers",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var formatOptions = []string{report.FormatTxt, report.FormatJson, report.FormatYaml, report.FormatXlsx}

var (
	flagFormat string
	flagApply  bool
)

const (
	flagApplyName = "apply"
)

func init() {
	Cmd.Flags().StringVar(&common.FlagBoard, common.FlagBoardName, "", "")
	Cmd.Flags().StringVar(&flagFormat, common.FlagFormatName, report.FormatTxt, "")
	Cmd.Flags().BoolVar(&flagApply, flagApplyName, false, "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	flags := []common.Flag{
		{
			Name: common.FlagBoardName,
			Help: "board description file with an irq section",
		},
		{
			Name: common.FlagFormatName,
			Help: fmt.Sprintf("choose output format from: %s", strings.Join(formatOptions, ", ")),
		},
		{
			Name: flagApplyName,
			Help: "send the planned writes to the register log",
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Options",
		Flags:     flags,
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if common.FlagBoard == "" {
		err := fmt.Errorf("--%s is required", common.FlagBoardName)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if err := util.RequireFile(common.FlagBoard); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if !slices.Contains(formatOptions, flagFormat) {
		err := fmt.Errorf("format options are: %s", strings.Join(formatOptions, ", "))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	out, err := plan(irqroute.LogWriter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	err = common.WriteOutput(cmd.OutOrStdout(), appContext.OutputPath, out, flagFormat == report.FormatXlsx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	return nil
}

// plan computes the register writes of the board and, with --apply, sends
// them to w.
func plan(w irqroute.RegisterWriter) ([]byte, error) {
	b, err := board.Load(common.FlagBoard)
	if err != nil {
		return nil, err
	}
	routing := b.Routing()
	writes, err := irqroute.Plan(routing)
	if err != nil {
		return nil, fmt.Errorf("board %s: %w", b.Name, err)
	}
	slog.Debug("planned interrupt routing", slog.String("board", b.Name), slog.Int("writes", len(writes)))
	if flagApply {
		if err = irqroute.Apply(w, writes); err != nil {
			return nil, err
		}
	}
	return report.Create(flagFormat, report.RoutingTables(routing, writes))
}

// Package ssdt is a subcommand of the root command. It generates the processor power state SSDT.
package ssdt

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"acpigen/internal/asl"
	"acpigen/internal/board"
	"acpigen/internal/common"
	"acpigen/internal/cpupm"
	"acpigen/internal/cpus"
	"acpigen/internal/msr"
	"acpigen/internal/report"
	"acpigen/internal/util"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const cmdName = "ssdt"

var examples = []string{
	fmt.Sprintf("  ASL from a register snapshot:       $ %s %s --board board.yaml --snapshot regs.yaml", common.AppName, cmdName),
	fmt.Sprintf("  ASL from this host:                 $ %s %s --board board.yaml --live", common.AppName, cmdName),
	fmt.Sprintf("  State tables with a power check:    $ %s %s --snapshot regs.yaml --format txt --check-power", common.AppName, cmdName),
	fmt.Sprintf("  Capture the registers of this host: $ %s %s --live --capture regs.yaml", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Generate the processor C, P and T-state SSDT",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

const formatASL = "asl"

var formatOptions = append([]string{formatASL}, report.FormatOptions...)

var (
	flagFormat     string
	flagForce      bool
	flagSnapshot   string
	flagLive       bool
	flagCPU        int
	flagCheckPower bool
	flagCapture    string
)

const (
	flagSnapshotName   = "snapshot"
	flagLiveName       = "live"
	flagCPUName        = "cpu"
	flagCheckPowerName = "check-power"
	flagCaptureName    = "capture"
)

func init() {
	Cmd.Flags().StringVar(&common.FlagBoard, common.FlagBoardName, "", "")
	Cmd.Flags().StringVar(&flagSnapshot, flagSnapshotName, "", "")
	Cmd.Flags().BoolVar(&flagLive, flagLiveName, false, "")
	Cmd.Flags().IntVar(&flagCPU, flagCPUName, 0, "")
	Cmd.Flags().StringVar(&flagFormat, common.FlagFormatName, formatASL, "")
	Cmd.Flags().BoolVar(&flagCheckPower, flagCheckPowerName, false, "")
	Cmd.Flags().BoolVar(&flagForce, common.FlagForceName, false, "")
	Cmd.Flags().StringVar(&flagCapture, flagCaptureName, "", "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	groups = append(groups, common.FlagGroup{
		GroupName: "Input Options",
		Flags: []common.Flag{
			{
				Name: common.FlagBoardName,
				Help: "board description file, the built-in defaults are used when not given",
			},
			{
				Name: flagSnapshotName,
				Help: "read the processor registers from this snapshot file",
			},
			{
				Name: flagLiveName,
				Help: "read the processor registers of this host through the msr and cpuid devices",
			},
			{
				Name: flagCPUName,
				Help: "logical CPU to read with --" + flagLiveName,
			},
		},
	})
	groups = append(groups, common.FlagGroup{
		GroupName: "Output Options",
		Flags: []common.Flag{
			{
				Name: common.FlagFormatName,
				Help: fmt.Sprintf("choose output format from: %s", strings.Join(formatOptions, ", ")),
			},
			{
				Name: flagCheckPowerName,
				Help: "compare the _PSS power values with the closed form power model",
			},
			{
				Name: common.FlagForceName,
				Help: "generate tables for processors that are not recognized",
			},
			{
				Name: flagCaptureName,
				Help: "write the probed registers to this snapshot file instead of generating tables",
			},
		},
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if err := checkFlags(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func checkFlags(cmd *cobra.Command) error {
	if flagSnapshot != "" && flagLive {
		return fmt.Errorf("--%s and --%s are mutually exclusive", flagSnapshotName, flagLiveName)
	}
	if flagSnapshot == "" && !flagLive {
		return fmt.Errorf("one of --%s or --%s is required", flagSnapshotName, flagLiveName)
	}
	if cmd.Flags().Lookup(flagCPUName).Changed && !flagLive {
		return fmt.Errorf("--%s requires --%s", flagCPUName, flagLiveName)
	}
	if flagCPU < 0 {
		return fmt.Errorf("cpu must be 0 or greater")
	}
	if !slices.Contains(formatOptions, flagFormat) {
		return fmt.Errorf("format options are: %s", strings.Join(formatOptions, ", "))
	}
	if common.FlagBoard != "" {
		if err := util.RequireFile(common.FlagBoard); err != nil {
			return err
		}
	}
	if flagSnapshot != "" {
		if err := util.RequireFile(flagSnapshot); err != nil {
			return err
		}
	}
	if flagCapture != "" {
		if err := util.RequireParentDirectory(flagCapture); err != nil {
			return err
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	probe, name, err := openProbe()
	if err != nil {
		err = fmt.Errorf("failed to open register source: %w", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	if flagCapture != "" {
		return capture(probe, name)
	}
	b := board.Default()
	if common.FlagBoard != "" {
		if b, err = board.Load(common.FlagBoard); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			slog.Error(err.Error())
			return err
		}
	}
	out, err := generate(b, probe)
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

func openProbe() (cpupm.Probe, string, error) {
	if flagLive {
		reader, err := msr.NewDevReader(flagCPU)
		if err != nil {
			return nil, "", err
		}
		host, err := os.Hostname()
		if err != nil {
			host = "localhost"
		}
		return reader, host, nil
	}
	snapshot, err := msr.LoadSnapshot(flagSnapshot)
	if err != nil {
		return nil, "", err
	}
	return snapshot, snapshot.Name, nil
}

func capture(probe cpupm.Probe, name string) error {
	snapshot, err := cpupm.Capture(probe, name)
	if err == nil {
		var data []byte
		if data, err = snapshot.Marshal(); err == nil {
			err = common.WriteOutput(nil, flagCapture, data, false)
		}
	}
	if err != nil {
		err = fmt.Errorf("failed to capture registers: %w", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		return err
	}
	slog.Info("captured registers", slog.String("snapshot", flagCapture), slog.Int("msrs", len(snapshot.MSRs)))
	return nil
}

// document is the json and yaml form of the generated table sequence.
type document struct {
	Board   string        `json:"board" yaml:"board"`
	CPU     string        `json:"cpu" yaml:"cpu"`
	Entries []cpupm.Entry `json:"entries" yaml:"entries"`
}

func generate(b *board.Board, probe cpupm.Probe) ([]byte, error) {
	entries, caps, err := cpupm.NewGenerator(probe, b.CPUConfig()).Generate()
	if err != nil {
		return nil, err
	}
	cpuName, err := identify(caps)
	if err != nil {
		return nil, err
	}
	var deviations []cpupm.PowerDeviation
	if flagCheckPower {
		if deviations, err = checkPower(caps, entries); err != nil {
			return nil, err
		}
	}
	switch flagFormat {
	case formatASL:
		var buf bytes.Buffer
		if err := asl.Write(&buf, entries); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case report.FormatJson:
		out, err := json.MarshalIndent(document{Board: b.Name, CPU: cpuName, Entries: entries}, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case report.FormatYaml:
		return yaml.Marshal(document{Board: b.Name, CPU: cpuName, Entries: entries})
	}
	return report.Create(flagFormat, report.SSDTTables(cpuName, caps, entries, deviations))
}

// identify names the processor, unknown processors are only accepted with --force.
func identify(caps cpupm.Capabilities) (string, error) {
	cpu, err := cpus.GetCPU(caps.Family, caps.Model, caps.Stepping)
	if err == nil {
		slog.Debug("identified CPU", slog.String("name", cpu.Name), slog.String("uarch", cpu.MicroArchitecture))
		return cpu.Name, nil
	}
	if !flagForce {
		return "", fmt.Errorf("%w, use --%s to generate tables anyway", err, common.FlagForceName)
	}
	slog.Warn("generating tables for an unrecognized CPU", slog.String("error", err.Error()))
	return fmt.Sprintf("family %d model %d", caps.Family, caps.Model), nil
}

func checkPower(caps cpupm.Capabilities, entries []cpupm.Entry) ([]cpupm.PowerDeviation, error) {
	deviations := []cpupm.PowerDeviation{}
	idx := slices.IndexFunc(entries, func(e cpupm.Entry) bool { return e.Kind == cpupm.KindPSS })
	if idx < 0 {
		return deviations, nil
	}
	checked, err := cpupm.CheckPower(caps, entries[idx].PStates)
	if err != nil {
		return nil, err
	}
	for _, d := range checked {
		if d.Exceeded() {
			slog.Warn("_PSS power deviates from the power model", slog.Int("ratio", d.Ratio), slog.Int("calculated", d.Calculated), slog.Float64("percent", d.Percent))
		}
	}
	return append(deviations, checked...), nil
}

// Package common defines data structures and functions that are used by multiple
// application commands, e.g., ssdt, madt, irq.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // Timestamp is the application start time.
	OutputPath  string // OutputPath is the file output is written to, stdout if empty.
	LogFilePath string // LogFilePath is the log file, empty when logging elsewhere.
	Version     string // Version is the version of the application.
	Debug       bool
}

type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// FlagBoard is the board description file shared by the commands.
var FlagBoard string

const (
	FlagBoardName  = "board"
	FlagFormatName = "format"
	FlagForceName  = "force"
)

// GetAppContext returns the context the root command stored for its subcommands.
func GetAppContext(cmd *cobra.Command) AppContext {
	for c := cmd; c != nil; c = c.Parent() {
		if ctx := c.Context(); ctx != nil {
			if appContext, ok := ctx.Value(AppContext{}).(AppContext); ok {
				return appContext
			}
		}
	}
	return AppContext{}
}

// UsageFunc prints the command's flags by group followed by the global flags.
func UsageFunc(getFlagGroups func() []FlagGroup) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
		cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		cmd.Println("Flags:")
		for _, group := range getFlagGroups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if lookup := cmd.Flags().Lookup(flag.Name); lookup != nil && lookup.DefValue != "" && lookup.DefValue != "false" {
					flagDefault = fmt.Sprintf(" (default: %s)", lookup.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		if cmd.HasParent() {
			cmd.Println("\nGlobal Flags:")
			cmd.Root().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
				flagDefault := ""
				if pf.DefValue != "" && pf.DefValue != "false" {
					flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
				}
				cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
			})
		}
		return nil
	}
}

// WriteOutput writes data to outputPath, or to w when no path is given.
// Binary data is not written to a terminal.
func WriteOutput(w io.Writer, outputPath string, data []byte, binary bool) error {
	if outputPath == "" {
		if f, ok := w.(*os.File); ok && binary && term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("refusing to write binary output to a terminal, use --output")
		}
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write output: %w", err)
	}
	slog.Info("wrote output", slog.String("path", outputPath), slog.Int("bytes", len(data)))
	return nil
}

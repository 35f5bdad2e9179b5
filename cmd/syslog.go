package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"acpigen/internal/common"
)

// SyslogHandler is a slog.Handler that logs to syslog.
type SyslogHandler struct {
	writer     *syslog.Writer
	logLeveler slog.Leveler
	addSource  bool
}

func NewSyslogHandler(logOpts *slog.HandlerOptions) (*SyslogHandler, error) {
	writer, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, common.AppName)
	if err != nil {
		return nil, err
	}
	return &SyslogHandler{writer: writer, logLeveler: logOpts.Level, addSource: logOpts.AddSource}, nil
}

// sourcePath shortens file to a path relative to the parent of the working directory.
func sourcePath(file string) string {
	if !strings.HasPrefix(file, "/") {
		return file
	}
	wd, err := os.Getwd()
	if err != nil {
		return file
	}
	rel, err := filepath.Rel(wd, file)
	if err != nil {
		return file
	}
	return filepath.Join(filepath.Base(wd), rel)
}

// formatRecord renders r in the logfmt layout of the text handler.
func formatRecord(r slog.Record, addSource bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "level=%s", r.Level.String())
	if r.PC != 0 && addSource {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(&sb, " source=%s:%d", sourcePath(f.File), f.Line)
	}
	fmt.Fprintf(&sb, " msg=%q", r.Message)
	r.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%q", attr.Key, attr.Value.String())
		return true
	})
	return sb.String()
}

func (h *SyslogHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := formatRecord(r, h.addSource)
	switch {
	case r.Level >= slog.LevelError:
		return h.writer.Err(msg)
	case r.Level >= slog.LevelWarn:
		return h.writer.Warning(msg)
	case r.Level >= slog.LevelInfo:
		return h.writer.Info(msg)
	default:
		return h.writer.Debug(msg)
	}
}

func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SyslogHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *SyslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.logLeveler.Level()
}

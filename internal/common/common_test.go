package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, "", []byte{0x41, 0x50}, true))
	assert.Equal(t, "AP", buf.String())

	path := filepath.Join(t.TempDir(), "madt.bin")
	buf.Reset()
	require.NoError(t, WriteOutput(&buf, path, []byte{1, 2, 3}, true))
	assert.Empty(t, buf.Bytes())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	err = WriteOutput(&buf, filepath.Join(t.TempDir(), "missing", "madt.bin"), []byte{1}, true)
	assert.Error(t, err)
}

func TestGetAppContext(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{Use: "child"}
	root.AddCommand(child)
	assert.Equal(t, AppContext{}, GetAppContext(child))

	root.SetContext(context.WithValue(context.Background(), AppContext{}, AppContext{Version: "1.2.3", OutputPath: "out.asl"}))
	appContext := GetAppContext(child)
	assert.Equal(t, "1.2.3", appContext.Version)
	assert.Equal(t, "out.asl", appContext.OutputPath)
}

func TestUsageFunc(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	var debug bool
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	child := &cobra.Command{Use: "child", Example: "  $ root child", Run: func(*cobra.Command, []string) {}}
	var board string
	child.Flags().StringVar(&board, FlagBoardName, "board.yaml", "")
	root.AddCommand(child)
	child.SetUsageFunc(UsageFunc(func() []FlagGroup {
		return []FlagGroup{{GroupName: "Options", Flags: []Flag{{Name: FlagBoardName, Help: "board description"}}}}
	}))
	var out bytes.Buffer
	child.SetOut(&out)
	require.NoError(t, child.Usage())
	assert.Contains(t, out.String(), "Usage: root child [flags]")
	assert.Contains(t, out.String(), "--board                board description (default: board.yaml)")
	assert.Contains(t, out.String(), "Global Flags:")
	assert.Contains(t, out.String(), "--debug                enable debug logging\n")
}

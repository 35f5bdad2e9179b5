package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "board.yaml"), ExpandUser("~/board.yaml"))
	assert.Equal(t, "/tmp/board.yaml", ExpandUser("/tmp/board.yaml"))
	assert.Equal(t, "~user/board.yaml", ExpandUser("~user/board.yaml"))
}

func TestAbsPath(t *testing.T) {
	path, err := AbsPath("board.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
}

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "regs.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: test\n"), 0644))

	exists, err := FileExists(file)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = FileExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = FileExists(dir)
	assert.Error(t, err)

	exists, err = DirectoryExists(dir)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = DirectoryExists(file)
	assert.Error(t, err)
}

func TestRequireFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.NoError(t, RequireFile(file))

	err := RequireFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRequireParentDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, RequireParentDirectory(filepath.Join(dir, "ssdt.asl")))

	err := RequireParentDirectory(filepath.Join(dir, "missing", "ssdt.asl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory")
}

// Package util holds the file system helpers shared by the commands.
package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpandUser replaces a leading "~" with the home directory of the current
// user. Paths naming another user's home are returned unchanged.
func ExpandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// AbsPath expands "~" and makes path absolute.
func AbsPath(path string) (string, error) {
	return filepath.Abs(ExpandUser(path))
}

// exists stats path and checks its type with isType. A missing path is not
// an error, a path of the wrong type is.
func exists(path, kind string, isType func(fs.FileMode) bool) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !isType(info.Mode()) {
		return false, fmt.Errorf("%s not a %s", path, kind)
	}
	return true, nil
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) (bool, error) {
	return exists(path, "file", fs.FileMode.IsRegular)
}

// DirectoryExists reports whether path is an existing directory.
func DirectoryExists(path string) (bool, error) {
	return exists(path, "directory", fs.FileMode.IsDir)
}

// RequireFile returns an error unless path names an existing regular file.
func RequireFile(path string) error {
	ok, err := FileExists(path)
	if err == nil && !ok {
		err = fmt.Errorf("%s does not exist", path)
	}
	return err
}

// RequireParentDirectory returns an error unless the directory a file
// would be written to at path exists.
func RequireParentDirectory(path string) error {
	dir := filepath.Dir(path)
	ok, err := DirectoryExists(dir)
	if err == nil && !ok {
		err = fmt.Errorf("output directory %s does not exist", dir)
	}
	return err
}

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"acpigen/cmd"
)

func main() {
	// profile only if the environment variable names the output file
	if path := os.Getenv("ACPIGEN_PROFILE"); path != "" {
		profile, err := os.Create(path)
		if err != nil {
			panic(err)
		}
		defer profile.Close()
		if err := pprof.StartCPUProfile(profile); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
		defer fmt.Fprintf(os.Stderr, "CPU profile written to %s, analyze with: go tool pprof %s\n", path, path)
	}
	cmd.Execute()
}

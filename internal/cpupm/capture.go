// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

import (
	"acpigen/internal/msr"
)

// recorder passes reads through to a source and keeps every value it returned.
type recorder struct {
	source   Probe
	snapshot *msr.Snapshot
}

func (r *recorder) ReadMSR(reg uint32) (uint64, error) {
	val, err := r.source.ReadMSR(reg)
	if err == nil {
		r.snapshot.MSRs[reg] = val
	}
	return val, err
}

func (r *recorder) CPUID(leaf uint32) (msr.CPUID, error) {
	regs, err := r.source.CPUID(leaf)
	if err == nil {
		r.snapshot.Leafs[leaf] = regs
	}
	return regs, err
}

func (r *recorder) LogicalCPUs() (int, error) {
	cpus, err := r.source.LogicalCPUs()
	if err == nil {
		r.snapshot.CPUs = cpus
	}
	return cpus, err
}

// Capture records the registers ReadCapabilities reads from probe. Registers
// the part doesn't implement, like the configurable TDP levels on Sandy
// Bridge, aren't read and are left out of the snapshot.
func Capture(probe Probe, name string) (*msr.Snapshot, error) {
	r := &recorder{
		source: probe,
		snapshot: &msr.Snapshot{
			Name:  name,
			MSRs:  make(map[uint32]uint64),
			Leafs: make(map[uint32]msr.CPUID),
		},
	}
	if _, err := ReadCapabilities(r); err != nil {
		return nil, err
	}
	return r.snapshot, nil
}

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package msr

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Snapshot is a recorded set of register values, used to generate tables for
// a platform other than the one the tool runs on.
type Snapshot struct {
	Name  string
	CPUs  int
	MSRs  map[uint32]uint64
	Leafs map[uint32]CPUID
}

type snapshotFromYAML struct {
	Name        string            `yaml:"name"`
	LogicalCPUs int               `yaml:"logical_cpus"`
	MSR         map[string]string `yaml:"msr"`
	CPUID       map[string]CPUID  `yaml:"cpuid"`
}

func parseUint(s string, bits int) (uint64, error) {
	return strconv.ParseUint(s, 0, bits)
}

// ParseSnapshot decodes a snapshot document. Register addresses and MSR values
// are strings in any base accepted by strconv, e.g. "0xce".
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var doc snapshotFromYAML
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse snapshot")
	}
	if doc.LogicalCPUs <= 0 {
		return nil, errors.Errorf("snapshot logical_cpus must be greater than 0, got %d", doc.LogicalCPUs)
	}
	s := &Snapshot{
		Name:  doc.Name,
		CPUs:  doc.LogicalCPUs,
		MSRs:  make(map[uint32]uint64, len(doc.MSR)),
		Leafs: make(map[uint32]CPUID, len(doc.CPUID)),
	}
	for key, value := range doc.MSR {
		reg, err := parseUint(key, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid msr address %q", key)
		}
		val, err := parseUint(value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value %q for %s", value, RegName(uint32(reg)))
		}
		s.MSRs[uint32(reg)] = val
	}
	for key, regs := range doc.CPUID {
		leaf, err := parseUint(key, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid cpuid leaf %q", key)
		}
		s.Leafs[uint32(leaf)] = regs
	}
	return s, nil
}

// LoadSnapshot reads and parses a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	s, err := ParseSnapshot(data)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", path)
	}
	return s, nil
}

// Marshal encodes the snapshot in the format ParseSnapshot reads.
func (s *Snapshot) Marshal() ([]byte, error) {
	doc := snapshotFromYAML{
		Name:        s.Name,
		LogicalCPUs: s.CPUs,
		MSR:         make(map[string]string, len(s.MSRs)),
		CPUID:       make(map[string]CPUID, len(s.Leafs)),
	}
	for reg, val := range s.MSRs {
		doc.MSR[fmt.Sprintf("0x%x", reg)] = fmt.Sprintf("0x%016x", val)
	}
	for leaf, regs := range s.Leafs {
		doc.CPUID[fmt.Sprintf("0x%x", leaf)] = regs
	}
	return yaml.Marshal(doc)
}

// ReadMSR returns the recorded value of reg.
func (s *Snapshot) ReadMSR(reg uint32) (uint64, error) {
	val, ok := s.MSRs[reg]
	if !ok {
		return 0, errors.Errorf("snapshot %q has no value for %s", s.Name, RegName(reg))
	}
	return val, nil
}

// CPUID returns the recorded result of leaf.
func (s *Snapshot) CPUID(leaf uint32) (CPUID, error) {
	regs, ok := s.Leafs[leaf]
	if !ok {
		return CPUID{}, errors.Errorf("snapshot %q has no value for cpuid leaf 0x%x", s.Name, leaf)
	}
	return regs, nil
}

// LogicalCPUs returns the recorded logical CPU count.
func (s *Snapshot) LogicalCPUs() (int, error) {
	return s.CPUs, nil
}

//###########################################################################################################
//# Copyright (C) 2021-2025 Intel Corporation
//# SPDX-License-Identifier: BSD-3-Clause
//###########################################################################################################

package msr

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	msrPath   = "/dev/cpu/%d/msr"
	cpuidPath = "/dev/cpu/%d/cpuid"
	cpuGlob   = "/dev/cpu/[0-9]*"
)

// DevReader reads registers through the Linux msr and cpuid drivers.
type DevReader struct {
	CPU  int
	root string // prefix for the device paths, empty on a real host
}

// NewDevReader returns a reader bound to the given logical CPU after checking
// that the msr and cpuid drivers are loaded.
func NewDevReader(cpu int) (*DevReader, error) {
	r := &DevReader{CPU: cpu}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DevReader) path(format string) string {
	return r.root + fmt.Sprintf(format, r.CPU)
}

func validate(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s isn't available, please load the msr and cpuid modules using modprobe", path))
	}
	return nil
}

func (r *DevReader) validate() error {
	if err := validate(r.path(msrPath)); err != nil {
		return err
	}
	return validate(r.path(cpuidPath))
}

// pread reads len(buf) bytes at offset from the device file at path
func pread(path string, buf []byte, offset int64) error {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "couldn't open %s", path)
	}
	defer unix.Close(fd)
	n, err := unix.Pread(fd, buf, offset)
	if err != nil {
		return errors.Wrapf(err, "pread %s at 0x%x", path, offset)
	}
	if n != len(buf) {
		return errors.Errorf("wrong byte count %d reading %s at 0x%x", n, path, offset)
	}
	return nil
}

// ReadMSR reads a 64-bit model specific register.
func (r *DevReader) ReadMSR(reg uint32) (uint64, error) {
	buf := make([]byte, 8)
	if err := pread(r.path(msrPath), buf, int64(reg)); err != nil {
		return 0, errors.Wrapf(err, "read %s on cpu %d", RegName(reg), r.CPU)
	}
	// x86 is little endian
	val := binary.LittleEndian.Uint64(buf)
	slog.Debug("read msr", slog.String("reg", RegName(reg)), slog.Int("cpu", r.CPU), slog.String("value", fmt.Sprintf("0x%x", val)))
	return val, nil
}

// CPUID executes a CPUID leaf (sub-leaf 0) through the cpuid driver, which
// takes the leaf in the low and the sub-leaf in the high half of the offset.
func (r *DevReader) CPUID(leaf uint32) (CPUID, error) {
	buf := make([]byte, 16)
	if err := pread(r.path(cpuidPath), buf, int64(leaf)); err != nil {
		return CPUID{}, errors.Wrapf(err, "cpuid leaf 0x%x on cpu %d", leaf, r.CPU)
	}
	return CPUID{
		EAX: binary.LittleEndian.Uint32(buf[0:4]),
		EBX: binary.LittleEndian.Uint32(buf[4:8]),
		ECX: binary.LittleEndian.Uint32(buf[8:12]),
		EDX: binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}

// LogicalCPUs counts the CPU device nodes.
func (r *DevReader) LogicalCPUs() (int, error) {
	matches, err := filepath.Glob(r.root + cpuGlob)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list cpu devices")
	}
	if len(matches) == 0 {
		return 0, errors.Errorf("no cpu devices found at %s", r.root+cpuGlob)
	}
	return len(matches), nil
}

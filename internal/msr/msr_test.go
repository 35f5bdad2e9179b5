// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package msr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField(t *testing.T) {
	platformInfo := uint64(0x0000_0c08_0000_2200) | 2<<33
	assert.Equal(t, uint64(34), Field(platformInfo, 15, 8))
	assert.Equal(t, uint64(0x0c08>>8), Field(platformInfo, 47, 40))
	assert.Equal(t, uint64(2), Field(platformInfo, 34, 33))
	assert.Equal(t, platformInfo, Field(platformInfo, 63, 0))
	assert.Equal(t, uint64(1), Field(1<<63, 63, 63))
}

func TestRegName(t *testing.T) {
	assert.Equal(t, "MSR_PLATFORM_INFO", RegName(PlatformInfo))
	assert.Equal(t, "0x123", RegName(0x123))
	for reg, name := range Names {
		assert.Equal(t, name, RegName(reg))
	}
}

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package cpupm

import (
	"fmt"
	"math"

	"github.com/casbin/govaluate"
)

// referencePowerExpression is the closed form CalculatePower approximates.
const referencePowerExpression = "(ratio / p1_ratio) * ((1.1 - (p1_ratio - ratio) * 0.00625) / 1.1) ** 2 * tdp"

var referencePower *govaluate.EvaluableExpression

func init() {
	var err error
	referencePower, err = govaluate.NewEvaluableExpression(referencePowerExpression)
	if err != nil {
		panic(fmt.Sprintf("invalid reference power expression: %v", err))
	}
}

// ReferencePower evaluates the closed form power model in floating point.
func ReferencePower(tdp, p1Ratio, ratio int) (float64, error) {
	if p1Ratio == 0 {
		return 0, fmt.Errorf("p1 ratio must not be zero")
	}
	result, err := referencePower.Evaluate(map[string]any{
		"tdp":      float64(tdp),
		"p1_ratio": float64(p1Ratio),
		"ratio":    float64(ratio),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate reference power: %w", err)
	}
	power, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("reference power evaluated to %T, expected float64", result)
	}
	return power, nil
}

// PowerTolerance is the largest relative deviation, in percent, of a
// calculated P-state power from the closed form.
const PowerTolerance = 2.0

// PowerDeviation compares a calculated P-state power with the closed form.
type PowerDeviation struct {
	Ratio      int
	Calculated int
	Reference  float64
	Percent    float64 // relative deviation of Calculated from Reference
}

// Exceeded reports whether the deviation is beyond PowerTolerance.
func (d PowerDeviation) Exceeded() bool {
	return d.Percent > PowerTolerance
}

// CheckPower compares every calculated _PSS entry with the closed form
// model. The turbo entry and the max ratio entry carry the TDP unmodified
// and are skipped.
func CheckPower(caps Capabilities, states []PState) ([]PowerDeviation, error) {
	ratioMax := caps.RatioMax()
	powerMax := caps.PowerMax()
	var deviations []PowerDeviation
	for _, state := range states {
		if state.Ratio() >= ratioMax || state.CoreFreq != state.Ratio()*BusClock {
			continue
		}
		reference, err := ReferencePower(powerMax, ratioMax, state.Ratio())
		if err != nil {
			return nil, err
		}
		deviation := PowerDeviation{Ratio: state.Ratio(), Calculated: state.Power, Reference: reference}
		if reference != 0 {
			deviation.Percent = math.Abs(float64(state.Power)-reference) / reference * 100
		}
		deviations = append(deviations, deviation)
	}
	return deviations, nil
}

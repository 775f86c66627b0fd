// SPDX-License-Identifier: MIT

// Package units converts depth values between oilfield length units.
// Depths are carried through wellcore as integer centimeters.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cm is a depth or length in whole centimeters.
type Cm = int64

// centimeters per unit
var unitFactors = map[string]float64{
	"mm": 0.1,
	"cm": 1,
	"m":  100,
	"km": 100000,
	"in": 2.54,
	"ft": 30.48,
}

var depthRe = regexp.MustCompile(`^(?P<value>[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?)(?P<units>[a-zA-Z]+)$`)

// ParseDepth converts a depth given either as a bare integer (already in
// centimeters) or as a "<value><units>" string to centimeters. The converted
// value must land on a whole centimeter.
func ParseDepth(s string) (Cm, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("depth is empty")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	m := depthRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("depth %q must be specified in a <value><units> format", s)
	}
	value, err := strconv.ParseFloat(m[depthRe.SubexpIndex("value")], 64)
	if err != nil {
		return 0, fmt.Errorf("depth %q: %w", s, err)
	}
	unit := strings.ToLower(m[depthRe.SubexpIndex("units")])
	factor, ok := unitFactors[unit]
	if !ok {
		return 0, fmt.Errorf("depth %q: unknown unit %q", s, unit)
	}

	cm := value * factor
	if _, frac := math.Modf(cm); frac != 0 {
		return 0, fmt.Errorf("depth %q is not a whole number of centimeters", s)
	}
	return Cm(cm), nil
}

// ParsePositiveDepth is ParseDepth with an additional > 0 check.
func ParsePositiveDepth(s string) (Cm, error) {
	d, err := ParseDepth(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("depth %q must be positive", s)
	}
	return d, nil
}

// MetersToCm converts a depth in meters (as stored in LAS files) to
// centimeters, rounding to the nearest whole centimeter.
func MetersToCm(m float64) Cm {
	return Cm(math.Round(m * 100))
}

// CmToMeters converts centimeters back to meters.
func CmToMeters(cm Cm) float64 {
	return float64(cm) / 100
}

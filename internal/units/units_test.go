// SPDX-License-Identifier: MIT

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDepth(t *testing.T) {
	tests := []struct {
		in   string
		want Cm
	}{
		{"250", 250},
		{"-30", -30},
		{"12m", 1200},
		{"12.5m", 1250},
		{"3km", 300000},
		{"40mm", 4},
		{"50in", 127},
		{"1.5e1m", 1500},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDepth(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDepthErrors(t *testing.T) {
	// 10ft is 304.8cm and 2in is 5.08cm: neither lands on a whole centimeter.
	for _, in := range []string{"", "abc", "12 m", "12parsec", "1.005m", "10ft", "2in"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDepth(in)
			assert.Error(t, err)
		})
	}
}

func TestParsePositiveDepth(t *testing.T) {
	_, err := ParsePositiveDepth("-3m")
	assert.Error(t, err)

	d, err := ParsePositiveDepth("1.5m")
	require.NoError(t, err)
	assert.Equal(t, Cm(150), d)
}

func TestMeterConversion(t *testing.T) {
	assert.Equal(t, Cm(123456), MetersToCm(1234.56))
	assert.InDelta(t, 1234.56, CmToMeters(123456), 1e-9)
}

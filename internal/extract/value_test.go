package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNum(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"450,000", 450000, true},
		{"9500", 9500, true},
		{"12.5", 12.5, true},
		{" 1,234.5 ", 1234.5, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNum(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "N/A"},
		{"na spelling", "n/a", "N/A"},
		{"null spelling", "NULL", "N/A"},
		{"dashes", "--", "N/A"},
		{"html stripped", "<b>Bakken</b>", "Bakken"},
		{"plain value kept", "Continental Resources", "Continental Resources"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanValue(tt.in))
		})
	}
}

func TestDMSToDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{"north", `47° 7' 24.12" N`, 47.123367, true},
		{"west negated", `102° 34' 4.08" W`, -102.567800, true},
		{"negative degrees", `-102° 34' 4.08"`, -102.567800, true},
		{"minutes out of range", `47° 72' 24" N`, 0, false},
		{"too few parts", `47° N`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DMSToDecimal(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"two digit year below cutoff", "02/03/25", "2025-02-03", true},
		{"two digit year above cutoff", "02/03/85", "1985-02-03", true},
		{"four digit year", "6/1/2019", "2019-06-01", true},
		{"day month swap", "25/6/2019", "2019-06-25", true},
		{"iso passthrough", "2019-06-01", "2019-06-01", true},
		{"garbage", "hello", "", false},
		{"impossible date", "45/45/2019", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in, 50, "2006-01-02")
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDMS(t *testing.T) {
	assert.Equal(t, `47° 7' 24" N`, NormalizeDMS("47º 7′ 24″ N"))
	assert.Equal(t, `102° 34' 4"`, NormalizeDMS("102˚ 34’ 4”"))
}

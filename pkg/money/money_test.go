package money

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"0", 0},
		{"12", 1200},
		{"12.5", 1250},
		{"12.50", 1250},
		{"0.01", 1},
		{"-5", -500},
		{" 3.10 ", 310},
		{"1.500", 150},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "0.001", "1e40", "12,50", "1e19", "1e-40"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "0.00", Amount(0).String())
	assert.Equal(t, "12.50", Amount(1250).String())
	assert.Equal(t, "-0.05", Amount(-5).String())
	assert.Equal(t, "100.00", FromMajor(100).String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0,00", Format(0))
	assert.Equal(t, "999,99", Format(99999))
	assert.Equal(t, "1.000,00", Format(100000))
	assert.Equal(t, "1.234.567,89", Format(123456789))
	assert.Equal(t, "-1.000,50", Format(-100050))
}

func TestParse_HugeExponentFailsFast(t *testing.T) {
	for _, in := range []string{"1e1000000", "1e10000000", "-1e999999999", "1e-10000000"} {
		t.Run(in, func(t *testing.T) {
			start := time.Now()
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.Less(t, time.Since(start), 100*time.Millisecond)
		})
	}
}

func TestParse_ScientificWithinRange(t *testing.T) {
	got, err := Parse("1e3")
	require.NoError(t, err)
	assert.Equal(t, Amount(100000), got)
}

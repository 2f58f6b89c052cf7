package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.234,56", 123456},
		{"-1.234,56", -123456},
		{"0,05", 5},
		{"5.957,00", 595700},
		{"12,5", 1205},
		{"12", 1200},
		{" 1.000.000,01 ", 100000001},
		{"-,50", -50},
		{"1234,00", 123400},
		{"12,", 1200},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "input: %q", tt.in)
		assert.Equal(t, tt.want, got, "input: %q", tt.in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		"", "abc", "1,2,3", "1,234", "1.2a,00", "--1,00",
		"-", ",", "-,", " - ",
		"1.2.3,4", "1.23,00", "1234.567,00", ".123,00", "1.,00",
	} {
		_, err := Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{100, "1,00"},
		{123456, "1.234,56"},
		{-123456, "-1.234,56"},
		{100000001, "1.000.000,01"},
		{12830123, "128.301,23"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Brazilian.Format(tt.in))
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"0,00", "0,01", "0,99", "1,00", "999,99", "1.000,00", "12.345,67",
		"-0,05", "-1.234,56", "123.456.789,10",
	}
	for _, in := range inputs {
		v, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, in, Brazilian.Format(v), "round-trip of %q", in)
	}
}

func TestRoundTrip_OtherSymbols(t *testing.T) {
	us := Format{Thousands: ",", Decimals: "."}
	for _, in := range []string{"1,234.56", "-0.10", "1,000,000.00"} {
		v, err := us.Parse(in)
		require.NoError(t, err)
		assert.Equal(t, in, us.Format(v))
	}
}

func TestCurrency(t *testing.T) {
	c := Currency{Symbol: "R$", Format: Brazilian}
	assert.Equal(t, "R$ 128.301,23", c.String(12830123))

	bare := Currency{Format: Brazilian}
	assert.Equal(t, "1,00", bare.String(100))
}

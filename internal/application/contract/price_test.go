package contract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.5M EGP", "2500000"},
		{"1,200,000 EGP", "1200000"},
		{"EGP negotiable", "0"},
		{"3M EGP", "3000000"},
		{"3 million", "3000000"},
		{"EGP 4.75 Million", "4750000"},
		{"1.5 mn USD", "1500000"},
		{"3Million EGP", "3000000"},
		{"2.5million", "2500000"},
		{"between 900,000 and 1,100,000", "900000"},
		{"850000", "850000"},
		{"", "0"},
		{"...", "0"},
		{",,, EGP", "0"},
		{"1.2.3", "1.2"},
		{"approx. 750,000.50 EGP", "750000.5"},
		{".5M", "500000"},
		{"12M-15M", "12000000"},
		{"MXN 500", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParsePriceRange(tt.in)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "ParsePriceRange(%q) = %s, want %s", tt.in, got, want)
		})
	}
}

func TestParsePriceRange_NeverPanics(t *testing.T) {
	inputs := []string{"\x00", "💰 lots", "1e10", "--5", "1,,,,", "9999999999999999999999999999M"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = ParsePriceRange(in) }, in)
	}
}

func TestHasMillionMarker(t *testing.T) {
	assert.True(t, HasMillionMarker("3M EGP"))
	assert.True(t, HasMillionMarker("two million"))
	assert.True(t, HasMillionMarker("2.5m"))
	assert.True(t, HasMillionMarker("3Million EGP"))
	assert.False(t, HasMillionMarker("1,200,000 EGP"))
	assert.False(t, HasMillionMarker("EGP negotiable"))
	assert.False(t, HasMillionMarker("Maadi 500 sqm"))
}

func TestCurrencyOf(t *testing.T) {
	assert.Equal(t, "EGP", CurrencyOf("2.5M EGP", "USD"))
	assert.Equal(t, "USD", CurrencyOf("(usd) 400k", "EGP"))
	assert.Equal(t, "EGP", CurrencyOf("negotiable", "EGP"))
}

//Personal.AI order the ending

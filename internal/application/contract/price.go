package contract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// numericRun matches the first run of digits, commas and periods that
	// contains at least one digit.
	numericRun = regexp.MustCompile(`[\d,.]*\d[\d,.]*`)
	// millionMarker matches "million"/"millions" as a word or glued to a
	// number ("3Million"), or an "M"/"Mn" suffix on a number ("2.5M", "3 mn").
	millionMarker = regexp.MustCompile(`(?i)(?:\b|\d)millions?\b|\d\s*mn?\b`)

	million = decimal.NewFromInt(1_000_000)
)

// HasMillionMarker reports whether free-text price contains a million marker.
func HasMillionMarker(priceRange string) bool {
	return millionMarker.MatchString(priceRange)
}

// ParsePriceRange converts a free-text price range into an estimate.
//
// The first numeric run is taken, thousands separators are dropped, and the
// value is scaled by one million when a million marker is present. Text with
// no digits yields zero. The function never fails.
//
//	"2.5M EGP"      -> 2500000
//	"1,200,000 EGP" -> 1200000
//	"EGP negotiable" -> 0
func ParsePriceRange(priceRange string) decimal.Decimal {
	run := numericRun.FindString(priceRange)
	if run == "" {
		return decimal.Zero
	}

	cleaned := strings.ReplaceAll(run, ",", "")
	// Keep the leading well-formed decimal: "1.2.3" reads as 1.2.
	if first := strings.IndexByte(cleaned, '.'); first >= 0 {
		if second := strings.IndexByte(cleaned[first+1:], '.'); second >= 0 {
			cleaned = cleaned[:first+1+second]
		}
	}
	cleaned = strings.TrimRight(cleaned, ".")
	if cleaned == "" {
		return decimal.Zero
	}
	if cleaned[0] == '.' {
		cleaned = "0" + cleaned
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if HasMillionMarker(priceRange) {
		value = value.Mul(million)
	}
	return value
}

// CurrencyOf extracts a three-letter ISO-like currency code from the price
// text, falling back to def.
func CurrencyOf(priceRange, def string) string {
	for _, token := range strings.Fields(strings.ToUpper(priceRange)) {
		token = strings.Trim(token, ".,;:()")
		switch token {
		case "EGP", "USD", "EUR", "GBP", "AED", "SAR":
			return token
		}
	}
	return def
}

//Personal.AI order the ending

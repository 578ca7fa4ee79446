package review

import (
	"regexp"
	"strconv"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParsePrice extracts a numeric value from a price string by stripping
// every character that is not a digit or a dot. Currency symbols and
// thousands separators are discarded; absent or unparseable prices
// parse to 0.
func ParsePrice(price string) float64 {
	cleaned := nonNumeric.ReplaceAllString(price, "")
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

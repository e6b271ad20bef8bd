package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var priceNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// ParsePrice extracts a best-effort numeric value from a display price.
// Thousands separators (spaces) are stripped and decimal commas
// normalized before matching; "1 200,50 ₴" parses to 1200.50. A price
// with no number in it returns nil: the display string stays
// authoritative, the numeric value is optional.
func ParsePrice(display string) *float64 {
	if display == "" {
		return nil
	}
	normalized := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(display)
	m := priceNumber.FindStringSubmatch(normalized)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &value
}

// Package timecode parses and formats HH:MM:SS:FF timecode strings for
// plate aggregation. Comparisons use the digits-only integer form so that
// min/max over grouped rows matches spreadsheet ordering.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// digits is the fixed width of a flattened timecode (two per field).
const digits = 8

// ToInt strips the colon separators from a timecode and parses the result
// as a base-10 integer. "01:00:10:00" becomes 1001000... etc. The input is
// not validated against frame-rate bounds; callers only need ordering.
func ToInt(value string) (int, error) {
	flat := strings.ReplaceAll(strings.TrimSpace(value), ":", "")
	if flat == "" {
		return 0, fmt.Errorf("timecode %q: empty", value)
	}
	n, err := strconv.Atoi(flat)
	if err != nil {
		return 0, fmt.Errorf("timecode %q: %w", value, err)
	}
	return n, nil
}

// FromInt zero-pads the integer form to eight digits and reinserts a colon
// every two digits, restoring HH:MM:SS:FF.
func FromInt(value int) string {
	flat := fmt.Sprintf("%0*d", digits, value)
	if len(flat) > digits {
		flat = flat[len(flat)-digits:]
	}
	parts := make([]string, 0, digits/2)
	for i := 0; i < len(flat); i += 2 {
		parts = append(parts, flat[i:i+2])
	}
	return strings.Join(parts, ":")
}

// MinMax reduces a set of timecode strings to the earliest and latest
// values in restored HH:MM:SS:FF form.
func MinMax(values []string) (earliest, latest string, err error) {
	if len(values) == 0 {
		return "", "", fmt.Errorf("no timecodes to compare")
	}
	lo, err := ToInt(values[0])
	if err != nil {
		return "", "", err
	}
	hi := lo
	for _, value := range values[1:] {
		n, err := ToInt(value)
		if err != nil {
			return "", "", err
		}
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return FromInt(lo), FromInt(hi), nil
}

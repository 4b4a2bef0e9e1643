package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var thousandsPattern = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)

// ParseCount reads an integer cell. Empty input is 0. Float text such as
// "12.0" is truncated toward zero the way a numeric cast would.
func ParseCount(input string) (int, error) {
	s := strings.TrimSpace(strings.ReplaceAll(input, "\u00a0", " "))
	if s == "" {
		return 0, nil
	}
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", input)
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("integer out of range: %q", input)
	}
	return int(f), nil
}

package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var gramsRe = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*(?i:g)?$`)

// Grams extracts the numeric value from a macro amount stored as a
// unit-suffixed string ("12.5g"). A missing or malformed value yields 0,
// never an error; negative amounts are clamped to 0.
func Grams(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	matches := gramsRe.FindStringSubmatch(s)
	if matches == nil {
		// Fallback: tolerate values like "12g " or "12 g" that slipped past
		// the strict form by stripping the suffix and retrying.
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "g"), "G"))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return 0
		}
		return v
	}

	v, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}
	return v
}

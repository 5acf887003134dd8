/*
Package chrono implements the year model used throughout the timeline: parsing of the
restricted ISO-8601-like date strings found in datasets into signed astronomical years,
and formatting of years back into era-labelled strings.

Years follow astronomical numbering, so year 0 is 1 BC and year -1 is 2 BC.
*/
package chrono

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dateRe matches "YYYY", "YYYY-MM" and "YYYY-MM-DD" with an optional leading minus sign
// for proleptic BCE years. Only the year component is used.
var dateRe = regexp.MustCompile(`^(-?\d{1,4})(-\d{2})?(-\d{2})?$`)

// Era selects the pair of suffixes used when formatting years.
type Era string

const (
	// EraBCAD formats years as "44 BC" / "1066 AD".
	EraBCAD Era = "BC/AD"
	// EraBCECE formats years as "44 BCE" / "1066 CE".
	EraBCECE Era = "BCE/CE"
)

// ParseEra validates an era label string. The empty string selects EraBCAD.
func ParseEra(s string) (Era, error) {
	switch Era(strings.TrimSpace(s)) {
	case "", EraBCAD:
		return EraBCAD, nil
	case EraBCECE:
		return EraBCECE, nil
	default:
		return "", fmt.Errorf("unknown era labels %q: must be %q or %q", s, EraBCAD, EraBCECE)
	}
}

// Before returns the suffix for years at or before year 0.
func (e Era) Before() string {
	if e == EraBCECE {
		return "BCE"
	}
	return "BC"
}

// After returns the suffix for years after year 0.
func (e Era) After() string {
	if e == EraBCECE {
		return "CE"
	}
	return "AD"
}

// ParseYear extracts the signed year from a date string such as "-0044-03-15", "1066"
// or "1969-07". It returns false when the string does not match the date grammar; callers
// must treat that as an unknown year rather than as year 0.
func ParseYear(s string) (int, bool) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// FormatYear converts an astronomical year to a historical label with an era suffix.
// Year 0 becomes "1 BC", year -1 "2 BC" and year 1 "1 AD".
func FormatYear(year int, era Era) string {
	if year <= 0 {
		return fmt.Sprintf("%d %s", 1-year, era.Before())
	}
	return fmt.Sprintf("%d %s", year, era.After())
}

// FormatFractionalYear labels the calendar year containing the fractional year y.
// -2999.5 lies in year -3000, so it is "3001 BC".
func FormatFractionalYear(y float64, era Era) string {
	return FormatYear(int(math.Floor(y)), era)
}

// AxisLabel is the compact form of FormatYear used for axis ticks: the AD/CE suffix is
// omitted since it is the common case.
func AxisLabel(year int, era Era) string {
	if year <= 0 {
		return FormatYear(year, era)
	}
	return strconv.Itoa(year)
}

// FormatRange formats a start and optional end date string as "start – end".
// Strings that do not parse are shown as given.
func FormatRange(start, end string, era Era) string {
	label := func(s string) string {
		if y, ok := ParseYear(s); ok {
			return FormatYear(y, era)
		}
		return strings.TrimSpace(s)
	}
	if strings.TrimSpace(end) == "" {
		return label(start)
	}
	return label(start) + " – " + label(end)
}

// RangesOverlap reports whether the closed intervals [s1, e1] and [s2, e2] intersect.
// Touching endpoints count as overlapping.
func RangesOverlap(s1, e1, s2, e2 float64) bool {
	return s1 <= e2 && s2 <= e1
}

var labelRe = regexp.MustCompile(`(?i)^([+-]?\d+)\s*(BCE|BC|CE|AD)?$`)

// ParseLabel parses a user-entered year such as "3000 BC", "44 BCE", "AD 1066", "1066"
// or "-500". Suffixed BC/BCE years are historical and map to astronomical 1-n; bare
// numbers are astronomical.
func ParseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	for _, prefix := range []string{"AD ", "CE "} {
		if strings.HasPrefix(upper, prefix) {
			s = strings.TrimSpace(s[len(prefix):]) + " AD"
			break
		}
	}
	m := labelRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid year %q: %w", s, err)
	}
	switch strings.ToUpper(m[2]) {
	case "BC", "BCE":
		if n <= 0 {
			return 0, fmt.Errorf("invalid year %q: historical years start at 1", s)
		}
		return 1 - n, nil
	case "AD", "CE":
		if n <= 0 {
			return 0, fmt.Errorf("invalid year %q: historical years start at 1", s)
		}
	}
	return n, nil
}

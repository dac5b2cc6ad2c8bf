// Package duedate turns dictated due dates into ISO calendar dates.
//
// Australian users say and type dates day first ("25/12/2024"), while the
// task store keeps plain "YYYY-MM-DD" strings with no time or zone.
package duedate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	auShape  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
)

// Normalize returns raw as "YYYY-MM-DD", or "" when it is empty, has an
// unknown shape, or names a day that does not exist.
//
// Input already in ISO shape is passed through untouched, without a
// calendar check, so "2024-13-40" comes back as is. Existing shortcuts
// send ISO dates and depend on that.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if isoShape.MatchString(s) {
		return s
	}

	m := auShape.FindStringSubmatch(s)
	if m == nil {
		return ""
	}

	// The regexp guarantees digits, so Atoi cannot fail here.
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if !valid(year, month, day) {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// valid reports whether the triple names a real day. time.Date normalises
// overflow (31 Feb becomes 2 Mar), so a round trip exposes impossible dates.
// UTC keeps the check free of local zone and DST shifts.
func valid(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

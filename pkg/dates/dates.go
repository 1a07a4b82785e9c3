// Package dates converts the heterogeneous date representations seen in
// upstream tabular storage into the canonical YYYY-MM-DD form used for
// all comparisons.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Canonical is the sole date layout used for comparisons.
const Canonical = "2006-01-02"

// Normalize converts any recognised date representation (canonical date,
// RFC3339 timestamp with or without zone, epoch seconds or millis) to
// the local calendar date as YYYY-MM-DD. Storage may serialize a local
// midnight as a prior-day UTC timestamp; reading the local date rather
// than the UTC date keeps stored dates from shifting backward in
// positive-offset timezones. Unparseable input is returned unchanged.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return input
	}
	t, ok := parse(s)
	if !ok {
		return input
	}
	return t.In(time.Local).Format(Canonical)
}

// Weekday returns the UTC weekday (0=Sunday..6=Saturday) of a canonical
// date parsed as UTC midnight, or -1 when the input does not parse.
// Note the asymmetry with Normalize, which reads local calendar fields:
// schedule lookups intentionally keep the UTC convention the timetable
// was built against.
func Weekday(canonical string) int {
	t, err := time.Parse(Canonical, strings.TrimSpace(canonical))
	if err != nil {
		return -1
	}
	return int(t.Weekday())
}

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parse(s string) (time.Time, bool) {
	// A bare canonical date carries no zone; keep it pinned to the
	// local calendar so Normalize is idempotent.
	if t, err := time.ParseInLocation(Canonical, s, time.Local); err == nil {
		return t, true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Heuristic: 13+ digit values are epoch millis, shorter ones
		// are epoch seconds.
		if n >= 1e12 || n <= -1e12 {
			return time.UnixMilli(n), true
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}

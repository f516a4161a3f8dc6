package timezone

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/golang-module/carbon/v2"
)

// Human-readable layouts tried after carbon's own format list.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"Jan 2, 2006, 3:04 PM",
	"Jan 2, 2006, 15:04",
	"Jan 2 2006 3:04 PM",
	"Jan 2 2006 15:04",
	"Jan 2 2006",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"Mon, Jan 2, 2006 3:04 PM",
	"Mon, Jan 2, 2006",
	"Mon, 2 Jan 2006 15:04",
	"Mon, 2 Jan 2006",
	"2 Jan 2006 3:04 PM",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"2 January 2006 15:04",
	"2 January 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006 15:04",
	"02-01-2006 15:04",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
}

var relativeKeywords = map[string]bool{
	"now":       true,
	"today":     true,
	"yesterday": true,
	"tomorrow":  true,
}

// Load resolves an IANA zone name. An empty name means UTC.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", name, err)
	}
	return loc, nil
}

// ParsePermissive parses free-form date text in loc. Values without an
// explicit offset are interpreted as wall-clock time in loc.
func ParsePermissive(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	// relative words would tie the result to the wall clock
	if relativeKeywords[strings.ToLower(value)] {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	tz := loc.String()

	if c := carbon.Parse(value, tz); c.Error == nil && !c.IsZero() {
		return c.Carbon2Time().In(loc), true
	}
	for _, layout := range layouts {
		if c := carbon.ParseByLayout(value, layout, tz); c.Error == nil && !c.IsZero() {
			return c.Carbon2Time().In(loc), true
		}
	}
	return time.Time{}, false
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), loc)
}

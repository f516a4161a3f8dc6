package window

import "time"

// InWindow reports whether candidate departs within windowDays days of
// searchDate, both ends inclusive. When searchDate is today, candidate must
// also not be earlier than now. Calendar days are taken in now's location.
func InWindow(candidate, searchDate time.Time, windowDays int, now time.Time) bool {
	if windowDays < 0 {
		windowDays = 0
	}
	loc := now.Location()

	start := StartOfDay(searchDate, loc)
	end := start.AddDate(0, 0, windowDays)
	day := StartOfDay(candidate, loc)

	if day.Before(start) || day.After(end) {
		return false
	}

	if SameDay(start, now, loc) {
		return !candidate.Before(now)
	}
	return true
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

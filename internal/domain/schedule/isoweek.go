package schedule

import "time"

// ISO-8601 week arithmetic, pinned to a single location. The calendar is
// deliberately not per-user: every surface, block, and cache key names
// weeks in the same civil timeline.

// MondayOf returns midnight on the Monday that opens ISO week (year, week)
// in loc. Week numbers outside the year's range are extrapolated rather
// than rejected, matching time.Date overflow behavior.
func MondayOf(year, week int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	week1Monday := jan4.AddDate(0, 0, -(isoWeekday(jan4) - 1))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// WeekOfDate returns the ISO year and week containing t.
func WeekOfDate(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// WeeksInYear reports whether year has 52 or 53 ISO weeks.
func WeeksInYear(year int, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	// December 28th is always inside the year's last ISO week.
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, loc).ISOWeek()
	return w
}

// NextWeek advances one ISO week, rolling over year boundaries.
func NextWeek(year, week int, loc *time.Location) (int, int) {
	if week >= WeeksInYear(year, loc) {
		return year + 1, 1
	}
	return year, week + 1
}

// isoWeekday maps time.Weekday onto ISO numbering, Monday=1..Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

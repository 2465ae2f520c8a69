package schedule

import (
	"testing"
	"time"
)

func TestMondayOfKnownWeeks(t *testing.T) {
	cases := []struct {
		year, week int
		want       string
	}{
		{2026, 1, "2025-12-29"},
		{2026, 10, "2026-03-02"},
		{2020, 53, "2020-12-28"},
		{2021, 1, "2021-01-04"},
		{2015, 53, "2015-12-28"},
	}

	for _, tc := range cases {
		got := MondayOf(tc.year, tc.week, time.UTC).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("MondayOf(%d, %d) = %s, want %s", tc.year, tc.week, got, tc.want)
		}
	}
}

func TestMondayOfIsAlwaysMonday(t *testing.T) {
	for year := 2019; year <= 2030; year++ {
		for week := 1; week <= WeeksInYear(year, time.UTC); week++ {
			if d := MondayOf(year, week, time.UTC); d.Weekday() != time.Monday {
				t.Fatalf("MondayOf(%d, %d) fell on %s", year, week, d.Weekday())
			}
		}
	}
}

func TestWeekOfDateRoundTrip(t *testing.T) {
	for year := 2019; year <= 2030; year++ {
		for week := 1; week <= WeeksInYear(year, time.UTC); week++ {
			gotYear, gotWeek := WeekOfDate(MondayOf(year, week, time.UTC))
			if gotYear != year || gotWeek != week {
				t.Fatalf("round trip (%d, W%d) -> (%d, W%d)", year, week, gotYear, gotWeek)
			}
		}
	}
}

func TestWeeksInYear(t *testing.T) {
	longYears := map[int]bool{2015: true, 2020: true, 2026: true}
	for year := 2015; year <= 2027; year++ {
		want := 52
		if longYears[year] {
			want = 53
		}
		if got := WeeksInYear(year, time.UTC); got != want {
			t.Fatalf("WeeksInYear(%d) = %d, want %d", year, got, want)
		}
	}
}

func TestNextWeekRollsOverYearBoundary(t *testing.T) {
	year, week := NextWeek(2020, 53, time.UTC)
	if year != 2021 || week != 1 {
		t.Fatalf("NextWeek(2020, 53) = (%d, %d), want (2021, 1)", year, week)
	}

	year, week = NextWeek(2021, 52, time.UTC)
	if year != 2022 || week != 1 {
		t.Fatalf("NextWeek(2021, 52) = (%d, %d), want (2022, 1)", year, week)
	}

	year, week = NextWeek(2026, 10, time.UTC)
	if year != 2026 || week != 11 {
		t.Fatalf("NextWeek(2026, 10) = (%d, %d), want (2026, 11)", year, week)
	}
}

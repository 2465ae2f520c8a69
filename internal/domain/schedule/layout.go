package schedule

// Layout fixes where week blocks live on an availability surface. Rows and
// columns are zero-based. Every surface shares one layout, constructed once
// at startup and treated as immutable.
type Layout struct {
	YearColumn     int
	MonthColumn    int
	WeekColumn     int
	TimeColumn     int
	DaysStartCol   int
	DaysPerWeek    int
	SlotsPerDay    int
	HeaderRow      int
	FirstBlockRow  int
	TimeSlots      []string
	DayLabels      []string
	WeekendFromDay int
}

func DefaultLayout() Layout {
	return Layout{
		YearColumn:    0,
		MonthColumn:   1,
		WeekColumn:    2,
		TimeColumn:    3,
		DaysStartCol:  4,
		DaysPerWeek:   7,
		SlotsPerDay:   11,
		HeaderRow:     0,
		FirstBlockRow: 1,
		TimeSlots: []string{
			"18:00", "18:30", "19:00", "19:30", "20:00",
			"20:30", "21:00", "21:30", "22:00", "22:30", "23:00",
		},
		DayLabels:      []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		WeekendFromDay: 5,
	}
}

// Columns is the total width of a block row, metadata through Sunday.
func (l Layout) Columns() int {
	return l.DaysStartCol + l.DaysPerWeek
}

// ClampSlot pins a visual slot index inside the block's row range.
func (l Layout) ClampSlot(slot int) int {
	if slot < 0 {
		return 0
	}
	if slot >= l.SlotsPerDay {
		return l.SlotsPerDay - 1
	}
	return slot
}

// ClampDay pins a visual day index to Monday..Sunday.
func (l Layout) ClampDay(day int) int {
	if day < 0 {
		return 0
	}
	if day >= l.DaysPerWeek {
		return l.DaysPerWeek - 1
	}
	return day
}

// InBounds reports whether the visual coordinates need no clamping.
func (l Layout) InBounds(slot, day int) bool {
	return slot >= 0 && slot < l.SlotsPerDay && day >= 0 && day < l.DaysPerWeek
}

func (l Layout) IsWeekend(day int) bool {
	return day >= l.WeekendFromDay
}

// Cell background colors keyed by occupant count.
const (
	ColorWeekday     = "#FFFFFF"
	ColorWeekend     = "#FFF2CC"
	ColorOnePlayer   = "#FFCCE5"
	ColorTwoToThree  = "#FFFFCC"
	ColorFourPlus    = "#CCFFCC"
	ColorDayHeaderBG = "#4A86E8"
	ColorDayHeaderFG = "#FFFFFF"
	ColorTimeColumn  = "#F3F3F3"
	ColorMetadata    = "#EFEFEF"
)

// ColorForOccupancy picks the cell background for a token count on the
// given day. Empty cells fall back to the weekday or weekend base.
func (l Layout) ColorForOccupancy(count, day int) string {
	switch {
	case count >= 4:
		return ColorFourPlus
	case count >= 2:
		return ColorTwoToThree
	case count == 1:
		return ColorOnePlayer
	case l.IsWeekend(day):
		return ColorWeekend
	default:
		return ColorWeekday
	}
}

package schedule

// WeekBlock locates one ISO week's rectangle on a surface. StartRow is the
// absolute row of the first time slot; the block spans Layout.SlotsPerDay
// rows below it.
type WeekBlock struct {
	Surface  string
	Year     int
	Week     int
	StartRow int
}

// Cell converts visual (slot, day) coordinates into absolute grid
// coordinates, clamping both axes to the block's bounds first.
func (b WeekBlock) Cell(layout Layout, slot, day int) (row, col int) {
	return b.StartRow + layout.ClampSlot(slot), layout.DaysStartCol + layout.ClampDay(day)
}

// EndRow is the absolute row of the last time slot.
func (b WeekBlock) EndRow(layout Layout) int {
	return b.StartRow + layout.SlotsPerDay - 1
}

// ContainsRow reports whether an absolute row falls inside the block.
func (b WeekBlock) ContainsRow(layout Layout, row int) bool {
	return row >= b.StartRow && row <= b.EndRow(layout)
}

// Selection is one requested cell in visual coordinates, as submitted by
// the schedule UI. Slot counts rows from the block's first time slot and
// Day counts Monday=0..Sunday=6.
type Selection struct {
	Slot int `json:"slot"`
	Day  int `json:"day"`
}

// WeekSelection groups a batch of selections under one ISO week.
type WeekSelection struct {
	Year       int         `json:"year"`
	Week       int         `json:"week"`
	Selections []Selection `json:"selections"`
}

// ToggleMode says whether a batch adds or removes the caller's token.
type ToggleMode string

const (
	ToggleAdd    ToggleMode = "add"
	ToggleRemove ToggleMode = "remove"
)

func (m ToggleMode) Valid() bool {
	return m == ToggleAdd || m == ToggleRemove
}

// WeekRow is one rendered schedule row: a time slot and the cell text for
// each day of the week.
type WeekRow struct {
	Time string   `json:"time"`
	Days []string `json:"days"`
}

// Week is a fully rendered week of availability.
type Week struct {
	Surface string    `json:"surface"`
	Year    int       `json:"year"`
	Week    int       `json:"week"`
	Rows    []WeekRow `json:"rows"`
}

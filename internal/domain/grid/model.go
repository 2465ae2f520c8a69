package grid

import (
	"fmt"
	"strings"
)

// Cell is one addressed value on a surface. Value carries the token set
// text; Color is the background applied by occupancy coding.
type Cell struct {
	Row   int
	Col   int
	Value string
	Color string
}

// Rect is an inclusive rectangle of surface coordinates.
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

func (r Rect) Validate() error {
	if r.Top < 0 || r.Left < 0 {
		return fmt.Errorf("rect origin must be non-negative, got (%d, %d)", r.Top, r.Left)
	}
	if r.Bottom < r.Top || r.Right < r.Left {
		return fmt.Errorf("rect extent is inverted: top %d bottom %d left %d right %d", r.Top, r.Bottom, r.Left, r.Right)
	}

	return nil
}

func (r Rect) Rows() int {
	return r.Bottom - r.Top + 1
}

func (r Rect) Cols() int {
	return r.Right - r.Left + 1
}

// Bound expands r to include (row, col).
func (r Rect) Bound(row, col int) Rect {
	if row < r.Top {
		r.Top = row
	}
	if row > r.Bottom {
		r.Bottom = row
	}
	if col < r.Left {
		r.Left = col
	}
	if col > r.Right {
		r.Right = col
	}
	return r
}

// RectAround is the degenerate rectangle covering a single cell, used as
// the seed when computing a batch's bounding box.
func RectAround(row, col int) Rect {
	return Rect{Top: row, Left: col, Bottom: row, Right: col}
}

// ValidateSurfaceName rejects names the backends cannot store. Archive
// suffixes are appended to names, so length leaves headroom for them.
func ValidateSurfaceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("surface name is required")
	}
	if len(name) > 80 {
		return fmt.Errorf("surface name too long: %d chars", len(name))
	}

	return nil
}

package grid

import (
	"context"
	"errors"
)

// ErrProtected is returned by writes against a protected surface that were
// not funneled through the concurrency gate.
var ErrProtected = errors.New("surface is protected")

// Repository is the availability-grid backend. A surface is one team's
// grid of cells; the protection flag makes direct writes fail so that
// mutations go through the gate that suspends it.
type Repository interface {
	CreateSurface(ctx context.Context, name string) error
	RenameSurface(ctx context.Context, oldName, newName string) error
	DeleteSurface(ctx context.Context, name string) error
	SurfaceExists(ctx context.Context, name string) (bool, error)
	ListSurfaces(ctx context.Context) ([]string, error)

	// ReadRect returns values row-major; missing cells read as "".
	ReadRect(ctx context.Context, surface string, rect Rect) ([][]string, error)
	// WriteRect writes values row-major; the value dimensions must match
	// the rect. Fails with ErrProtected on a protected surface.
	WriteRect(ctx context.Context, surface string, rect Rect, values [][]string) error

	ReadCell(ctx context.Context, surface string, row, col int) (string, error)
	WriteCell(ctx context.Context, surface string, row, col int, value string) error

	// SetColors applies backgrounds; it ignores protection since colors
	// carry no scheduling state.
	SetColors(ctx context.Context, surface string, cells []Cell) error

	SetProtected(ctx context.Context, surface string, protected bool) error
	IsProtected(ctx context.Context, surface string) (bool, error)

	// UsedRows is the number of rows with any content, the append point
	// for new week blocks.
	UsedRows(ctx context.Context, surface string) (int, error)
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/teamsched/schedule-manager/internal/domain/grid"
)

type gridCell struct {
	value string
	color string
}

type surface struct {
	cells     map[[2]int]gridCell
	protected bool
}

// GridRepository keeps availability surfaces in process. Writes honor the
// protection flag exactly like the durable backend does, so gate behavior
// is testable without a database.
type GridRepository struct {
	mu       sync.RWMutex
	surfaces map[string]*surface
}

func NewGridRepository() *GridRepository {
	return &GridRepository{surfaces: make(map[string]*surface)}
}

func (r *GridRepository) CreateSurface(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.surfaces[name]; ok {
		return fmt.Errorf("surface %q already exists", name)
	}
	r.surfaces[name] = &surface{cells: make(map[[2]int]gridCell)}

	return nil
}

func (r *GridRepository) RenameSurface(_ context.Context, oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[oldName]
	if !ok {
		return fmt.Errorf("surface %q not found", oldName)
	}
	if _, taken := r.surfaces[newName]; taken {
		return fmt.Errorf("surface %q already exists", newName)
	}
	delete(r.surfaces, oldName)
	r.surfaces[newName] = s

	return nil
}

func (r *GridRepository) DeleteSurface(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.surfaces[name]; !ok {
		return fmt.Errorf("surface %q not found", name)
	}
	delete(r.surfaces, name)

	return nil
}

func (r *GridRepository) SurfaceExists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.surfaces[name]

	return ok, nil
}

func (r *GridRepository) ListSurfaces(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.surfaces))
	for name := range r.surfaces {
		out = append(out, name)
	}
	sort.Strings(out)

	return out, nil
}

func (r *GridRepository) ReadRect(_ context.Context, name string, rect grid.Rect) ([][]string, error) {
	if err := rect.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surfaces[name]
	if !ok {
		return nil, fmt.Errorf("surface %q not found", name)
	}

	values := make([][]string, rect.Rows())
	for i := range values {
		row := make([]string, rect.Cols())
		for j := range row {
			row[j] = s.cells[[2]int{rect.Top + i, rect.Left + j}].value
		}
		values[i] = row
	}

	return values, nil
}

func (r *GridRepository) WriteRect(_ context.Context, name string, rect grid.Rect, values [][]string) error {
	if err := rect.Validate(); err != nil {
		return err
	}
	if len(values) != rect.Rows() {
		return fmt.Errorf("value rows %d do not match rect rows %d", len(values), rect.Rows())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[name]
	if !ok {
		return fmt.Errorf("surface %q not found", name)
	}
	if s.protected {
		return fmt.Errorf("%w: %s", grid.ErrProtected, name)
	}

	for i, row := range values {
		if len(row) != rect.Cols() {
			return fmt.Errorf("value cols %d do not match rect cols %d", len(row), rect.Cols())
		}
		for j, v := range row {
			key := [2]int{rect.Top + i, rect.Left + j}
			cell := s.cells[key]
			cell.value = v
			s.cells[key] = cell
		}
	}

	return nil
}

func (r *GridRepository) ReadCell(ctx context.Context, name string, row, col int) (string, error) {
	values, err := r.ReadRect(ctx, name, grid.RectAround(row, col))
	if err != nil {
		return "", err
	}

	return values[0][0], nil
}

func (r *GridRepository) WriteCell(ctx context.Context, name string, row, col int, value string) error {
	return r.WriteRect(ctx, name, grid.RectAround(row, col), [][]string{{value}})
}

func (r *GridRepository) SetColors(_ context.Context, name string, cells []grid.Cell) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[name]
	if !ok {
		return fmt.Errorf("surface %q not found", name)
	}

	for _, c := range cells {
		key := [2]int{c.Row, c.Col}
		cell := s.cells[key]
		cell.color = c.Color
		s.cells[key] = cell
	}

	return nil
}

func (r *GridRepository) SetProtected(_ context.Context, name string, protected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[name]
	if !ok {
		return fmt.Errorf("surface %q not found", name)
	}
	s.protected = protected

	return nil
}

func (r *GridRepository) IsProtected(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surfaces[name]
	if !ok {
		return false, fmt.Errorf("surface %q not found", name)
	}

	return s.protected, nil
}

func (r *GridRepository) UsedRows(_ context.Context, name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surfaces[name]
	if !ok {
		return 0, fmt.Errorf("surface %q not found", name)
	}

	used := 0
	for key, cell := range s.cells {
		if cell.value == "" {
			continue
		}
		if key[0]+1 > used {
			used = key[0] + 1
		}
	}

	return used, nil
}

// CellColor exposes a cell background for tests.
func (r *GridRepository) CellColor(name string, row, col int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surfaces[name]
	if !ok {
		return ""
	}

	return s.cells[[2]int{row, col}].color
}

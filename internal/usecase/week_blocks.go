package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/grid"
	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
)

// WeekBlockStore locates and provisions week blocks on availability
// surfaces. A block's first row carries year/month/week metadata and each
// row names its time slot; day cells start empty.
type WeekBlockStore struct {
	grids  grid.Repository
	layout schedule.Layout
	loc    *time.Location
	logger *logging.Logger
}

func NewWeekBlockStore(grids grid.Repository, layout schedule.Layout, loc *time.Location, logger *logging.Logger) *WeekBlockStore {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WeekBlockStore{
		grids:  grids,
		layout: layout,
		loc:    loc,
		logger: logger,
	}
}

func (s *WeekBlockStore) Layout() schedule.Layout {
	return s.layout
}

func (s *WeekBlockStore) Location() *time.Location {
	return s.loc
}

// Find scans the metadata columns for the block tagged (year, week).
func (s *WeekBlockStore) Find(ctx context.Context, surface string, year, week int) (schedule.WeekBlock, bool, error) {
	blocks, err := s.FindAll(ctx, surface)
	if err != nil {
		return schedule.WeekBlock{}, false, err
	}

	for _, block := range blocks {
		if block.Year == year && block.Week == week {
			return block, true, nil
		}
	}

	return schedule.WeekBlock{}, false, nil
}

// FindAll returns every block on the surface in row order. Rows whose
// metadata does not parse are skipped, not errors.
func (s *WeekBlockStore) FindAll(ctx context.Context, surface string) ([]schedule.WeekBlock, error) {
	used, err := s.grids.UsedRows(ctx, surface)
	if err != nil {
		return nil, fmt.Errorf("used rows for %s: %w", surface, err)
	}
	if used <= s.layout.FirstBlockRow {
		return nil, nil
	}

	rect := grid.Rect{
		Top:    s.layout.FirstBlockRow,
		Left:   s.layout.YearColumn,
		Bottom: used - 1,
		Right:  s.layout.WeekColumn,
	}
	values, err := s.grids.ReadRect(ctx, surface, rect)
	if err != nil {
		return nil, fmt.Errorf("read block metadata for %s: %w", surface, err)
	}

	blocks := make([]schedule.WeekBlock, 0, len(values)/s.layout.SlotsPerDay)
	for i, row := range values {
		rowYear, err := strconv.Atoi(row[s.layout.YearColumn])
		if err != nil {
			continue
		}
		rowWeek, err := strconv.Atoi(row[s.layout.WeekColumn])
		if err != nil {
			continue
		}
		blocks = append(blocks, schedule.WeekBlock{
			Surface:  surface,
			Year:     rowYear,
			Week:     rowWeek,
			StartRow: s.layout.FirstBlockRow + i,
		})
	}

	return blocks, nil
}

// BlockValidation reports structural problems with one block. Problems
// are collected rather than failing fast so a caller can report them all.
type BlockValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateStructure checks the block starting at startRow against the
// layout: metadata values on the first row, a time label on every row,
// and the full complement of rows present on the surface.
func (s *WeekBlockStore) ValidateStructure(ctx context.Context, surface string, startRow int) (BlockValidation, error) {
	if startRow < s.layout.FirstBlockRow {
		return BlockValidation{
			Errors: []string{fmt.Sprintf("start row %d precedes the first block row %d", startRow, s.layout.FirstBlockRow)},
		}, nil
	}

	used, err := s.grids.UsedRows(ctx, surface)
	if err != nil {
		return BlockValidation{}, fmt.Errorf("used rows for %s: %w", surface, err)
	}

	var problems []string
	if startRow+s.layout.SlotsPerDay > used {
		problems = append(problems, fmt.Sprintf("block at row %d is truncated: needs %d rows, surface ends at %d", startRow, s.layout.SlotsPerDay, used))
	}

	rect := grid.Rect{
		Top:    startRow,
		Left:   0,
		Bottom: startRow + s.layout.SlotsPerDay - 1,
		Right:  s.layout.TimeColumn,
	}
	values, err := s.grids.ReadRect(ctx, surface, rect)
	if err != nil {
		return BlockValidation{}, fmt.Errorf("read block at row %d on %s: %w", startRow, surface, err)
	}

	head := values[0]
	if _, err := strconv.Atoi(head[s.layout.YearColumn]); err != nil {
		problems = append(problems, fmt.Sprintf("year cell %q is not a number", head[s.layout.YearColumn]))
	}
	if head[s.layout.MonthColumn] == "" {
		problems = append(problems, "month cell is empty")
	}
	if week, err := strconv.Atoi(head[s.layout.WeekColumn]); err != nil {
		problems = append(problems, fmt.Sprintf("week cell %q is not a number", head[s.layout.WeekColumn]))
	} else if week < 1 || week > 53 {
		problems = append(problems, fmt.Sprintf("week %d out of range", week))
	}

	for slot, row := range values {
		if row[s.layout.TimeColumn] != s.layout.TimeSlots[slot] {
			problems = append(problems, fmt.Sprintf("row %d time label %q, want %q", startRow+slot, row[s.layout.TimeColumn], s.layout.TimeSlots[slot]))
		}
	}

	return BlockValidation{Valid: len(problems) == 0, Errors: problems}, nil
}

// Ensure returns the block for (year, week), provisioning it at the end
// of the surface when absent. The bool reports whether a block was
// created. Callers mutate surfaces, so they run this under the gate.
func (s *WeekBlockStore) Ensure(ctx context.Context, surface string, year, week int) (schedule.WeekBlock, bool, error) {
	if block, found, err := s.Find(ctx, surface, year, week); err != nil || found {
		return block, false, err
	}

	used, err := s.grids.UsedRows(ctx, surface)
	if err != nil {
		return schedule.WeekBlock{}, false, fmt.Errorf("used rows for %s: %w", surface, err)
	}
	startRow := used
	if startRow < s.layout.FirstBlockRow {
		startRow = s.layout.FirstBlockRow
	}

	block := schedule.WeekBlock{Surface: surface, Year: year, Week: week, StartRow: startRow}
	if err := s.writeBlockSkeleton(ctx, block); err != nil {
		return schedule.WeekBlock{}, false, err
	}

	s.logger.InfoContext(ctx, "provisioned week block",
		"surface", surface,
		"year", year,
		"week", week,
		"start_row", startRow,
	)

	return block, true, nil
}

// writeBlockSkeleton lays down metadata, time labels, and empty day cells
// in a single rectangle write.
func (s *WeekBlockStore) writeBlockSkeleton(ctx context.Context, block schedule.WeekBlock) error {
	monday := schedule.MondayOf(block.Year, block.Week, s.loc)

	values := make([][]string, s.layout.SlotsPerDay)
	for slot := range values {
		row := make([]string, s.layout.Columns())
		if slot == 0 {
			row[s.layout.YearColumn] = strconv.Itoa(block.Year)
			row[s.layout.MonthColumn] = monday.Month().String()
			row[s.layout.WeekColumn] = strconv.Itoa(block.Week)
		}
		row[s.layout.TimeColumn] = s.layout.TimeSlots[slot]
		values[slot] = row
	}

	rect := grid.Rect{
		Top:    block.StartRow,
		Left:   0,
		Bottom: block.EndRow(s.layout),
		Right:  s.layout.Columns() - 1,
	}
	if err := s.grids.WriteRect(ctx, block.Surface, rect, values); err != nil {
		return fmt.Errorf("write week block %d/W%d on %s: %w", block.Year, block.Week, block.Surface, err)
	}

	s.paintBlockBase(ctx, block)

	return nil
}

// paintBlockBase applies the resting backgrounds. Color failures are
// cosmetic and never fail provisioning.
func (s *WeekBlockStore) paintBlockBase(ctx context.Context, block schedule.WeekBlock) {
	cells := make([]grid.Cell, 0, s.layout.SlotsPerDay*s.layout.Columns())
	for slot := 0; slot < s.layout.SlotsPerDay; slot++ {
		row := block.StartRow + slot
		for col := 0; col < s.layout.DaysStartCol; col++ {
			color := schedule.ColorMetadata
			if col == s.layout.TimeColumn {
				color = schedule.ColorTimeColumn
			}
			cells = append(cells, grid.Cell{Row: row, Col: col, Color: color})
		}
		for day := 0; day < s.layout.DaysPerWeek; day++ {
			cells = append(cells, grid.Cell{
				Row:   row,
				Col:   s.layout.DaysStartCol + day,
				Color: s.layout.ColorForOccupancy(0, day),
			})
		}
	}

	if err := s.grids.SetColors(ctx, block.Surface, cells); err != nil {
		s.logger.WarnContext(ctx, "paint week block failed",
			"surface", block.Surface,
			"year", block.Year,
			"week", block.Week,
			"error", err,
		)
	}
}

// ProvisionSurface creates a surface with its header row and protection
// enabled, ready for week blocks.
func (s *WeekBlockStore) ProvisionSurface(ctx context.Context, surface string) error {
	if err := grid.ValidateSurfaceName(surface); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.grids.CreateSurface(ctx, surface); err != nil {
		return fmt.Errorf("create surface %s: %w", surface, err)
	}

	header := make([]string, s.layout.Columns())
	header[s.layout.YearColumn] = "Year"
	header[s.layout.MonthColumn] = "Month"
	header[s.layout.WeekColumn] = "Week"
	header[s.layout.TimeColumn] = "Time"
	for day, label := range s.layout.DayLabels {
		header[s.layout.DaysStartCol+day] = label
	}

	rect := grid.Rect{
		Top:    s.layout.HeaderRow,
		Left:   0,
		Bottom: s.layout.HeaderRow,
		Right:  s.layout.Columns() - 1,
	}
	if err := s.grids.WriteRect(ctx, surface, rect, [][]string{header}); err != nil {
		return fmt.Errorf("write header on %s: %w", surface, err)
	}

	headerCells := make([]grid.Cell, 0, s.layout.Columns())
	for col := 0; col < s.layout.Columns(); col++ {
		headerCells = append(headerCells, grid.Cell{
			Row:   s.layout.HeaderRow,
			Col:   col,
			Color: schedule.ColorDayHeaderBG,
		})
	}
	if err := s.grids.SetColors(ctx, surface, headerCells); err != nil {
		s.logger.WarnContext(ctx, "paint surface header failed", "surface", surface, "error", err)
	}

	if err := s.grids.SetProtected(ctx, surface, true); err != nil {
		return fmt.Errorf("protect surface %s: %w", surface, err)
	}

	return nil
}

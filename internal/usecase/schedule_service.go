package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/teamsched/schedule-manager/internal/domain/grid"
	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	basecache "github.com/teamsched/schedule-manager/internal/platform/cache"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
	"github.com/teamsched/schedule-manager/internal/platform/protection"
)

// MaxRangeIterations bounds how many consecutive weeks a range fetch will
// walk before giving up.
const MaxRangeIterations = 104

// ToggleResult tallies one availability batch.
type ToggleResult struct {
	CellsModified int `json:"cellsModified"`
	InvalidCells  int `json:"invalidCells"`
}

// UpdateAvailabilityInput is one toggle batch across one or more weeks of
// a single surface.
type UpdateAvailabilityInput struct {
	Surface string
	Token   string
	Mode    schedule.ToggleMode
	Weeks   []schedule.WeekSelection
}

// TeamWeeks is a range-fetch result for one surface.
type TeamWeeks struct {
	Surface string          `json:"surface"`
	Weeks   []schedule.Week `json:"weeks"`
}

type ScheduleService struct {
	blocks      *WeekBlockStore
	grids       grid.Repository
	gate        *protection.Gate
	cache       *basecache.Store
	colorCoding bool
	logger      *logging.Logger
	now         func() time.Time
}

func NewScheduleService(
	blocks *WeekBlockStore,
	grids grid.Repository,
	gate *protection.Gate,
	cache *basecache.Store,
	colorCoding bool,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScheduleService{
		blocks:      blocks,
		grids:       grids,
		gate:        gate,
		cache:       cache,
		colorCoding: colorCoding,
		logger:      logger,
		now:         time.Now,
	}
}

func scheduleCacheKey(surface string, year, week int) string {
	return "sched:" + surface + ":" + strconv.Itoa(year) + ":W" + strconv.Itoa(week)
}

func validateWeekRef(surface string, year, week int) error {
	if strings.TrimSpace(surface) == "" {
		return fmt.Errorf("%w: surface is required", ErrInvalidInput)
	}
	if year < 2000 || year > 2200 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidInput, year)
	}
	if week < 1 || week > 53 {
		return fmt.Errorf("%w: week %d out of range", ErrInvalidInput, week)
	}

	return nil
}

// GetSchedule returns one rendered week, served from cache when warm.
// A week nobody has touched yet is provisioned empty rather than
// reported missing.
func (s *ScheduleService) GetSchedule(ctx context.Context, surface string, year, week int) (schedule.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GetSchedule")
	defer span.End()

	surface = strings.TrimSpace(surface)
	if err := validateWeekRef(surface, year, week); err != nil {
		return schedule.Week{}, err
	}

	exists, err := s.grids.SurfaceExists(ctx, surface)
	if err != nil {
		return schedule.Week{}, fmt.Errorf("check surface %s: %w", surface, err)
	}
	if !exists {
		return schedule.Week{}, fmt.Errorf("%w: surface %s", ErrNotFound, surface)
	}

	w, err := s.cachedWeek(ctx, surface, year, week)
	if err == nil || !errors.Is(err, ErrBlockMissing) {
		return w, err
	}

	if err := s.provisionWeek(ctx, surface, year, week); err != nil {
		return schedule.Week{}, err
	}

	return s.cachedWeek(ctx, surface, year, week)
}

func (s *ScheduleService) cachedWeek(ctx context.Context, surface string, year, week int) (schedule.Week, error) {
	v, err := s.cache.GetOrLoad(ctx, scheduleCacheKey(surface, year, week), func(ctx context.Context) (any, error) {
		return s.readWeek(ctx, surface, year, week)
	})
	if err != nil {
		return schedule.Week{}, err
	}

	out, _ := v.(schedule.Week)
	return out, nil
}

func (s *ScheduleService) provisionWeek(ctx context.Context, surface string, year, week int) error {
	err := s.gate.With(ctx, []string{surface}, func(ctx context.Context) error {
		_, _, err := s.blocks.Ensure(ctx, surface, year, week)
		return err
	})
	if err != nil {
		if errors.Is(err, grid.ErrProtected) {
			return fmt.Errorf("%w: %s", ErrSurfaceBusy, surface)
		}
		return err
	}

	return nil
}

func (s *ScheduleService) readWeek(ctx context.Context, surface string, year, week int) (schedule.Week, error) {
	block, found, err := s.blocks.Find(ctx, surface, year, week)
	if err != nil {
		return schedule.Week{}, err
	}
	if !found {
		return schedule.Week{}, fmt.Errorf("%w: %s %d/W%d", ErrBlockMissing, surface, year, week)
	}

	layout := s.blocks.Layout()
	rect := grid.Rect{
		Top:    block.StartRow,
		Left:   layout.DaysStartCol,
		Bottom: block.EndRow(layout),
		Right:  layout.DaysStartCol + layout.DaysPerWeek - 1,
	}
	values, err := s.grids.ReadRect(ctx, surface, rect)
	if err != nil {
		return schedule.Week{}, fmt.Errorf("read week %d/W%d on %s: %w", year, week, surface, err)
	}

	rows := make([]schedule.WeekRow, layout.SlotsPerDay)
	for slot := 0; slot < layout.SlotsPerDay; slot++ {
		days := make([]string, layout.DaysPerWeek)
		for day := 0; day < layout.DaysPerWeek; day++ {
			days[day] = schedule.JoinTokens(schedule.ParseTokens(values[slot][day]))
		}
		rows[slot] = schedule.WeekRow{Time: layout.TimeSlots[slot], Days: days}
	}

	return schedule.Week{Surface: surface, Year: year, Week: week, Rows: rows}, nil
}

// GetScheduleRange walks consecutive weeks on several surfaces in
// parallel. Missing blocks are skipped, not errors: a team that has not
// been extended that far simply contributes fewer weeks.
func (s *ScheduleService) GetScheduleRange(ctx context.Context, surfaces []string, startYear, startWeek, weeks int) ([]TeamWeeks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GetScheduleRange")
	defer span.End()

	if len(surfaces) == 0 {
		return nil, fmt.Errorf("%w: at least one surface is required", ErrInvalidInput)
	}
	if err := validateWeekRef(surfaces[0], startYear, startWeek); err != nil {
		return nil, err
	}
	if weeks < 1 {
		return nil, fmt.Errorf("%w: weeks must be positive, got %d", ErrInvalidInput, weeks)
	}
	if weeks > MaxRangeIterations {
		weeks = MaxRangeIterations
	}

	loc := s.blocks.Location()
	out := make([]TeamWeeks, len(surfaces))

	var wg conc.WaitGroup
	for i, surface := range surfaces {
		i, surface := i, strings.TrimSpace(surface)
		wg.Go(func() {
			result := TeamWeeks{Surface: surface}
			year, week := startYear, startWeek
			for n := 0; n < weeks; n++ {
				w, err := s.cachedWeek(ctx, surface, year, week)
				switch {
				case err == nil:
					result.Weeks = append(result.Weeks, w)
				case errors.Is(err, ErrBlockMissing):
					// fallthrough to next week
				default:
					s.logger.WarnContext(ctx, "range fetch week failed",
						"surface", surface,
						"year", year,
						"week", week,
						"error", err,
					)
				}
				year, week = schedule.NextWeek(year, week, loc)
			}
			out[i] = result
		})
	}
	wg.Wait()

	return out, nil
}

// UpdateAvailability toggles one week's selections.
func (s *ScheduleService) UpdateAvailability(ctx context.Context, surface string, year, week int, selections []schedule.Selection, token string, mode schedule.ToggleMode) (ToggleResult, error) {
	return s.UpdateAvailabilityMultiWeek(ctx, UpdateAvailabilityInput{
		Surface: surface,
		Token:   token,
		Mode:    mode,
		Weeks: []schedule.WeekSelection{
			{Year: year, Week: week, Selections: selections},
		},
	})
}

// UpdateAvailabilityMultiWeek toggles the caller's token across several
// weeks with one read and one write per touched week: valid selections
// define a bounding rectangle, the rectangle is read, toggled in memory,
// and written back.
func (s *ScheduleService) UpdateAvailabilityMultiWeek(ctx context.Context, input UpdateAvailabilityInput) (ToggleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.UpdateAvailabilityMultiWeek")
	defer span.End()

	input.Surface = strings.TrimSpace(input.Surface)
	input.Token = schedule.NormalizeToken(input.Token)

	if input.Surface == "" {
		return ToggleResult{}, fmt.Errorf("%w: surface is required", ErrInvalidInput)
	}
	if err := player.ValidateInitials(input.Token); err != nil {
		return ToggleResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !input.Mode.Valid() {
		return ToggleResult{}, fmt.Errorf("%w: toggle mode must be add or remove, got %q", ErrInvalidInput, input.Mode)
	}
	if len(input.Weeks) == 0 {
		return ToggleResult{}, fmt.Errorf("%w: no weeks selected", ErrInvalidInput)
	}
	for _, w := range input.Weeks {
		if err := validateWeekRef(input.Surface, w.Year, w.Week); err != nil {
			return ToggleResult{}, err
		}
		if len(w.Selections) == 0 {
			return ToggleResult{}, fmt.Errorf("%w: empty selection list for %d/W%d", ErrInvalidInput, w.Year, w.Week)
		}
	}

	exists, err := s.grids.SurfaceExists(ctx, input.Surface)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("check surface %s: %w", input.Surface, err)
	}
	if !exists {
		return ToggleResult{}, fmt.Errorf("%w: surface %s", ErrNotFound, input.Surface)
	}

	var result ToggleResult
	err = s.gate.With(ctx, []string{input.Surface}, func(ctx context.Context) error {
		for _, weekSel := range input.Weeks {
			weekResult, err := s.toggleWeek(ctx, input.Surface, weekSel, input.Token, input.Mode)
			if err != nil {
				return err
			}
			result.CellsModified += weekResult.CellsModified
			result.InvalidCells += weekResult.InvalidCells
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, grid.ErrProtected) {
			return ToggleResult{}, fmt.Errorf("%w: %s", ErrSurfaceBusy, input.Surface)
		}
		return ToggleResult{}, err
	}

	for _, weekSel := range input.Weeks {
		s.cache.Delete(ctx, scheduleCacheKey(input.Surface, weekSel.Year, weekSel.Week))
	}

	s.logger.InfoContext(ctx, "availability updated",
		"surface", input.Surface,
		"token", input.Token,
		"mode", string(input.Mode),
		"weeks", len(input.Weeks),
		"cells_modified", result.CellsModified,
		"invalid_cells", result.InvalidCells,
	)

	return result, nil
}

func (s *ScheduleService) toggleWeek(ctx context.Context, surface string, weekSel schedule.WeekSelection, token string, mode schedule.ToggleMode) (ToggleResult, error) {
	layout := s.blocks.Layout()

	block, _, err := s.blocks.Ensure(ctx, surface, weekSel.Year, weekSel.Week)
	if err != nil {
		return ToggleResult{}, err
	}

	var result ToggleResult
	type cellRef struct{ row, col int }
	valid := make([]cellRef, 0, len(weekSel.Selections))
	seen := make(map[cellRef]struct{}, len(weekSel.Selections))
	for _, sel := range weekSel.Selections {
		if !layout.InBounds(sel.Slot, sel.Day) {
			result.InvalidCells++
			continue
		}
		row, col := block.Cell(layout, sel.Slot, sel.Day)
		ref := cellRef{row: row, col: col}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		valid = append(valid, ref)
	}
	if len(valid) == 0 {
		return result, nil
	}

	// One bounding rectangle covers the batch: one read, one write.
	rect := grid.RectAround(valid[0].row, valid[0].col)
	for _, ref := range valid[1:] {
		rect = rect.Bound(ref.row, ref.col)
	}

	values, err := s.grids.ReadRect(ctx, surface, rect)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("read toggle rect on %s: %w", surface, err)
	}

	changed := make([]grid.Cell, 0, len(valid))
	for _, ref := range valid {
		i, j := ref.row-rect.Top, ref.col-rect.Left

		var next string
		var modified bool
		if mode == schedule.ToggleAdd {
			next, modified = schedule.AddToken(values[i][j], token)
		} else {
			next, modified = schedule.RemoveToken(values[i][j], token)
		}
		values[i][j] = next
		if modified {
			result.CellsModified++
			changed = append(changed, grid.Cell{Row: ref.row, Col: ref.col, Value: next})
		}
	}

	if err := s.grids.WriteRect(ctx, surface, rect, values); err != nil {
		return ToggleResult{}, fmt.Errorf("write toggle rect on %s: %w", surface, err)
	}

	s.recolor(ctx, surface, block, changed)

	return result, nil
}

// recolor refreshes backgrounds for changed cells. Colors are cosmetic:
// failures are logged and swallowed.
func (s *ScheduleService) recolor(ctx context.Context, surface string, block schedule.WeekBlock, cells []grid.Cell) {
	if !s.colorCoding || len(cells) == 0 {
		return
	}

	layout := s.blocks.Layout()
	for i := range cells {
		day := cells[i].Col - layout.DaysStartCol
		cells[i].Color = layout.ColorForOccupancy(schedule.TokenCount(cells[i].Value), day)
	}
	if err := s.grids.SetColors(ctx, surface, cells); err != nil {
		s.logger.WarnContext(ctx, "recolor cells failed", "surface", surface, "error", err)
	}
}

// RemoveParticipant strips a token from provisioned blocks on the
// surface, used when a member leaves the team. With currentAndFutureOnly
// set, blocks before the current week keep their history.
func (s *ScheduleService) RemoveParticipant(ctx context.Context, surface, token string, currentAndFutureOnly bool) (ToggleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.RemoveParticipant")
	defer span.End()

	surface = strings.TrimSpace(surface)
	token = schedule.NormalizeToken(token)
	if surface == "" {
		return ToggleResult{}, fmt.Errorf("%w: surface is required", ErrInvalidInput)
	}
	if token == "" {
		return ToggleResult{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	exists, err := s.grids.SurfaceExists(ctx, surface)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("check surface %s: %w", surface, err)
	}
	if !exists {
		return ToggleResult{}, fmt.Errorf("%w: surface %s", ErrNotFound, surface)
	}

	var cutYear, cutWeek int
	if currentAndFutureOnly {
		cutYear, cutWeek = schedule.WeekOfDate(s.now().In(s.blocks.Location()))
	}

	layout := s.blocks.Layout()
	var result ToggleResult
	err = s.gate.With(ctx, []string{surface}, func(ctx context.Context) error {
		blocks, err := s.blocks.FindAll(ctx, surface)
		if err != nil {
			return err
		}

		for _, block := range blocks {
			if currentAndFutureOnly {
				past := block.Year < cutYear || (block.Year == cutYear && block.Week < cutWeek)
				if past {
					continue
				}
			}

			rect := grid.Rect{
				Top:    block.StartRow,
				Left:   layout.DaysStartCol,
				Bottom: block.EndRow(layout),
				Right:  layout.DaysStartCol + layout.DaysPerWeek - 1,
			}
			values, err := s.grids.ReadRect(ctx, surface, rect)
			if err != nil {
				return fmt.Errorf("read block %d/W%d on %s: %w", block.Year, block.Week, surface, err)
			}

			changed := make([]grid.Cell, 0, 8)
			for i, row := range values {
				for j, v := range row {
					next, modified := schedule.RemoveToken(v, token)
					if !modified {
						continue
					}
					values[i][j] = next
					result.CellsModified++
					changed = append(changed, grid.Cell{Row: rect.Top + i, Col: rect.Left + j, Value: next})
				}
			}
			if len(changed) == 0 {
				continue
			}

			if err := s.grids.WriteRect(ctx, surface, rect, values); err != nil {
				return fmt.Errorf("write block %d/W%d on %s: %w", block.Year, block.Week, surface, err)
			}
			s.recolor(ctx, surface, block, changed)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, grid.ErrProtected) {
			return ToggleResult{}, fmt.Errorf("%w: %s", ErrSurfaceBusy, surface)
		}
		return ToggleResult{}, err
	}

	s.cache.DeletePrefix(ctx, "sched:"+surface+":")

	return result, nil
}

// InvalidateSurface drops every cached week for a surface.
func (s *ScheduleService) InvalidateSurface(ctx context.Context, surface string) {
	s.cache.DeletePrefix(ctx, "sched:"+surface+":")
}

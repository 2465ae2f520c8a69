package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	"github.com/teamsched/schedule-manager/internal/usecase"
)

type weekRowDTO struct {
	Time string   `json:"time"`
	Days []string `json:"days"`
}

type weekDTO struct {
	Surface string       `json:"surface"`
	Year    int          `json:"year"`
	Week    int          `json:"week"`
	Rows    []weekRowDTO `json:"rows"`
}

type scheduleDTO struct {
	Week   weekDTO          `json:"week"`
	Roster []rosterEntryDTO `json:"roster"`
}

type teamWeeksDTO struct {
	Surface string    `json:"surface"`
	Weeks   []weekDTO `json:"weeks"`
}

type selectionDTO struct {
	Slot int `json:"slot"`
	Day  int `json:"day"`
}

type weekSelectionDTO struct {
	Year       int            `json:"year" validate:"required"`
	Week       int            `json:"week" validate:"required"`
	Selections []selectionDTO `json:"selections" validate:"required,min=1"`
}

type updateAvailabilityRequest struct {
	Token string             `json:"token" validate:"required,max=2"`
	Mode  string             `json:"mode" validate:"required,oneof=add remove"`
	Weeks []weekSelectionDTO `json:"weeks" validate:"required,min=1,dive"`
}

type removeParticipantRequest struct {
	Token                string `json:"token" validate:"required,max=2"`
	CurrentAndFutureOnly bool   `json:"current_and_future_only"`
}

func weekToDTO(w schedule.Week) weekDTO {
	rows := make([]weekRowDTO, 0, len(w.Rows))
	for _, row := range w.Rows {
		rows = append(rows, weekRowDTO{Time: row.Time, Days: row.Days})
	}
	return weekDTO{Surface: w.Surface, Year: w.Year, Week: w.Week, Rows: rows}
}

func parseWeekPath(r *http.Request) (surface string, year, week int, err error) {
	surface = strings.TrimSpace(r.PathValue("surface"))
	year, err = strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: year must be an integer", usecase.ErrInvalidInput)
	}
	week, err = strconv.Atoi(r.PathValue("week"))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: week must be an integer", usecase.ErrInvalidInput)
	}
	return surface, year, week, nil
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	surface, year, week, err := parseWeekPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.scheduleService.GetSchedule(ctx, surface, year, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule failed", "surface", surface, "year", year, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleDTO{Week: weekToDTO(item), Roster: h.scheduleRoster(ctx, surface)})
}

// scheduleRoster resolves the roster shown alongside a week. A roster
// lookup failure never fails the schedule read.
func (h *Handler) scheduleRoster(ctx context.Context, surface string) []rosterEntryDTO {
	items := make([]rosterEntryDTO, 0, 8)

	t, err := h.teamService.GetTeamBySurface(ctx, surface)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule roster lookup failed", "surface", surface, "error", err)
		return items
	}
	entries, err := h.rosterService.TeamRoster(ctx, t.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule roster lookup failed", "surface", surface, "team_id", t.ID, "error", err)
		return items
	}
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}
	return items
}

func (h *Handler) GetScheduleRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScheduleRange")
	defer span.End()

	query := r.URL.Query()
	surfaces := make([]string, 0, 4)
	for _, raw := range strings.Split(query.Get("surfaces"), ",") {
		if s := strings.TrimSpace(raw); s != "" {
			surfaces = append(surfaces, s)
		}
	}

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: year must be an integer", usecase.ErrInvalidInput))
		return
	}
	week, err := strconv.Atoi(query.Get("week"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: week must be an integer", usecase.ErrInvalidInput))
		return
	}
	weeks := 4
	if raw := strings.TrimSpace(query.Get("weeks")); raw != "" {
		weeks, err = strconv.Atoi(raw)
		if err != nil || weeks <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: weeks must be a positive integer", usecase.ErrInvalidInput))
			return
		}
	}

	results, err := h.scheduleService.GetScheduleRange(ctx, surfaces, year, week, weeks)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule range failed", "surfaces", strings.Join(surfaces, ","), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamWeeksDTO, 0, len(results))
	for _, tw := range results {
		dto := teamWeeksDTO{Surface: tw.Surface, Weeks: make([]weekDTO, 0, len(tw.Weeks))}
		for _, wk := range tw.Weeks {
			dto.Weeks = append(dto.Weeks, weekToDTO(wk))
		}
		items = append(items, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateAvailability")
	defer span.End()

	surface := strings.TrimSpace(r.PathValue("surface"))

	var req updateAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpdateAvailabilityInput{
		Surface: surface,
		Token:   req.Token,
		Mode:    schedule.ToggleMode(req.Mode),
		Weeks:   make([]schedule.WeekSelection, 0, len(req.Weeks)),
	}
	for _, wk := range req.Weeks {
		sel := schedule.WeekSelection{Year: wk.Year, Week: wk.Week, Selections: make([]schedule.Selection, 0, len(wk.Selections))}
		for _, s := range wk.Selections {
			sel.Selections = append(sel.Selections, schedule.Selection{Slot: s.Slot, Day: s.Day})
		}
		input.Weeks = append(input.Weeks, sel)
	}

	result, err := h.scheduleService.UpdateAvailabilityMultiWeek(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update availability failed", "surface", surface, "token", req.Token, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RemoveScheduleParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveScheduleParticipant")
	defer span.End()

	surface := strings.TrimSpace(r.PathValue("surface"))

	var req removeParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduleService.RemoveParticipant(ctx, surface, req.Token, req.CurrentAndFutureOnly)
	if err != nil {
		h.logger.WarnContext(ctx, "remove participant failed", "surface", surface, "token", req.Token, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

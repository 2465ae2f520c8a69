package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/team"
	"github.com/teamsched/schedule-manager/internal/usecase"
)

type teamDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Division     string `json:"division"`
	JoinCode     string `json:"joinCode,omitempty"`
	Surface      string `json:"surface"`
	LogoURL      string `json:"logoUrl,omitempty"`
	MaxPlayers   int    `json:"maxPlayers"`
	IsActive     bool   `json:"isActive"`
	IsPublic     bool   `json:"isPublic"`
	PlayerCount  int    `json:"playerCount"`
	PlayerList   string `json:"playerList,omitempty"`
	InitialsList string `json:"initialsList,omitempty"`
	ArchivedAt   string `json:"archivedAt,omitempty"`
}

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Division    string `json:"division" validate:"required,oneof=1 2 3"`
	LeaderEmail string `json:"leader_email" validate:"required,email"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
	IsPublic    bool   `json:"is_public"`
	MaxPlayers  int    `json:"max_players" validate:"omitempty,gt=0,lte=10"`
}

type updateTeamRequest struct {
	Name     string `json:"name" validate:"omitempty,min=3,max=50"`
	Division string `json:"division" validate:"omitempty,oneof=1 2 3"`
	LogoURL  string `json:"logo_url" validate:"omitempty,url"`
	IsPublic *bool  `json:"is_public"`
}

func teamToDTO(t team.Team, includeJoinCode bool) teamDTO {
	dto := teamDTO{
		ID:           t.ID,
		Name:         t.Name,
		Division:     t.Division,
		Surface:      t.SurfaceName,
		LogoURL:      t.LogoURL,
		MaxPlayers:   t.MaxPlayers,
		IsActive:     t.IsActive,
		IsPublic:     t.IsPublic,
		PlayerCount:  t.PlayerCount,
		PlayerList:   t.PlayerList,
		InitialsList: t.InitialsList,
	}
	if includeJoinCode {
		dto.JoinCode = t.JoinCode
	}
	if t.ArchivedAt != nil {
		dto.ArchivedAt = t.ArchivedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		Name:        req.Name,
		Division:    req.Division,
		LeaderEmail: req.LeaderEmail,
		LogoURL:     req.LogoURL,
		IsPublic:    req.IsPublic,
		MaxPlayers:  req.MaxPlayers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created, true))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	item, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item, false))
}

func (h *Handler) GetTeamByJoinCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamByJoinCode")
	defer span.End()

	code := strings.TrimSpace(r.PathValue("joinCode"))
	item, err := h.teamService.GetTeamByJoinCode(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "get team by join code failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item, false))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	includeInactive := strings.EqualFold(r.URL.Query().Get("include_inactive"), "true")
	teams, err := h.teamService.ListTeams(ctx, includeInactive)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t, false))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))

	var req updateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.teamService.UpdateTeam(ctx, usecase.UpdateTeamInput{
		TeamID:   teamID,
		Name:     req.Name,
		Division: req.Division,
		LogoURL:  req.LogoURL,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated, false))
}

func (h *Handler) ArchiveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ArchiveTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	archived, err := h.teamService.ArchiveTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "archive team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(archived, false))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if err := h.teamService.DeleteTeam(ctx, teamID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SyncTeamFields(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTeamFields")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	synced, err := h.teamService.SyncDenormalizedFields(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync team fields failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(synced, false))
}

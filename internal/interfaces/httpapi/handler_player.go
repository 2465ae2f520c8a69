package httpapi

import (
	"net/http"
	"strings"

	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/usecase"
)

type membershipDTO struct {
	TeamID   string `json:"teamId"`
	Initials string `json:"initials"`
	Role     string `json:"role"`
}

type playerDTO struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	DisplayName   string          `json:"displayName"`
	DiscordHandle string          `json:"discordHandle,omitempty"`
	IsActive      bool            `json:"isActive"`
	Memberships   []membershipDTO `json:"memberships"`
}

type registerPlayerRequest struct {
	Email         string `json:"email" validate:"required,email"`
	DisplayName   string `json:"display_name" validate:"required,max=50"`
	DiscordHandle string `json:"discord_handle" validate:"omitempty,max=50"`
}

type updatePlayerProfileRequest struct {
	DisplayName   string `json:"display_name" validate:"omitempty,max=50"`
	DiscordHandle string `json:"discord_handle" validate:"omitempty,max=50"`
}

type joinTeamRequest struct {
	JoinCode string `json:"join_code" validate:"required"`
	Initials string `json:"initials" validate:"required,max=2"`
}

func playerToDTO(p player.Player) playerDTO {
	memberships := make([]membershipDTO, 0, len(p.Memberships))
	for _, m := range p.Memberships {
		memberships = append(memberships, membershipDTO{
			TeamID:   m.TeamID,
			Initials: m.Initials,
			Role:     string(m.Role),
		})
	}

	return playerDTO{
		ID:            p.ID,
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		DiscordHandle: p.DiscordHandle,
		IsActive:      p.IsActive,
		Memberships:   memberships,
	}
}

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerService.Register(ctx, usecase.RegisterPlayerInput{
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		DiscordHandle: req.DiscordHandle,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register player failed", "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	item, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) UpdatePlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerProfile")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))

	var req updatePlayerProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.UpdateProfile(ctx, usecase.UpdatePlayerProfileInput{
		PlayerID:      playerID,
		DisplayName:   req.DisplayName,
		DiscordHandle: req.DiscordHandle,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update player profile failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinTeam")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))

	var req joinTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joined, err := h.playerService.JoinTeam(ctx, usecase.JoinTeamInput{
		PlayerID: playerID,
		JoinCode: req.JoinCode,
		Initials: req.Initials,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join team failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(joined))
}

func (h *Handler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveTeam")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	left, err := h.playerService.LeaveTeam(ctx, playerID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "leave team failed", "player_id", playerID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(left))
}

func (h *Handler) DeactivatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivatePlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	deactivated, err := h.playerService.Deactivate(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "deactivate player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(deactivated))
}

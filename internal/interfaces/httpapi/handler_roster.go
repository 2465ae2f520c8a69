package httpapi

import (
	"net/http"
	"strings"

	"github.com/teamsched/schedule-manager/internal/domain/roster"
)

type rosterEntryDTO struct {
	TeamID        string `json:"teamId"`
	PlayerID      string `json:"playerId"`
	DisplayName   string `json:"displayName"`
	Initials      string `json:"initials"`
	Role          string `json:"role"`
	DiscordHandle string `json:"discordHandle,omitempty"`
}

func rosterEntryToDTO(e roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		TeamID:        e.TeamID,
		PlayerID:      e.PlayerID,
		DisplayName:   e.DisplayName,
		Initials:      e.Initials,
		Role:          e.Role,
		DiscordHandle: e.DiscordHandle,
	}
}

func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamRoster")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	entries, err := h.rosterService.TeamRoster(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team roster failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedules/range", handler.GetScheduleRange)
	mux.HandleFunc("GET /v1/schedules/{surface}/{year}/{week}", handler.GetSchedule)
	mux.HandleFunc("POST /v1/schedules/{surface}/availability", handler.UpdateAvailability)
	mux.HandleFunc("POST /v1/schedules/{surface}/participants/remove", handler.RemoveScheduleParticipant)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/by-code/{joinCode}", handler.GetTeamByJoinCode)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("POST /v1/teams/{teamID}/archive", handler.ArchiveTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
	mux.HandleFunc("POST /v1/teams/{teamID}/sync", handler.SyncTeamFields)
	mux.HandleFunc("GET /v1/teams/{teamID}/roster", handler.GetTeamRoster)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/players", handler.RegisterPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("PUT /v1/players/{playerID}", handler.UpdatePlayerProfile)
	mux.HandleFunc("POST /v1/players/{playerID}/join", handler.JoinTeam)
	mux.HandleFunc("POST /v1/players/{playerID}/leave/{teamID}", handler.LeaveTeam)
	mux.HandleFunc("POST /v1/players/{playerID}/deactivate", handler.DeactivatePlayer)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/extend-week-blocks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunExtendWeekBlocksJob)))
	mux.Handle("POST /v1/internal/jobs/rebuild-roster-index", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRebuildRosterIndexJob)))
}

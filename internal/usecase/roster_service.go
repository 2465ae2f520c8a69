package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/domain/roster"
	"github.com/teamsched/schedule-manager/internal/domain/team"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
)

// RosterService maintains the fast-lookup roster index. The index is an
// accelerator over player records: maintenance failures are logged and
// swallowed, reads fall back to a registry scan, and Rebuild recovers
// the whole index from scratch.
type RosterService struct {
	rosters roster.Repository
	players player.Repository
	teams   team.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewRosterService(
	rosters roster.Repository,
	players player.Repository,
	teams team.Repository,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		rosters: rosters,
		players: players,
		teams:   teams,
		logger:  logger,
		now:     time.Now,
	}
}

func entryFor(p player.Player, m player.Membership, indexedAt time.Time) roster.Entry {
	return roster.Entry{
		TeamID:        m.TeamID,
		PlayerID:      p.ID,
		DisplayName:   p.DisplayName,
		Initials:      m.Initials,
		Role:          string(m.Role),
		DiscordHandle: p.DiscordHandle,
		IndexedAt:     indexedAt,
	}
}

// RecordJoin adds the index row for a new membership.
func (s *RosterService) RecordJoin(ctx context.Context, p player.Player, m player.Membership) {
	e := entryFor(p, m, s.now())
	if err := e.Validate(); err != nil {
		s.logger.WarnContext(ctx, "skip roster index add", "team_id", m.TeamID, "player_id", p.ID, "error", err)
		return
	}
	if err := s.rosters.Add(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "roster index add failed", "team_id", m.TeamID, "player_id", p.ID, "error", err)
	}
}

// RecordLeave removes the index row for a membership.
func (s *RosterService) RecordLeave(ctx context.Context, teamID, playerID string) {
	if err := s.rosters.Remove(ctx, teamID, playerID); err != nil {
		s.logger.WarnContext(ctx, "roster index remove failed", "team_id", teamID, "player_id", playerID, "error", err)
	}
}

// RecordProfileUpdate refreshes denormalized fields on every index row
// the player appears in.
func (s *RosterService) RecordProfileUpdate(ctx context.Context, p player.Player) {
	for _, m := range p.Memberships {
		if err := s.rosters.Update(ctx, entryFor(p, m, s.now())); err != nil {
			s.logger.WarnContext(ctx, "roster index update failed", "team_id", m.TeamID, "player_id", p.ID, "error", err)
		}
	}
}

// RecordTeamRemoval drops every index row for a team.
func (s *RosterService) RecordTeamRemoval(ctx context.Context, teamID string) {
	if err := s.rosters.RemoveTeam(ctx, teamID); err != nil {
		s.logger.WarnContext(ctx, "roster index team removal failed", "team_id", teamID, "error", err)
	}
}

// TeamRoster reads a team's roster from the index, falling back to a
// full registry scan when the index has no rows for the team.
func (s *RosterService) TeamRoster(ctx context.Context, teamID string) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.TeamRoster")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	entries, err := s.rosters.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "roster index read failed, falling back to registry scan", "team_id", teamID, "error", err)
	} else if len(entries) > 0 {
		return entries, nil
	}

	return s.scanTeamRoster(ctx, teamID)
}

// scanTeamRoster is the slow path: derive the roster from player records.
func (s *RosterService) scanTeamRoster(ctx context.Context, teamID string) ([]roster.Entry, error) {
	members, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("scan team roster %s: %w", teamID, err)
	}

	now := s.now()
	out := make([]roster.Entry, 0, len(members))
	for _, p := range members {
		if !p.IsActive {
			continue
		}
		m, ok := p.MembershipFor(teamID)
		if !ok {
			continue
		}
		out = append(out, entryFor(p, m, now))
	}

	return out, nil
}

// InitialsInUse reports whether initials are taken by an active member of
// the team, ignoring excludePlayerID so a player can keep their own
// initials on update.
func (s *RosterService) InitialsInUse(ctx context.Context, teamID, initials, excludePlayerID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.InitialsInUse")
	defer span.End()

	initials = strings.ToUpper(strings.TrimSpace(initials))
	if initials == "" {
		return false, fmt.Errorf("%w: initials are required", ErrInvalidInput)
	}

	entries, err := s.TeamRoster(ctx, teamID)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		if e.PlayerID == excludePlayerID {
			continue
		}
		if strings.EqualFold(e.Initials, initials) {
			return true, nil
		}
	}

	return false, nil
}

// Rebuild reconstructs the entire index from player records, skipping
// inactive players and memberships on inactive teams. It produces
// exactly what incremental maintenance would have.
func (s *RosterService) Rebuild(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Rebuild")
	defer span.End()

	activeTeams, err := s.teams.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("list active teams: %w", err)
	}
	activeTeamIDs := make(map[string]struct{}, len(activeTeams))
	for _, t := range activeTeams {
		activeTeamIDs[t.ID] = struct{}{}
	}

	players, err := s.players.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("list active players: %w", err)
	}

	now := s.now()
	entries := make([]roster.Entry, 0, len(players))
	for _, p := range players {
		for _, m := range p.Memberships {
			if _, active := activeTeamIDs[m.TeamID]; !active {
				continue
			}
			entries = append(entries, entryFor(p, m, now))
		}
	}

	if err := s.rosters.Replace(ctx, entries); err != nil {
		return 0, fmt.Errorf("replace roster index: %w", err)
	}

	s.logger.InfoContext(ctx, "roster index rebuilt", "entries", len(entries))

	return len(entries), nil
}

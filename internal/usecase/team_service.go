package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/teamsched/schedule-manager/internal/domain/grid"
	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/domain/roster"
	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	"github.com/teamsched/schedule-manager/internal/domain/team"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
	"github.com/teamsched/schedule-manager/internal/platform/protection"
)

const joinCodeLength = 8

// IDGenerator mints opaque IDs and human-shareable join codes.
type IDGenerator interface {
	NewID() (string, error)
	NewCode(length int) (string, error)
}

// rosterCacheRefresher is implemented by the caching roster decorator;
// sync passes use it to re-prime the fast lookup after a write.
type rosterCacheRefresher interface {
	RefreshTeam(ctx context.Context, teamID string) error
}

// CreateTeamInput is the incoming payload for team creation.
type CreateTeamInput struct {
	Name        string
	Division    string
	LeaderEmail string
	LogoURL     string
	IsPublic    bool
	MaxPlayers  int
}

// UpdateTeamInput carries the mutable profile fields.
type UpdateTeamInput struct {
	TeamID   string
	Name     string
	Division string
	LogoURL  string
	IsPublic *bool
}

type TeamService struct {
	teams     team.Repository
	players   player.Repository
	rosters   roster.Repository
	rosterSvc *RosterService
	schedules *ScheduleService
	blocks    *WeekBlockStore
	gate      *protection.Gate
	idGen     IDGenerator
	maxWeeks  int
	logger    *logging.Logger
	now       func() time.Time
}

func NewTeamService(
	teams team.Repository,
	players player.Repository,
	rosters roster.Repository,
	rosterSvc *RosterService,
	schedules *ScheduleService,
	blocks *WeekBlockStore,
	gate *protection.Gate,
	idGen IDGenerator,
	maxWeeks int,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWeeks <= 0 {
		maxWeeks = 4
	}

	return &TeamService{
		teams:     teams,
		players:   players,
		rosters:   rosters,
		rosterSvc: rosterSvc,
		schedules: schedules,
		blocks:    blocks,
		gate:      gate,
		idGen:     idGen,
		maxWeeks:  maxWeeks,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateTeam allocates the id, join code, and availability surface, and
// provisions the first weeks of blocks starting at the current week.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Division = strings.TrimSpace(input.Division)
	input.LeaderEmail = strings.ToLower(strings.TrimSpace(input.LeaderEmail))
	if input.MaxPlayers == 0 {
		input.MaxPlayers = team.MaxPlayers
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: generate team id: %v", ErrDependencyUnavailable, err)
	}

	joinCode, err := s.uniqueJoinCode(ctx)
	if err != nil {
		return team.Team{}, err
	}

	surfaceName, err := s.uniqueSurfaceName(ctx, input.Name)
	if err != nil {
		return team.Team{}, err
	}

	now := s.now()
	t := team.Team{
		ID:          teamID,
		Name:        input.Name,
		Division:    input.Division,
		LeaderEmail: input.LeaderEmail,
		JoinCode:    joinCode,
		SurfaceName: surfaceName,
		LogoURL:     strings.TrimSpace(input.LogoURL),
		MaxPlayers:  input.MaxPlayers,
		IsActive:    true,
		IsPublic:    input.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.blocks.ProvisionSurface(ctx, surfaceName); err != nil {
		return team.Team{}, err
	}

	year, week := schedule.WeekOfDate(now.In(s.blocks.Location()))
	err = s.gate.With(ctx, []string{surfaceName}, func(ctx context.Context) error {
		y, w := year, week
		for i := 0; i < s.maxWeeks; i++ {
			if _, _, err := s.blocks.Ensure(ctx, surfaceName, y, w); err != nil {
				return err
			}
			y, w = schedule.NextWeek(y, w, s.blocks.Location())
		}
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	if err := s.teams.Create(ctx, t); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created",
		"team_id", t.ID,
		"name", t.Name,
		"surface", t.SurfaceName,
	)

	return t, nil
}

func (s *TeamService) uniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := s.idGen.NewCode(joinCodeLength)
		if err != nil {
			return "", fmt.Errorf("%w: generate join code: %v", ErrDependencyUnavailable, err)
		}
		_, exists, err := s.teams.GetByJoinCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check join code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: could not allocate a unique join code", ErrDependencyUnavailable)
}

func (s *TeamService) uniqueSurfaceName(ctx context.Context, base string) (string, error) {
	if err := grid.ValidateSurfaceName(base); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.blocks.grids.SurfaceExists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("check surface name: %w", err)
		}
		if !exists {
			return name, nil
		}
		suffix, err := s.idGen.NewCode(4)
		if err != nil {
			return "", fmt.Errorf("%w: generate surface suffix: %v", ErrDependencyUnavailable, err)
		}
		name = base + " " + suffix
	}

	return "", fmt.Errorf("%w: surface name %q", ErrConflict, base)
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	t, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	return t, nil
}

func (s *TeamService) GetTeamByJoinCode(ctx context.Context, joinCode string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamByJoinCode")
	defer span.End()

	joinCode = strings.ToUpper(strings.TrimSpace(joinCode))
	if joinCode == "" {
		return team.Team{}, fmt.Errorf("%w: join code is required", ErrInvalidInput)
	}

	t, exists, err := s.teams.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by join code: %w", err)
	}
	if !exists || !t.IsActive {
		return team.Team{}, fmt.Errorf("%w: join code %s", ErrNotFound, joinCode)
	}

	return t, nil
}

func (s *TeamService) GetTeamBySurface(ctx context.Context, surfaceName string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamBySurface")
	defer span.End()

	surfaceName = strings.TrimSpace(surfaceName)
	if surfaceName == "" {
		return team.Team{}, fmt.Errorf("%w: surface name is required", ErrInvalidInput)
	}

	t, exists, err := s.teams.GetBySurfaceName(ctx, surfaceName)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by surface: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: surface %s", ErrNotFound, surfaceName)
	}

	return t, nil
}

func (s *TeamService) ListTeams(ctx context.Context, includeInactive bool) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	teams, err := s.teams.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateTeam")
	defer span.End()

	t, err := s.GetTeam(ctx, input.TeamID)
	if err != nil {
		return team.Team{}, err
	}
	if t.Archived() {
		return team.Team{}, fmt.Errorf("%w: team %s is archived", ErrConflict, t.ID)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		t.Name = name
	}
	if division := strings.TrimSpace(input.Division); division != "" {
		t.Division = division
	}
	if logo := strings.TrimSpace(input.LogoURL); logo != "" {
		t.LogoURL = logo
	}
	if input.IsPublic != nil {
		t.IsPublic = *input.IsPublic
	}
	t.UpdatedAt = s.now()

	if err := t.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teams.Update(ctx, t); err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	return t, nil
}

// ArchiveTeam soft-deletes: the surface is renamed with an archive
// suffix and left frozen, members are disassociated, and the team record
// is deactivated. Hard deletion requires a prior archive.
func (s *TeamService) ArchiveTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ArchiveTeam")
	defer span.End()

	t, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}
	if t.Archived() {
		return team.Team{}, fmt.Errorf("%w: team %s already archived", ErrConflict, t.ID)
	}

	now := s.now()
	archivedSurface := t.SurfaceName + "_ARCHIVED_" + now.In(s.blocks.Location()).Format("20060102")
	if err := s.blocks.grids.RenameSurface(ctx, t.SurfaceName, archivedSurface); err != nil {
		return team.Team{}, fmt.Errorf("archive surface rename: %w", err)
	}
	s.schedules.InvalidateSurface(ctx, t.SurfaceName)

	s.disassociateMembers(ctx, t.ID)
	s.rosterSvc.RecordTeamRemoval(ctx, t.ID)

	t.SurfaceName = archivedSurface
	t.IsActive = false
	t.ArchivedAt = &now
	t.PlayerCount = 0
	t.PlayerList = ""
	t.InitialsList = ""
	t.UpdatedAt = now
	if err := s.teams.Update(ctx, t); err != nil {
		return team.Team{}, fmt.Errorf("archive team: %w", err)
	}

	s.logger.InfoContext(ctx, "team archived", "team_id", t.ID, "surface", archivedSurface)

	return t, nil
}

// disassociateMembers clears the team slot on every member. Failures on
// individual players are logged and skipped so one bad record does not
// block the archive.
func (s *TeamService) disassociateMembers(ctx context.Context, teamID string) {
	members, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "list members for disassociation failed", "team_id", teamID, "error", err)
		return
	}

	for _, p := range members {
		kept := p.Memberships[:0]
		for _, m := range p.Memberships {
			if m.TeamID != teamID {
				kept = append(kept, m)
			}
		}
		p.Memberships = kept
		p.UpdatedAt = s.now()
		if err := s.players.Update(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "disassociate member failed", "team_id", teamID, "player_id", p.ID, "error", err)
		}
	}
}

// DeleteTeam permanently removes an archived team and its surface.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeleteTeam")
	defer span.End()

	t, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !t.Archived() {
		return fmt.Errorf("%w: team %s must be archived before deletion", ErrConflict, t.ID)
	}

	if err := s.blocks.grids.DeleteSurface(ctx, t.SurfaceName); err != nil {
		s.logger.WarnContext(ctx, "delete archived surface failed", "team_id", t.ID, "surface", t.SurfaceName, "error", err)
	}
	s.schedules.InvalidateSurface(ctx, t.SurfaceName)
	s.rosterSvc.RecordTeamRemoval(ctx, t.ID)

	if err := s.teams.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", t.ID)

	return nil
}

// SyncDenormalizedFields recomputes player count, player list, and
// initials list from the roster index and persists them, then re-primes
// the roster fast lookup. Cache refresh failures are non-fatal.
func (s *TeamService) SyncDenormalizedFields(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SyncDenormalizedFields")
	defer span.End()

	t, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}

	entries, err := s.rosterSvc.TeamRoster(ctx, t.ID)
	if err != nil {
		return team.Team{}, err
	}

	t.PlayerCount = len(entries)
	t.PlayerList = renderPlayerList(entries)
	t.InitialsList = renderInitialsList(entries)
	t.UpdatedAt = s.now()

	if err := s.teams.Update(ctx, t); err != nil {
		return team.Team{}, fmt.Errorf("sync team fields: %w", err)
	}

	if refresher, ok := s.rosters.(rosterCacheRefresher); ok {
		if err := refresher.RefreshTeam(ctx, t.ID); err != nil {
			s.logger.WarnContext(ctx, "roster cache refresh failed", "team_id", t.ID, "error", err)
		}
	}

	return t, nil
}

func renderPlayerList(entries []roster.Entry) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, e := range entries {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(e.DisplayName)
		_, _ = buf.WriteString(" (")
		_, _ = buf.WriteString(e.Initials)
		_, _ = buf.WriteString(")")
	}

	return buf.String()
}

func renderInitialsList(entries []roster.Entry) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, e := range entries {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(e.Initials)
	}

	return buf.String()
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
)

// RegisterPlayerInput is the incoming payload for player registration.
type RegisterPlayerInput struct {
	Email         string
	DisplayName   string
	DiscordHandle string
}

// UpdatePlayerProfileInput carries the mutable profile fields.
type UpdatePlayerProfileInput struct {
	PlayerID      string
	DisplayName   string
	DiscordHandle string
}

// JoinTeamInput asks to add a player to a team under the given initials.
type JoinTeamInput struct {
	PlayerID string
	JoinCode string
	Initials string
}

type PlayerService struct {
	players   player.Repository
	teams     *TeamService
	rosterSvc *RosterService
	schedules *ScheduleService
	idGen     IDGenerator
	logger    *logging.Logger
	now       func() time.Time
}

func NewPlayerService(
	players player.Repository,
	teams *TeamService,
	rosterSvc *RosterService,
	schedules *ScheduleService,
	idGen IDGenerator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		players:   players,
		teams:     teams,
		rosterSvc: rosterSvc,
		schedules: schedules,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PlayerService) Register(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Register")
	defer span.End()

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.DiscordHandle = strings.TrimSpace(input.DiscordHandle)

	if input.Email == "" {
		return player.Player{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	_, exists, err := s.players.GetByEmail(ctx, input.Email)
	if err != nil {
		return player.Player{}, fmt.Errorf("check existing player: %w", err)
	}
	if exists {
		return player.Player{}, fmt.Errorf("%w: player %s already registered", ErrConflict, input.Email)
	}

	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: generate player id: %v", ErrDependencyUnavailable, err)
	}

	now := s.now()
	p := player.Player{
		ID:            playerID,
		Email:         input.Email,
		DisplayName:   input.DisplayName,
		DiscordHandle: input.DiscordHandle,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.players.Create(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player registered", "player_id", p.ID, "email", p.Email)

	return p, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	return p, nil
}

func (s *PlayerService) GetPlayerByEmail(ctx context.Context, email string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayerByEmail")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return player.Player{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	p, exists, err := s.players.GetByEmail(ctx, email)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by email: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, email)
	}

	return p, nil
}

// UpdateProfile changes display name and discord handle, then pushes the
// new values into every roster the player appears on.
func (s *PlayerService) UpdateProfile(ctx context.Context, input UpdatePlayerProfileInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdateProfile")
	defer span.End()

	p, err := s.GetPlayer(ctx, input.PlayerID)
	if err != nil {
		return player.Player{}, err
	}

	if name := strings.TrimSpace(input.DisplayName); name != "" {
		p.DisplayName = name
	}
	if handle := strings.TrimSpace(input.DiscordHandle); handle != "" {
		p.DiscordHandle = handle
	}
	p.UpdatedAt = s.now()

	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.players.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	s.rosterSvc.RecordProfileUpdate(ctx, p)

	return p, nil
}

// JoinTeam adds a membership resolved via the team join code. Initials
// must be unique within the team; capacity limits apply on both sides.
func (s *PlayerService) JoinTeam(ctx context.Context, input JoinTeamInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.JoinTeam")
	defer span.End()

	initials := strings.ToUpper(strings.TrimSpace(input.Initials))
	if err := player.ValidateInitials(initials); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, err := s.GetPlayer(ctx, input.PlayerID)
	if err != nil {
		return player.Player{}, err
	}
	if !p.IsActive {
		return player.Player{}, fmt.Errorf("%w: player %s is inactive", ErrConflict, p.ID)
	}
	if len(p.Memberships) >= player.MaxMemberships {
		return player.Player{}, fmt.Errorf("%w: player %s already belongs to %d teams", ErrConflict, p.ID, player.MaxMemberships)
	}

	t, err := s.teams.GetTeamByJoinCode(ctx, input.JoinCode)
	if err != nil {
		return player.Player{}, err
	}
	if p.OnTeam(t.ID) {
		return player.Player{}, fmt.Errorf("%w: player %s already on team %s", ErrConflict, p.ID, t.ID)
	}

	members, err := s.players.ListByTeam(ctx, t.ID)
	if err != nil {
		return player.Player{}, fmt.Errorf("check team capacity: %w", err)
	}
	if len(members) >= t.MaxPlayers {
		return player.Player{}, fmt.Errorf("%w: team %s is full", ErrConflict, t.ID)
	}

	taken, err := s.rosterSvc.InitialsInUse(ctx, t.ID, initials, p.ID)
	if err != nil {
		return player.Player{}, err
	}
	if taken {
		return player.Player{}, fmt.Errorf("%w: initials %s already in use on team %s", ErrConflict, initials, t.ID)
	}

	now := s.now()
	m := player.Membership{
		TeamID:   t.ID,
		Initials: initials,
		Role:     player.RoleMember,
		JoinedAt: now,
	}
	if strings.EqualFold(p.Email, t.LeaderEmail) {
		m.Role = player.RoleLeader
	}
	p.Memberships = append(p.Memberships, m)
	p.UpdatedAt = now

	if err := s.players.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("join team: %w", err)
	}

	s.rosterSvc.RecordJoin(ctx, p, m)
	s.syncTeam(ctx, t.ID)

	s.logger.InfoContext(ctx, "player joined team",
		"player_id", p.ID,
		"team_id", t.ID,
		"initials", initials,
	)

	return p, nil
}

// LeaveTeam drops the membership, scrubs the player's initials from the
// team schedule, and resyncs the team record.
func (s *PlayerService) LeaveTeam(ctx context.Context, playerID, teamID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.LeaveTeam")
	defer span.End()

	p, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	m, ok := p.MembershipFor(teamID)
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player %s is not on team %s", ErrNotFound, p.ID, teamID)
	}

	kept := make([]player.Membership, 0, len(p.Memberships))
	for _, mm := range p.Memberships {
		if mm.TeamID != teamID {
			kept = append(kept, mm)
		}
	}
	p.Memberships = kept
	p.UpdatedAt = s.now()

	if err := s.players.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("leave team: %w", err)
	}

	s.rosterSvc.RecordLeave(ctx, teamID, p.ID)
	s.scrubSchedule(ctx, teamID, m.Initials)
	s.syncTeam(ctx, teamID)

	s.logger.InfoContext(ctx, "player left team", "player_id", p.ID, "team_id", teamID)

	return p, nil
}

// Deactivate marks the player inactive and removes them from every team
// they belong to.
func (s *PlayerService) Deactivate(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Deactivate")
	defer span.End()

	p, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}

	memberships := p.Memberships
	p.Memberships = nil
	p.IsActive = false
	p.UpdatedAt = s.now()

	if err := s.players.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("deactivate player: %w", err)
	}

	for _, m := range memberships {
		s.rosterSvc.RecordLeave(ctx, m.TeamID, p.ID)
		s.scrubSchedule(ctx, m.TeamID, m.Initials)
		s.syncTeam(ctx, m.TeamID)
	}

	s.logger.InfoContext(ctx, "player deactivated", "player_id", p.ID)

	return p, nil
}

// scrubSchedule removes the player's initials from the team's
// availability surface. Best effort; membership removal already stuck.
func (s *PlayerService) scrubSchedule(ctx context.Context, teamID, initials string) {
	t, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "schedule scrub skipped", "team_id", teamID, "error", err)
		return
	}
	if _, err := s.schedules.RemoveParticipant(ctx, t.SurfaceName, initials, true); err != nil {
		s.logger.WarnContext(ctx, "schedule scrub failed",
			"team_id", teamID,
			"surface", t.SurfaceName,
			"initials", initials,
			"error", err,
		)
	}
}

func (s *PlayerService) syncTeam(ctx context.Context, teamID string) {
	if _, err := s.teams.SyncDenormalizedFields(ctx, teamID); err != nil {
		s.logger.WarnContext(ctx, "team field sync failed", "team_id", teamID, "error", err)
	}
}

package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	"github.com/teamsched/schedule-manager/internal/domain/team"
	"github.com/teamsched/schedule-manager/internal/infrastructure/repository/memory"
	basecache "github.com/teamsched/schedule-manager/internal/platform/cache"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
	"github.com/teamsched/schedule-manager/internal/platform/protection"
)

// fixedNow pins every service clock so week math is deterministic.
// 2026-03-02 is the Monday of ISO week 10.
var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type sequenceIDGen struct {
	n int
}

func (g *sequenceIDGen) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

func (g *sequenceIDGen) NewCode(length int) (string, error) {
	g.n++
	return fmt.Sprintf("%0*d", length, g.n), nil
}

type fixture struct {
	teams     *memory.TeamRepository
	players   *memory.PlayerRepository
	rosters   *memory.RosterRepository
	grids     *memory.GridRepository
	cache     *basecache.Store
	blocks    *WeekBlockStore
	gate      *protection.Gate
	schedules *ScheduleService
	rosterSvc *RosterService
	teamSvc   *TeamService
	playerSvc *PlayerService
	maint     *MaintenanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logging.NewNop()
	f := &fixture{
		teams:   memory.NewTeamRepository(),
		players: memory.NewPlayerRepository(),
		rosters: memory.NewRosterRepository(),
		grids:   memory.NewGridRepository(),
		cache:   basecache.NewStore(time.Minute),
	}
	f.blocks = NewWeekBlockStore(f.grids, schedule.DefaultLayout(), time.UTC, logger)
	f.gate = protection.NewGate(f.grids, logger)
	f.schedules = NewScheduleService(f.blocks, f.grids, f.gate, f.cache, true, logger)
	f.rosterSvc = NewRosterService(f.rosters, f.players, f.teams, logger)

	idGen := &sequenceIDGen{}
	f.teamSvc = NewTeamService(f.teams, f.players, f.rosters, f.rosterSvc, f.schedules, f.blocks, f.gate, idGen, 4, logger)
	f.playerSvc = NewPlayerService(f.players, f.teamSvc, f.rosterSvc, f.schedules, idGen, logger)
	f.maint = NewMaintenanceService(f.teams, f.blocks, f.rosterSvc, f.gate, 4, logger)

	f.schedules.now = func() time.Time { return fixedNow }
	f.rosterSvc.now = func() time.Time { return fixedNow }
	f.teamSvc.now = func() time.Time { return fixedNow }
	f.playerSvc.now = func() time.Time { return fixedNow }
	f.maint.now = func() time.Time { return fixedNow }

	return f
}

// seedTeam creates a team and returns it.
func (f *fixture) seedTeam(t *testing.T, name string) team.Team {
	t.Helper()

	created, err := f.teamSvc.CreateTeam(context.Background(), CreateTeamInput{
		Name:        name,
		Division:    "1",
		LeaderEmail: "leader@example.com",
		IsPublic:    true,
	})
	require.NoError(t, err)

	return created
}

// seedMember registers a player and joins them to the team.
func (f *fixture) seedMember(t *testing.T, tm team.Team, email, displayName, initials string) player.Player {
	t.Helper()

	ctx := context.Background()
	p, err := f.playerSvc.Register(ctx, RegisterPlayerInput{
		Email:       email,
		DisplayName: displayName,
	})
	require.NoError(t, err)

	p, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{
		PlayerID: p.ID,
		JoinCode: tm.JoinCode,
		Initials: initials,
	})
	require.NoError(t, err)

	return p
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsched/schedule-manager/internal/domain/schedule"
)

func TestCreateTeamProvisionsSurfaceAndBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	assert.NotEmpty(t, tm.ID)
	assert.Len(t, tm.JoinCode, joinCodeLength)
	assert.Equal(t, "Falcons", tm.SurfaceName)
	assert.True(t, tm.IsActive)

	exists, err := f.grids.SurfaceExists(ctx, "Falcons")
	require.NoError(t, err)
	assert.True(t, exists)

	protected, err := f.grids.IsProtected(ctx, "Falcons")
	require.NoError(t, err)
	assert.True(t, protected, "surface left protected between edits")

	// Four rolling weeks provisioned from the current week.
	for week := 10; week <= 13; week++ {
		_, found, err := f.blocks.Find(ctx, "Falcons", 2026, week)
		require.NoError(t, err)
		assert.True(t, found, "week %d", week)
	}
	_, found, err := f.blocks.Find(ctx, "Falcons", 2026, 14)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateTeamSurfaceNameCollision(t *testing.T) {
	f := newFixture(t)
	first := f.seedTeam(t, "Falcons")
	second := f.seedTeam(t, "Falcons")

	assert.Equal(t, "Falcons", first.SurfaceName)
	assert.NotEqual(t, first.SurfaceName, second.SurfaceName)
	assert.NotEqual(t, first.JoinCode, second.JoinCode)
}

func TestCreateTeamValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.teamSvc.CreateTeam(ctx, CreateTeamInput{
		Name:        "ab", // under the minimum length
		Division:    "1",
		LeaderEmail: "leader@example.com",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.teamSvc.CreateTeam(ctx, CreateTeamInput{
		Name:        "Falcons",
		Division:    "9",
		LeaderEmail: "leader@example.com",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTeamByJoinCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	got, err := f.teamSvc.GetTeamByJoinCode(ctx, tm.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, tm.ID, got.ID)

	_, err = f.teamSvc.GetTeamByJoinCode(ctx, "NOPE1234")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTeamBySurface(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	got, err := f.teamSvc.GetTeamBySurface(ctx, tm.SurfaceName)
	require.NoError(t, err)
	assert.Equal(t, tm.ID, got.ID)

	_, err = f.teamSvc.GetTeamBySurface(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	hidden := false
	updated, err := f.teamSvc.UpdateTeam(ctx, UpdateTeamInput{
		TeamID:   tm.ID,
		Name:     "Night Falcons",
		Division: "2",
		IsPublic: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, "Night Falcons", updated.Name)
	assert.Equal(t, "2", updated.Division)
	assert.False(t, updated.IsPublic)
}

func TestArchiveTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	ana := f.seedMember(t, tm, "ana@example.com", "Ana", "AN")

	archived, err := f.teamSvc.ArchiveTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)
	require.NotNil(t, archived.ArchivedAt)
	assert.Equal(t, "Falcons_ARCHIVED_20260302", archived.SurfaceName)

	// Old surface name is gone, the renamed one remains.
	exists, err := f.grids.SurfaceExists(ctx, "Falcons")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = f.grids.SurfaceExists(ctx, archived.SurfaceName)
	require.NoError(t, err)
	assert.True(t, exists)

	// Members are disassociated and the index cleared.
	p, err := f.playerSvc.GetPlayer(ctx, ana.ID)
	require.NoError(t, err)
	assert.False(t, p.OnTeam(tm.ID))
	entries, err := f.rosters.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.teamSvc.ArchiveTeam(ctx, tm.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteTeamRequiresArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	err := f.teamSvc.DeleteTeam(ctx, tm.ID)
	assert.ErrorIs(t, err, ErrConflict)

	archived, err := f.teamSvc.ArchiveTeam(ctx, tm.ID)
	require.NoError(t, err)

	require.NoError(t, f.teamSvc.DeleteTeam(ctx, tm.ID))

	_, err = f.teamSvc.GetTeam(ctx, tm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err := f.grids.SurfaceExists(ctx, archived.SurfaceName)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSyncDenormalizedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	f.seedMember(t, tm, "ana@example.com", "Ana", "AN")
	f.seedMember(t, tm, "bo@example.com", "Bo", "BO")

	synced, err := f.teamSvc.SyncDenormalizedFields(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, synced.PlayerCount)
	assert.Equal(t, "Ana (AN), Bo (BO)", synced.PlayerList)
	assert.Equal(t, "AN, BO", synced.InitialsList)
}

func TestSyncDenormalizedFieldsAfterLeave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	ana := f.seedMember(t, tm, "ana@example.com", "Ana", "AN")
	f.seedMember(t, tm, "bo@example.com", "Bo", "BO")

	// Mark availability so the leave also scrubs the schedule.
	sel := []schedule.Selection{{Slot: 0, Day: 0}}
	_, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AN", schedule.ToggleAdd)
	require.NoError(t, err)

	_, err = f.playerSvc.LeaveTeam(ctx, ana.ID, tm.ID)
	require.NoError(t, err)

	got, err := f.teamSvc.GetTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PlayerCount)
	assert.Equal(t, "Bo (BO)", got.PlayerList)

	week, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 10)
	require.NoError(t, err)
	assert.Empty(t, week.Rows[0].Days[0])
}

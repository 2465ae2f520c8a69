package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendWeekBlocksIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTeam(t, "Falcons")
	f.seedTeam(t, "Ravens")

	// Team creation already provisioned the rolling window.
	report, err := f.maint.ExtendWeekBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TeamsProcessed)
	assert.Equal(t, 0, report.BlocksCreated)
	assert.Equal(t, 0, report.TeamsFailed)
}

func TestExtendWeekBlocksFillsGaps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	// Move the clock forward two weeks: two new blocks are due.
	f.maint.now = func() time.Time { return fixedNow.AddDate(0, 0, 14) }

	report, err := f.maint.ExtendWeekBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.BlocksCreated)

	for week := 10; week <= 15; week++ {
		_, found, err := f.blocks.Find(ctx, tm.SurfaceName, 2026, week)
		require.NoError(t, err)
		assert.True(t, found, "week %d", week)
	}
}

func TestExtendWeekBlocksSkipsArchivedTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTeam(t, "Falcons")
	doomed := f.seedTeam(t, "Ravens")
	_, err := f.teamSvc.ArchiveTeam(ctx, doomed.ID)
	require.NoError(t, err)

	report, err := f.maint.ExtendWeekBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TeamsProcessed)
}

func TestRebuildRosterIndexViaMaintenance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	f.seedMember(t, tm, "ana@example.com", "Ana", "AN")

	require.NoError(t, f.rosters.RemoveTeam(ctx, tm.ID))

	count, err := f.maint.RebuildRosterIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, err := f.rosters.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsched/schedule-manager/internal/domain/schedule"
)

func TestUpdateAvailabilityCountsValidAndInvalidCells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	selections := []schedule.Selection{
		{Slot: 0, Day: 0},
		{Slot: 3, Day: 2},
		{Slot: 10, Day: 6},
		{Slot: 11, Day: 0}, // slot past the last time row
	}
	result, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, selections, "ab", schedule.ToggleAdd)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CellsModified)
	assert.Equal(t, 1, result.InvalidCells)

	// The same batch again is a no-op on the valid cells.
	result, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, selections, "AB", schedule.ToggleAdd)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CellsModified)
	assert.Equal(t, 1, result.InvalidCells)
}

func TestUpdateAvailabilityMergesTokensSorted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	sel := []schedule.Selection{{Slot: 2, Day: 4}}
	_, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "ZZ", schedule.ToggleAdd)
	require.NoError(t, err)
	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)

	week, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, "AB, ZZ", week.Rows[2].Days[4])
}

func TestUpdateAvailabilityRemoveMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	sel := []schedule.Selection{{Slot: 5, Day: 1}}
	_, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)
	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "CD", schedule.ToggleAdd)
	require.NoError(t, err)

	result, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleRemove)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CellsModified)

	// Removing again does nothing.
	result, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleRemove)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CellsModified)

	week, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, "CD", week.Rows[5].Days[1])
}

func TestUpdateAvailabilityMultiWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	result, err := f.schedules.UpdateAvailabilityMultiWeek(ctx, UpdateAvailabilityInput{
		Surface: tm.SurfaceName,
		Token:   "AB",
		Mode:    schedule.ToggleAdd,
		Weeks: []schedule.WeekSelection{
			{Year: 2026, Week: 10, Selections: []schedule.Selection{{Slot: 0, Day: 0}, {Slot: 1, Day: 0}}},
			{Year: 2026, Week: 11, Selections: []schedule.Selection{{Slot: 0, Day: 0}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.CellsModified)
	assert.Equal(t, 0, result.InvalidCells)

	for _, week := range []int{10, 11} {
		got, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, week)
		require.NoError(t, err)
		assert.Equal(t, "AB", got.Rows[0].Days[0])
	}
}

func TestUpdateAvailabilityProvisionsMissingBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	// Week 30 is outside the initially provisioned horizon.
	_, found, err := f.schedules.blocks.Find(ctx, tm.SurfaceName, 2026, 30)
	require.NoError(t, err)
	require.False(t, found)

	sel := []schedule.Selection{{Slot: 0, Day: 0}}
	result, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 30, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CellsModified)

	_, found, err = f.schedules.blocks.Find(ctx, tm.SurfaceName, 2026, 30)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUpdateAvailabilityValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	sel := []schedule.Selection{{Slot: 0, Day: 0}}

	_, err := f.schedules.UpdateAvailability(ctx, "nowhere", 2026, 10, sel, "AB", schedule.ToggleAdd)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "toolong", schedule.ToggleAdd)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleMode("flip"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 99, sel, "AB", schedule.ToggleAdd)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateAvailabilityRestoresProtection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	protected, err := f.grids.IsProtected(ctx, tm.SurfaceName)
	require.NoError(t, err)
	require.True(t, protected)

	sel := []schedule.Selection{{Slot: 0, Day: 0}}
	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)

	protected, err = f.grids.IsProtected(ctx, tm.SurfaceName)
	require.NoError(t, err)
	assert.True(t, protected)
}

func TestGetScheduleProvisionsMissingBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	// Week 40 is outside the initially provisioned horizon.
	_, found, err := f.schedules.blocks.Find(ctx, tm.SurfaceName, 2026, 40)
	require.NoError(t, err)
	require.False(t, found)

	week, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, week.Week)
	require.Len(t, week.Rows, schedule.DefaultLayout().SlotsPerDay)
	for _, row := range week.Rows {
		for _, day := range row.Days {
			assert.Empty(t, day)
		}
	}

	_, found, err = f.schedules.blocks.Find(ctx, tm.SurfaceName, 2026, 40)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGetScheduleUnknownSurface(t *testing.T) {
	f := newFixture(t)

	_, err := f.schedules.GetSchedule(context.Background(), "nowhere", 2026, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetScheduleInvalidatedAfterUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	week, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 10)
	require.NoError(t, err)
	require.Empty(t, week.Rows[0].Days[0])

	sel := []schedule.Selection{{Slot: 0, Day: 0}}
	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)

	week, err = f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, "AB", week.Rows[0].Days[0])
}

func TestGetScheduleRangeSkipsMissingWeeks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.seedTeam(t, "Falcons")
	second := f.seedTeam(t, "Ravens")

	results, err := f.schedules.GetScheduleRange(ctx, []string{first.SurfaceName, second.SurfaceName}, 2026, 10, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Only the four provisioned weeks exist on each surface.
	for _, r := range results {
		assert.Len(t, r.Weeks, 4)
		assert.Equal(t, 10, r.Weeks[0].Week)
		assert.Equal(t, 13, r.Weeks[3].Week)
	}
}

func TestRemoveParticipantScrubsAllWeeks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	for _, week := range []int{10, 11, 12} {
		sel := []schedule.Selection{{Slot: 0, Day: 0}, {Slot: 4, Day: 3}}
		_, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, week, sel, "AB", schedule.ToggleAdd)
		require.NoError(t, err)
		_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, week, sel[:1], "CD", schedule.ToggleAdd)
		require.NoError(t, err)
	}

	result, err := f.schedules.RemoveParticipant(ctx, tm.SurfaceName, "AB", false)
	require.NoError(t, err)
	assert.Equal(t, 6, result.CellsModified)

	for _, week := range []int{10, 11, 12} {
		got, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, week)
		require.NoError(t, err)
		assert.Equal(t, "CD", got.Rows[0].Days[0])
		assert.Empty(t, got.Rows[4].Days[3])
	}
}

func TestRemoveParticipantUnknownSurface(t *testing.T) {
	f := newFixture(t)

	_, err := f.schedules.RemoveParticipant(context.Background(), "nowhere", "AB", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveParticipantKeepsPastWeeks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	// Week 9 is already over relative to the fixture clock; 10 and 11 are not.
	sel := []schedule.Selection{{Slot: 0, Day: 0}}
	for _, week := range []int{9, 10, 11} {
		_, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, week, sel, "AB", schedule.ToggleAdd)
		require.NoError(t, err)
	}

	result, err := f.schedules.RemoveParticipant(ctx, tm.SurfaceName, "AB", true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CellsModified)

	past, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 9)
	require.NoError(t, err)
	assert.Equal(t, "AB", past.Rows[0].Days[0])

	for _, week := range []int{10, 11} {
		got, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, week)
		require.NoError(t, err)
		assert.Empty(t, got.Rows[0].Days[0])
	}
}

func TestToggleSkipsDuplicateSelections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	sel := []schedule.Selection{{Slot: 0, Day: 0}, {Slot: 0, Day: 0}, {Slot: 0, Day: 0}}
	result, err := f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 10, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CellsModified)
	assert.Equal(t, 0, result.InvalidCells)
}

func TestProvisionedEmptyWeekIsNotStaleAfterUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	// The first read provisions and caches an empty week.
	week, err := f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 40)
	require.NoError(t, err)
	require.Empty(t, week.Rows[0].Days[0])

	sel := []schedule.Selection{{Slot: 0, Day: 0}}
	_, err = f.schedules.UpdateAvailability(ctx, tm.SurfaceName, 2026, 40, sel, "AB", schedule.ToggleAdd)
	require.NoError(t, err)

	week, err = f.schedules.GetSchedule(ctx, tm.SurfaceName, 2026, 40)
	require.NoError(t, err)
	assert.Equal(t, "AB", week.Rows[0].Days[0])
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsched/schedule-manager/internal/domain/player"
)

func TestRegisterPlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.playerSvc.Register(ctx, RegisterPlayerInput{
		Email:       "Ana@Example.com",
		DisplayName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email, "email stored lowercase")
	assert.True(t, p.IsActive)

	_, err = f.playerSvc.Register(ctx, RegisterPlayerInput{
		Email:       "ana@example.com",
		DisplayName: "Another Ana",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestJoinTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	p, err := f.playerSvc.Register(ctx, RegisterPlayerInput{
		Email:       "ana@example.com",
		DisplayName: "Ana",
	})
	require.NoError(t, err)

	p, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{
		PlayerID: p.ID,
		JoinCode: tm.JoinCode,
		Initials: "an", // normalized to uppercase
	})
	require.NoError(t, err)
	m, ok := p.MembershipFor(tm.ID)
	require.True(t, ok)
	assert.Equal(t, "AN", m.Initials)
	assert.Equal(t, player.RoleMember, m.Role)

	// Roster index updated and team fields synced.
	entries, err := f.rosters.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got, err := f.teamSvc.GetTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PlayerCount)
}

func TestJoinTeamLeaderRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	p, err := f.playerSvc.Register(ctx, RegisterPlayerInput{
		Email:       "leader@example.com",
		DisplayName: "Lea",
	})
	require.NoError(t, err)

	p, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{
		PlayerID: p.ID,
		JoinCode: tm.JoinCode,
		Initials: "LE",
	})
	require.NoError(t, err)
	m, _ := p.MembershipFor(tm.ID)
	assert.Equal(t, player.RoleLeader, m.Role)
}

func TestJoinTeamConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	ana := f.seedMember(t, tm, "ana@example.com", "Ana", "AN")

	// Duplicate initials within the team.
	bo, err := f.playerSvc.Register(ctx, RegisterPlayerInput{Email: "bo@example.com", DisplayName: "Bo"})
	require.NoError(t, err)
	_, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: bo.ID, JoinCode: tm.JoinCode, Initials: "an"})
	assert.ErrorIs(t, err, ErrConflict)

	// Already on the team.
	_, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: ana.ID, JoinCode: tm.JoinCode, Initials: "A2"})
	assert.ErrorIs(t, err, ErrConflict)

	// Bad initials format.
	_, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: bo.ID, JoinCode: tm.JoinCode, Initials: "ABC"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Unknown join code.
	_, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: bo.ID, JoinCode: "NOPE9999", Initials: "BO"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinTeamMembershipCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.seedTeam(t, "Falcons")
	second := f.seedTeam(t, "Ravens")
	third := f.seedTeam(t, "Owls")

	p, err := f.playerSvc.Register(ctx, RegisterPlayerInput{Email: "ana@example.com", DisplayName: "Ana"})
	require.NoError(t, err)

	for _, tm := range []string{first.JoinCode, second.JoinCode} {
		p, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: p.ID, JoinCode: tm, Initials: "AN"})
		require.NoError(t, err)
	}

	_, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: p.ID, JoinCode: third.JoinCode, Initials: "AN"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestJoinTeamCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tm, err := f.teamSvc.CreateTeam(ctx, CreateTeamInput{
		Name:        "Tiny Team",
		Division:    "1",
		LeaderEmail: "leader@example.com",
		MaxPlayers:  1,
	})
	require.NoError(t, err)
	f.seedMember(t, tm, "ana@example.com", "Ana", "AN")

	bo, err := f.playerSvc.Register(ctx, RegisterPlayerInput{Email: "bo@example.com", DisplayName: "Bo"})
	require.NoError(t, err)
	_, err = f.playerSvc.JoinTeam(ctx, JoinTeamInput{PlayerID: bo.ID, JoinCode: tm.JoinCode, Initials: "BO"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateProfilePropagatesToRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	ana := f.seedMember(t, tm, "ana@example.com", "Ana", "AN")

	_, err := f.playerSvc.UpdateProfile(ctx, UpdatePlayerProfileInput{
		PlayerID:      ana.ID,
		DisplayName:   "Anastasia",
		DiscordHandle: "ana#1234",
	})
	require.NoError(t, err)

	entries, err := f.rosters.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Anastasia", entries[0].DisplayName)
	assert.Equal(t, "ana#1234", entries[0].DiscordHandle)
}

func TestDeactivatePlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")
	ana := f.seedMember(t, tm, "ana@example.com", "Ana", "AN")

	p, err := f.playerSvc.Deactivate(ctx, ana.ID)
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.Empty(t, p.Memberships)

	entries, err := f.rosters.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	got, err := f.teamSvc.GetTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PlayerCount)
}

func TestLeaveTeamNotMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.seedTeam(t, "Falcons")

	p, err := f.playerSvc.Register(ctx, RegisterPlayerInput{Email: "ana@example.com", DisplayName: "Ana"})
	require.NoError(t, err)

	_, err = f.playerSvc.LeaveTeam(ctx, p.ID, tm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

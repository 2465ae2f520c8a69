package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/domain/roster"
	"github.com/teamsched/schedule-manager/internal/domain/team"
	basecache "github.com/teamsched/schedule-manager/internal/platform/cache"
)

// Caching decorators over the registry read paths. Keys are stable and
// prefix-invalidatable; existence lookups cache their misses at the
// store's negative TTL so new records surface quickly.

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func teamIDKey(teamID string) string {
	return "team:id:" + teamID
}

func teamCodeKey(joinCode string) string {
	return "team:code:" + strings.ToUpper(joinCode)
}

func teamSurfaceKey(surfaceName string) string {
	return "team:surface:" + surfaceName
}

func teamListKey(includeInactive bool) string {
	return "team:list:inactive:" + strconv.FormatBool(includeInactive)
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	if err := r.next.Create(ctx, t); err != nil {
		return err
	}
	r.InvalidateTeam(ctx, t)
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team) error {
	if err := r.next.Update(ctx, t); err != nil {
		return err
	}
	r.InvalidateTeam(ctx, t)
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	if err := r.next.Delete(ctx, teamID); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamIDKey(teamID))
	r.cache.DeletePrefix(ctx, "team:code:")
	r.cache.DeletePrefix(ctx, "team:surface:")
	r.cache.DeletePrefix(ctx, "team:list:")
	return nil
}

// InvalidateTeam drops every key that can serve this team's data.
func (r *TeamRepository) InvalidateTeam(ctx context.Context, t team.Team) {
	r.cache.Delete(ctx, teamIDKey(t.ID))
	r.cache.Delete(ctx, teamCodeKey(t.JoinCode))
	r.cache.Delete(ctx, teamSurfaceKey(t.SurfaceName))
	r.cache.DeletePrefix(ctx, "team:list:")
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, teamIDKey(teamID), func(ctx context.Context) (any, time.Duration, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, 0, err
		}
		return cachedTeam{value: item, exists: exists}, r.entryTTL(exists), nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByJoinCode(ctx context.Context, joinCode string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, teamCodeKey(joinCode), func(ctx context.Context) (any, time.Duration, error) {
		item, exists, err := r.next.GetByJoinCode(ctx, joinCode)
		if err != nil {
			return nil, 0, err
		}
		return cachedTeam{value: item, exists: exists}, r.entryTTL(exists), nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetBySurfaceName(ctx context.Context, surfaceName string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, teamSurfaceKey(surfaceName), func(ctx context.Context) (any, time.Duration, error) {
		item, exists, err := r.next.GetBySurfaceName(ctx, surfaceName)
		if err != nil {
			return nil, 0, err
		}
		return cachedTeam{value: item, exists: exists}, r.entryTTL(exists), nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) List(ctx context.Context, includeInactive bool) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamListKey(includeInactive), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, includeInactive)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) entryTTL(exists bool) time.Duration {
	if exists {
		return 0
	}
	return r.cache.NegativeTTL()
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func playerIDKey(playerID string) string {
	return "player:id:" + playerID
}

func playerEmailKey(email string) string {
	return "player:email:" + strings.ToLower(email)
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.InvalidatePlayer(ctx, p)
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	if err := r.next.Update(ctx, p); err != nil {
		return err
	}
	r.InvalidatePlayer(ctx, p)
	return nil
}

func (r *PlayerRepository) InvalidatePlayer(ctx context.Context, p player.Player) {
	r.cache.Delete(ctx, playerIDKey(p.ID))
	r.cache.Delete(ctx, playerEmailKey(p.Email))
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, playerIDKey(playerID), func(ctx context.Context) (any, time.Duration, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, 0, err
		}
		return cachedPlayer{value: item, exists: exists}, r.entryTTL(exists), nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, playerEmailKey(email), func(ctx context.Context) (any, time.Duration, error) {
		item, exists, err := r.next.GetByEmail(ctx, email)
		if err != nil {
			return nil, 0, err
		}
		return cachedPlayer{value: item, exists: exists}, r.entryTTL(exists), nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

// ListByTeam and List stay uncached: the roster index is the fast path
// for team rosters, and full listings feed rebuilds that must see
// current registry state.
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.next.ListByTeam(ctx, teamID)
}

func (r *PlayerRepository) List(ctx context.Context, includeInactive bool) ([]player.Player, error) {
	return r.next.List(ctx, includeInactive)
}

func (r *PlayerRepository) entryTTL(exists bool) time.Duration {
	if exists {
		return 0
	}
	return r.cache.NegativeTTL()
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func rosterTeamKey(teamID string) string {
	return "roster:team:" + teamID
}

func (r *RosterRepository) Add(ctx context.Context, e roster.Entry) error {
	if err := r.next.Add(ctx, e); err != nil {
		return err
	}
	r.cache.Delete(ctx, rosterTeamKey(e.TeamID))
	return nil
}

func (r *RosterRepository) Remove(ctx context.Context, teamID, playerID string) error {
	if err := r.next.Remove(ctx, teamID, playerID); err != nil {
		return err
	}
	r.cache.Delete(ctx, rosterTeamKey(teamID))
	return nil
}

func (r *RosterRepository) Update(ctx context.Context, e roster.Entry) error {
	if err := r.next.Update(ctx, e); err != nil {
		return err
	}
	r.cache.Delete(ctx, rosterTeamKey(e.TeamID))
	return nil
}

func (r *RosterRepository) RemoveTeam(ctx context.Context, teamID string) error {
	if err := r.next.RemoveTeam(ctx, teamID); err != nil {
		return err
	}
	r.cache.Delete(ctx, rosterTeamKey(teamID))
	return nil
}

func (r *RosterRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Entry, error) {
	v, err := r.cache.GetOrLoad(ctx, rosterTeamKey(teamID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]roster.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]roster.Entry)
	return append([]roster.Entry(nil), items...), nil
}

func (r *RosterRepository) ListAll(ctx context.Context) ([]roster.Entry, error) {
	return r.next.ListAll(ctx)
}

func (r *RosterRepository) Replace(ctx context.Context, entries []roster.Entry) error {
	if err := r.next.Replace(ctx, entries); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "roster:team:")
	return nil
}

// RefreshTeam primes the roster cache for a team after a sync pass.
func (r *RosterRepository) RefreshTeam(ctx context.Context, teamID string) error {
	r.cache.Delete(ctx, rosterTeamKey(teamID))
	_, err := r.ListByTeam(ctx, teamID)
	return err
}

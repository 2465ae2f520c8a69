package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/teamsched/schedule-manager/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[string]player.Player)}
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = clonePlayer(p)

	return nil
}

func (r *PlayerRepository) Update(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = clonePlayer(p)

	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]

	return clonePlayer(p), ok, nil
}

func (r *PlayerRepository) GetByEmail(_ context.Context, email string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if strings.EqualFold(p.Email, email) {
			return clonePlayer(p), true, nil
		}
	}

	return player.Player{}, false, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []player.Player
	for _, p := range r.players {
		if p.OnTeam(teamID) {
			out = append(out, clonePlayer(p))
		}
	}

	return out, nil
}

func (r *PlayerRepository) List(_ context.Context, includeInactive bool) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, clonePlayer(p))
	}

	return out, nil
}

// clonePlayer copies the memberships slice so callers cannot mutate
// stored state through the returned value.
func clonePlayer(p player.Player) player.Player {
	if p.Memberships != nil {
		memberships := make([]player.Membership, len(p.Memberships))
		copy(memberships, p.Memberships)
		p.Memberships = memberships
	}
	return p
}

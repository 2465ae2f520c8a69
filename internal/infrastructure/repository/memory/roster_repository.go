package memory

import (
	"context"
	"sync"

	"github.com/teamsched/schedule-manager/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	entries []roster.Entry
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{}
}

func (r *RosterRepository) Add(_ context.Context, e roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)

	return nil
}

func (r *RosterRepository) Remove(_ context.Context, teamID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.TeamID == teamID && e.PlayerID == playerID {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept

	return nil
}

func (r *RosterRepository) Update(_ context.Context, e roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].TeamID == e.TeamID && r.entries[i].PlayerID == e.PlayerID {
			r.entries[i] = e
		}
	}

	return nil
}

func (r *RosterRepository) RemoveTeam(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.TeamID == teamID {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept

	return nil
}

func (r *RosterRepository) ListByTeam(_ context.Context, teamID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []roster.Entry
	for _, e := range r.entries {
		if e.TeamID == teamID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *RosterRepository) ListAll(_ context.Context) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, len(r.entries))
	copy(out, r.entries)

	return out, nil
}

func (r *RosterRepository) Replace(_ context.Context, entries []roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make([]roster.Entry, len(entries))
	copy(r.entries, entries)

	return nil
}

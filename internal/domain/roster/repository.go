package roster

import "context"

// Repository is the roster index store. Callers are responsible for
// avoiding duplicate (team, player) inserts; Add does not deduplicate.
type Repository interface {
	Add(ctx context.Context, e Entry) error
	Remove(ctx context.Context, teamID, playerID string) error
	Update(ctx context.Context, e Entry) error
	RemoveTeam(ctx context.Context, teamID string) error
	ListByTeam(ctx context.Context, teamID string) ([]Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	// Replace swaps the whole index in one operation, used by rebuilds.
	Replace(ctx context.Context, entries []Entry) error
}

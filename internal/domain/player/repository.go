package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p Player) error
	Update(ctx context.Context, p Player) error
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByEmail(ctx context.Context, email string) (Player, bool, error)
	// ListByTeam returns players occupying a slot for teamID, the slow
	// path behind the roster index.
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	List(ctx context.Context, includeInactive bool) ([]Player, error)
}

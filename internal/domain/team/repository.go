package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Team) error
	Update(ctx context.Context, t Team) error
	Delete(ctx context.Context, teamID string) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByJoinCode(ctx context.Context, joinCode string) (Team, bool, error)
	GetBySurfaceName(ctx context.Context, surfaceName string) (Team, bool, error)
	List(ctx context.Context, includeInactive bool) ([]Team, error)
}

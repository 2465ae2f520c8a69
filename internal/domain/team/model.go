package team

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinNameLength = 3
	MaxNameLength = 50
	MaxPlayers    = 10
)

// AllowedDivisions is the closed set of competitive divisions.
var AllowedDivisions = map[string]struct{}{
	"1": {},
	"2": {},
	"3": {},
}

// Team is a competitive roster with its own availability surface.
// PlayerCount, PlayerList and InitialsList are denormalized from player
// records and refreshed by the sync operation, so they can lag briefly.
type Team struct {
	ID           string
	Name         string
	Division     string
	LeaderEmail  string
	JoinCode     string
	SurfaceName  string
	LogoURL      string
	MaxPlayers   int
	IsActive     bool
	IsPublic     bool
	PlayerCount  int
	PlayerList   string
	InitialsList string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ArchivedAt   *time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	name := strings.TrimSpace(t.Name)
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return fmt.Errorf("team name must be %d-%d characters, got %d", MinNameLength, MaxNameLength, len(name))
	}
	if _, ok := AllowedDivisions[t.Division]; !ok {
		return fmt.Errorf("invalid division: %q", t.Division)
	}
	if t.LeaderEmail == "" {
		return fmt.Errorf("team leader email is required")
	}
	if t.JoinCode == "" {
		return fmt.Errorf("team join code is required")
	}
	if t.SurfaceName == "" {
		return fmt.Errorf("team surface name is required")
	}
	if t.MaxPlayers <= 0 || t.MaxPlayers > MaxPlayers {
		return fmt.Errorf("team max players must be 1-%d, got %d", MaxPlayers, t.MaxPlayers)
	}

	return nil
}

// Archived reports whether the team has been soft-deleted.
func (t Team) Archived() bool {
	return t.ArchivedAt != nil
}

package roster

import (
	"fmt"
	"time"
)

// Entry is one denormalized (team, player) row in the fast-lookup index.
// The index is rebuildable from player records; entries here are an
// accelerator, never the source of truth.
type Entry struct {
	TeamID        string
	PlayerID      string
	DisplayName   string
	Initials      string
	Role          string
	DiscordHandle string
	IndexedAt     time.Time
}

func (e Entry) Validate() error {
	if e.TeamID == "" {
		return fmt.Errorf("roster entry team id is required")
	}
	if e.PlayerID == "" {
		return fmt.Errorf("roster entry player id is required")
	}
	if e.Initials == "" {
		return fmt.Errorf("roster entry initials are required")
	}

	return nil
}

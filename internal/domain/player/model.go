package player

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Role of a membership within one team.
type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// MaxMemberships is how many teams one player may belong to at once.
const MaxMemberships = 2

const MaxDisplayNameLength = 50

var initialsPattern = regexp.MustCompile(`^[A-Z0-9]{1,2}$`)

// Membership is one occupied team slot. Initials are the token written
// into availability cells and must be unique within the team.
type Membership struct {
	TeamID   string
	Initials string
	Role     Role
	JoinedAt time.Time
}

// Player is identified by email. Memberships holds at most MaxMemberships
// slots; leaving a team clears the slot rather than deleting the player.
type Player struct {
	ID            string
	Email         string
	DisplayName   string
	DiscordHandle string
	IsActive      bool
	Memberships   []Membership
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Email == "" {
		return fmt.Errorf("player email is required")
	}
	name := strings.TrimSpace(p.DisplayName)
	if name == "" || len(name) > MaxDisplayNameLength {
		return fmt.Errorf("player display name must be 1-%d characters", MaxDisplayNameLength)
	}
	if len(p.Memberships) > MaxMemberships {
		return fmt.Errorf("player holds %d memberships, max %d", len(p.Memberships), MaxMemberships)
	}
	for _, m := range p.Memberships {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (m Membership) Validate() error {
	if m.TeamID == "" {
		return fmt.Errorf("membership team id is required")
	}
	if err := ValidateInitials(m.Initials); err != nil {
		return err
	}
	if m.Role != RoleLeader && m.Role != RoleMember {
		return fmt.Errorf("invalid membership role: %q", m.Role)
	}

	return nil
}

// ValidateInitials checks the token format written into schedule cells.
func ValidateInitials(initials string) error {
	if !initialsPattern.MatchString(initials) {
		return fmt.Errorf("initials must be 1-2 uppercase alphanumeric characters, got %q", initials)
	}
	return nil
}

// MembershipFor returns the slot for teamID, if occupied.
func (p Player) MembershipFor(teamID string) (Membership, bool) {
	for _, m := range p.Memberships {
		if m.TeamID == teamID {
			return m, true
		}
	}
	return Membership{}, false
}

// OnTeam reports whether the player occupies a slot for teamID.
func (p Player) OnTeam(teamID string) bool {
	_, ok := p.MembershipFor(teamID)
	return ok
}

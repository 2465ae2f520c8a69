package postgres

import (
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/player"
)

type playerTableModel struct {
	ID            string    `db:"id"`
	Email         string    `db:"email"`
	DisplayName   string    `db:"display_name"`
	DiscordHandle string    `db:"discord_handle"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type membershipTableModel struct {
	PlayerID string    `db:"player_id"`
	TeamID   string    `db:"team_id"`
	Initials string    `db:"initials"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

func playerModelFromDomain(p player.Player) playerTableModel {
	return playerTableModel{
		ID:            p.ID,
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		DiscordHandle: p.DiscordHandle,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m playerTableModel) toDomain(memberships []membershipTableModel) player.Player {
	p := player.Player{
		ID:            m.ID,
		Email:         m.Email,
		DisplayName:   m.DisplayName,
		DiscordHandle: m.DiscordHandle,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, row := range memberships {
		p.Memberships = append(p.Memberships, player.Membership{
			TeamID:   row.TeamID,
			Initials: row.Initials,
			Role:     player.Role(row.Role),
			JoinedAt: row.JoinedAt,
		})
	}
	return p
}

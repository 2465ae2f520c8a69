package postgres

import (
	"time"

	"github.com/teamsched/schedule-manager/internal/domain/team"
)

type teamTableModel struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Division     string     `db:"division"`
	LeaderEmail  string     `db:"leader_email"`
	JoinCode     string     `db:"join_code"`
	SurfaceName  string     `db:"surface_name"`
	LogoURL      string     `db:"logo_url"`
	MaxPlayers   int        `db:"max_players"`
	IsActive     bool       `db:"is_active"`
	IsPublic     bool       `db:"is_public"`
	PlayerCount  int        `db:"player_count"`
	PlayerList   string     `db:"player_list"`
	InitialsList string     `db:"initials_list"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	ArchivedAt   *time.Time `db:"archived_at"`
}

func teamModelFromDomain(t team.Team) teamTableModel {
	return teamTableModel{
		ID:           t.ID,
		Name:         t.Name,
		Division:     t.Division,
		LeaderEmail:  t.LeaderEmail,
		JoinCode:     t.JoinCode,
		SurfaceName:  t.SurfaceName,
		LogoURL:      t.LogoURL,
		MaxPlayers:   t.MaxPlayers,
		IsActive:     t.IsActive,
		IsPublic:     t.IsPublic,
		PlayerCount:  t.PlayerCount,
		PlayerList:   t.PlayerList,
		InitialsList: t.InitialsList,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		ArchivedAt:   t.ArchivedAt,
	}
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:           m.ID,
		Name:         m.Name,
		Division:     m.Division,
		LeaderEmail:  m.LeaderEmail,
		JoinCode:     m.JoinCode,
		SurfaceName:  m.SurfaceName,
		LogoURL:      m.LogoURL,
		MaxPlayers:   m.MaxPlayers,
		IsActive:     m.IsActive,
		IsPublic:     m.IsPublic,
		PlayerCount:  m.PlayerCount,
		PlayerList:   m.PlayerList,
		InitialsList: m.InitialsList,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		ArchivedAt:   m.ArchivedAt,
	}
}

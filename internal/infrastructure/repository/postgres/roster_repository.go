package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/teamsched/schedule-manager/internal/domain/roster"
	qb "github.com/teamsched/schedule-manager/internal/platform/querybuilder"
)

type rosterTableModel struct {
	TeamID        string    `db:"team_id"`
	PlayerID      string    `db:"player_id"`
	DisplayName   string    `db:"display_name"`
	Initials      string    `db:"initials"`
	Role          string    `db:"role"`
	DiscordHandle string    `db:"discord_handle"`
	IndexedAt     time.Time `db:"indexed_at"`
}

func rosterModelFromDomain(e roster.Entry) rosterTableModel {
	return rosterTableModel{
		TeamID:        e.TeamID,
		PlayerID:      e.PlayerID,
		DisplayName:   e.DisplayName,
		Initials:      e.Initials,
		Role:          e.Role,
		DiscordHandle: e.DiscordHandle,
		IndexedAt:     e.IndexedAt,
	}
}

func (m rosterTableModel) toDomain() roster.Entry {
	return roster.Entry{
		TeamID:        m.TeamID,
		PlayerID:      m.PlayerID,
		DisplayName:   m.DisplayName,
		Initials:      m.Initials,
		Role:          m.Role,
		DiscordHandle: m.DiscordHandle,
		IndexedAt:     m.IndexedAt,
	}
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Add(ctx context.Context, e roster.Entry) error {
	query, args, err := qb.InsertModel("roster_index", rosterModelFromDomain(e), "")
	if err != nil {
		return fmt.Errorf("build insert roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert roster entry: %w", err)
	}

	return nil
}

func (r *RosterRepository) Remove(ctx context.Context, teamID, playerID string) error {
	query, args, err := qb.DeleteFrom("roster_index").
		Where(qb.Eq("team_id", teamID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}

	return nil
}

func (r *RosterRepository) Update(ctx context.Context, e roster.Entry) error {
	query, args, err := qb.Update("roster_index").
		Set("display_name", e.DisplayName).
		Set("initials", e.Initials).
		Set("role", e.Role).
		Set("discord_handle", e.DiscordHandle).
		Set("indexed_at", e.IndexedAt).
		Where(qb.Eq("team_id", e.TeamID), qb.Eq("player_id", e.PlayerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update roster entry: %w", err)
	}

	return nil
}

func (r *RosterRepository) RemoveTeam(ctx context.Context, teamID string) error {
	query, args, err := qb.DeleteFrom("roster_index").
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team roster query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete team roster: %w", err)
	}

	return nil
}

func (r *RosterRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Entry, error) {
	return r.list(ctx, qb.Eq("team_id", teamID))
}

func (r *RosterRepository) ListAll(ctx context.Context) ([]roster.Entry, error) {
	return r.list(ctx)
}

func (r *RosterRepository) list(ctx context.Context, conditions ...qb.Condition) ([]roster.Entry, error) {
	query, args, err := qb.Select("*").From("roster_index").
		Where(conditions...).
		OrderBy("team_id", "display_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// Replace swaps the entire index inside one transaction so readers never
// observe a half-rebuilt index.
func (r *RosterRepository) Replace(ctx context.Context, entries []roster.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM roster_index"); err != nil {
		return fmt.Errorf("clear roster index: %w", err)
	}

	for _, e := range entries {
		query, args, err := qb.InsertModel("roster_index", rosterModelFromDomain(e), "")
		if err != nil {
			return fmt.Errorf("build insert roster entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert roster entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster replace: %w", err)
	}

	return nil
}

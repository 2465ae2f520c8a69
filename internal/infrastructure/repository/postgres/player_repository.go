package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/teamsched/schedule-manager/internal/domain/player"
	qb "github.com/teamsched/schedule-manager/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertModel("players", playerModelFromDomain(p), "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return r.replaceMemberships(ctx, p)
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	query, args, err := qb.Update("players").
		Set("email", p.Email).
		Set("display_name", p.DisplayName).
		Set("discord_handle", p.DiscordHandle).
		Set("is_active", p.IsActive).
		Set("updated_at", p.UpdatedAt).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player: %w", err)
	}

	return r.replaceMemberships(ctx, p)
}

// replaceMemberships rewrites the player's slot rows wholesale. Slots are
// bounded (two per player), so delete-and-insert stays cheap and keeps
// slot state identical to the domain object.
func (r *PlayerRepository) replaceMemberships(ctx context.Context, p player.Player) error {
	query, args, err := qb.DeleteFrom("player_memberships").
		Where(qb.Eq("player_id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete memberships query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}

	for _, m := range p.Memberships {
		row := membershipTableModel{
			PlayerID: p.ID,
			TeamID:   m.TeamID,
			Initials: m.Initials,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
		query, args, err := qb.InsertModel("player_memberships", row, "")
		if err != nil {
			return fmt.Errorf("build insert membership query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}
	}

	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("id", playerID))
}

func (r *PlayerRepository) GetByEmail(ctx context.Context, email string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("LOWER(email)", strings.ToLower(email)))
}

func (r *PlayerRepository) getOne(ctx context.Context, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}

	memberships, err := r.memberships(ctx, qb.Eq("player_id", row.ID))
	if err != nil {
		return player.Player{}, false, err
	}

	return row.toDomain(memberships), true, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	memberships, err := r.memberships(ctx, qb.Eq("team_id", teamID))
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.PlayerID)
	}

	query, args, err := qb.Select("*").From("players").
		Where(qb.In("id", ids)).
		OrderBy("display_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team players: %w", err)
	}

	return r.attachMemberships(ctx, rows)
}

func (r *PlayerRepository) List(ctx context.Context, includeInactive bool) ([]player.Player, error) {
	builder := qb.Select("*").From("players")
	if !includeInactive {
		builder = builder.Where(qb.Eq("is_active", true))
	}
	query, args, err := builder.OrderBy("display_name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return r.attachMemberships(ctx, rows)
}

func (r *PlayerRepository) attachMemberships(ctx context.Context, rows []playerTableModel) ([]player.Player, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	memberships, err := r.memberships(ctx, qb.In("player_id", ids))
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string][]membershipTableModel, len(rows))
	for _, m := range memberships {
		byPlayer[m.PlayerID] = append(byPlayer[m.PlayerID], m)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(byPlayer[row.ID]))
	}

	return out, nil
}

func (r *PlayerRepository) memberships(ctx context.Context, cond qb.Condition) ([]membershipTableModel, error) {
	query, args, err := qb.Select("*").From("player_memberships").
		Where(cond).
		OrderBy("joined_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select memberships: %w", err)
	}

	return rows, nil
}

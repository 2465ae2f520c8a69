package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/teamsched/schedule-manager/internal/domain/grid"
	qb "github.com/teamsched/schedule-manager/internal/platform/querybuilder"
)

type gridCellTableModel struct {
	Surface string `db:"surface"`
	RowIdx  int    `db:"row_idx"`
	ColIdx  int    `db:"col_idx"`
	Value   string `db:"value"`
	Color   string `db:"color"`
}

// GridRepository persists surfaces as sparse cell rows. Empty values are
// deleted rather than stored, so UsedRows can count content directly.
type GridRepository struct {
	db *sqlx.DB
}

func NewGridRepository(db *sqlx.DB) *GridRepository {
	return &GridRepository{db: db}
}

func (r *GridRepository) CreateSurface(ctx context.Context, name string) error {
	query, args, err := qb.InsertInto("grid_surfaces").
		Columns("name", "protected").
		Values(name, false).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert surface query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert surface: %w", err)
	}

	return nil
}

func (r *GridRepository) RenameSurface(ctx context.Context, oldName, newName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin surface rename: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"grid_surfaces", "grid_cells"} {
		column := "name"
		if table == "grid_cells" {
			column = "surface"
		}
		query, args, err := qb.Update(table).
			Set(column, newName).
			Where(qb.Eq(column, oldName)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build rename query for %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("rename surface in %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit surface rename: %w", err)
	}

	return nil
}

func (r *GridRepository) DeleteSurface(ctx context.Context, name string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin surface delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	cellQuery, cellArgs, err := qb.DeleteFrom("grid_cells").
		Where(qb.Eq("surface", name)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete cells query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, cellQuery, cellArgs...); err != nil {
		return fmt.Errorf("delete surface cells: %w", err)
	}

	surfQuery, surfArgs, err := qb.DeleteFrom("grid_surfaces").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete surface query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, surfQuery, surfArgs...); err != nil {
		return fmt.Errorf("delete surface: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit surface delete: %w", err)
	}

	return nil
}

func (r *GridRepository) SurfaceExists(ctx context.Context, name string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("grid_surfaces").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build surface exists query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("select surface exists: %w", err)
	}

	return count > 0, nil
}

func (r *GridRepository) ListSurfaces(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("name").From("grid_surfaces").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list surfaces query: %w", err)
	}

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, fmt.Errorf("list surfaces: %w", err)
	}

	return names, nil
}

func (r *GridRepository) ReadRect(ctx context.Context, name string, rect grid.Rect) ([][]string, error) {
	if err := rect.Validate(); err != nil {
		return nil, err
	}
	if exists, err := r.SurfaceExists(ctx, name); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("surface %q not found", name)
	}

	query, args, err := qb.Select("*").From("grid_cells").
		Where(
			qb.Eq("surface", name),
			qb.Expr("row_idx BETWEEN ? AND ?", rect.Top, rect.Bottom),
			qb.Expr("col_idx BETWEEN ? AND ?", rect.Left, rect.Right),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build read rect query: %w", err)
	}

	var rows []gridCellTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("read rect: %w", err)
	}

	values := make([][]string, rect.Rows())
	for i := range values {
		values[i] = make([]string, rect.Cols())
	}
	for _, row := range rows {
		values[row.RowIdx-rect.Top][row.ColIdx-rect.Left] = row.Value
	}

	return values, nil
}

func (r *GridRepository) WriteRect(ctx context.Context, name string, rect grid.Rect, values [][]string) error {
	if err := rect.Validate(); err != nil {
		return err
	}
	if len(values) != rect.Rows() {
		return fmt.Errorf("value rows %d do not match rect rows %d", len(values), rect.Rows())
	}

	protected, err := r.IsProtected(ctx, name)
	if err != nil {
		return err
	}
	if protected {
		return fmt.Errorf("%w: %s", grid.ErrProtected, name)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rect write: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, row := range values {
		if len(row) != rect.Cols() {
			return fmt.Errorf("value cols %d do not match rect cols %d", len(row), rect.Cols())
		}
		for j, v := range row {
			if err := writeCellTx(ctx, tx, name, rect.Top+i, rect.Left+j, v); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rect write: %w", err)
	}

	return nil
}

func writeCellTx(ctx context.Context, tx *sqlx.Tx, name string, rowIdx, colIdx int, value string) error {
	if value == "" {
		query, args, err := qb.DeleteFrom("grid_cells").
			Where(
				qb.Eq("surface", name),
				qb.Eq("row_idx", rowIdx),
				qb.Eq("col_idx", colIdx),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear cell query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear cell: %w", err)
		}
		return nil
	}

	query, args, err := qb.InsertInto("grid_cells").
		Columns("surface", "row_idx", "col_idx", "value").
		Values(name, rowIdx, colIdx, value).
		Suffix("ON CONFLICT (surface, row_idx, col_idx) DO UPDATE SET value = EXCLUDED.value").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert cell query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cell: %w", err)
	}

	return nil
}

func (r *GridRepository) ReadCell(ctx context.Context, name string, row, col int) (string, error) {
	values, err := r.ReadRect(ctx, name, grid.RectAround(row, col))
	if err != nil {
		return "", err
	}

	return values[0][0], nil
}

func (r *GridRepository) WriteCell(ctx context.Context, name string, row, col int, value string) error {
	return r.WriteRect(ctx, name, grid.RectAround(row, col), [][]string{{value}})
}

func (r *GridRepository) SetColors(ctx context.Context, name string, cells []grid.Cell) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin color write: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range cells {
		query, args, err := qb.InsertInto("grid_cells").
			Columns("surface", "row_idx", "col_idx", "value", "color").
			Values(name, c.Row, c.Col, c.Value, c.Color).
			Suffix("ON CONFLICT (surface, row_idx, col_idx) DO UPDATE SET color = EXCLUDED.color").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build color upsert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert cell color: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit color write: %w", err)
	}

	return nil
}

func (r *GridRepository) SetProtected(ctx context.Context, name string, protected bool) error {
	query, args, err := qb.Update("grid_surfaces").
		Set("protected", protected).
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set protected query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set protected: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("surface %q not found", name)
	}

	return nil
}

func (r *GridRepository) IsProtected(ctx context.Context, name string) (bool, error) {
	query, args, err := qb.Select("protected").From("grid_surfaces").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build is protected query: %w", err)
	}

	var protected bool
	if err := r.db.GetContext(ctx, &protected, query, args...); err != nil {
		if isNotFound(err) {
			return false, fmt.Errorf("surface %q not found", name)
		}
		return false, fmt.Errorf("select protected: %w", err)
	}

	return protected, nil
}

func (r *GridRepository) UsedRows(ctx context.Context, name string) (int, error) {
	query, args, err := qb.Select("COALESCE(MAX(row_idx) + 1, 0)").From("grid_cells").
		Where(qb.Eq("surface", name), qb.Expr("value <> ''")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build used rows query: %w", err)
	}

	var used int
	if err := r.db.GetContext(ctx, &used, query, args...); err != nil {
		return 0, fmt.Errorf("select used rows: %w", err)
	}

	return used, nil
}

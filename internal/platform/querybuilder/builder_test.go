package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectToSQL(t *testing.T) {
	query, args, err := Select("*").From("teams").
		Where(
			Eq("join_code", "AB12CD34"),
			IsNull("archived_at"),
		).
		OrderBy("name").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT * FROM teams WHERE join_code = $1 AND archived_at IS NULL ORDER BY name LIMIT 1"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"AB12CD34"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestInCondition(t *testing.T) {
	query, args, err := Select("value").From("grid_cells").
		Where(In("surface", []any{"Alpha", "Beta"})).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT value FROM grid_cells WHERE surface IN ($1, $2)"
	if query != want {
		t.Fatalf("query = %q", query)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestInConditionEmptyNeverMatches(t *testing.T) {
	query, _, err := Select("*").From("roster_index").
		Where(In("team_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "SELECT * FROM roster_index WHERE 1=0" {
		t.Fatalf("query = %q", query)
	}
}

func TestUpdateToSQL(t *testing.T) {
	query, args, err := Update("teams").
		Set("player_count", 5).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "t1")).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "UPDATE teams SET player_count = $1, updated_at = NOW() WHERE id = $2"
	if query != want {
		t.Fatalf("query = %q", query)
	}
	if !reflect.DeepEqual(args, []any{5, "t1"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestDeleteRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("roster_index").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}

	query, args, err := DeleteFrom("roster_index").
		Where(Eq("team_id", "t1"), Eq("player_id", "p1")).
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "DELETE FROM roster_index WHERE team_id = $1 AND player_id = $2" {
		t.Fatalf("query = %q", query)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		TeamID   string `db:"team_id"`
		PlayerID string `db:"player_id"`
		Skipped  string `db:"-"`
	}

	query, args, err := InsertModel("roster_index", row{TeamID: "t1", PlayerID: "p1", Skipped: "x"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "INSERT INTO roster_index (team_id, player_id) VALUES ($1, $2)" {
		t.Fatalf("query = %q", query)
	}
	if !reflect.DeepEqual(args, []any{"t1", "p1"}) {
		t.Fatalf("args = %v", args)
	}
}

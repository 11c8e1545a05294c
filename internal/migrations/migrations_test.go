package migrations_test

import (
	"context"
	"testing"

	"github.com/festhunt/treasurehunt/internal/database"
	"github.com/festhunt/treasurehunt/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	// Verify all tables exist by querying sqlite_master.
	want := []string{"questions", "question_options", "teams", "players", "team_progress", "player_answers", "admin_sessions"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}

func TestOptionsCascadeWithQuestion(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	var qid string
	err = db.QueryRowContext(ctx, `
		INSERT INTO questions (question_order, answer_mode, clue, answer)
		VALUES (1, 'mcq', 'capital of France?', 'Paris')
		RETURNING id
	`).Scan(&qid)
	if err != nil {
		t.Fatalf("inserting question: %v", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO question_options (question_id, label, normalized_label, is_correct, sort_order)
		VALUES (?, 'Paris', 'paris', 1, 0), (?, 'London', 'london', 0, 1)
	`, qid, qid)
	if err != nil {
		t.Fatalf("inserting options: %v", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, qid); err != nil {
		t.Fatalf("deleting question: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM question_options`).Scan(&count); err != nil {
		t.Fatalf("counting options: %v", err)
	}
	if count != 0 {
		t.Errorf("expected options to cascade-delete, found %d rows", count)
	}
}

package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"appetizer/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS meal_history (
	id          TEXT PRIMARY KEY,
	week_id     TEXT NOT NULL,
	week_index  INTEGER NOT NULL,
	recipe_id   TEXT NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (week_id, recipe_id)
);

CREATE INDEX IF NOT EXISTS idx_meal_history_week_index ON meal_history(week_index);
CREATE INDEX IF NOT EXISTS idx_meal_history_recipe_id ON meal_history(recipe_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Record(ctx context.Context, week model.WeekID, recipeIDs []string) error {
	ids, err := normalizeIDs(recipeIDs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meal_history WHERE week_id = ?`, string(week),
	).Scan(&n)
	if err != nil {
		return eris.Wrap(err, "sqlite: check week")
	}
	if n > 0 {
		return &model.DuplicateWeekError{WeekID: week}
	}

	recordedAt := s.now().UTC()
	for _, id := range ids {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO meal_history (id, week_id, week_index, recipe_id, recorded_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), string(week), week.Index(), id, recordedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert entry %s", id)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) Recent(ctx context.Context, windowWeeks int) ([]model.HistoryEntry, error) {
	if windowWeeks < 0 {
		return nil, eris.Errorf("sqlite: negative window %d", windowWeeks)
	}
	cutoff := s.currentIndex() - windowWeeks

	rows, err := s.db.QueryContext(ctx,
		`SELECT week_id, recipe_id FROM meal_history
		 WHERE week_index >= ?
		 ORDER BY week_index ASC, recipe_id ASC`,
		cutoff,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: recent")
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var week string
		if err := rows.Scan(&week, &e.RecipeID); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		e.WeekID = model.WeekID(week)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: recent iterate")
}

func (s *SQLiteStore) Frequency(ctx context.Context, recipeID string, windowWeeks int) (int, error) {
	cutoff := s.currentIndex() - windowWeeks

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meal_history WHERE recipe_id = ? AND week_index >= ?`,
		recipeID, cutoff,
	).Scan(&n)
	return n, eris.Wrapf(err, "sqlite: frequency %s", recipeID)
}

func (s *SQLiteStore) Prune(ctx context.Context, retentionWeeks int) (int, error) {
	cutoff := s.currentIndex() - retentionWeeks

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM meal_history WHERE week_index < ?`, cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prune")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) currentIndex() int {
	return model.WeekOf(s.now()).Index()
}

package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"appetizer/internal/model"
)

// Pool is the subset of pgxpool.Pool the tracker uses. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
	now  func() time.Time
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS meal_history (
	id          TEXT PRIMARY KEY,
	week_id     TEXT NOT NULL,
	week_index  INTEGER NOT NULL,
	recipe_id   TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (week_id, recipe_id)
);

CREATE INDEX IF NOT EXISTS idx_meal_history_week_index ON meal_history(week_index);
CREATE INDEX IF NOT EXISTS idx_meal_history_recipe_id ON meal_history(recipe_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, week model.WeekID, recipeIDs []string) error {
	ids, err := normalizeIDs(recipeIDs)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var n int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM meal_history WHERE week_id = $1`, string(week),
	).Scan(&n)
	if err != nil {
		return eris.Wrap(err, "postgres: check week")
	}
	if n > 0 {
		return &model.DuplicateWeekError{WeekID: week}
	}

	recordedAt := s.now().UTC()
	for _, id := range ids {
		_, err = tx.Exec(ctx,
			`INSERT INTO meal_history (id, week_id, week_index, recipe_id, recorded_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), string(week), week.Index(), id, recordedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert entry %s", id)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) Recent(ctx context.Context, windowWeeks int) ([]model.HistoryEntry, error) {
	if windowWeeks < 0 {
		return nil, eris.Errorf("postgres: negative window %d", windowWeeks)
	}
	cutoff := model.WeekOf(s.now()).Index() - windowWeeks

	rows, err := s.pool.Query(ctx,
		`SELECT week_id, recipe_id FROM meal_history
		 WHERE week_index >= $1
		 ORDER BY week_index ASC, recipe_id ASC`,
		cutoff,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: recent")
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var week string
		if err := rows.Scan(&week, &e.RecipeID); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		e.WeekID = model.WeekID(week)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: recent iterate")
}

func (s *PostgresStore) Frequency(ctx context.Context, recipeID string, windowWeeks int) (int, error) {
	cutoff := model.WeekOf(s.now()).Index() - windowWeeks

	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meal_history WHERE recipe_id = $1 AND week_index >= $2`,
		recipeID, cutoff,
	).Scan(&n)
	return n, eris.Wrapf(err, "postgres: frequency %s", recipeID)
}

func (s *PostgresStore) Prune(ctx context.Context, retentionWeeks int) (int, error) {
	cutoff := model.WeekOf(s.now()).Index() - retentionWeeks

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM meal_history WHERE week_index < $1`, cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: prune")
	}
	return int(tag.RowsAffected()), nil
}

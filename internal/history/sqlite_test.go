package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appetizer/internal/config"
	"appetizer/internal/model"
)

func configWithDriver(driver string) config.HistoryConfig {
	return config.HistoryConfig{Driver: driver, DatabaseURL: ":memory:"}
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// weeksAgo returns the WeekID n weeks before the current week.
func weeksAgo(n int) model.WeekID {
	return model.WeekOf(time.Now().AddDate(0, 0, -7*n))
}

func TestSQLite_RecordRecentRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	week := weeksAgo(1)
	require.NoError(t, st.Record(ctx, week, []string{"Chili", "Tacos"}))

	entries, err := st.Recent(ctx, 4)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, week, entries[0].WeekID)
	assert.Equal(t, "Chili", entries[0].RecipeID)
	assert.Equal(t, "Tacos", entries[1].RecipeID)
}

func TestSQLite_RecentWindowBoundary(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Record(ctx, weeksAgo(3), []string{"Chili"}))

	// Distance 3: included for window >= 3, excluded below.
	entries, err := st.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = st.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLite_RecentOrderedOldestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Record(ctx, weeksAgo(1), []string{"Tacos"}))
	require.NoError(t, st.Record(ctx, weeksAgo(3), []string{"Chili"}))
	require.NoError(t, st.Record(ctx, weeksAgo(2), []string{"Ramen"}))

	entries, err := st.Recent(ctx, 8)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Chili", entries[0].RecipeID)
	assert.Equal(t, "Ramen", entries[1].RecipeID)
	assert.Equal(t, "Tacos", entries[2].RecipeID)
}

func TestSQLite_DuplicateWeekRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	week := weeksAgo(1)
	require.NoError(t, st.Record(ctx, week, []string{"Chili"}))

	err := st.Record(ctx, week, []string{"Tacos"})
	var dup *model.DuplicateWeekError
	require.True(t, errors.As(err, &dup), "want DuplicateWeekError, got %v", err)
	assert.Equal(t, week, dup.WeekID)

	// History is unchanged after the rejected call.
	entries, err := st.Recent(ctx, 4)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Chili", entries[0].RecipeID)
}

func TestSQLite_RecordValidation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, st.Record(ctx, weeksAgo(1), nil))
	assert.Error(t, st.Record(ctx, weeksAgo(1), []string{"  "}))

	// Duplicate ids within one submission collapse to one entry.
	require.NoError(t, st.Record(ctx, weeksAgo(2), []string{"Chili", "Chili"}))
	n, err := st.Frequency(ctx, "Chili", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_Frequency(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Record(ctx, weeksAgo(1), []string{"Chili"}))
	require.NoError(t, st.Record(ctx, weeksAgo(2), []string{"Chili", "Tacos"}))
	require.NoError(t, st.Record(ctx, weeksAgo(6), []string{"Chili"}))

	n, err := st.Frequency(ctx, "Chili", 4)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = st.Frequency(ctx, "Chili", 8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = st.Frequency(ctx, "Ramen", 8)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLite_Prune(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Record(ctx, weeksAgo(10), []string{"Chili"}))
	require.NoError(t, st.Record(ctx, weeksAgo(1), []string{"Tacos"}))

	pruned, err := st.Prune(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	entries, err := st.Recent(ctx, 52)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tacos", entries[0].RecipeID)
}

func TestSQLite_NegativeWindow(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Recent(context.Background(), -1)
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configWithDriver("mysql"))
	assert.Error(t, err)
}

func TestOpen_SQLiteDefault(t *testing.T) {
	cfg := configWithDriver("")
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "h.db")
	st, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	assert.IsType(t, &SQLiteStore{}, st)
}

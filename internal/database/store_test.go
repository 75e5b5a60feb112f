package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "forms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestStore_UpsertAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	form := &Form{ChatID: 1, Name: "Мама", Relation: "мама", Occasion: "ДР", Age: 55, Hobbies: "сад", Budget: 3000}
	require.NoError(t, store.UpsertForm(ctx, form))

	got, err := store.GetForm(ctx, 1, "Мама")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "мама", got.Relation)
	assert.Equal(t, "ДР", got.Occasion)
	assert.Equal(t, 55, got.Age)
	assert.Equal(t, "сад", got.Hobbies)
	assert.Equal(t, 3000, got.Budget)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	got, err := store.GetForm(context.Background(), 1, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_UpsertReplacesAndKeepsOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 1, Name: "A", Age: 10}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 1, Name: "B", Age: 20}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 1, Name: "A", Age: 11}))

	names, err := store.ListFormNames(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	got, err := store.GetForm(ctx, 1, "A")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 11, got.Age)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestStore_ChatsAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 1, Name: "Shared", Age: 1}))
	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 2, Name: "Shared", Age: 2}))

	names, err := store.ListFormNames(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, names)

	got, err := store.GetForm(ctx, 2, "Shared")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Age)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 1, Name: "X"}))
	require.NoError(t, store.DeleteForm(ctx, 1, "X"))
	require.NoError(t, store.DeleteForm(ctx, 1, "X"), "deleting a missing form is a no-op")

	got, err := store.GetForm(ctx, 1, "X")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_UpsertRejectsInvalidForm(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	tests := map[string]*Form{
		"nil":             nil,
		"zero chat":       {Name: "A"},
		"blank name":      {ChatID: 1, Name: "  "},
		"negative age":    {ChatID: 1, Name: "A", Age: -1},
		"age over limit":  {ChatID: 1, Name: "A", Age: 151},
		"negative budget": {ChatID: 1, Name: "A", Budget: -5},
	}
	for name, form := range tests {
		err := store.UpsertForm(context.Background(), form)
		assert.ErrorIs(t, err, ErrInvalidForm, name)
	}
}

func TestStore_MaintenanceAndPing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.UpsertForm(ctx, &Form{ChatID: 1, Name: "A"}))
	require.NoError(t, store.RunSQLMaintenance(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.RunSQLMaintenance(cancelled), context.Canceled)
}

func TestWithBusyRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := withBusyRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = withBusyRetry(context.Background(), func() error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	require.Error(t, err)
	assert.Equal(t, maxBusyRetries+1, calls)

	calls = 0
	plain := errors.New("syntax error")
	err = withBusyRetry(context.Background(), func() error {
		calls++
		return plain
	})
	assert.ErrorIs(t, err, plain)
	assert.Equal(t, 1, calls)
}

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "forms.db?_pragma=busy_timeout(5000)", buildDSN("forms.db"))
	assert.Equal(t, "file::memory:?cache=shared", buildDSN("file::memory:?cache=shared"))
}

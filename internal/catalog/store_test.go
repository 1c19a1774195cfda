package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func cat() puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:    "cat",
		Theme: "pets",
		Board: [][]string{{"C", "A", "T"}, {"X", "Y", "Z"}},
		Words: []string{"cat"},
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrate_FailedScriptRollsBack(t *testing.T) {
	db := newTestDB(t)

	err := migrate(db, []assets.Migration{{
		Name: "002_broken.sql",
		SQL:  `CREATE TABLE junk (x INTEGER); INSERT INTO missing VALUES (1);`,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.sql")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name='002_broken.sql'`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE name='junk'`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_AppliesNewScriptOnce(t *testing.T) {
	db := newTestDB(t)
	ms := []assets.Migration{{Name: "002_tags.sql", SQL: `CREATE TABLE tags (name TEXT PRIMARY KEY);`}}

	require.NoError(t, migrate(db, ms))
	require.NoError(t, migrate(db, ms))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE name='tags'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	assert.FileExists(t, path)
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	st := NewStore(newTestDB(t))

	require.NoError(t, st.Put(ctx, cat()))
	got, err := st.Get(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, cat(), got)

	_, err = st.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	st := NewStore(newTestDB(t))
	require.NoError(t, st.Put(ctx, cat()))

	p := cat()
	p.Words = []string{"cat", "zyx"}
	require.NoError(t, st.Put(ctx, p))

	got, err := st.Get(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "zyx"}, got.Words)
	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	st := NewStore(newTestDB(t))
	p := cat()
	p.Board = [][]string{{"C", "A"}, {"T"}}

	require.ErrorIs(t, st.Put(context.Background(), p), puzzle.ErrRaggedBoard)
}

func TestStore_ListAndAt(t *testing.T) {
	ctx := context.Background()
	st := NewStore(newTestDB(t))
	for _, id := range []string{"b", "a", "c"} {
		p := cat()
		p.ID = id
		require.NoError(t, st.Put(ctx, p))
	}

	list, err := st.List(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	p, err := st.At(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", p.ID)

	_, err = st.At(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = st.At(ctx, -1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	st := NewStore(newTestDB(t))

	edited := cat()
	edited.Theme = "edited"
	require.NoError(t, st.Put(ctx, edited))

	other := cat()
	other.ID = "other"
	other.Words = []string{"cat", "owl"} // owl is not on the board; seeded anyway

	n, err := Seed(ctx, st, []puzzle.Puzzle{cat(), other})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := st.Get(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Theme, "existing puzzles are left alone")

	_, err = st.Get(ctx, "other")
	require.NoError(t, err)
}

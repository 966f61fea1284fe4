package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMigrated(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenMigrated_Reopen(t *testing.T) {
	cfg := Config{Path: filepath.Join(t.TempDir(), "nested", "data.db")}

	db, err := OpenMigrated(cfg)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO labels (id, slug, name) VALUES ('l1', 'kept', 'Kept')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenMigrated(cfg)
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM labels WHERE id = 'l1'`).Scan(&name))
	assert.Equal(t, "Kept", name)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTest(t)
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'works'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestConstraintHelpers(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO categories (id, slug) VALUES ('c1', 'album')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO categories (id, slug) VALUES ('c2', 'album')`)
	assert.True(t, IsUniqueViolation(err))

	_, err = db.ExecContext(ctx, `INSERT INTO works (id, slug, category_id) VALUES ('w1', 'w', 'missing')`)
	assert.True(t, IsForeignKeyViolation(err))

	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestWithTx_RollsBack(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO labels (id, slug, name) VALUES ('l1', 'l', 'L')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM labels`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(0))
	assert.Equal(t, "?", Placeholders(1))
	assert.Equal(t, "?, ?, ?", Placeholders(3))
}

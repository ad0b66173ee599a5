package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/version"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t,
		"file:/tmp/a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		buildDSN("/tmp/a.db"))
	assert.Equal(t,
		"file:/tmp/a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		buildDSN("file:/tmp/a.db?mode=rwc"))
}

func TestNewDBRequiresPath(t *testing.T) {
	_, err := NewDB("")
	require.Error(t, err)
}

func TestMigrateNewDatabase(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	require.NoError(t, d.Migrate(ctx))

	for _, table := range []string{"migration_history", "authors", "books"} {
		exists, err := d.CheckTableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s", table)
	}

	versions, err := d.ListMigrationVersions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{version.GetSchemaVersion(version.GetCurrentVersion())}, versions)

	// A second run finds nothing to do.
	require.NoError(t, d.Migrate(ctx))
	versions, err = d.ListMigrationVersions(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestForeignKeysEnabled(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	require.NoError(t, d.Migrate(ctx))

	var enabled int
	require.NoError(t, d.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)

	_, err := d.ExecContext(ctx, "INSERT INTO books (isbn, title, year, cover, author_id) VALUES ('1', 't', 2000, '', 42)")
	require.Error(t, err)
}

func TestMinorVersionList(t *testing.T) {
	list := getMinorVersionList()
	require.NotEmpty(t, list)
	assert.Equal(t, "0.1", list[0])
}

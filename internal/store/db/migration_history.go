package db

import (
	"context"
	"database/sql"
	"sort"

	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/version"
	"github.com/pkg/errors"
)

func (d *DB) UpsertMigrationHistory(ctx context.Context, upsert *store.UpsertMigrationHistory) (*store.MigrationHistory, error) {
	stmt := `
		INSERT INTO migration_history (
			version
		)
		VALUES (?)
		ON CONFLICT(version) DO UPDATE
		SET
			version=EXCLUDED.version
		RETURNING version, created_ts
	`
	var migrationHistory store.MigrationHistory
	if err := d.DB.QueryRowContext(ctx, stmt, upsert.Version).Scan(
		&migrationHistory.Version,
		&migrationHistory.CreatedTs,
	); err != nil {
		return nil, err
	}

	return &migrationHistory, nil
}

// ListMigrationVersions returns the recorded schema versions, oldest first.
func (d *DB) ListMigrationVersions(ctx context.Context, _ *store.FindMigrationHistory) ([]string, error) {
	rows, err := d.DB.QueryContext(ctx, "SELECT `version` FROM `migration_history`")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Sort(version.SortVersion(list))
	return list, nil
}

func (d *DB) CheckTableExists(ctx context.Context, tableName string) (bool, error) {
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
	var name string
	if err := d.DB.QueryRowContext(ctx, query, tableName).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

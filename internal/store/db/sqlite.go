package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/util"
	"github.com/Xunop/e-library/internal/version"
)

const latestSchemaFileName = "LATEST_SCHEMA.sql"

// pragmas are applied by the driver to every new connection.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

type DB struct {
	*sql.DB
	path string
}

func init() {
	util.RegisterSQLiteFunctions()
}

// NewDB opens the sqlite database stored at path.
func NewDB(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	d, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	return &DB{DB: d, path: path}, nil
}

func buildDSN(path string) string {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		dsn += sep + "_pragma=" + p
		sep = "&"
	}
	return dsn
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

// Migrate applies the latest schema to a new database, or the pending minor version
// migrations to an existing one.
func (d *DB) Migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()
	schemaVersion := version.GetSchemaVersion(currentVersion)

	exists, err := d.CheckTableExists(ctx, "migration_history")
	if err != nil {
		return errors.Wrap(err, "failed to check database table")
	}
	if !exists {
		log.Info("Applying latest schema", zap.String("version", schemaVersion))
		if err := d.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
			Version: schemaVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	migrationHistoryVersionList, err := d.ListMigrationVersions(ctx, &store.FindMigrationHistory{})
	if err != nil {
		return errors.Wrap(err, "failed to find migration history list")
	}
	if len(migrationHistoryVersionList) == 0 {
		minorVersion := version.GetMinorVersion(currentVersion)
		if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
			return errors.Wrapf(err, "failed to apply version %s migration", minorVersion)
		}
		return nil
	}

	latestMigrationHistoryVersion := migrationHistoryVersionList[len(migrationHistoryVersionList)-1]
	if !version.IsVersionGreaterThan(schemaVersion, latestMigrationHistoryVersion) {
		return nil
	}

	backupPath, err := d.backup(ctx)
	if err != nil {
		return err
	}
	log.Info("Starting migration",
		zap.String("from", latestMigrationHistoryVersion),
		zap.String("to", currentVersion),
		zap.String("backup", backupPath))

	for _, minorVersion := range getMinorVersionList() {
		// Patch versions never change the schema.
		normalizedVersion := minorVersion + ".0"
		if version.IsVersionGreaterThan(normalizedVersion, latestMigrationHistoryVersion) && version.IsVersionGreaterOrEqualThan(currentVersion, normalizedVersion) {
			log.Info("Applying migration", zap.String("version", normalizedVersion))
			if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
				return errors.Wrapf(err, "failed to apply minor version migration, backup kept at %s", backupPath)
			}
		}
	}

	if err := os.Remove(backupPath); err != nil {
		log.Warn("Failed to remove database backup", zap.String("path", backupPath), zap.Error(err))
	}
	return nil
}

// backup copies the database next to the original file before a migration.
func (d *DB) backup(ctx context.Context) (string, error) {
	backupPath := fmt.Sprintf("%s_%s_%d_backup.db", strings.TrimSuffix(d.path, ".db"), version.GetCurrentVersion(), time.Now().Unix())
	if _, err := d.DB.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return "", errors.Wrap(err, "failed to back up database")
	}
	return backupPath, nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	return d.execute(ctx, string(buf))
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("migration/%s/*.sql", minorVersion))
	if err != nil {
		return errors.Wrapf(err, "failed to find migration files for version %s", minorVersion)
	}

	// Files are applied in name order: 00001__init.sql, 00002__example.sql, ...
	sort.Strings(filenames)
	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %q", filename)
		}
		if err := d.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %q", filename)
		}
	}

	v := minorVersion + ".0"
	if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
		Version: v,
	}); err != nil {
		return errors.Wrapf(err, "failed to upsert migration history for version %s", v)
	}
	return nil
}

// execute runs the statements within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp is a regular expression for minor version directory.
var minorDirRegexp = regexp.MustCompile(`^migration/[0-9]+\.[0-9]+$`)

func getMinorVersionList() []string {
	minorVersionList := []string{}

	if err := fs.WalkDir(migrationFS, "migration", func(path string, file fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file.IsDir() && minorDirRegexp.MatchString(path) {
			minorVersionList = append(minorVersionList, file.Name())
		}
		return nil
	}); err != nil {
		panic(err)
	}

	// SortVersion compares full versions.
	full := make([]string, 0, len(minorVersionList))
	for _, v := range minorVersionList {
		full = append(full, v+".0")
	}
	sort.Sort(version.SortVersion(full))
	for i, v := range full {
		minorVersionList[i] = strings.TrimSuffix(v, ".0")
	}
	return minorVersionList
}

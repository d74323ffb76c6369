package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CoderRahul01/OrmeeHairs/internal/snapshot"
	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
	"github.com/CoderRahul01/OrmeeHairs/pkg/db"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSnapshotMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_snapshots.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no cart snapshot migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_snapshots",
		"PRIMARY KEY (device_id, slot_key)",
		"cart_snapshots_updated_at_idx",
		"DROP TABLE IF EXISTS cart_snapshots",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestValidateDirDefaultsToEmbedded(t *testing.T) {
	require.NoError(t, migrate.ValidateDir(""))
}

func TestValidateDirRejectsMissingDown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_things.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644))
	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-- +goose Down")
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid migration filename"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Cart Notes!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_cart_notes.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))
}

func TestDialect(t *testing.T) {
	d, err := migrate.Dialect(config.StorageBackendSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d)
	_, err = migrate.Dialect(config.StorageBackendRedis)
	assert.Error(t, err)
}

func TestMaybeRunAppliesEmbeddedMigrations(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.StorageBackendSQLite, config.DBConfig{SQLitePath: "file::memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev},
		Storage: config.StorageConfig{Backend: config.StorageBackendSQLite, AutoMigrate: true},
	}
	require.NoError(t, migrate.MaybeRun(ctx, cfg, logger.Nop(), client))

	storage, err := snapshot.NewSQLStorage(client.DB())
	require.NoError(t, err)
	require.NoError(t, storage.Save(ctx, "device-1", snapshot.DefaultKey, []byte(`{"items":[]}`)))
	got, err := storage.Load(ctx, "device-1", snapshot.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))
}

package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	assert.Equal(t, MigrationNotStarted, store.MigrationStatus())
	assert.False(t, store.DeleteLegacyAfterMigration())
	assert.Equal(t, "local", store.SyncMode())
}

func TestMigrationStatusSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetMigrationStatus(MigrationCompleted))

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, MigrationCompleted, reloaded.MigrationStatus())
}

func TestSetInvalidStatusRejected(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	err = store.SetMigrationStatus(MigrationStatus("exploded"))
	assert.Error(t, err)
	assert.Equal(t, MigrationNotStarted, store.MigrationStatus())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, MigrationNotStarted.IsValid())
	assert.True(t, MigrationInProgress.IsValid())
	assert.True(t, MigrationCompleted.IsValid())
	assert.True(t, MigrationFailed.IsValid())
	assert.False(t, MigrationStatus("done").IsValid())
	assert.False(t, MigrationStatus("").IsValid())
}

func TestPreferencesSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetDeleteLegacyAfterMigration(true))
	require.NoError(t, store.SetSyncMode("cloud"))

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	assert.True(t, reloaded.DeleteLegacyAfterMigration())
	assert.Equal(t, "cloud", reloaded.SyncMode())
}

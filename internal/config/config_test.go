package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/streakline/internal/config"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultAppwriteEndpoint, cfg.Appwrite.Endpoint)
	assert.Equal(t, constants.DefaultAppwriteProjectID, cfg.Appwrite.ProjectID)
	assert.Equal(t, constants.DefaultHabitsCollectionID, cfg.Appwrite.Collections.Habits)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, filepath.Join(home, ".config", "streakline"), cfg.ConfigDir)
	assert.Equal(t, filepath.Join(cfg.ConfigDir, "cache.db"), cfg.Cache)
	assert.False(t, cfg.IsDevelopment())

	ids := cfg.Collections()
	assert.Equal(t, constants.DefaultAppwriteDatabaseID, ids.DatabaseID)
	assert.Equal(t, constants.DefaultUsersCollectionID, ids.Users)
	assert.Equal(t, constants.DefaultCompletionsCollection, ids.Completions)
}

func TestEnvOverridesFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
appwrite:
  endpoint: https://file.example.com/v1/
  project_id: file-project
  collections:
    habits: file-habits
remote:
  timeout: 45s
timezone: Europe/Berlin
config_dir: `+dir+`
`)
	t.Setenv("STREAKLINE_APPWRITE_PROJECT_ID", "env-project")
	t.Setenv("STREAKLINE_REMOTE_TIMEOUT", "5s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com/v1", cfg.Appwrite.Endpoint, "trailing slash is trimmed")
	assert.Equal(t, "env-project", cfg.Appwrite.ProjectID)
	assert.Equal(t, "file-habits", cfg.Appwrite.Collections.Habits)
	assert.Equal(t, constants.DefaultUsersCollectionID, cfg.Appwrite.Collections.Users)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, dir, cfg.ConfigDir)

	client := cfg.Client()
	assert.Equal(t, "env-project", client.ProjectID)
	assert.Equal(t, 5*time.Second, client.Timeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "relative endpoint", key: "STREAKLINE_APPWRITE_ENDPOINT", val: "localhost/v1"},
		{name: "unknown timezone", key: "STREAKLINE_TIMEZONE", val: "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.Load("")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

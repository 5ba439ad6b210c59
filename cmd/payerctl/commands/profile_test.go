package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadProfileMissingFileUsesDefaults(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, defaultBaseURL, p.BaseURL)
	require.Equal(t, 30*time.Second, p.Timeout())
	cfg := p.SessionConfig()
	require.Zero(t, cfg.UnmappedPerPage)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://payers.internal
per_page:
  unmapped: 25
  payers: 100
  groups: 10
full_fetch_per_page: 5000
timeout_seconds: 5
`), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, "https://payers.internal", p.BaseURL)
	require.Equal(t, 5*time.Second, p.Timeout())
	cfg := p.SessionConfig()
	require.Equal(t, 25, cfg.UnmappedPerPage)
	require.Equal(t, 100, cfg.PayersPerPage)
	require.Equal(t, 10, cfg.GroupsPerPage)
	require.Equal(t, 5000, cfg.FullFetchPerPage)
}

func TestLoadProfileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("per_page: [1, 2"), 0o600))
	_, err := LoadProfile(path)
	require.Error(t, err)
}

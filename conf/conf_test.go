package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.Http.Address)
	require.Equal(t, "http://localhost:2358", cfg.Judge.Url)
	require.Equal(t, 8, cfg.Workers.Count)
	require.Equal(t, "Contests", cfg.Problems.Dir)
}

func TestLoadTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[http]
address = ":9999"
allowed_origins = ["https://arena.example.com"]

[judge]
url = "http://judge:2358"

[workers]
count = 4
queue_size = 256
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Http.Address)
	require.Equal(t, []string{"https://arena.example.com"}, cfg.Http.AllowedOrigins)
	require.Equal(t, "http://judge:2358", cfg.Judge.Url)
	require.Equal(t, 4, cfg.Workers.Count)
	require.Equal(t, 256, cfg.Workers.QueueSize)
	// untouched sections keep their defaults
	require.Equal(t, "Contests", cfg.Problems.Dir)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("JUDGE_URL", "http://elsewhere:2358")
	t.Setenv("WORKER_COUNT", "2")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.Equal(t, "http://elsewhere:2358", cfg.Judge.Url)
	require.Equal(t, 2, cfg.Workers.Count)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveWorkerCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[workers]\ncount = -1\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

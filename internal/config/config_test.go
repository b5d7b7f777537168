package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pqueue/internal/store"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, store.DefaultTable, cfg.Table)
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout)
	assert.Equal(t, "NORMAL", cfg.Synchronous)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(`
db: ./jobs.db
table: jobs
busy_timeout: 2s
synchronous: full
log_level: DEBUG
`))
	require.NoError(t, err)

	assert.Equal(t, Config{
		DB:          "./jobs.db",
		Table:       "jobs",
		BusyTimeout: 2 * time.Second,
		Synchronous: "FULL",
		LogLevel:    "debug",
	}, cfg)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("db: q.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "q.db", cfg.DB)
	assert.Equal(t, store.DefaultTable, cfg.Table)
	assert.Equal(t, "NORMAL", cfg.Synchronous)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("database: q.db\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"synchronous", "synchronous: sometimes\n", "invalid synchronous"},
		{"log level", "log_level: loud\n", "invalid log_level"},
		{"negative timeout", "busy_timeout: -1s\n", "invalid busy_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pqueue.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: from-file.db\ntable: tasks\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DB)
	assert.Equal(t, "tasks", cfg.Table)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStoreOptions_OpenStore(t *testing.T) {
	cfg := Default()
	cfg.Table = "tasks"

	s, err := store.Open(filepath.Join(t.TempDir(), "q.db"), cfg.StoreOptions()...)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "tasks", s.Table())
}

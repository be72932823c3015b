package flame

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/flame.yaml")
	require.NoError(t, err)

	require.Equal(t, zapcore.DebugLevel, cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Encoding)
	require.Equal(t, 5*time.Second, cfg.RTable.Lifetime)
	require.Equal(t, time.Second, cfg.RTable.SweepPeriod)
	require.Equal(t, "[::1]:9105", cfg.MetricsEndpoint)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flame.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rtable:\n  lifetime: 1m\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	expected := DefaultConfig()
	expected.RTable.Lifetime = time.Minute
	require.Equal(t, expected, cfg)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero lifetime", "rtable:\n  lifetime: 0s\n"},
		{"negative sweep period", "rtable:\n  sweep_period: -1s\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"not yaml", "rtable: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flame.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func TestInit(t *testing.T) {
	for _, encoding := range []string{"", "console", "json"} {
		cfg := Config{Level: zapcore.WarnLevel, Encoding: encoding}

		log, level, err := Init(&cfg)
		require.NoError(t, err, encoding)
		require.NotNil(t, log)
		require.Equal(t, zapcore.WarnLevel, level.Level())
		require.False(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))

		level.SetLevel(zapcore.DebugLevel)
		require.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
	}
}

func TestInitUnsupportedEncoding(t *testing.T) {
	_, _, err := Init(&Config{Encoding: "xml"})
	require.Error(t, err)
}

func TestConfigYAML(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte("level: debug"), &cfg))
	require.Equal(t, zapcore.DebugLevel, cfg.Level)
	require.Equal(t, "console", cfg.Encoding)
}

package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"json", &Config{LogFormat: "json"}},
		{"pretty", &Config{LogFormat: "pretty"}},
		{"nil config", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := NewLogger(tc.cfg)
			require.NotNil(t, logger)
			assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}

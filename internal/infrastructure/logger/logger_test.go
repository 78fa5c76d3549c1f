package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		expect zapcore.Level
	}{
		{"debug level", &Config{Level: "debug", Format: "console", Output: "stdout"}, zapcore.DebugLevel},
		{"warn level", &Config{Level: "warn", Format: "json", Output: "stderr"}, zapcore.WarnLevel},
		{"unknown level defaults to info", &Config{Level: "bogus", Format: "console", Output: "stdout"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.expect))
			if tt.expect != zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}

func TestContextPropagation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-123")
	ctx, _ = WithUserID(ctx, base, "user-456")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-456", GetUserID(ctx))

	L(ctx).Info("test message")
	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "user-456", fields["user_id"])
}

func TestFromContext_MissingLogger(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// no-op logger must not panic
	logger.Info("ignored")
}

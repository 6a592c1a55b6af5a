package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_LevelAndService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", ServiceName: "agora", Output: &buf})

	logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), `"service":"agora"`)
	assert.Contains(t, buf.String(), `"message":"kept"`)
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	assert.Equal(t, L(), Ctx(context.Background()))

	var buf bytes.Buffer
	scoped := zerolog.New(&buf).With().Str(FieldRequestID, "rid-1").Logger()
	ctx := WithLogger(context.Background(), scoped)

	Ctx(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"rid-1"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, parseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}

package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_MasksAndStamps(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler("smartotp", []string{"password"}, newJSONHandler(&buf, "debug")))

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.InfoContext(ctx, "verify",
		"secret", "JBSWY3DPEHPK3PXP",
		"password", "hunter2",
		"body", `{"code":"123456","account_id":"7"}`,
		slog.Group("req", slog.String("authorization", "Bearer x")),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "***", got["secret"])
	assert.Equal(t, "***", got["password"])
	assert.JSONEq(t, `{"code":"***","account_id":"7"}`, got["body"].(string))
	assert.Equal(t, map[string]any{"authorization": "***"}, got["req"])
	assert.Equal(t, "cid-123", got["_cID"])
	assert.Equal(t, "smartotp", got["service"])
	assert.Equal(t, "INFO", got["severity"])
	assert.Contains(t, got, "ts")
}

func TestHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler("smartotp", nil, newJSONHandler(&buf, "warn")))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

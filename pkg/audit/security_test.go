package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// setupTestLogger creates a test logger with an observer to capture log entries.
func setupTestLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

func TestNewSecurityAuditor(t *testing.T) {
	logger, _ := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	assert.NotNil(t, auditor)
	assert.NotNil(t, auditor.logger)
}

func TestLogAuthFailure(t *testing.T) {
	logger, recorded := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	details := RequestDetails{Method: "GET", Path: "/api/videos", Status: 401}
	auditor.LogAuthFailure(context.Background(), details, "192.168.1.100")

	logs := recorded.All()
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "Authentication failed", entry.Message)
	assert.Equal(t, "security_audit", entry.LoggerName)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/videos", fields["path"])
	assert.Equal(t, int64(401), fields["status"])
	assert.Equal(t, "192.168.1.100", fields["client_ip"])
	assert.Equal(t, "", fields["user_id"])
	assert.Equal(t, "warning", fields["severity"])

	var event SecurityEvent
	require.NoError(t, json.Unmarshal([]byte(fields["event_json"].(string)), &event))
	assert.Equal(t, EventAuthFailure, event.EventType)
	assert.Equal(t, details, event.Details)
	assert.Empty(t, event.UserID)
}

func TestLogAccessDenied_AttributesUser(t *testing.T) {
	logger, recorded := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	ctx := WithSubject(context.Background())
	SetUser(ctx, "coach-1")

	auditor.LogAccessDenied(ctx, RequestDetails{Method: "GET", Path: "/api/videos/x", Status: 403}, "10.0.0.1")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "Access denied", logs[0].Message)
	assert.Equal(t, "coach-1", logs[0].ContextMap()["user_id"])

	var event SecurityEvent
	require.NoError(t, json.Unmarshal([]byte(logs[0].ContextMap()["event_json"].(string)), &event))
	assert.Equal(t, EventAccessDenied, event.EventType)
	assert.Equal(t, "coach-1", event.UserID)
}

func TestLogUploadRejected_InfoLevel(t *testing.T) {
	logger, recorded := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	auditor.LogUploadRejected(context.Background(),
		RequestDetails{Method: "POST", Path: "/api/videos/upload", Status: 413}, "10.0.0.1")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, "info", logs[0].ContextMap()["severity"])
}

func TestSetUser_WithoutSubjectIsNoop(t *testing.T) {
	ctx := context.Background()
	SetUser(ctx, "coach-1")
	assert.Equal(t, "", UserFromContext(ctx))
}

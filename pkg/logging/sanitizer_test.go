package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeConnectionString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"url credentials", "postgres://coach:hunter2@db:5432/lax", "postgres://[REDACTED]@[REDACTED]/lax"},
		{"keyword form", "host=db user=coach password=hunter2 dbname=lax", "host=db user=coach password=[REDACTED] dbname=lax"},
		{"no secrets", "host=db dbname=lax", "host=db dbname=lax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeConnectionString(tt.input))
		})
	}
}

func TestSanitizeError(t *testing.T) {
	assert.Equal(t, "", SanitizeError(nil))

	err := errors.New("youtube: GET https://www.googleapis.com/youtube/v3/videos?key=AIzaSyA1234567890abcdefghij failed")
	got := SanitizeError(err)
	assert.NotContains(t, got, "AIzaSyA1234567890abcdefghij")
	assert.Contains(t, got, "key=[REDACTED]")

	err = errors.New("401 from provider: invalid key sk-ant-REDACTED")
	assert.NotContains(t, SanitizeError(err), "sk-ant-api03")

	err = errors.New("auth failed for Bearer eyJhbGciOi.eyJzdWIiOi.c2lnbmF0dXJl")
	assert.Equal(t, "auth failed for Bearer [REDACTED]", SanitizeError(err))
}

func TestSanitizeContent_Truncates(t *testing.T) {
	long := strings.Repeat("a", MaxContentLogLength+50)
	got := SanitizeContent(long)
	assert.Len(t, got, MaxContentLogLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	_, err = NewLogger("local", "chatty")
	assert.Error(t, err)
}

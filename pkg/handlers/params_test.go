package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseVideoID(t *testing.T) {
	validID := uuid.New()

	tests := []struct {
		name       string
		value      string
		wantOK     bool
		wantStatus int
	}{
		{"valid uuid", validID.String(), true, http.StatusOK},
		{"invalid uuid", "not-a-uuid", false, http.StatusBadRequest},
		{"empty", "", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/videos/x", nil)
			req.SetPathValue("id", tt.value)
			rec := httptest.NewRecorder()

			id, ok := ParseVideoID(rec, req, zap.NewNop())

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantOK {
				assert.Equal(t, validID, id)
			} else {
				assert.Equal(t, uuid.Nil, id)
				assert.Contains(t, rec.Body.String(), "invalid_video_id")
			}
		})
	}
}

func TestParseTeamID_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/teams/x/players", nil)
	req.SetPathValue("id", "eagles")
	rec := httptest.NewRecorder()

	_, ok := ParseTeamID(rec, req, zap.NewNop())

	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), "invalid_team_id")
}

func TestParseProfileID(t *testing.T) {
	profileID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/players/x/performance", nil)
	req.SetPathValue("profileId", profileID.String())
	rec := httptest.NewRecorder()

	id, ok := ParseProfileID(rec, req, zap.NewNop())

	assert.True(t, ok)
	assert.Equal(t, profileID, id)

	req.SetPathValue("profileId", "23")
	rec = httptest.NewRecorder()
	_, ok = ParseProfileID(rec, req, zap.NewNop())
	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), "invalid_profile_id")
}

func TestRequireUser(t *testing.T) {
	rec := httptest.NewRecorder()
	userID, ok := requireUser(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil)), zap.NewNop())
	assert.True(t, ok)
	assert.Equal(t, testUserID, userID)

	rec = httptest.NewRecorder()
	_, ok = requireUser(rec, httptest.NewRequest(http.MethodGet, "/", nil), zap.NewNop())
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

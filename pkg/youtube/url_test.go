package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ParseVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVideoID_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://vimeo.com/12345",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/channel/UC123",
	} {
		_, err := ParseVideoID(raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, raw)
	}
}

func TestParseISODuration(t *testing.T) {
	tests := map[string]int{
		"PT45S":    45,
		"PT12M30S": 750,
		"PT1H2M3S": 3723,
		"PT2H":     7200,
		"P1DT1S":   86401,
		"PT10.5S":  10,
		"PT0S":     0,
	}
	for in, want := range tests {
		got, err := ParseISODuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "P", "PT", "12:30", "PT1X"} {
		_, err := ParseISODuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestEnhanceTitle(t *testing.T) {
	meta := &Metadata{VideoID: "dQw4w9WgXcQ", Title: "Duke vs Syracuse Highlights"}

	assert.Equal(t, "My Title", EnhanceTitle("  My Title ", meta))
	assert.Equal(t, "Duke vs Syracuse Highlights", EnhanceTitle("", meta))
	assert.Equal(t, "YouTube Video dQw4w9WgXcQ", EnhanceTitle("", &Metadata{VideoID: "dQw4w9WgXcQ"}))
	assert.Equal(t, "YouTube Video", EnhanceTitle(" ", nil))
}

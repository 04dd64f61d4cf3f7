package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

func ts(v float64) *float64 { return &v }

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		typ     models.AnalysisType
		content string
		meta    models.AnalysisMetadata
		at      *float64
		want    string
	}{
		{"overall", models.AnalysisTypeOverall, "Good game", nil, nil, "Overall Game Analysis"},
		{"overall with segments", models.AnalysisTypeOverall, "", &models.OverallMetadata{SegmentCount: 18}, nil, "Overall Game Analysis (18 segments)"},
		{"player from text", models.AnalysisTypePlayerEvaluation, "#23 white dodges hard", nil, ts(30), "Player Evaluation: #23 White"},
		{"player from metadata", models.AnalysisTypePlayerEvaluation, "He dodges", &models.PlayerEvaluationMetadata{PlayerIdentifier: "#2 fogo"}, nil, "Player Evaluation: #2 FOGO"},
		{"anonymous player", models.AnalysisTypePlayerEvaluation, "A midfielder", nil, ts(61), "Player Evaluation at 1:01"},
		{"face-off", models.AnalysisTypeFaceOff, "Clamp win", nil, ts(135), "Face-off at 2:15"},
		{"fast break", models.AnalysisTypeTransition, "Fast break after a save", nil, ts(200), "Fast Break at 3:20"},
		{"goal", models.AnalysisTypeKeyMoment, "Scores top shelf", nil, ts(222), "Goal at 3:42"},
		{"highlight without time", models.AnalysisTypeKeyMoment, "Fans cheer", nil, nil, "Highlight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.typ, tt.content, tt.meta, tt.at))
		})
	}
}

func TestTags(t *testing.T) {
	tags := Tags(models.AnalysisTypeFaceOff, "#2 fogo rakes it and wins the face-off")
	assert.Equal(t, []string{"#2 fogo", "face_off", "rake"}, tags)

	tags = Tags(models.AnalysisTypeKeyMoment, "Scores on the assist")
	assert.Equal(t, []string{"assist", "goal", "key_moment"}, tags)
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "goal", Pluralize(1, "goal"))
	assert.Equal(t, "goals", Pluralize(3, "goal"))
	assert.Equal(t, "0 saves", CountLabel(0, "save"))
	assert.Equal(t, "1 turnover", CountLabel(1, "turnover"))
}

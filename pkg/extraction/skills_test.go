package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

func TestRateSkills_NoSignalIsDefault(t *testing.T) {
	got := RateSkills("He wore a helmet.")
	assert.Equal(t, models.SkillRatings{
		Dodging: 70, Shooting: 70, Passing: 70, GroundBalls: 70,
		Defense: 70, OffBall: 70, IQ: 70, Athleticism: 70,
	}, got)
}

func TestRateSkills_AllKeysInRange(t *testing.T) {
	inputs := []string{
		"",
		"exceptional dodging, poor passing, strong ground balls",
		"needs work on his shot; great vision; slow feet; elite defense",
	}
	for _, in := range inputs {
		s := RateSkills(in)
		assert.NoError(t, s.Validate())
		assert.Len(t, s.ByName(), 8)
	}
}

func TestRateSkills_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		content string
		get     func(models.SkillRatings) int
		want    int
	}{
		{"elite shot", "#23 white shows an exceptional shot", func(s models.SkillRatings) int { return s.Shooting }, ScoreElite},
		{"negative shot", "#23 white has an inconsistent shot", func(s models.SkillRatings) int { return s.Shooting }, ScoreNegative},
		{"positive passing", "Crisp passing all game", func(s models.SkillRatings) int { return s.Passing }, ScorePositive},
		{"noun then adjective", "His dodging is outstanding", func(s models.SkillRatings) int { return s.Dodging }, ScoreElite},
		{"needs work", "Needs to work on his ground balls", func(s models.SkillRatings) int { return s.GroundBalls }, ScoreNegative},
		{"iq phrase", "Reads the defense well and makes the right decision", func(s models.SkillRatings) int { return s.IQ }, ScorePositive},
		{"athletic", "An explosive athlete", func(s models.SkillRatings) int { return s.Athleticism }, ScoreElite},
		{"defense negative", "Gets beat on the first step and is late to slide", func(s models.SkillRatings) int { return s.Defense }, ScoreNegative},
		{"off-ball positive", "Smart off-ball movement with a back-door cut", func(s models.SkillRatings) int { return s.OffBall }, ScorePositive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.get(RateSkills(tt.content)))
		})
	}
}

func TestRateSkills_EliteBeatsNegative(t *testing.T) {
	s := RateSkills("Inconsistent shot early, but an exceptional shot late in the game")
	assert.Equal(t, ScoreElite, s.Shooting)
}

func TestSkillKeys(t *testing.T) {
	assert.Equal(t, []string{"dodging", "shooting", "passing", "groundBalls", "defense", "offBall", "iq", "athleticism"}, SkillKeys())
}

func TestMatchedSkillPhrases(t *testing.T) {
	got := MatchedSkillPhrases("exceptional shot, poor passing")
	assert.Equal(t, map[string]string{"shooting": "elite", "passing": "negative"}, got)
}

package extraction

import (
	"math"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// skillWeights sums to 1.
var skillWeights = struct {
	Dodging, Shooting, Passing, GroundBalls, Defense, OffBall, IQ, Athleticism float64
}{
	Dodging:     0.15,
	Shooting:    0.15,
	Passing:     0.15,
	GroundBalls: 0.10,
	Defense:     0.10,
	OffBall:     0.10,
	IQ:          0.15,
	Athleticism: 0.10,
}

// ratingBuckets map a weighted skill average to a 1.0-5.0 rating; first
// threshold reached wins, below all of them is ratingFloor.
var ratingBuckets = []struct {
	Min    float64
	Rating float64
}{
	{85, 4.5},
	{75, 4.0},
	{65, 3.5},
	{55, 3.0},
}

const (
	ratingFloor   = 2.5
	ratingCeiling = 5.0

	youthBonus     = 0.5
	coachableBonus = 0.3
	athleticBonus  = 0.2

	coachableScore = 85
	baseCoachScore = 70
)

// WeightedSkillAverage is the weighted mean of the eight skills.
func WeightedSkillAverage(s models.SkillRatings) float64 {
	w := skillWeights
	return float64(s.Dodging)*w.Dodging +
		float64(s.Shooting)*w.Shooting +
		float64(s.Passing)*w.Passing +
		float64(s.GroundBalls)*w.GroundBalls +
		float64(s.Defense)*w.Defense +
		float64(s.OffBall)*w.OffBall +
		float64(s.IQ)*w.IQ +
		float64(s.Athleticism)*w.Athleticism
}

// OverallRating buckets the weighted average onto the 0.5-step scale.
func OverallRating(s models.SkillRatings) float64 {
	avg := WeightedSkillAverage(s)
	// Guard float noise so an exact 85 average lands in the 85 bucket.
	avg = math.Round(avg*1e6) / 1e6
	for _, b := range ratingBuckets {
		if avg >= b.Min {
			return b.Rating
		}
	}
	return ratingFloor
}

var (
	youthRules = RuleSet{
		rule("youth", `\b(?:young|youth|freshman|sophomore|underclassman|raw|upside|developing|high ceiling|room to grow)\b`),
	}
	coachableRules = RuleSet{
		rule("coachable", `\b(?:coachable|receptive|listens|willing to learn|work ethic|hard[- ]working|hard worker|takes instruction)\b`),
	}
	athleticRules = RuleSet{
		rule("athletic", `\b(?:athletic|athleticism|explosive|fast|speedy|quick|agile)\b`),
	}
)

// PotentialRating starts from overall and adds fixed bonuses for youth,
// coachability and athleticism language, capped at 5.0.
func PotentialRating(overall float64, content string) float64 {
	text := Normalize(content)
	p := overall
	if youthRules.Any(text) {
		p += youthBonus
	}
	if coachableRules.Any(text) {
		p += coachableBonus
	}
	if athleticRules.Any(text) {
		p += athleticBonus
	}
	return math.Min(ratingCeiling, math.Round(p*10)/10)
}

// CoachabilityScore is 85 with coachable language, 70 otherwise.
func CoachabilityScore(content string) int {
	if coachableRules.Any(Normalize(content)) {
		return coachableScore
	}
	return baseCoachScore
}

var handednessRules = RuleSet{
	rule("both", `\b(?:ambidextrous|both hands|either hand|off[- ]hand (?:is|looks) (?:strong|good|solid)|two-handed)\b`),
	rule("left", `\b(?:left[- ]handed|lefty|lefties|left hand(?:ed)? shot|on (?:his|her|their) left)\b`),
	rule("right", `\b(?:right[- ]handed|righty|right hand(?:ed)? shot|on (?:his|her|their) right)\b`),
}

var heightRules = RuleSet{
	rule("tall", `\b(?:tall|lanky|long[- ]limbed|towering|big body|6'\s?[2-9]|6-[2-9])\b`),
	rule("short", `\b(?:short|small|compact|undersized|shifty little)\b`),
}

// Handedness returns left, right, both or unknown.
func Handedness(content string) string {
	return handednessRules.FirstTag(Normalize(content), "unknown")
}

// HeightEstimate returns tall, short or average.
func HeightEstimate(content string) string {
	return heightRules.FirstTag(Normalize(content), "average")
}

// BuildObservation assembles everything the profile aggregator needs from
// one player_evaluation text.
func BuildObservation(info IdentifierInfo, skills models.SkillRatings, content string) models.ProfileObservation {
	overall := OverallRating(skills)
	return models.ProfileObservation{
		PlayerIdentifier:  info.Identifier,
		JerseyNumber:      models.StringPtr(info.JerseyNumber),
		TeamColor:         models.StringPtr(info.TeamColor),
		Position:          models.StringPtr(info.Position),
		Handedness:        Handedness(content),
		HeightEstimate:    HeightEstimate(content),
		Skills:            skills,
		OverallRating:     overall,
		PotentialRating:   PotentialRating(overall, content),
		CoachabilityScore: CoachabilityScore(content),
	}
}

// MergeSkill is the profile smoothing policy: the stored value moves halfway
// toward the new observation, rounding half away from zero.
func MergeSkill(old, observed int) int {
	return int(math.Round(float64(old+observed) / 2))
}

// MergeSkills applies MergeSkill field by field.
func MergeSkills(old, observed models.SkillRatings) models.SkillRatings {
	return models.SkillRatings{
		Dodging:     MergeSkill(old.Dodging, observed.Dodging),
		Shooting:    MergeSkill(old.Shooting, observed.Shooting),
		Passing:     MergeSkill(old.Passing, observed.Passing),
		GroundBalls: MergeSkill(old.GroundBalls, observed.GroundBalls),
		Defense:     MergeSkill(old.Defense, observed.Defense),
		OffBall:     MergeSkill(old.OffBall, observed.OffBall),
		IQ:          MergeSkill(old.IQ, observed.IQ),
		Athleticism: MergeSkill(old.Athleticism, observed.Athleticism),
	}
}

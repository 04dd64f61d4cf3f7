package extraction

import (
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// keyMomentPriority maps classifier categories to event types; the first
// category present wins.
var keyMomentPriority = []struct {
	Play  PlayType
	Event models.EventType
}{
	{PlayGoal, models.EventGoal},
	{PlayAssist, models.EventAssist},
	{PlaySave, models.EventSave},
	{PlayCausedTurnover, models.EventCausedTurnover},
	{PlayPenalty, models.EventPenalty},
	{PlayShot, models.EventShot},
}

// KeyMomentType picks the event type of a key moment by fixed priority:
// goal, assist, save, caused turnover, penalty, shot, else highlight.
func KeyMomentType(content string) models.EventType {
	text := Normalize(content)
	for _, p := range keyMomentPriority {
		if categoryByType[p.Play].matches(text) {
			return p.Event
		}
	}
	return models.EventHighlight
}

var (
	gameContext = RuleSet{
		rule(string(models.ContextManUp), `\bman[- ]up\b|\bextra[- ]man\b|\bemo\b|\bpower play\b|\bman advantage\b`),
		rule(string(models.ContextManDown), `\bman[- ]down\b|\bmdd\b|\bpenalty kill\b|\bshort[- ]handed\b`),
		rule(string(models.ContextTransition), `\btransition\b|\bfast[- ]?breaks?\b|\bunsettled\b|\bodd[- ]man\b`),
	}
	fieldZone = RuleSet{
		rule("crease", `\bcrease\b|\bdoorstep\b`),
		rule("behind_goal", `\bbehind the (?:cage|goal|net)\b|\bgle\b|\bat x\b`),
		rule("wing", `\bwing\b|\bwing area\b`),
		rule("top_of_box", `\btop of the (?:box|arc|restraining box)\b|\bup top\b`),
		rule("alley", `\balley\b`),
		rule("midfield", `\bmidfield\b|\bmidline\b|\bat the x\b|\bcenter of the field\b`),
		rule("defensive_end", `\bdefensive (?:end|zone|half)\b`),
		rule("offensive_end", `\boffensive (?:end|zone|half)\b`),
	}
	fieldSide = RuleSet{
		rule("left", `\bleft (?:side|wing|alley|pipe|corner)\b|\bfrom the left\b`),
		rule("right", `\bright (?:side|wing|alley|pipe|corner)\b|\bfrom the right\b`),
		rule("center", `\b(?:center|middle) of the field\b|\bup the middle\b|\bcentral\b`),
	}
)

// GameContextOf infers the manpower situation from text.
func GameContextOf(content string) models.GameContext {
	return models.GameContext(gameContext.FirstTag(Normalize(content), string(models.ContextEvenStrength)))
}

// FieldZoneOf returns the field zone mentioned, or nil.
func FieldZoneOf(content string) *string {
	return fieldZone.FirstTagPtr(Normalize(content))
}

// FieldSideOf returns left, right or center, or nil.
func FieldSideOf(content string) *string {
	return fieldSide.FirstTagPtr(Normalize(content))
}

// MomentumOf derives a momentum tag from an event's type and outcome.
func MomentumOf(eventType models.EventType, success bool) models.Momentum {
	switch eventType {
	case models.EventGoal, models.EventAssist, models.EventSave, models.EventCausedTurnover:
		return models.MomentumPositive
	case models.EventPenalty:
		return models.MomentumNegative
	case models.EventFaceoff, models.EventTransition, models.EventShot:
		if success {
			return models.MomentumPositive
		}
		return models.MomentumNegative
	}
	return models.MomentumNeutral
}

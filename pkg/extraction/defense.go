package extraction

import (
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

const (
	DefaultDefenseType   = "man"
	DefaultDefenseResult = "no_result"
)

var (
	defenseType = RuleSet{
		rule("double", `\bdouble(?:s|d)?(?:[- ]team(?:s|ed)?)?\b`),
		rule("slide", `\bslid(?:e|es|ing)\b|\bslid\b`),
		rule("zone", `\bzone\b`),
		rule("approach", `\bapproach(?:es|ed)?\b`),
	}
	checkType = CaptureSet{
		rx(`\b(poke|slap|lift|wrap|body|kayak|over-the-head)[- ]?checks?\b`),
		rx(`\b(poke|slap|lift|wrap)s?\b`),
	}
	defenseResult = RuleSet{
		rule("penalty", `\bpenalt(?:y|ies)\b|\bflag(?:s|ged)?\b|\bslashing\b|\bcross[- ]check`),
		rule("ground_ball", `\bground[- ]?balls?\b|\bscoop(?:s|ed)?\b`),
	}
)

// ExtractDefensiveDetail probes defensive text for a save or caused turnover.
func ExtractDefensiveDetail(content string, eventType models.EventType) models.DefensiveDetail {
	text := Normalize(content)

	d := models.DefensiveDetail{
		DefenseType: defenseType.FirstTag(text, DefaultDefenseType),
		CheckType:   checkType.FirstPtr(text),
		Result:      DefaultDefenseResult,
	}
	if eventType == models.EventSave {
		d.DefenseType = "goaltending"
	}

	switch r := defenseResult.FirstTag(text, ""); {
	case r == "penalty":
		d.Result = r
	case eventType == models.EventCausedTurnover:
		d.Result = "caused_turnover"
	case eventType == models.EventSave:
		d.Result = "save"
	case r != "":
		d.Result = r
	}
	return d
}

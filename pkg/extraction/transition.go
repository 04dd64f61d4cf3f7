package extraction

import (
	"strconv"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// Transition detail defaults when no rule fires.
const (
	DefaultTransitionType = "transition"
	DefaultPressureLevel  = "medium"
	DefaultFieldSpacing   = "neutral"
)

var (
	transitionType = RuleSet{
		rule("fast_break", `\bfast[- ]?breaks?\b|\bbreakaways?\b`),
		rule("slow_break", `\bslow[- ]?breaks?\b|\bunsettled\b`),
		rule("clear", `\bclear(?:s|ed|ing)?\b`),
		rule("ride", `\brid(?:e|es|ing)\b|\brode\b`),
	}
	clearingTeam = CaptureSet{
		rx(`\b` + colorCapt + teamNoun + `(?:\s+defense)?\s+(?:clears?|cleared|clearing|breaks? out|pushes|pushed)\b`),
		rx(`\bclear(?:s|ed)? by (?:the )?` + colorCapt + `\b`),
	}
	ridingTeam = CaptureSet{
		rx(`\b` + colorCapt + teamNoun + `(?:\s+attack)?\s+(?:rides?|rode|riding|pressures?|pressured)\b`),
		rx(`\bridden by (?:the )?` + colorCapt + `\b`),
	}
	offensiveFormation = CaptureSet{
		rx(`\b([1-4]-[1-4]-[1-4])\b`),
		rx(`\b(circle|inverted?|two-man game|stack)\b`),
	}
	defensiveFormation = CaptureSet{
		rx(`\b(10-man ride|ten-man ride|zone ride|man[- ]to[- ]man|zone|backer|adjacent slides?|crease slide)\b`),
	}
	explicitPassCount = CaptureSet{
		rx(`\b(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)[- ](?:quick |crisp |short |long )?pass(?:es)?\b`),
	}
	passMentions      = RuleSet{rule("pass", `\bpass(?:es|ed)?\b`)}
	groundBallMention = RuleSet{rule("ground_ball", `\bground[- ]?balls?\b|\bscoop(?:s|ed)?\b`)}
	pressureLevel     = RuleSet{
		rule("high", `\b(?:heavy|intense|aggressive|high|full[- ]field|swarming) (?:pressure|ride)\b|\b(?:10|ten)-man ride\b|\bpressured? hard\b`),
		rule("low", `\b(?:light|soft|minimal|little|no|low) (?:pressure|ride)\b|\bunpressured\b`),
	}
	fieldSpacing = RuleSet{
		rule("good", `\b(?:good|great|excellent|nice|wide) spacing\b|\bwell[- ]spaced\b|\bspreads? the field\b`),
		rule("poor", `\b(?:poor|bad|tight|no) spacing\b|\bbunched\b|\bcrowded\b|\bclogged\b`),
	}
	numbersAdvantage = rx(`\b([1-6])[- ]?(?:on|v|vs\.?|versus)[- ]?([1-6])\b`)
	transitionFailed = RuleSet{
		rule("turnover", `\bturnovers?\b|\bturn(?:s|ed)? (?:it|the ball) over\b`),
		rule("failed", `\bfail(?:s|ed)?\b`),
		rule("intercepted", `\bintercept(?:ed|ion)\b`),
		rule("stripped", `\bstripped\b`),
		rule("out_of_bounds", `\bout of bounds\b`),
		rule("offsides", `\boffsides?\b`),
		rule("lost", `\blost (?:the ball|possession)\b`),
	}
	resultingOpportunity = RuleSet{
		rule("goal", `\bgoals?\b|\bscor(?:es|ed)\b|\bback of the net\b`),
		rule("shot", `\bshots?\b|\bshoots\b`),
		rule("turnover", `\bturnovers?\b|\bturn(?:s|ed)? (?:it|the ball) over\b|\bintercept(?:ed|ion)\b`),
		rule("settled_offense", `\bsettl(?:e|es|ed|ing)\b|\bsets? up the offense\b`),
	}
	transitionDuration = CaptureSet{
		rx(`\b(\d{1,2})\s*(?:seconds?|secs?)\b`),
	}
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// ExtractTransitionDetail probes transition text field by field.
func ExtractTransitionDetail(content string) models.TransitionDetail {
	text := Normalize(content)

	d := models.TransitionDetail{
		TransitionType:       transitionType.FirstTag(text, DefaultTransitionType),
		ClearingTeam:         clearingTeam.FirstPtr(text),
		RidingTeam:           ridingTeam.FirstPtr(text),
		OffensiveFormation:   offensiveFormation.FirstPtr(text),
		DefensiveFormation:   defensiveFormation.FirstPtr(text),
		PassCount:            passCount(text),
		GroundBallCount:      groundBallMention.Count(text),
		PressureLevel:        pressureLevel.FirstTag(text, DefaultPressureLevel),
		FieldSpacing:         fieldSpacing.FirstTag(text, DefaultFieldSpacing),
		Success:              !transitionFailed.Any(text),
		ResultingOpportunity: resultingOpportunity.FirstTagPtr(text),
	}
	if m := numbersAdvantage.FindStringSubmatch(text); m != nil {
		adv := m[1] + "v" + m[2]
		d.NumbersAdvantage = &adv
	}
	if s := transitionDuration.First(text); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			d.DurationSeconds = &n
		}
	}
	return d
}

func passCount(text string) int {
	if s := explicitPassCount.First(text); s != "" {
		if n, ok := numberWords[s]; ok {
			return n
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return passMentions.Count(text)
}

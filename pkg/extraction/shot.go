package extraction

import (
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

const (
	DefaultShotVelocity = "medium"
	DefaultShotOutcome  = "unknown"
)

var (
	shotType = RuleSet{
		rule("behind_the_back", `\bbehind[- ]the[- ]back\b|\bbtb\b`),
		rule("twister", `\btwister\b`),
		rule("dive", `\bdiv(?:e|es|ing) shot\b|\bdives? (?:in|across|into)\b`),
		rule("jump_shot", `\bjump(?:ing)? shot\b`),
		rule("quick_stick", `\bquick[- ]stick\b`),
		rule("bounce", `\bbounce shot\b|\bbounces? (?:it )?in\b`),
		rule("underhand", `\bunderhand\b`),
		rule("sidearm", `\bside[- ]?arm\b`),
		rule("step_down", `\bstep[- ]down\b`),
		rule("overhand", `\boverhand\b|\bover the top\b`),
	}
	shotLocation = RuleSet{
		rule("top_shelf", `\btop (?:shelf|corner)\b|\bupper (?:corner|ninety)\b|\bbar[- ]down\b`),
		rule("five_hole", `\bfive[- ]hole\b|\bbetween the legs\b`),
		rule("far_pipe", `\bfar (?:pipe|post|side)\b`),
		rule("near_pipe", `\bnear (?:pipe|post|side)\b|\bshort side\b`),
		rule("low", `\blow (?:corner|left|right)\b|\bworm[- ]burner\b|\blow to the\b`),
		rule("off_hip", `\boff[- ]hip\b`),
	}
	shotDistance = RuleSet{
		rule("crease", `\bcrease\b|\bdoorstep\b|\bpoint[- ]blank\b`),
		rule("inside", `\binside\b|\bclose range\b|\bin tight\b`),
		rule("outside", `\boutside\b|\blong[- ]range\b|\btop of the (?:box|arc|restraining box)\b|\bfrom distance\b`),
	}
	shotVelocity = RuleSet{
		rule("high", `\b(?:rocket|cannon|laser|hard|blistering|heater|missile|rips?|ripped|fires?|fired|unleash(?:es|ed)?)\b`),
		rule("low", `\b(?:soft|lob|floater|weak shot|change[- ]up)\b`),
	}
	shotOutcome = RuleSet{
		rule("post", `\b(?:pipe|post|crossbar)\b`),
		rule("blocked", `\bblock(?:s|ed)?\b`),
		rule("saved", `\bsav(?:e|es|ed)\b|\bstopped\b|\bdenied\b`),
		rule("missed", `\bmiss(?:es|ed)?\b|\bwide\b|\bover the (?:cage|net|goal)\b`),
	}
)

// ExtractShotDetail probes shot text. eventType decides the outcome when
// the moment was already classified as a goal.
func ExtractShotDetail(content string, eventType models.EventType) models.ShotDetail {
	text := Normalize(content)

	outcome := shotOutcome.FirstTag(text, DefaultShotOutcome)
	if eventType == models.EventGoal || (outcome == DefaultShotOutcome && HasPlay(content, PlayGoal)) {
		outcome = "goal"
	}

	return models.ShotDetail{
		ShotType:     shotType.FirstTagPtr(text),
		ShotLocation: shotLocation.FirstTagPtr(text),
		ShotDistance: shotDistance.FirstTagPtr(text),
		Velocity:     shotVelocity.FirstTag(text, DefaultShotVelocity),
		Outcome:      outcome,
	}
}

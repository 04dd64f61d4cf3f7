package extraction

import (
	"strings"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// Skill tier scores.
const (
	ScoreElite    = 90
	ScorePositive = 80
	ScoreDefault  = 70
	ScoreNegative = 60
)

const (
	eliteWords    = `exceptional|elite|outstanding|excellent|phenomenal|superb|dominant|lethal|world-class|great|special|tremendous`
	positiveWords = `good|strong|solid|nice|quick|crisp|accurate|effective|sharp|smart|reliable|impressive|confident|polished|fluid|heady`
	negativeWords = `poor|weak|inconsistent|sloppy|slow|limited|questionable|inaccurate|erratic|shaky|suspect|below[- ]average|average at best`
	improveVerbs  = `needs (?:to )?(?:work on|improve|develop|improvement (?:on|in))|struggles (?:with|on)|could improve|must improve|lacks`
	wordGap       = `(?:\s+[a-z'-]+){0,2}?\s+`
)

// skillVocabulary lists the nouns that name one skill.
type skillVocabulary struct {
	Key   string
	Nouns string
	// Extra rules appended to a tier, for phrasing the generic
	// adjective-noun templates do not cover.
	ExtraElite    []string
	ExtraPositive []string
	ExtraNegative []string
}

var skillVocabularies = []skillVocabulary{
	{
		Key:           "dodging",
		Nouns:         `dodg(?:e|es|ing|er)|split dodges?|footwork|change of direction|first step|dodgers?`,
		ExtraElite:    []string{`\b(?:blows|blew) by\b`, `\bunguardable\b`},
		ExtraPositive: []string{`\bbeats (?:his|her|their) (?:man|defender)\b`, `\bgets to (?:the|his|her|their) (?:spot|hands)\b`},
		ExtraNegative: []string{`\bgets? pushed (?:out|wide)\b`},
	},
	{
		Key:           "shooting",
		Nouns:         `shots?|shooting|shooter|release|finish(?:ing)?|stick side|shot selection`,
		ExtraElite:    []string{`\b(?:rocket|cannon|laser) (?:of a )?shot\b`, `\bpicks? (?:the|a) corner\b`},
		ExtraPositive: []string{`\bon[- ]target\b`, `\bfinds? the back of the net\b`},
		ExtraNegative: []string{`\bmiss(?:es|ed)? (?:the )?(?:net|cage|goal|frame)\b`, `\bsprays? (?:his|her|their )?shots?\b`},
	},
	{
		Key:           "passing",
		Nouns:         `pass(?:es|ing)?|feeds?|feeding|feeder|distribution|outlets?`,
		ExtraElite:    []string{`\bthreads? the needle\b`, `\bno[- ]look\b`},
		ExtraPositive: []string{`\bhits? (?:the|his|her|their) (?:cutter|teammate) in stride\b`, `\btape[- ]to[- ]tape\b`},
		ExtraNegative: []string{`\berrant pass(?:es)?\b`, `\bthrows? (?:it )?away\b`},
	},
	{
		Key:           "groundBalls",
		Nouns:         `ground[- ]?balls?|gbs?|scoop(?:s|ing)?|loose balls?`,
		ExtraElite:    []string{`\bvacuum\b`, `\bwins? every ground ball\b`},
		ExtraPositive: []string{`\bscoops? (?:it|the ball) (?:up )?cleanly\b`, `\bwins? the ground ball\b`},
		ExtraNegative: []string{`\bloses? the ground ball\b`, `\bover-?runs? the ball\b`},
	},
	{
		Key:           "defense",
		Nouns:         `defen[cs]e|defending|on-ball defense|positioning|slides?|sliding|approach(?:es)?|stick checks?|takeaways?`,
		ExtraElite:    []string{`\block(?:s|ed)? down\b`, `\bshut(?:s)? down\b`},
		ExtraPositive: []string{`\bcaus(?:es|ed) (?:a )?turnovers?\b`, `\bstays? (?:in front|on (?:his|her|their) hip)\b`},
		ExtraNegative: []string{`\bgets? beat\b`, `\blate (?:slide|to slide)\b`, `\bflat[- ]footed\b`},
	},
	{
		Key:           "offBall",
		Nouns:         `off[- ]ball(?: movement)?|cuts?|cutting|spacing|movement without the ball|picks?|screens?`,
		ExtraElite:    []string{`\balways open\b`},
		ExtraPositive: []string{`\bfinds? (?:the )?open space\b`, `\bback-?door cut\b`},
		ExtraNegative: []string{`\bstands? still\b`, `\bball[- ]watching\b`},
	},
	{
		Key:           "iq",
		Nouns:         `iq|lacrosse iq|decision[- ]making|decisions?|awareness|vision|field sense|reads?|instincts|game sense`,
		ExtraElite:    []string{`\bcoach on the field\b`, `\bsees the field\b`},
		ExtraPositive: []string{`\bsmart play\b`, `\bright decision\b`, `\breads? the (?:defense|slide|play)\b`},
		ExtraNegative: []string{`\bforces? (?:passes|shots|it)\b`, `\bbad decision\b`},
	},
	{
		Key:           "athleticism",
		Nouns:         `athleticism|athlete|speed|quickness|agility|explosiveness|burst|strength|motor|acceleration`,
		ExtraElite:    []string{`\bexplosive\b`, `\bblazing\b`, `\bfreak athlete\b`},
		ExtraPositive: []string{`\bathletic\b`, `\bquick feet\b`, `\bgood wheels\b`},
		ExtraNegative: []string{`\bslow[- ]footed\b`, `\blacks (?:speed|quickness)\b`, `\bsluggish\b`},
	},
}

// skillTiers holds one RuleSet per skill key, ordered elite, positive,
// negative. Rule.Value carries the tier score.
var skillTiers = buildSkillTiers(skillVocabularies)

func buildSkillTiers(vocab []skillVocabulary) map[string]RuleSet {
	tiers := make(map[string]RuleSet, len(vocab))
	for _, v := range vocab {
		var rs RuleSet
		rs = append(rs, tierRules(v.Key+".elite", ScoreElite, eliteWords, v.Nouns, v.ExtraElite)...)
		rs = append(rs, tierRules(v.Key+".positive", ScorePositive, positiveWords, v.Nouns, v.ExtraPositive)...)
		rs = append(rs, tierRules(v.Key+".negative", ScoreNegative, negativeWords, v.Nouns, v.ExtraNegative)...)
		rs = append(rs, Rule{
			Tag:     v.Key + ".negative",
			Value:   ScoreNegative,
			Pattern: rx(`\b(?:` + improveVerbs + `)` + wordGap + `(?:` + v.Nouns + `)\b`),
		})
		tiers[v.Key] = rs
	}
	return tiers
}

// tierRules builds "<adjective> [up to two words] <noun>" and
// "<noun> is|was|looks <adjective>" rules plus any extras.
func tierRules(tag string, score int, adjectives, nouns string, extras []string) []Rule {
	rules := []Rule{
		{Tag: tag, Value: score, Pattern: rx(`\b(?:` + adjectives + `)` + wordGap + `(?:` + nouns + `)\b`)},
		{Tag: tag, Value: score, Pattern: rx(`\b(?:` + nouns + `)\s+(?:is|was|looks|remains|are|were)\s+(?:very\s+|really\s+|extremely\s+)?(?:` + adjectives + `)\b`)},
	}
	for _, e := range extras {
		rules = append(rules, Rule{Tag: tag, Value: score, Pattern: rx(e)})
	}
	return rules
}

// rateSkill resolves one skill from normalized text. The first matching
// tier wins, so elite language beats negative language for the same skill.
func rateSkill(key, text string) int {
	if r, ok := skillTiers[key].First(text); ok {
		return r.Value
	}
	return ScoreDefault
}

// RateSkills maps qualitative phrases to the eight skill scores. Every
// field is always set; a skill with no signal is ScoreDefault.
func RateSkills(content string) models.SkillRatings {
	text := Normalize(content)
	return models.SkillRatings{
		Dodging:     rateSkill("dodging", text),
		Shooting:    rateSkill("shooting", text),
		Passing:     rateSkill("passing", text),
		GroundBalls: rateSkill("groundBalls", text),
		Defense:     rateSkill("defense", text),
		OffBall:     rateSkill("offBall", text),
		IQ:          rateSkill("iq", text),
		Athleticism: rateSkill("athleticism", text),
	}
}

// SkillKeys lists the rated skills in output order.
func SkillKeys() []string {
	keys := make([]string, len(skillVocabularies))
	for i, v := range skillVocabularies {
		keys[i] = v.Key
	}
	return keys
}

// MatchedSkillPhrases returns the tier tag that fired for each skill with a
// signal. Used for tags and debugging output.
func MatchedSkillPhrases(content string) map[string]string {
	text := Normalize(content)
	out := make(map[string]string)
	for key, rs := range skillTiers {
		if r, ok := rs.First(text); ok {
			out[key] = strings.TrimPrefix(r.Tag, key+".")
		}
	}
	return out
}

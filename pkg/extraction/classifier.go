package extraction

// PlayType is a category of play detected in analysis text.
type PlayType string

const (
	PlayGoal           PlayType = "goal"
	PlayAssist         PlayType = "assist"
	PlayHockeyAssist   PlayType = "hockey_assist"
	PlaySave           PlayType = "save"
	PlayShot           PlayType = "shot"
	PlayTurnover       PlayType = "turnover"
	PlayCausedTurnover PlayType = "caused_turnover"
	PlayGroundBall     PlayType = "ground_ball"
	PlayCheck          PlayType = "check"
	PlayPenalty        PlayType = "penalty"
	PlayClear          PlayType = "clear"
	PlayBallTouch      PlayType = "ball_touch"
	PlayFaceOff        PlayType = "face_off"
	PlayTransition     PlayType = "transition"
)

// ClassifiedPlay is one detected play and whether it went the acting side's way.
type ClassifiedPlay struct {
	Type    PlayType `json:"type"`
	Success bool     `json:"success"`
}

type successPolicy int

const (
	// succeeds unless a failure rule matches
	successUnlessFailure successPolicy = iota
	// never a success for the acting side
	alwaysFailure
)

// playCategory is one row of the classifier table. Exclude rules are
// blanked out of the text before Match is evaluated, which keeps phrases
// like "shot on goal" or "hockey assist" from leaking into a neighbouring
// category.
type playCategory struct {
	Type          PlayType
	Match         RuleSet
	Exclude       RuleSet
	Failure       RuleSet
	Policy        successPolicy
	PerOccurrence bool
}

var playCategories = []playCategory{
	{
		Type: PlayGoal,
		Match: RuleSet{
			rule("goal", `\bgoals?\b`),
			rule("scores", `\bscor(?:es|ed)\b`),
			rule("net", `\bback of the (?:net|cage)\b`),
			rule("finish", `\b(?:buries|buried|nets|netted)\b`),
		},
		Exclude: RuleSet{
			rule("goal_area", `\bgoal[- ](?:line|crease|mouth|area)(?: extended)?\b`),
			rule("on_goal", `\b(?:on|at|in|toward|towards) (?:the )?goal\b`),
		},
	},
	{
		Type: PlayAssist,
		Match: RuleSet{
			rule("assist", `\bassist(?:s|ed)?\b`),
			rule("feed", `\b(?:feeds|fed|dishes|dished)\b`),
		},
		Exclude: RuleSet{
			rule("hockey_assist", `\b(?:hockey|secondary)[- ]assists?\b`),
		},
	},
	{
		Type: PlayHockeyAssist,
		Match: RuleSet{
			rule("hockey_assist", `\bhockey[- ]assists?\b`),
			rule("secondary_assist", `\bsecondary assists?\b`),
			rule("pass_before", `\bpass(?:es)? (?:that )?(?:leads|led) to the assist\b`),
		},
	},
	{
		Type: PlaySave,
		Match: RuleSet{
			rule("save", `\bsav(?:e|es|ed)\b`),
			rule("deny", `\b(?:denies|denied|robs|robbed)\b`),
			rule("turn_away", `\bturn(?:s|ed)? (?:it |the shot )?away\b`),
			rule("stop", `\b(?:stops?|stopped) the shot\b|\bmakes? (?:a|the) stop\b`),
		},
		Exclude: RuleSet{
			rule("save_pct", `\bsave (?:percentage|pct)\b`),
		},
	},
	{
		Type: PlayShot,
		Match: RuleSet{
			rule("shot", `\bshots?\b`),
			rule("shoots", `\bshoots\b`),
			rule("fires", `\b(?:fires|fired|rips|ripped|unleashes|unleashed|snipes|sniped)\b`),
		},
		Exclude: RuleSet{
			rule("shot_clock", `\bshot clock\b`),
		},
		Failure: RuleSet{
			rule("missed", `\bmiss(?:es|ed)?\b`),
			rule("wide", `\bwide\b`),
			rule("saved", `\bsaved\b`),
			rule("blocked", `\bblocked\b`),
			rule("iron", `\b(?:pipe|post|crossbar)\b`),
			rule("over", `\bover the (?:cage|net|goal|crossbar)\b`),
		},
	},
	{
		Type: PlayTurnover,
		Match: RuleSet{
			rule("turnover", `\bturnovers?\b`),
			rule("turns_over", `\bturn(?:s|ed)? (?:it|the ball) over\b`),
			rule("turned_over", `\b(?:is|was|gets|got|been) turned over\b`),
			rule("loses", `\b(?:loses|lost) (?:the ball|possession)\b`),
			rule("drop", `\bdrop(?:s|ped)? the ball\b`),
			rule("errant", `\b(?:errant pass|throwaway|thrown away)\b`),
		},
		Exclude: RuleSet{
			rule("caused", `\b(?:caus|forc)(?:es|ed|ing) (?:a |the )?turnovers?\b`),
		},
		Policy: alwaysFailure,
	},
	{
		Type: PlayCausedTurnover,
		Match: RuleSet{
			rule("caused", `\b(?:caus|forc)(?:es|ed|ing) (?:a |the )?turnovers?\b`),
			rule("caused_noun", `\bcaused turnover\b`),
			rule("strip", `\b(?:strips|stripped|dislodges|dislodged)\b`),
			rule("takeaway", `\btakeaways?\b`),
			rule("intercept", `\bintercept(?:s|ed|ion)\b`),
		},
	},
	{
		Type: PlayGroundBall,
		Match: RuleSet{
			rule("ground_ball", `\bground[- ]?balls?\b`),
			rule("gb", `\bgbs?\b`),
			rule("scoop", `\bscoop(?:s|ed|ing)?\b`),
			rule("loose_ball", `\bpicks? up the loose ball\b`),
		},
	},
	{
		Type: PlayCheck,
		Match: RuleSet{
			rule("typed_check", `\b(?:poke|slap|lift|wrap|body|stick|over-the-head|kayak) checks?\b`),
			rule("check", `\bcheck(?:s|ed)?\b`),
		},
		Exclude: RuleSet{
			rule("cross_check", `\bcross[- ]check(?:s|ed|ing)?\b`),
			rule("illegal", `\billegal body checks?\b`),
			rule("check_in", `\bcheck(?:s|ed)? (?:in|out|up)\b`),
		},
	},
	{
		Type: PlayPenalty,
		Match: RuleSet{
			rule("penalty", `\bpenalt(?:y|ies)\b`),
			rule("foul", `\b(?:slashing|tripping|holding|pushing|interference|offsides?|unsportsmanlike|unnecessary roughness|withholding)\b`),
			rule("illegal", `\billegal (?:body check|procedure|stick|screen)\b|\bcross[- ]check(?:s|ed|ing)?\b|\bcrease violation\b`),
			rule("flag", `\bflag(?:s|ged)?\b`),
		},
		Policy: alwaysFailure,
	},
	{
		Type: PlayClear,
		Match: RuleSet{
			rule("clear", `\bclear(?:s|ed|ing)?\b`),
		},
		Exclude: RuleSet{
			rule("adjective", `\bclear (?:look|lane|path|shot|view|chance|opportunity|sightline|advantage|winner)\b`),
		},
		Failure: RuleSet{
			rule("failed", `\bfail(?:s|ed)? (?:to )?clear\b|\bfailed clears?\b`),
			rule("broken", `\bbroken clears?\b`),
			rule("turnover", `\bturnovers?\b|\bturn(?:s|ed)? (?:it|the ball) over\b|\b(?:is|was|gets|got|been) turned over\b`),
		},
	},
	{
		Type: PlayBallTouch,
		Match: RuleSet{
			rule("possession_verb", `\b(?:catches|caught|receives|received|cradles|cradled|carries|carried|handles|collects|collected|corrals|corralled)\b`),
			rule("picks_up", `\bpick(?:s|ed)? up\b`),
		},
		PerOccurrence: true,
	},
	{
		Type: PlayFaceOff,
		Match: RuleSet{
			rule("face_off", `\bface[- ]?offs?\b`),
			rule("fogo", `\bfogos?\b`),
			rule("clamp", `\bclamp(?:s|ed)?\b`),
			rule("draw", `\bat the x\b`),
		},
		Failure: RuleSet{
			rule("loses", `\blos(?:es|t|ing) the (?:face[- ]?off|draw|clamp)\b`),
			rule("loss", `\bface[- ]?off loss(?:es)?\b`),
			rule("beaten", `\bbeaten on the (?:face[- ]?off|draw)\b|\bout-?clamped\b`),
			rule("violation", `\bface[- ]?off violation\b`),
		},
	},
	{
		Type: PlayTransition,
		Match: RuleSet{
			rule("transition", `\btransition\b`),
			rule("fast_break", `\bfast[- ]?breaks?\b`),
			rule("unsettled", `\bunsettled\b`),
			rule("breakout", `\bbreak-?outs?\b`),
			rule("odd_man", `\bodd[- ]man\b`),
			rule("slow_break", `\bslow[- ]?breaks?\b`),
		},
		Failure: RuleSet{
			rule("turnover", `\bturnovers?\b|\bturn(?:s|ed)? (?:it|the ball) over\b|\b(?:is|was|gets|got|been) turned over\b`),
			rule("failed", `\bfail(?:s|ed)\b`),
			rule("intercepted", `\bintercepted\b|\binterception\b`),
			rule("stripped", `\bstripped\b`),
			rule("out_of_bounds", `\bout of bounds\b`),
		},
	},
}

var categoryByType = func() map[PlayType]*playCategory {
	m := make(map[PlayType]*playCategory, len(playCategories))
	for i := range playCategories {
		m[playCategories[i].Type] = &playCategories[i]
	}
	return m
}()

// blank replaces every match of the exclusion rules with a space.
func (c *playCategory) blank(text string) string {
	for _, r := range c.Exclude {
		text = r.Pattern.ReplaceAllString(text, " ")
	}
	return text
}

// matches reports whether the category is present in normalized text.
func (c *playCategory) matches(text string) bool {
	return c.Match.Any(c.blank(text))
}

func (c *playCategory) success(text string) bool {
	if c.Policy == alwaysFailure {
		return false
	}
	return !c.Failure.Any(text)
}

// Classify scans content for every play category. Categories are
// independent, so one block can yield several plays; ball touches yield one
// play per possession verb. The result is never nil and follows the fixed
// category order, so equal input always gives equal output.
func Classify(content string) []ClassifiedPlay {
	text := Normalize(content)
	plays := make([]ClassifiedPlay, 0, 4)
	if text == "" {
		return plays
	}

	for i := range playCategories {
		c := &playCategories[i]
		scan := c.blank(text)
		if c.PerOccurrence {
			for n := c.Match.Count(scan); n > 0; n-- {
				plays = append(plays, ClassifiedPlay{Type: c.Type, Success: true})
			}
			continue
		}
		if c.Match.Any(scan) {
			plays = append(plays, ClassifiedPlay{Type: c.Type, Success: c.success(text)})
		}
	}
	return plays
}

// HasPlay reports whether content mentions the given category.
func HasPlay(content string, t PlayType) bool {
	c, ok := categoryByType[t]
	if !ok {
		return false
	}
	return c.matches(Normalize(content))
}

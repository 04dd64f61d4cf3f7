package extraction

import (
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// Face-off detail defaults when no rule fires.
const (
	DefaultTechnique   = "neutral"
	DefaultClampSpeed  = "medium"
	DefaultClampAngle  = "neutral"
	DefaultExitSpeed   = "medium"
	DefaultWingSupport = "neutral"
)

var (
	winVerbs  = `wins|won|takes|took|claims|claimed|controls|controlled|gains|gained|secures|secured|pops|popped`
	teamNoun  = `(?:\s+(?:team|side|fogo|faceoff specialist|face-off specialist|midfielder|player))?`
	colorCapt = `(` + colorAlt + `)`

	faceoffTechnique = RuleSet{
		rule("motorcycle", `\bmotorcycle\b`),
		rule("plunger", `\bplung(?:er|es|ed|ing)\b`),
		rule("laser", `\blaser\b`),
		rule("rake", `\brak(?:e|es|ed|ing)\b`),
		rule("pinch", `\bpinch(?:es|ed|ing)?\b`),
		rule("jump", `\bjump(?:s|ed|ing)?\b`),
		rule("power", `\bpower (?:move|push|clamp)\b`),
		rule("clamp", `\bclamp(?:s|ed|ing)?\b`),
	}
	faceoffClampSpeed = RuleSet{
		rule("fast", `\b(?:lightning|quick|rapid|instant|instantly)\b|\bfast (?:clamp|hands|whistle|reaction|draw)\b`),
		rule("slow", `\b(?:slow|late|sluggish)\b`),
	}
	faceoffClampAngle = RuleSet{
		rule("over", `\b(?:over the top|over-the-top|topside|top hand)\b`),
		rule("under", `\b(?:underneath|under the ball|low grip)\b`),
		rule("square", `\b(?:head[- ]on|squared? up|square)\b`),
	}
	faceoffCounterMove = RuleSet{
		rule("reclamp", `\bre-?clamp(?:s|ed|ing)?\b`),
		rule("spin", `\bspin(?:s|ning)?\b`),
		rule("pop", `\bpop(?:s|ped)? (?:it|the ball)\b`),
		rule("counter", `\bcounter(?:s|ed|ing)?\b`),
	}
	faceoffCounterTiming = RuleSet{
		rule("immediate", `\b(?:immediately|instantly|right away|quick counter)\b`),
		rule("delayed", `\b(?:delayed|late counter|after a (?:scrum|battle))\b`),
	}
	faceoffExitDirection = RuleSet{
		rule("forward", `\b(?:forward|ahead|upfield|up the field|downfield|toward (?:the )?goal|north)\b`),
		rule("backward", `\b(?:backward|backwards|back toward|behind (?:him|her|them)|retreats?|retreated)\b`),
		rule("wing", `\bto the wings?\b|\bwing(?:s|man|men)? (?:picks?|scoops?)\b`),
		rule("left", `\b(?:to the left|left side)\b`),
		rule("right", `\b(?:to the right|right side)\b`),
	}
	faceoffExitSpeed = RuleSet{
		rule("fast", `\b(?:explod(?:es|ed|ing)|bursts?|sprint(?:s|ed)?|races?|raced|flies|blows by)\b`),
		rule("slow", `\b(?:slowly|walks?|jogs?|labou?red)\b`),
	}
	faceoffWingSupport = RuleSet{
		rule("weak", `\b(?:no|poor|late|slow) wing (?:support|play|help)\b|\bwings? (?:are |were )?(?:late|absent|slow)\b`),
		rule("strong", `\bwing(?:s|man|men| player| middie)? (?:helps?|supports?|scoops?|picks? (?:it )?up|is there|crashes)\b|\b(?:great|strong|good) wing play\b`),
	}
	faceoffWinner = CaptureSet{
		rx(`\b` + colorCapt + teamNoun + `\s+(?:` + winVerbs + `)\b`),
		rx(`\b(?:won|taken|claimed|controlled) by (?:the )?` + colorCapt + `\b`),
		rx(`\b(?:loses|lost)\b[^.]*?\bto (?:the )?` + colorCapt + `\b`),
		rx(`\bpossession (?:to|for|goes to) (?:the )?` + colorCapt + `\b`),
	}
	faceoffPossession = CaptureSet{
		rx(`\bpossession (?:to|for|goes to) (?:the )?` + colorCapt + `\b`),
		rx(`\b` + colorCapt + teamNoun + `\s+(?:gains?|gained|has|takes|took|secures?|secured) possession\b`),
	}
	fastBreakRules = RuleSet{
		rule("fast_break", `\bfast[- ]?breaks?\b`),
		rule("breakaway", `\bbreakaways?\b`),
		rule("odd_man", `\bodd[- ]man\b`),
		rule("numbers", `\bnumbers (?:advantage|up)\b`),
		rule("transition_chance", `\btransition (?:opportunity|chance)\b`),
		rule("straight_to_goal", `\b(?:straight|right) to (?:the )?goal\b`),
	}
	faceoffViolation = RuleSet{
		rule("violation", `\bviolations?\b|\bfalse start\b|\bjumps? the whistle\b|\bwithholding\b|\btechnical foul\b`),
	}
	groundBallBattle = RuleSet{
		rule("battle", `\bground[- ]?balls?\b|\bscrum\b|\bloose ball\b|\bbattle\b`),
	}
)

// ExtractFaceoffDetail probes face-off text field by field. Each field is
// independent and falls back to its documented default.
func ExtractFaceoffDetail(content string) models.FaceoffDetail {
	text := Normalize(content)

	d := models.FaceoffDetail{
		Technique:            faceoffTechnique.FirstTag(text, DefaultTechnique),
		ClampSpeed:           faceoffClampSpeed.FirstTag(text, DefaultClampSpeed),
		ClampAngle:           faceoffClampAngle.FirstTag(text, DefaultClampAngle),
		CounterMove:          faceoffCounterMove.FirstTagPtr(text),
		CounterTiming:        faceoffCounterTiming.FirstTagPtr(text),
		ExitDirection:        faceoffExitDirection.FirstTagPtr(text),
		ExitSpeed:            faceoffExitSpeed.FirstTag(text, DefaultExitSpeed),
		WingSupport:          faceoffWingSupport.FirstTag(text, DefaultWingSupport),
		Winner:               faceoffWinner.FirstPtr(text),
		PossessionTeam:       faceoffPossession.FirstPtr(text),
		FastBreakOpportunity: fastBreakRules.Any(text),
		Violation:            faceoffViolation.Any(text),
		GroundBallBattle:     groundBallBattle.Any(text),
	}
	if d.PossessionTeam == nil && d.Winner != nil {
		w := *d.Winner
		d.PossessionTeam = &w
	}
	return d
}

package extraction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/lacrosselens/lacrosselens-engine/pkg/jsonutil"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

var eventLabels = map[models.EventType]string{
	models.EventGoal:           "Goal",
	models.EventAssist:         "Assist",
	models.EventSave:           "Save",
	models.EventCausedTurnover: "Caused Turnover",
	models.EventPenalty:        "Penalty",
	models.EventShot:           "Shot",
	models.EventHighlight:      "Highlight",
}

// Title builds the display title of an analysis item.
func Title(t models.AnalysisType, content string, meta models.AnalysisMetadata, timestamp *float64) string {
	at := func(label string) string {
		if timestamp == nil {
			return label
		}
		return label + " at " + jsonutil.FormatClock(*timestamp)
	}

	switch t {
	case models.AnalysisTypeOverall:
		if m, ok := meta.(*models.OverallMetadata); ok && m.SegmentCount > 0 {
			return fmt.Sprintf("Overall Game Analysis (%d %s)", m.SegmentCount, Pluralize(m.SegmentCount, "segment"))
		}
		return "Overall Game Analysis"
	case models.AnalysisTypePlayerEvaluation:
		id := ""
		if m, ok := meta.(*models.PlayerEvaluationMetadata); ok {
			id = m.PlayerIdentifier
		}
		if id == "" {
			id = PrimaryIdentifier(content)
		}
		if id == "" {
			return at("Player Evaluation")
		}
		return "Player Evaluation: " + displayIdentifier(id)
	case models.AnalysisTypeFaceOff:
		return at("Face-off")
	case models.AnalysisTypeTransition:
		label := "Transition Play"
		switch ExtractTransitionDetail(content).TransitionType {
		case "fast_break":
			label = "Fast Break"
		case "clear":
			label = "Clear"
		case "ride":
			label = "Ride"
		}
		return at(label)
	case models.AnalysisTypeKeyMoment:
		return at(eventLabels[KeyMomentType(content)])
	}
	return at("Analysis")
}

// displayIdentifier title-cases the qualifier: "#23 white" -> "#23 White".
func displayIdentifier(id string) string {
	num, q, ok := strings.Cut(id, " ")
	if !ok || q == "" {
		return id
	}
	if q == "lsm" || q == "fogo" {
		return num + " " + strings.ToUpper(q)
	}
	return num + " " + strings.ToUpper(q[:1]) + q[1:]
}

// Tags derives lower-case, de-duplicated, sorted keyword tags for an item.
func Tags(t models.AnalysisType, content string) []string {
	set := map[string]struct{}{string(t): {}}
	for _, p := range Classify(content) {
		set[string(p.Type)] = struct{}{}
	}
	for _, id := range ExtractIdentifiers(content) {
		set[id] = struct{}{}
	}
	switch t {
	case models.AnalysisTypeFaceOff:
		if tech := ExtractFaceoffDetail(content).Technique; tech != DefaultTechnique {
			set[tech] = struct{}{}
		}
	case models.AnalysisTypeTransition:
		set[ExtractTransitionDetail(content).TransitionType] = struct{}{}
	case models.AnalysisTypeKeyMoment:
		set[string(KeyMomentType(content))] = struct{}{}
	case models.AnalysisTypePlayerEvaluation:
		for skill, tier := range MatchedSkillPhrases(content) {
			if tier == "elite" {
				set["elite_"+skill] = struct{}{}
			}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, strings.ToLower(tag))
	}
	sort.Strings(tags)
	return tags
}

// Pluralize returns noun in plural form unless n is 1.
func Pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return inflection.Plural(noun)
}

// CountLabel formats "3 goals", "1 save".
func CountLabel(n int, noun string) string {
	return fmt.Sprintf("%d %s", n, Pluralize(n, noun))
}

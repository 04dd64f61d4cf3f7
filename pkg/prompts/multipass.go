package prompts

import (
	"fmt"
	"strings"

	"github.com/lacrosselens/lacrosselens-engine/pkg/jsonutil"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// SegmentContext is a scene from the segmentation phase, passed back to the
// later phases.
type SegmentContext struct {
	Index       int
	Start       float64
	End         float64
	Description string
	Importance  string
}

// BuildSegmentationPrompt creates the phase 1 prompt: split the video into
// 15 to 30 scenes.
func BuildSegmentationPrompt(hints models.TargetingHints) string {
	var sb strings.Builder

	sb.WriteString("# Phase 1: Scene Segmentation\n\n")
	sb.WriteString("Split the footage into 15 to 30 consecutive scenes. A scene is one coherent stretch of play: ")
	sb.WriteString("a face-off, a settled possession, a clear, a ride, a fast break, a stoppage.\n")
	sb.WriteString("Mark a scene high importance when it contains a goal, save, caused turnover, penalty or face-off win ")
	sb.WriteString("that changes possession.\n\n")

	writeHints(&sb, hints)

	sb.WriteString("## Response Format\n\n")
	sb.WriteString("Respond with ONLY this JSON object:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(`{
  "segments": [
    {"start": "number or m:ss", "end": "number or m:ss", "description": "string", "importance": "high | medium | low"}
  ]
}`)
	sb.WriteString("\n```\n")
	return sb.String()
}

// BuildTechnicalPrompt creates the phase 2 prompt for one high-importance
// segment: biomechanics, decision making and improvement points.
func BuildTechnicalPrompt(segment SegmentContext, hints models.TargetingHints) string {
	var sb strings.Builder

	sb.WriteString("# Phase 2: Technical Breakdown\n\n")
	fmt.Fprintf(&sb, "Focus only on the scene from %s to %s: %s\n\n",
		jsonutil.FormatClock(segment.Start), jsonutil.FormatClock(segment.End), segment.Description)
	sb.WriteString("For each identifiable player involved, describe stick skills, footwork and body positioning, ")
	sb.WriteString("decision making, and one concrete improvement. Describe any face-off in this scene in detail.\n\n")

	writeHints(&sb, hints)

	sb.WriteString("## Response Format\n\n")
	sb.WriteString("Respond with ONLY this JSON object:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(`{
  "players": [
    {"playerIdentifier": "string", "jerseyNumber": "string", "teamColor": "string", "position": "string",
     "evaluation": "string", "timestamp": "number or m:ss", "confidence": "number 0-100"}
  ],
  "faceOffs": [
    {"timestamp": "number or m:ss", "analysis": "string", "winner": "string", "technique": "string", "confidence": "number 0-100"}
  ]
}`)
	sb.WriteString("\n```\n")
	return sb.String()
}

// BuildTacticalPrompt creates the phase 3 prompt: formations and team
// systems across all segments.
func BuildTacticalPrompt(segments []SegmentContext, hints models.TargetingHints) string {
	var sb strings.Builder

	sb.WriteString("# Phase 3: Tactical Analysis\n\n")
	sb.WriteString("Using the scenes below, describe each team's offensive sets, defensive schemes, clearing patterns ")
	sb.WriteString("and ride. Report every clear, ride and fast break as a transition.\n\n")
	writeSegments(&sb, segments)
	writeHints(&sb, hints)

	sb.WriteString("## Response Format\n\n")
	sb.WriteString("Respond with ONLY this JSON object:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(`{
  "summary": "string - overall tactical assessment",
  "formations": [
    {"timestamp": "number or m:ss", "team": "string", "formationType": "offense | defense | ride | clear",
     "formation": "string, e.g. 2-3-1", "effectiveness": "number 0-100"}
  ],
  "transitions": [
    {"timestamp": "number or m:ss", "analysis": "string", "type": "clear | ride | fast_break | slow_break",
     "formation": "string", "confidence": "number 0-100"}
  ]
}`)
	sb.WriteString("\n```\n")
	return sb.String()
}

// BuildStatisticalPrompt creates the phase 4 prompt: exhaustive event
// extraction.
func BuildStatisticalPrompt(segments []SegmentContext, hints models.TargetingHints) string {
	var sb strings.Builder

	sb.WriteString("# Phase 4: Statistical Events\n\n")
	sb.WriteString("List every statistical event in the footage: goals, assists, shots, saves, ground balls, caused ")
	sb.WriteString("turnovers, turnovers, penalties and face-off results. Name the players involved by jersey number and ")
	sb.WriteString("team color. Be exhaustive; one entry per event.\n\n")
	writeSegments(&sb, segments)
	writeHints(&sb, hints)

	sb.WriteString("## Response Format\n\n")
	sb.WriteString("Respond with ONLY this JSON object:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(`{
  "events": [
    {"timestamp": "number or m:ss", "endTime": "number or m:ss, optional", "description": "string",
     "type": "goal | assist | save | caused_turnover | penalty | shot | ground_ball | turnover | highlight",
     "importance": "high | medium | low", "team": "string", "confidence": "number 0-100"}
  ]
}`)
	sb.WriteString("\n```\n")
	return sb.String()
}

func writeSegments(sb *strings.Builder, segments []SegmentContext) {
	if len(segments) == 0 {
		return
	}
	sb.WriteString("## Scenes\n\n")
	for _, s := range segments {
		fmt.Fprintf(sb, "%d. [%s-%s] (%s) %s\n", s.Index+1,
			jsonutil.FormatClock(s.Start), jsonutil.FormatClock(s.End), s.Importance, s.Description)
	}
	sb.WriteString("\n")
}

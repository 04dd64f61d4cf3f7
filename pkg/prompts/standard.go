package prompts

import (
	"strings"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// AnalysisResponseFormat documents the JSON shape of a standard analysis.
const AnalysisResponseFormat = `{
  "overallAnalysis": "string - game summary: tempo, possession, strengths and weaknesses of each team",
  "playerEvaluations": [
    {
      "playerIdentifier": "string - e.g. \"#23 white\"",
      "jerseyNumber": "string",
      "teamColor": "string",
      "position": "attackman | midfielder | defenseman | goalie | fogo | lsm",
      "evaluation": "string - detailed skill assessment with concrete observations",
      "timestamp": "number (seconds) or m:ss",
      "confidence": "number 0-100"
    }
  ],
  "faceOffAnalysis": [
    {
      "timestamp": "number or m:ss",
      "analysis": "string - technique, clamp speed and angle, counter moves, exit direction, wing play, winner",
      "winner": "team color",
      "technique": "clamp | rake | plunger | jump | laser | motorcycle",
      "confidence": "number 0-100"
    }
  ],
  "transitionAnalysis": [
    {
      "timestamp": "number or m:ss",
      "analysis": "string - clear or ride, pressure, pass count, numbers advantage, outcome",
      "type": "clear | ride | fast_break | slow_break",
      "formation": "string",
      "confidence": "number 0-100"
    }
  ],
  "keyMoments": [
    {
      "timestamp": "number or m:ss",
      "endTime": "number or m:ss, optional",
      "description": "string - what happened and who did it",
      "type": "goal | assist | save | caused_turnover | penalty | shot | highlight",
      "importance": "high | medium | low",
      "team": "team color",
      "confidence": "number 0-100"
    }
  ]
}`

// BuildStandardPrompt creates the single-pass analysis prompt.
func BuildStandardPrompt(hints models.TargetingHints) string {
	var sb strings.Builder

	sb.WriteString("# Lacrosse Video Analysis\n\n")
	sb.WriteString("Analyze the lacrosse footage that follows. Cover the whole game: an overall summary, an evaluation of ")
	sb.WriteString("every identifiable player, every face-off, every clear, ride and fast break, and every key moment.\n\n")

	writeHints(&sb, hints)

	sb.WriteString("## Response Format\n\n")
	sb.WriteString("Respond with ONLY a JSON object in this exact shape:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(AnalysisResponseFormat)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Use empty arrays for sections with nothing to report. Do not add commentary outside the JSON.\n")

	return sb.String()
}

// Package prompts builds the system persona and user prompts sent to the
// video model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
)

// SystemPersona is the system message for every analysis call.
const SystemPersona = `You are an elite lacrosse analyst and scout with decades of experience coaching and evaluating
players from youth through professional levels. You understand face-off mechanics (clamp, rake, plunger,
jump, laser), clearing and riding systems, settled offense sets (1-4-1, 2-3-1, 2-2-2, 1-3-2), slides and
defensive rotations, and goalie play.

When you describe a player, identify them by jersey number and team color in the form "#23 white" whenever
they are visible. Use concrete, observable language: what happened, where on the field, and how well it was
executed. Name strengths and weaknesses plainly ("exceptional shot", "inconsistent passing", "great ground
ball skills") so coaches can act on them.

Timestamps are seconds from the start of the video or m:ss clock notation. Never invent events you cannot
see; when you are unsure, lower the confidence score instead.`

// writeHints appends the coach's focus instructions, if any.
func writeHints(sb *strings.Builder, h models.TargetingHints) {
	var lines []string
	if h.PlayerNumber != "" {
		lines = append(lines, fmt.Sprintf("- Pay special attention to player #%s.", strings.TrimPrefix(h.PlayerNumber, "#")))
	}
	if h.TeamName != "" {
		lines = append(lines, fmt.Sprintf("- The coach's team is %s.", h.TeamName))
	}
	if h.Position != "" {
		lines = append(lines, fmt.Sprintf("- Evaluate with the responsibilities of a %s in mind.", h.Position))
	}
	if h.Level != "" {
		lines = append(lines, fmt.Sprintf("- Calibrate ratings to the %s level of play.", h.Level))
	}
	if h.UserPrompt != "" {
		lines = append(lines, fmt.Sprintf("- Coach's request: %s", strings.TrimSpace(h.UserPrompt)))
	}
	if len(lines) == 0 {
		return
	}
	sb.WriteString("## Coach Focus\n\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")
}

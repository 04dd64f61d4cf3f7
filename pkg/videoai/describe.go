package videoai

import (
	"fmt"
	"strings"

	"github.com/lacrosselens/lacrosselens-engine/pkg/jsonutil"
)

// describeVideo renders the text preamble that precedes the frames.
func describeVideo(v *VideoInput) string {
	var sb strings.Builder
	sb.WriteString("VIDEO\n")
	if v.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", v.Title)
	}
	if v.YouTubeURL != "" {
		fmt.Fprintf(&sb, "YouTube: %s\n", v.YouTubeURL)
	}
	if v.Duration > 0 {
		fmt.Fprintf(&sb, "Duration: %s\n", jsonutil.FormatClock(v.Duration))
	}
	if n := len(v.Frames); n > 0 {
		fmt.Fprintf(&sb, "%d keyframes follow in time order. Use their timestamps when citing moments.\n", n)
	}
	return sb.String()
}

func frameLabel(f Frame) string {
	return "Frame at " + jsonutil.FormatClock(f.Timestamp)
}

// Package videoai sends lacrosse footage to a multimodal model and returns
// its text answer. Two providers are supported: any OpenAI-compatible chat
// endpoint and Anthropic's messages API.
package videoai

import (
	"context"
)

// Frame is one JPEG still taken from the video.
type Frame struct {
	Timestamp float64 // seconds into the video
	JPEG      []byte
}

// VideoInput is what the model sees of a video. File uploads carry sampled
// keyframes; YouTube submissions carry the link and its thumbnail.
type VideoInput struct {
	Title      string
	YouTubeURL string
	Duration   float64 // seconds, 0 when unknown
	Frames     []Frame
}

// Request is a single model call.
type Request struct {
	System string
	Prompt string
	Video  *VideoInput

	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool
}

// VideoModel is the boundary to the external video analysis model.
// Use this interface for dependency injection to enable mocking in tests.
type VideoModel interface {
	// Analyze returns the raw text produced for req.
	Analyze(ctx context.Context, req *Request) (string, error)

	// Model returns the configured model name.
	Model() string
}

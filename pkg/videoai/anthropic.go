package videoai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicConfig configures the Anthropic messages API client.
type AnthropicConfig struct {
	Endpoint    string // Optional base URL override
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float32
}

// AnthropicClient sends keyframes as base64 image blocks.
type AnthropicClient struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

var _ VideoModel = (*AnthropicClient)(nil)

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg *AnthropicConfig, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.Endpoint, "/")))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		logger:      logger.Named("anthropic"),
	}, nil
}

// Analyze implements VideoModel.
func (c *AnthropicClient) Analyze(ctx context.Context, req *Request) (string, error) {
	content := []anthropic.MessageContent{anthropic.NewTextMessageContent(req.Prompt)}
	if req.Video != nil {
		content = append(content, anthropic.NewTextMessageContent(describeVideo(req.Video)))
		for _, f := range req.Video.Frames {
			content = append(content,
				anthropic.NewTextMessageContent(frameLabel(f)),
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					"image/jpeg",
					base64.StdEncoding.EncodeToString(f.JPEG),
				)),
			)
		}
	}
	if req.JSON {
		content = append(content, anthropic.NewTextMessageContent("Respond with a single JSON object and nothing else."))
	}

	temperature := c.temperature
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      req.System,
		MaxTokens:   c.maxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: content},
		},
	})
	if err != nil {
		return "", ClassifyError(err, anthropicStatus(err))
	}

	c.logger.Debug("Messages call finished",
		zap.String("stop_reason", string(resp.StopReason)),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			sb.WriteString(*block.Text)
		}
	}
	return sb.String(), nil
}

// Model implements VideoModel.
func (c *AnthropicClient) Model() string {
	return c.model
}

func anthropicStatus(err error) int {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

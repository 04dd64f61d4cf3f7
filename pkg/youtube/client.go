// Package youtube fetches video metadata and thumbnails for YouTube
// submissions. With an API key it uses the Data API; otherwise the public
// oEmbed endpoint.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/retry"
)

const maxThumbnailBytes = 5 << 20

// Metadata is what the pipeline needs to know about a YouTube video.
type Metadata struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Author       string `json:"author,omitempty"`
	Duration     int    `json:"duration,omitempty"` // seconds, 0 when unknown
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Client looks up YouTube videos.
type Client interface {
	Metadata(ctx context.Context, videoURL string) (*Metadata, error)
	// Thumbnail downloads the video's thumbnail image.
	Thumbnail(ctx context.Context, meta *Metadata) ([]byte, error)
}

type client struct {
	cfg        *config.YouTubeConfig
	httpClient *http.Client
	dataAPI    *ytapi.Service
	retryCfg   *retry.Config
	logger     *zap.Logger
}

var _ Client = (*client)(nil)

// Option configures the client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient  *http.Client
	apiEndpoint string
	retryCfg    *retry.Config
}

// WithHTTPClient overrides the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithAPIEndpoint points the Data API client at another base URL.
func WithAPIEndpoint(endpoint string) Option {
	return func(o *clientOptions) { o.apiEndpoint = endpoint }
}

// WithRetryConfig overrides the retry schedule.
func WithRetryConfig(cfg *retry.Config) Option {
	return func(o *clientOptions) { o.retryCfg = cfg }
}

// NewClient builds a client. The Data API is used only when an API key is configured.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, logger *zap.Logger, opts ...Option) (Client, error) {
	o := clientOptions{httpClient: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retryCfg == nil {
		attempts := cfg.MaxAttempts
		if attempts < 1 {
			attempts = 1
		}
		o.retryCfg = retry.WithMaxRetries(attempts - 1)
	}

	c := &client{
		cfg:        cfg,
		httpClient: o.httpClient,
		retryCfg:   o.retryCfg,
		logger:     logger.Named("youtube"),
	}

	if cfg.APIKey != "" {
		// A supplied HTTP client overrides option.WithAPIKey, so the key rides on the transport.
		apiOpts := []option.ClientOption{option.WithHTTPClient(withAPIKey(o.httpClient, cfg.APIKey))}
		if o.apiEndpoint != "" {
			apiOpts = append(apiOpts, option.WithEndpoint(o.apiEndpoint))
		}
		svc, err := ytapi.NewService(ctx, apiOpts...)
		if err != nil {
			return nil, fmt.Errorf("create youtube data api client: %w", err)
		}
		c.dataAPI = svc
	}
	return c, nil
}

// withAPIKey returns a copy of base whose requests carry the key query parameter.
func withAPIKey(base *http.Client, key string) *http.Client {
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	keyed := *base
	keyed.Transport = &transport.APIKey{Key: key, Transport: rt}
	return &keyed
}

func (c *client) Metadata(ctx context.Context, videoURL string) (*Metadata, error) {
	id, err := ParseVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	var meta *Metadata
	err = retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		var fetchErr error
		if c.dataAPI != nil {
			meta, fetchErr = c.fromDataAPI(ctx, id)
		} else {
			meta, fetchErr = c.fromOEmbed(ctx, id)
		}
		return fetchErr
	})
	if err != nil {
		c.logger.Warn("YouTube metadata lookup failed",
			zap.String("video_id", id),
			zap.Error(err))
		return nil, err
	}

	if meta.ThumbnailURL == "" {
		meta.ThumbnailURL = fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", id)
	}
	return meta, nil
}

func (c *client) fromDataAPI(ctx context.Context, id string) (*Metadata, error) {
	resp, err := c.dataAPI.Videos.List([]string{"snippet", "contentDetails"}).Id(id).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("youtube video %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("youtube videos.list: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("youtube video %s: %w", id, apperrors.ErrNotFound)
	}

	item := resp.Items[0]
	meta := &Metadata{
		VideoID:     id,
		Title:       strings.TrimSpace(item.Snippet.Title),
		Description: strings.TrimSpace(item.Snippet.Description),
		Author:      item.Snippet.ChannelTitle,
	}
	if t := item.Snippet.Thumbnails; t != nil {
		for _, th := range []*ytapi.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
			if th != nil && th.Url != "" {
				meta.ThumbnailURL = th.Url
				break
			}
		}
	}
	if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
		if d, err := ParseISODuration(item.ContentDetails.Duration); err == nil {
			meta.Duration = d
		}
	}
	return meta, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// statusError carries an HTTP status so retry can tell transient from permanent.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.url, e.code)
}

func (e *statusError) IsRetryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func (c *client) fromOEmbed(ctx context.Context, id string) (*Metadata, error) {
	q := url.Values{}
	q.Set("url", WatchURL(id))
	q.Set("format", "json")
	endpoint := c.cfg.OEmbedURL + "?" + q.Encode()

	body, err := c.get(ctx, endpoint, 1<<20)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.code == http.StatusNotFound || se.code == http.StatusUnauthorized || se.code == http.StatusBadRequest) {
			return nil, fmt.Errorf("youtube video %s unavailable: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}

	var r oembedResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode oembed response: %w", err)
	}
	return &Metadata{
		VideoID:      id,
		Title:        strings.TrimSpace(r.Title),
		Author:       r.AuthorName,
		ThumbnailURL: r.ThumbnailURL,
	}, nil
}

func (c *client) Thumbnail(ctx context.Context, meta *Metadata) ([]byte, error) {
	if meta == nil || meta.ThumbnailURL == "" {
		return nil, fmt.Errorf("no thumbnail url: %w", apperrors.ErrInvalidInput)
	}
	var data []byte
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		var getErr error
		data, getErr = c.get(ctx, meta.ThumbnailURL, maxThumbnailBytes)
		return getErr
	})
	return data, err
}

func (c *client) get(ctx context.Context, endpoint string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, url: endpoint}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	return body, nil
}

// EnhanceTitle picks the stored title for a YouTube submission: the user's
// title when given, else the video's own title, else a placeholder.
func EnhanceTitle(userTitle string, meta *Metadata) string {
	if t := strings.TrimSpace(userTitle); t != "" {
		return t
	}
	if meta != nil && meta.Title != "" {
		return meta.Title
	}
	if meta != nil && meta.VideoID != "" {
		return "YouTube Video " + meta.VideoID
	}
	return "YouTube Video"
}

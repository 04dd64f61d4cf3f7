// Package media wraps the ffmpeg and ffprobe binaries: video duration,
// thumbnails and keyframes for the video model.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
)

// Keyframe is one still sampled from a video.
type Keyframe struct {
	Timestamp float64
	JPEG      []byte
}

// Tools is the media surface used by the video pipeline.
type Tools interface {
	AssertReady(ctx context.Context) error
	// Duration returns the length of the video in seconds.
	Duration(ctx context.Context, videoPath string) (float64, error)
	// Thumbnail writes a JPEG still taken at atSec into outPath.
	Thumbnail(ctx context.Context, videoPath, outPath string, atSec int) error
	// Keyframes samples up to maxFrames evenly spaced stills.
	Keyframes(ctx context.Context, videoPath string, duration float64, maxFrames int) ([]Keyframe, error)
}

type tools struct {
	ffmpegPath  string
	ffprobePath string
	workRoot    string

	defaultTimeout time.Duration
	logger         *zap.Logger
}

var _ Tools = (*tools)(nil)

// New creates media tools from storage configuration.
func New(cfg *config.StorageConfig, logger *zap.Logger) Tools {
	workRoot := cfg.WorkDir
	if workRoot == "" {
		workRoot = filepath.Join(os.TempDir(), "lacrosselens-media")
	}
	return &tools{
		ffmpegPath:     cfg.FFmpegPath,
		ffprobePath:    cfg.FFprobePath,
		workRoot:       workRoot,
		defaultTimeout: 5 * time.Minute,
		logger:         logger.Named("media"),
	}
}

func (m *tools) AssertReady(ctx context.Context) error {
	for _, bin := range []string{m.ffmpegPath, m.ffprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("missing required binary %q in PATH: %w", bin, err)
		}
	}
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return fmt.Errorf("create work root: %w", err)
	}
	return nil
}

func (m *tools) Duration(ctx context.Context, videoPath string) (float64, error) {
	if videoPath == "" {
		return 0, fmt.Errorf("videoPath required")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w; out=%s", err, string(out))
	}
	return parseProbeDuration(string(out))
}

func (m *tools) Thumbnail(ctx context.Context, videoPath, outPath string, atSec int) error {
	if videoPath == "" || outPath == "" {
		return fmt.Errorf("videoPath and outPath required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir thumbnail dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.ffmpegPath, thumbnailArgs(videoPath, outPath, atSec)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg thumbnail failed: %w; out=%s", err, string(out))
	}
	return nil
}

func (m *tools) Keyframes(ctx context.Context, videoPath string, duration float64, maxFrames int) ([]Keyframe, error) {
	if videoPath == "" {
		return nil, fmt.Errorf("videoPath required")
	}
	if maxFrames <= 0 {
		maxFrames = 24
	}
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir work root: %w", err)
	}
	outDir, err := os.MkdirTemp(m.workRoot, "frames-")
	if err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	ctx, cancel := context.WithTimeout(ctx, m.defaultTimeout)
	defer cancel()

	interval := frameInterval(duration, maxFrames)
	cmd := exec.CommandContext(ctx, m.ffmpegPath, keyframeArgs(videoPath, outDir, interval)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg keyframes failed: %w; out=%s", err, string(out))
	}

	paths, err := globSorted(outDir, framePattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames produced by ffmpeg; out=%s", string(out))
	}
	if len(paths) > maxFrames {
		paths = paths[:maxFrames]
	}

	frames := make([]Keyframe, 0, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		frames = append(frames, Keyframe{Timestamp: float64(i) * interval, JPEG: data})
	}

	m.logger.Debug("Extracted keyframes",
		zap.String("video", filepath.Base(videoPath)),
		zap.Int("frames", len(frames)),
		zap.Float64("interval_sec", interval))
	return frames, nil
}

var framePattern = regexp.MustCompile(`^frame_\d+\.jpg$`)

func thumbnailArgs(videoPath, outPath string, atSec int) []string {
	if atSec < 0 {
		atSec = 0
	}
	return []string{
		"-y",
		"-ss", strconv.Itoa(atSec),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", "scale=640:-2",
		"-q:v", "3",
		outPath,
	}
}

func keyframeArgs(videoPath, outDir string, interval float64) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%0.6f,scale=768:-2", 1.0/interval),
		"-q:v", "4",
		filepath.Join(outDir, "frame_%06d.jpg"),
	}
}

// frameInterval spreads maxFrames across the video, never sampling more
// often than every 2 seconds.
func frameInterval(duration float64, maxFrames int) float64 {
	const minInterval = 2.0
	if duration <= 0 || maxFrames <= 0 {
		return minInterval
	}
	interval := duration / float64(maxFrames)
	if interval < minInterval {
		return minInterval
	}
	return interval
}

func parseProbeDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}

func globSorted(dir string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

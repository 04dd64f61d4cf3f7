package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/jsonutil"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// StatisticsService derives play statistics from a video's stored analyses.
// Nothing is cached: every call re-classifies the current rows.
type StatisticsService interface {
	GetVideoPlayStatistics(ctx context.Context, userID string, videoID uuid.UUID) (*models.PlayStatistics, error)
	GetVideoPlayByPlay(ctx context.Context, userID string, videoID uuid.UUID) ([]models.PlayByPlayEntry, error)
}

type statisticsService struct {
	videoRepo    repositories.VideoRepository
	analysisRepo repositories.AnalysisRepository
	logger       *zap.Logger
}

func NewStatisticsService(videoRepo repositories.VideoRepository, analysisRepo repositories.AnalysisRepository, logger *zap.Logger) StatisticsService {
	return &statisticsService{
		videoRepo:    videoRepo,
		analysisRepo: analysisRepo,
		logger:       logger.Named("statistics"),
	}
}

var _ StatisticsService = (*statisticsService)(nil)

func (s *statisticsService) load(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.Analysis, error) {
	if _, err := ownedVideo(ctx, s.videoRepo, userID, videoID); err != nil {
		return nil, err
	}
	analyses, err := s.analysisRepo.ListByVideo(ctx, videoID)
	if err != nil {
		s.logger.Error("Failed to load analyses",
			zap.String("video_id", videoID.String()),
			zap.Error(err))
		return nil, err
	}
	return analyses, nil
}

func (s *statisticsService) GetVideoPlayStatistics(ctx context.Context, userID string, videoID uuid.UUID) (*models.PlayStatistics, error) {
	analyses, err := s.load(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	stats := TallyPlays(analyses)
	stats.VideoID = videoID
	return stats, nil
}

// TallyPlays counts classifier output over analyses. The ByType total always
// equals the number of classified plays.
func TallyPlays(analyses []*models.Analysis) *models.PlayStatistics {
	stats := &models.PlayStatistics{ByType: map[string]int{}}
	for _, a := range analyses {
		stats.AnalysesScanned++
		for _, p := range extraction.Classify(a.Content) {
			countPlay(stats, p)
		}
	}
	return stats
}

func countPlay(stats *models.PlayStatistics, p extraction.ClassifiedPlay) {
	stats.ByType[string(p.Type)]++
	switch p.Type {
	case extraction.PlayGoal:
		stats.Goals++
	case extraction.PlayAssist:
		stats.Assists++
	case extraction.PlayHockeyAssist:
		stats.HockeyAssists++
	case extraction.PlaySave:
		stats.Saves++
	case extraction.PlayShot:
		stats.Shots++
		if p.Success {
			stats.ShotsOnTarget++
		}
	case extraction.PlayTurnover:
		stats.Turnovers++
	case extraction.PlayCausedTurnover:
		stats.CausedTurnovers++
	case extraction.PlayGroundBall:
		stats.GroundBalls++
	case extraction.PlayCheck:
		stats.Checks++
	case extraction.PlayPenalty:
		stats.Penalties++
	case extraction.PlayClear:
		stats.Clears++
		if p.Success {
			stats.SuccessfulClears++
		}
	case extraction.PlayBallTouch:
		stats.BallTouches++
	case extraction.PlayFaceOff:
		if p.Success {
			stats.FaceoffWins++
		} else {
			stats.FaceoffLosses++
		}
	case extraction.PlayTransition:
		stats.Transitions++
		if p.Success {
			stats.SuccessfulTransitions++
		}
	}
}

func (s *statisticsService) GetVideoPlayByPlay(ctx context.Context, userID string, videoID uuid.UUID) ([]models.PlayByPlayEntry, error) {
	analyses, err := s.load(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	return PlayByPlay(analyses), nil
}

// PlayByPlay lists every classified play in timestamp order, untimed plays
// last. Plays from one analysis keep classifier order.
func PlayByPlay(analyses []*models.Analysis) []models.PlayByPlayEntry {
	sorted := make([]*models.Analysis, len(analyses))
	copy(sorted, analyses)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Timestamp, sorted[j].Timestamp
		if ti == nil || tj == nil {
			return ti != nil && tj == nil
		}
		return *ti < *tj
	})

	entries := make([]models.PlayByPlayEntry, 0, len(sorted))
	for _, a := range sorted {
		clock := ""
		if a.Timestamp != nil {
			clock = jsonutil.FormatClock(*a.Timestamp)
		}
		players := a.PlayerIDs
		if players == nil {
			players = []string{}
		}
		for _, p := range extraction.Classify(a.Content) {
			entries = append(entries, models.PlayByPlayEntry{
				AnalysisID:  a.ID,
				Timestamp:   a.Timestamp,
				Clock:       clock,
				Type:        string(p.Type),
				Success:     p.Success,
				Confidence:  a.Confidence,
				Source:      a.Type,
				Players:     players,
				Description: a.Content,
			})
		}
	}
	return entries
}

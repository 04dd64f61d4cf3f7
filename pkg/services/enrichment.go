package services

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// EnrichmentService turns raw model items into stored analyses and the play
// events, details and profiles derived from them.
type EnrichmentService interface {
	// Enrich persists the analysis row, then runs the enricher for its type.
	// Enrichment failures are logged and swallowed: once the base row is
	// written the call succeeds.
	Enrich(ctx context.Context, video *models.Video, item models.RawAnalysis) (*models.Analysis, error)

	// EnrichBatch enriches items in order, isolating failures per item.
	EnrichBatch(ctx context.Context, video *models.Video, items []models.RawAnalysis) BatchResult
}

// BatchResult counts the outcome of EnrichBatch.
type BatchResult struct {
	Persisted          int
	WriteFailures      int
	EnrichmentFailures int
}

type enrichmentService struct {
	analysisRepo repositories.AnalysisRepository
	registry     *EnricherRegistry
	inTx         Transactor
	logger       *zap.Logger
}

// NewEnrichmentService creates the enrichment orchestrator. A nil tx runs
// enrichers without a transaction.
func NewEnrichmentService(
	analysisRepo repositories.AnalysisRepository,
	registry *EnricherRegistry,
	tx Transactor,
	logger *zap.Logger,
) EnrichmentService {
	if tx == nil {
		tx = passthroughTx
	}
	return &enrichmentService{
		analysisRepo: analysisRepo,
		registry:     registry,
		inTx:         tx,
		logger:       logger.Named("enrichment"),
	}
}

var _ EnrichmentService = (*enrichmentService)(nil)

// buildAnalysis titles, tags and identifies a raw item.
func buildAnalysis(video *models.Video, item models.RawAnalysis) *models.Analysis {
	confidence := item.Confidence
	if confidence <= 0 {
		confidence = models.DefaultConfidence
	}
	if confidence > 100 {
		confidence = 100
	}

	playerIDs := extraction.ExtractIdentifiers(item.Content)
	if m, ok := item.Metadata.(*models.PlayerEvaluationMetadata); ok && m.PlayerIdentifier != "" {
		playerIDs = prependUnique(playerIDs, m.PlayerIdentifier)
	}

	return &models.Analysis{
		VideoID:    video.ID,
		Type:       item.Type,
		Title:      extraction.Title(item.Type, item.Content, item.Metadata, item.Timestamp),
		Content:    item.Content,
		Timestamp:  item.Timestamp,
		Confidence: confidence,
		Metadata:   item.Metadata,
		PlayerIDs:  playerIDs,
		Tags:       extraction.Tags(item.Type, item.Content),
	}
}

func prependUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append([]string{s}, list...)
}

func (s *enrichmentService) Enrich(ctx context.Context, video *models.Video, item models.RawAnalysis) (*models.Analysis, error) {
	analysis, _, err := s.enrich(ctx, video, item)
	return analysis, err
}

// enrich reports whether the enricher succeeded alongside the stored row.
func (s *enrichmentService) enrich(ctx context.Context, video *models.Video, item models.RawAnalysis) (*models.Analysis, bool, error) {
	if !item.Type.Valid() {
		return nil, false, fmt.Errorf("unknown analysis type %q", item.Type)
	}

	analysis := buildAnalysis(video, item)
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, false, fmt.Errorf("persist analysis: %w", err)
	}

	if err := s.runEnricher(ctx, video, analysis); err != nil {
		s.logger.Warn("Enrichment failed, keeping base analysis",
			zap.String("video_id", video.ID.String()),
			zap.String("analysis_id", analysis.ID.String()),
			zap.String("type", string(analysis.Type)),
			zap.Error(err))
		return analysis, false, nil
	}
	return analysis, true, nil
}

// runEnricher runs the registered enricher in its own transaction so a
// failure leaves no partial event rows, and turns panics into errors.
func (s *enrichmentService) runEnricher(ctx context.Context, video *models.Video, analysis *models.Analysis) (err error) {
	enricher, ok := s.registry.Lookup(analysis.Type)
	if !ok {
		return nil
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("Enricher panicked",
				zap.String("analysis_id", analysis.ID.String()),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("enricher panicked: %v", p)
		}
	}()

	return s.inTx(ctx, func(ctx context.Context) error {
		return enricher.Enrich(ctx, video, analysis)
	})
}

func (s *enrichmentService) EnrichBatch(ctx context.Context, video *models.Video, items []models.RawAnalysis) BatchResult {
	var res BatchResult
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}

		_, enriched, err := s.enrich(ctx, video, item)
		if err != nil {
			res.WriteFailures++
			s.logger.Error("Failed to persist analysis item",
				zap.String("video_id", video.ID.String()),
				zap.Int("index", i),
				zap.String("type", string(item.Type)),
				zap.Error(err))
			continue
		}
		res.Persisted++
		if !enriched {
			res.EnrichmentFailures++
		}
	}
	return res
}

package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

const (
	// GameFlowWindow is the width of one game-flow window in seconds.
	GameFlowWindow = 300.0

	weakSkillThreshold   = 65
	strongSkillThreshold = 90
)

var skillLabels = map[string]string{
	"dodging":     "dodging",
	"shooting":    "shooting",
	"passing":     "passing",
	"groundBalls": "ground ball play",
	"defense":     "defense",
	"offBall":     "off-ball movement",
	"iq":          "lacrosse IQ",
	"athleticism": "athleticism",
}

// AnalyticsService builds the per-video rollups after processing and serves
// the analytics read views.
type AnalyticsService interface {
	RollupBuilder

	VideoPlayers(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.PlayerProfile, error)
	PlayerPerformance(ctx context.Context, userID string, profileID uuid.UUID) (*models.PlayerPerformance, error)
	TeamAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.TeamAnalytics, error)
	GameFlow(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.GameFlow, error)
	FaceoffAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.FaceoffAnalytics, error)
	CoachingInsights(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.CoachingPoint, error)
}

type analyticsService struct {
	videoRepo   repositories.VideoRepository
	profileRepo repositories.PlayerProfileRepository
	eventRepo   repositories.PlayEventRepository
	rollupRepo  repositories.RollupRepository
	inTx        Transactor
	logger      *zap.Logger
}

// NewAnalyticsService creates the analytics service. A nil tx writes the
// rollups without a transaction.
func NewAnalyticsService(
	videoRepo repositories.VideoRepository,
	profileRepo repositories.PlayerProfileRepository,
	eventRepo repositories.PlayEventRepository,
	rollupRepo repositories.RollupRepository,
	tx Transactor,
	logger *zap.Logger,
) AnalyticsService {
	if tx == nil {
		tx = passthroughTx
	}
	return &analyticsService{
		videoRepo:   videoRepo,
		profileRepo: profileRepo,
		eventRepo:   eventRepo,
		rollupRepo:  rollupRepo,
		inTx:        tx,
		logger:      logger.Named("analytics"),
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

// ============================================================================
// Rollups
// ============================================================================

func (s *analyticsService) Rebuild(ctx context.Context, videoID uuid.UUID) error {
	events, err := s.eventRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	profiles, err := s.profileRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	formations, err := s.rollupRepo.ListFormations(ctx, videoID)
	if err != nil {
		return fmt.Errorf("list formations: %w", err)
	}
	if len(formations) == 0 {
		transitions, err := s.eventRepo.ListTransitions(ctx, videoID)
		if err != nil {
			return fmt.Errorf("list transitions: %w", err)
		}
		formations = FormationsFromTransitions(videoID, transitions)
	} else {
		formations = nil
	}

	flows := BuildGameFlow(events, GameFlowWindow)
	points := BuildCoachingPoints(profiles, events)

	err = s.inTx(ctx, func(ctx context.Context) error {
		for _, f := range formations {
			if err := s.rollupRepo.CreateFormation(ctx, f); err != nil {
				return err
			}
		}
		if err := s.rollupRepo.ReplaceGameFlow(ctx, videoID, flows); err != nil {
			return err
		}
		return s.rollupRepo.ReplaceCoachingPoints(ctx, videoID, points)
	})
	if err != nil {
		return fmt.Errorf("store rollups: %w", err)
	}

	s.logger.Debug("Rollups rebuilt",
		zap.String("video_id", videoID.String()),
		zap.Int("events", len(events)),
		zap.Int("derived_formations", len(formations)),
		zap.Int("flow_windows", len(flows)),
		zap.Int("coaching_points", len(points)))
	return nil
}

// FormationsFromTransitions derives formations from transition details for
// runs that produced no tactical phase.
func FormationsFromTransitions(videoID uuid.UUID, transitions []*models.TransitionEvent) []*models.TeamFormation {
	var out []*models.TeamFormation
	for _, t := range transitions {
		d := t.Detail
		// The clearing team carries the ball in every transition type.
		offenseType, defenseType := "offense", "defense"
		if d.TransitionType == "clear" || d.TransitionType == "ride" {
			offenseType, defenseType = "clear", "ride"
		}
		offenseTeam, defenseTeam := d.ClearingTeam, d.RidingTeam
		if offenseTeam == nil {
			offenseTeam = t.Team
		}

		if d.OffensiveFormation != nil {
			out = append(out, &models.TeamFormation{
				VideoID:       videoID,
				Timestamp:     t.StartTime,
				Team:          teamOrUnknown(offenseTeam),
				FormationType: offenseType,
				Formation:     *d.OffensiveFormation,
				Source:        "transition",
			})
		}
		if d.DefensiveFormation != nil {
			out = append(out, &models.TeamFormation{
				VideoID:       videoID,
				Timestamp:     t.StartTime,
				Team:          teamOrUnknown(defenseTeam),
				FormationType: defenseType,
				Formation:     *d.DefensiveFormation,
				Source:        "transition",
			})
		}
	}
	return out
}

func teamOrUnknown(team *string) string {
	if team == nil || *team == "" {
		return "unknown"
	}
	return *team
}

// BuildGameFlow buckets timed events into fixed windows. Only windows with
// at least one event are returned, in time order.
func BuildGameFlow(events []*models.PlayEvent, window float64) []*models.GameFlow {
	byWindow := map[int]*models.GameFlow{}
	net := map[int]int{}
	for _, e := range events {
		if e.StartTime == nil || *e.StartTime < 0 {
			continue
		}
		idx := int(*e.StartTime / window)
		g, ok := byWindow[idx]
		if !ok {
			g = &models.GameFlow{
				VideoID:     e.VideoID,
				WindowStart: float64(idx) * window,
				WindowEnd:   float64(idx+1) * window,
				TeamEvents:  map[string]int{},
			}
			byWindow[idx] = g
		}
		g.EventCount++
		if e.Team != nil && *e.Team != "" {
			g.TeamEvents[*e.Team]++
		}
		switch e.Momentum {
		case models.MomentumPositive:
			net[idx]++
		case models.MomentumNegative:
			net[idx]--
		}
	}

	flows := make([]*models.GameFlow, 0, len(byWindow))
	for idx, g := range byWindow {
		g.DominantTeam = dominantTeam(g.TeamEvents)
		switch {
		case net[idx] > 0:
			g.Momentum = models.MomentumPositive
		case net[idx] < 0:
			g.Momentum = models.MomentumNegative
		default:
			g.Momentum = models.MomentumNeutral
		}
		flows = append(flows, g)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].WindowStart < flows[j].WindowStart })
	return flows
}

// dominantTeam returns the team with strictly the most events, or nil on a tie.
func dominantTeam(counts map[string]int) *string {
	best, bestN, tie := "", 0, false
	for team, n := range counts {
		switch {
		case n > bestN:
			best, bestN, tie = team, n, false
		case n == bestN:
			tie = true
		}
	}
	if bestN == 0 || tie {
		return nil
	}
	return &best
}

// BuildCoachingPoints derives player and team insights. Points are ordered
// by priority, then timestamp, then title.
func BuildCoachingPoints(profiles []*models.PlayerProfile, events []*models.PlayEvent) []*models.CoachingPoint {
	points := make([]*models.CoachingPoint, 0)
	for _, p := range profiles {
		points = append(points, playerPoints(p)...)
	}
	points = append(points, teamPoints(events)...)

	rank := map[models.CoachingPriority]int{models.PriorityHigh: 0, models.PriorityMedium: 1, models.PriorityLow: 2}
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if rank[a.Priority] != rank[b.Priority] {
			return rank[a.Priority] < rank[b.Priority]
		}
		if (a.Timestamp == nil) != (b.Timestamp == nil) {
			return a.Timestamp != nil
		}
		if a.Timestamp != nil && *a.Timestamp != *b.Timestamp {
			return *a.Timestamp < *b.Timestamp
		}
		return a.Title < b.Title
	})
	return points
}

func playerPoints(p *models.PlayerProfile) []*models.CoachingPoint {
	skills := p.Skills().ByName()
	name := displayName(p.PlayerIdentifier)
	seen := extraction.CountLabel(p.ObservationCount, "observation")

	weakest, strongest := "", ""
	for _, key := range extraction.SkillKeys() {
		v := skills[key]
		if weakest == "" || v < skills[weakest] {
			weakest = key
		}
		if strongest == "" || v > skills[strongest] {
			strongest = key
		}
	}

	var out []*models.CoachingPoint
	if v := skills[weakest]; v < weakSkillThreshold {
		priority := models.PriorityMedium
		if v <= 60 {
			priority = models.PriorityHigh
		}
		out = append(out, &models.CoachingPoint{
			PlayerProfileID: &p.ID,
			Category:        weakest,
			Priority:        priority,
			Title:           fmt.Sprintf("Develop %s for %s", skillLabels[weakest], name),
			Detail:          fmt.Sprintf("%s rated %d across %s.", capitalize(skillLabels[weakest]), v, seen),
		})
	}
	if v := skills[strongest]; v >= strongSkillThreshold {
		out = append(out, &models.CoachingPoint{
			PlayerProfileID: &p.ID,
			Category:        strongest,
			Priority:        models.PriorityLow,
			Title:           fmt.Sprintf("Build around %s's %s", name, skillLabels[strongest]),
			Detail:          fmt.Sprintf("%s rated %d across %s.", capitalize(skillLabels[strongest]), v, seen),
		})
	}
	return out
}

type teamTally struct {
	faceoffWins     map[string]int
	faceoffs        int
	transitions     int
	failedTransit   int
	firstFailedAt   *float64
	penalties       int
	firstPenaltyAt  *float64
	missedShots     int
	shots           int
	causedTurnovers int
}

func teamPoints(events []*models.PlayEvent) []*models.CoachingPoint {
	t := teamTally{faceoffWins: map[string]int{}}
	for _, e := range events {
		switch e.EventType {
		case models.EventFaceoff:
			if e.Team != nil && *e.Team != "" {
				t.faceoffs++
				t.faceoffWins[*e.Team]++
			}
		case models.EventTransition:
			t.transitions++
			if !e.Success {
				t.failedTransit++
				t.firstFailedAt = earliest(t.firstFailedAt, e.StartTime)
			}
		case models.EventPenalty:
			t.penalties++
			t.firstPenaltyAt = earliest(t.firstPenaltyAt, e.StartTime)
		case models.EventShot:
			t.shots++
			if !e.Success {
				t.missedShots++
			}
		case models.EventCausedTurnover:
			t.causedTurnovers++
		}
	}

	var out []*models.CoachingPoint
	if t.faceoffs >= 2 && len(t.faceoffWins) > 1 {
		for team, wins := range t.faceoffWins {
			if wins*2 < t.faceoffs {
				out = append(out, &models.CoachingPoint{
					Category: "faceoff",
					Priority: models.PriorityHigh,
					Title:    fmt.Sprintf("Face-off possession for %s", team),
					Detail:   fmt.Sprintf("%s won %d of %s.", capitalize(team), wins, extraction.CountLabel(t.faceoffs, "face-off")),
				})
			}
		}
	}
	if t.failedTransit >= 2 && t.failedTransit*2 > t.transitions {
		out = append(out, &models.CoachingPoint{
			Category:  "transition",
			Priority:  models.PriorityHigh,
			Title:     "Transition execution",
			Detail:    fmt.Sprintf("%d of %s broke down.", t.failedTransit, extraction.CountLabel(t.transitions, "transition")),
			Timestamp: t.firstFailedAt,
		})
	}
	if t.penalties >= 2 {
		out = append(out, &models.CoachingPoint{
			Category:  "discipline",
			Priority:  models.PriorityMedium,
			Title:     "Discipline",
			Detail:    extraction.CountLabel(t.penalties, "penalty") + " flagged.",
			Timestamp: t.firstPenaltyAt,
		})
	}
	if t.missedShots >= 3 && t.missedShots*2 > t.shots {
		out = append(out, &models.CoachingPoint{
			Category: "shooting",
			Priority: models.PriorityMedium,
			Title:    "Shot selection",
			Detail:   fmt.Sprintf("%d of %s missed the cage or were stopped.", t.missedShots, extraction.CountLabel(t.shots, "shot")),
		})
	}
	if t.causedTurnovers >= 3 {
		out = append(out, &models.CoachingPoint{
			Category: "defense",
			Priority: models.PriorityLow,
			Title:    "Defensive pressure",
			Detail:   extraction.CountLabel(t.causedTurnovers, "caused turnover") + " forced.",
		})
	}
	return out
}

func earliest(cur, t *float64) *float64 {
	if t == nil {
		return cur
	}
	if cur == nil || *t < *cur {
		return t
	}
	return cur
}

func displayName(identifier string) string {
	num, q, ok := strings.Cut(identifier, " ")
	if !ok || q == "" {
		return identifier
	}
	return num + " " + capitalize(q)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ============================================================================
// Read views
// ============================================================================

func (s *analyticsService) VideoPlayers(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.PlayerProfile, error) {
	if _, err := ownedVideo(ctx, s.videoRepo, userID, videoID); err != nil {
		return nil, err
	}
	profiles, err := s.profileRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*models.PlayerProfile{}
	}
	return profiles, nil
}

func (s *analyticsService) PlayerPerformance(ctx context.Context, userID string, profileID uuid.UUID) (*models.PlayerPerformance, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedVideo(ctx, s.videoRepo, userID, profile.VideoID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByPlayer(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.PlayEvent{}
	}

	perf := &models.PlayerPerformance{
		Profile:        profile,
		Skills:         profile.Skills().ByName(),
		Strengths:      []string{},
		Weaknesses:     []string{},
		Events:         events,
		EventCounts:    map[string]int{},
		CoachingPoints: playerPoints(profile),
	}
	for _, key := range extraction.SkillKeys() {
		switch v := perf.Skills[key]; {
		case v >= 80:
			perf.Strengths = append(perf.Strengths, key)
		case v < weakSkillThreshold:
			perf.Weaknesses = append(perf.Weaknesses, key)
		}
	}

	successes := 0
	for _, e := range events {
		perf.EventCounts[string(e.EventType)]++
		if e.Success {
			successes++
		}
	}
	if len(events) > 0 {
		perf.SuccessRate = round1(float64(successes) * 100 / float64(len(events)))
	}
	return perf, nil
}

func (s *analyticsService) TeamAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.TeamAnalytics, error) {
	if _, err := ownedVideo(ctx, s.videoRepo, userID, videoID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	formations, err := s.rollupRepo.ListFormations(ctx, videoID)
	if err != nil {
		return nil, err
	}

	teams := map[string]*models.TeamSummary{}
	get := func(team string) *models.TeamSummary {
		t, ok := teams[team]
		if !ok {
			t = &models.TeamSummary{Team: team, Formations: []*models.TeamFormation{}}
			teams[team] = t
		}
		return t
	}

	for _, e := range events {
		if e.Team == nil || *e.Team == "" {
			continue
		}
		t := get(*e.Team)
		t.Events++
		if e.Success {
			t.Successes++
		}
		switch e.EventType {
		case models.EventGoal:
			t.Goals++
		case models.EventShot:
			t.Shots++
		case models.EventSave:
			t.Saves++
		case models.EventCausedTurnover:
			t.CausedTurnovers++
		case models.EventPenalty:
			t.Penalties++
		case models.EventFaceoff:
			t.FaceoffWins++
		case models.EventTransition:
			t.Transitions++
			if e.Success {
				t.SuccessfulTransitions++
			}
		}
	}

	ratingSum := map[string]float64{}
	for _, p := range profiles {
		if p.TeamColor == nil || *p.TeamColor == "" {
			continue
		}
		t := get(*p.TeamColor)
		t.Players++
		ratingSum[t.Team] += p.OverallRating
	}
	for _, f := range formations {
		t := get(f.Team)
		t.Formations = append(t.Formations, f)
	}

	out := &models.TeamAnalytics{VideoID: videoID, Teams: make([]*models.TeamSummary, 0, len(teams))}
	for _, t := range teams {
		if t.Players > 0 {
			t.AverageRating = round1(ratingSum[t.Team] / float64(t.Players))
		}
		out.Teams = append(out.Teams, t)
	}
	sort.Slice(out.Teams, func(i, j int) bool {
		if out.Teams[i].Events != out.Teams[j].Events {
			return out.Teams[i].Events > out.Teams[j].Events
		}
		return out.Teams[i].Team < out.Teams[j].Team
	})
	return out, nil
}

func (s *analyticsService) GameFlow(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.GameFlow, error) {
	if _, err := ownedVideo(ctx, s.videoRepo, userID, videoID); err != nil {
		return nil, err
	}
	flows, err := s.rollupRepo.ListGameFlow(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if flows == nil {
		flows = []*models.GameFlow{}
	}
	return flows, nil
}

func (s *analyticsService) FaceoffAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.FaceoffAnalytics, error) {
	if _, err := ownedVideo(ctx, s.videoRepo, userID, videoID); err != nil {
		return nil, err
	}
	faceoffs, err := s.eventRepo.ListFaceoffs(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if faceoffs == nil {
		faceoffs = []*models.FaceoffEvent{}
	}

	out := &models.FaceoffAnalytics{
		VideoID:        videoID,
		Total:          len(faceoffs),
		WinsByTeam:     map[string]int{},
		Techniques:     map[string]int{},
		ExitDirections: map[string]int{},
		Faceoffs:       faceoffs,
	}
	for _, f := range faceoffs {
		d := f.Detail
		if d.Winner != nil {
			out.WinsByTeam[*d.Winner]++
		}
		out.Techniques[d.Technique]++
		if d.ExitDirection != nil {
			out.ExitDirections[*d.ExitDirection]++
		}
		if d.FastBreakOpportunity {
			out.FastBreaks++
		}
		if d.Violation {
			out.Violations++
		}
		if d.GroundBallBattle {
			out.GroundBallBattles++
		}
	}
	return out, nil
}

func (s *analyticsService) CoachingInsights(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.CoachingPoint, error) {
	if _, err := ownedVideo(ctx, s.videoRepo, userID, videoID); err != nil {
		return nil, err
	}
	points, err := s.rollupRepo.ListCoachingPoints(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []*models.CoachingPoint{}
	}
	return points, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

package services

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
	"github.com/lacrosselens/lacrosselens-engine/pkg/media"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
	"github.com/lacrosselens/lacrosselens-engine/pkg/videoai"
	"github.com/lacrosselens/lacrosselens-engine/pkg/youtube"
)

// ============================================================================
// In-memory repositories shared by the service tests
// ============================================================================

type memVideoRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*models.Video
}

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: make(map[uuid.UUID]*models.Video)}
}

var _ repositories.VideoRepository = (*memVideoRepo)(nil)

func (r *memVideoRepo) Create(_ context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *memVideoRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memVideoRepo) ListByUser(_ context.Context, userID string) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Video
	for _, v := range r.videos {
		if v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memVideoRepo) UpdateDetails(_ context.Context, id uuid.UUID, d repositories.VideoDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if d.Title != nil {
		v.Title = *d.Title
	}
	if d.Description != nil {
		v.Description = d.Description
	}
	if d.Duration != nil {
		v.Duration = d.Duration
	}
	if d.ThumbnailURL != nil {
		v.ThumbnailURL = d.ThumbnailURL
	}
	return nil
}

func (r *memVideoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *memVideoRepo) BeginRun(_ context.Context, id uuid.UUID, resetAttempts bool) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	v.Status = models.VideoStatusProcessing
	if resetAttempts {
		v.ProcessingAttempts = 1
	} else {
		v.ProcessingAttempts++
	}
	now := time.Now()
	runID := uuid.New()
	v.ProcessingStartedAt = &now
	v.ProcessingRunID = &runID
	v.ErrorMessage = nil
	cp := *v
	return &cp, nil
}

func (r *memVideoRepo) FinishRun(_ context.Context, id, runID uuid.UUID, status models.VideoStatus, msg *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok || v.ProcessingRunID == nil || *v.ProcessingRunID != runID || v.Status != models.VideoStatusProcessing {
		return false, nil
	}
	v.Status = status
	v.ErrorMessage = msg
	return true, nil
}

func (r *memVideoRepo) ListStale(_ context.Context, cutoff time.Time) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Video
	for _, v := range r.videos {
		if v.Status == models.VideoStatusProcessing && v.ProcessingStartedAt != nil && v.ProcessingStartedAt.Before(cutoff) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memVideoRepo) MarkFailed(_ context.Context, id uuid.UUID, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v.Status == models.VideoStatusProcessing {
		v.Status = models.VideoStatusFailed
		v.ErrorMessage = &msg
	}
	return nil
}

// age moves a video's processing start into the past.
func (r *memVideoRepo) age(id uuid.UUID, by time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok && v.ProcessingStartedAt != nil {
		t := v.ProcessingStartedAt.Add(-by)
		v.ProcessingStartedAt = &t
	}
}

type memAnalysisRepo struct {
	mu       sync.Mutex
	analyses []*models.Analysis
	failOn   func(a *models.Analysis) error
	onClear  []func(videoID uuid.UUID)
}

func newMemAnalysisRepo() *memAnalysisRepo { return &memAnalysisRepo{} }

var _ repositories.AnalysisRepository = (*memAnalysisRepo)(nil)

func (r *memAnalysisRepo) Create(_ context.Context, a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != nil {
		if err := r.failOn(a); err != nil {
			return err
		}
	}
	if _, err := models.EncodeMetadata(a.Type, a.Metadata); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.analyses = append(r.analyses, &cp)
	return nil
}

func (r *memAnalysisRepo) ListByVideo(_ context.Context, videoID uuid.UUID) ([]*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Analysis
	for _, a := range r.analyses {
		if a.VideoID == videoID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Timestamp, out[j].Timestamp
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		}
		return *ti < *tj
	})
	return out, nil
}

func (r *memAnalysisRepo) CountByVideo(ctx context.Context, videoID uuid.UUID) (int, error) {
	list, _ := r.ListByVideo(ctx, videoID)
	return len(list), nil
}

func (r *memAnalysisRepo) ClearDerived(_ context.Context, videoID uuid.UUID) error {
	r.mu.Lock()
	kept := r.analyses[:0]
	for _, a := range r.analyses {
		if a.VideoID != videoID {
			kept = append(kept, a)
		}
	}
	r.analyses = kept
	hooks := r.onClear
	r.mu.Unlock()

	for _, h := range hooks {
		h(videoID)
	}
	return nil
}

func (r *memAnalysisRepo) delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.analyses {
		if a.ID == id {
			r.analyses = append(r.analyses[:i], r.analyses[i+1:]...)
			return
		}
	}
}

// memProfileRepo applies the same merge policy as the SQL upsert.
type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.PlayerProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[string]*models.PlayerProfile)}
}

var _ repositories.PlayerProfileRepository = (*memProfileRepo)(nil)

func profileKey(videoID uuid.UUID, id string) string { return videoID.String() + "|" + id }

func orKeep(old, fill *string) *string {
	if old != nil && *old != "" {
		return old
	}
	return fill
}

func (r *memProfileRepo) Upsert(_ context.Context, obs *models.ProfileObservation) (*models.PlayerProfile, error) {
	if obs.PlayerIdentifier == "" {
		return nil, apperrors.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := profileKey(obs.VideoID, obs.PlayerIdentifier)
	p, ok := r.profiles[key]
	if !ok {
		now := time.Now()
		p = &models.PlayerProfile{
			ID:                uuid.New(),
			VideoID:           obs.VideoID,
			PlayerIdentifier:  obs.PlayerIdentifier,
			JerseyNumber:      obs.JerseyNumber,
			TeamColor:         obs.TeamColor,
			Position:          obs.Position,
			Handedness:        obs.Handedness,
			HeightEstimate:    obs.HeightEstimate,
			OverallRating:     obs.OverallRating,
			PotentialRating:   obs.PotentialRating,
			CoachabilityScore: obs.CoachabilityScore,
			ObservationCount:  1,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		setSkills(p, obs.Skills)
		r.profiles[key] = p
		cp := *p
		return &cp, nil
	}

	setSkills(p, extraction.MergeSkills(p.Skills(), obs.Skills))
	p.JerseyNumber = orKeep(p.JerseyNumber, obs.JerseyNumber)
	p.TeamColor = orKeep(p.TeamColor, obs.TeamColor)
	p.Position = orKeep(p.Position, obs.Position)
	if p.Handedness == "unknown" {
		p.Handedness = obs.Handedness
	}
	p.ObservationCount++
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func setSkills(p *models.PlayerProfile, s models.SkillRatings) {
	p.DodgingSkill = s.Dodging
	p.ShootingSkill = s.Shooting
	p.PassingSkill = s.Passing
	p.GroundBallSkill = s.GroundBalls
	p.DefenseSkill = s.Defense
	p.OffBallSkill = s.OffBall
	p.IQSkill = s.IQ
	p.Athleticism = s.Athleticism
}

func (r *memProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memProfileRepo) GetByIdentifier(_ context.Context, videoID uuid.UUID, identifier string) (*models.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileKey(videoID, identifier)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) ListByVideo(_ context.Context, videoID uuid.UUID) ([]*models.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PlayerProfile
	for _, p := range r.profiles {
		if p.VideoID == videoID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OverallRating != out[j].OverallRating {
			return out[i].OverallRating > out[j].OverallRating
		}
		return out[i].PlayerIdentifier < out[j].PlayerIdentifier
	})
	return out, nil
}

type memPlayEventRepo struct {
	mu          sync.Mutex
	events      []*models.PlayEvent
	faceoffs    map[uuid.UUID]*models.FaceoffDetail
	transitions map[uuid.UUID]*models.TransitionDetail
	shots       map[uuid.UUID]*models.ShotDetail
	defensive   map[uuid.UUID]*models.DefensiveDetail
	failCreate  error
}

func newMemPlayEventRepo() *memPlayEventRepo {
	return &memPlayEventRepo{
		faceoffs:    make(map[uuid.UUID]*models.FaceoffDetail),
		transitions: make(map[uuid.UUID]*models.TransitionDetail),
		shots:       make(map[uuid.UUID]*models.ShotDetail),
		defensive:   make(map[uuid.UUID]*models.DefensiveDetail),
	}
}

var _ repositories.PlayEventRepository = (*memPlayEventRepo)(nil)

func (r *memPlayEventRepo) Create(_ context.Context, e *models.PlayEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	cp := *e
	r.events = append(r.events, &cp)
	return nil
}

func (r *memPlayEventRepo) CreateFaceoffDetail(_ context.Context, d *models.FaceoffDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.faceoffs[d.PlayEventID] = &cp
	return nil
}

func (r *memPlayEventRepo) CreateTransitionDetail(_ context.Context, d *models.TransitionDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.transitions[d.PlayEventID] = &cp
	return nil
}

func (r *memPlayEventRepo) CreateShotDetail(_ context.Context, d *models.ShotDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.shots[d.PlayEventID] = &cp
	return nil
}

func (r *memPlayEventRepo) CreateDefensiveDetail(_ context.Context, d *models.DefensiveDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.defensive[d.PlayEventID] = &cp
	return nil
}

func (r *memPlayEventRepo) ListByVideo(_ context.Context, videoID uuid.UUID) ([]*models.PlayEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PlayEvent
	for _, e := range r.events {
		if e.VideoID == videoID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPlayEventRepo) ListByPlayer(_ context.Context, profileID uuid.UUID) ([]*models.PlayEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PlayEvent
	for _, e := range r.events {
		if (e.PrimaryPlayerID != nil && *e.PrimaryPlayerID == profileID) ||
			(e.SecondaryPlayerID != nil && *e.SecondaryPlayerID == profileID) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPlayEventRepo) ListFaceoffs(_ context.Context, videoID uuid.UUID) ([]*models.FaceoffEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FaceoffEvent
	for _, e := range r.events {
		if d, ok := r.faceoffs[e.ID]; ok && e.VideoID == videoID {
			out = append(out, &models.FaceoffEvent{PlayEvent: *e, Detail: *d})
		}
	}
	return out, nil
}

func (r *memPlayEventRepo) ListTransitions(_ context.Context, videoID uuid.UUID) ([]*models.TransitionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TransitionEvent
	for _, e := range r.events {
		if d, ok := r.transitions[e.ID]; ok && e.VideoID == videoID {
			out = append(out, &models.TransitionEvent{PlayEvent: *e, Detail: *d})
		}
	}
	return out, nil
}

func (r *memPlayEventRepo) byType(t models.EventType) []*models.PlayEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PlayEvent
	for _, e := range r.events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

type memRollupRepo struct {
	mu         sync.Mutex
	formations []*models.TeamFormation
	flows      map[uuid.UUID][]*models.GameFlow
	points     map[uuid.UUID][]*models.CoachingPoint
}

func newMemRollupRepo() *memRollupRepo {
	return &memRollupRepo{
		flows:  make(map[uuid.UUID][]*models.GameFlow),
		points: make(map[uuid.UUID][]*models.CoachingPoint),
	}
}

var _ repositories.RollupRepository = (*memRollupRepo)(nil)

func (r *memRollupRepo) CreateFormation(_ context.Context, f *models.TeamFormation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	cp := *f
	r.formations = append(r.formations, &cp)
	return nil
}

func (r *memRollupRepo) ListFormations(_ context.Context, videoID uuid.UUID) ([]*models.TeamFormation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TeamFormation
	for _, f := range r.formations {
		if f.VideoID == videoID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memRollupRepo) ReplaceGameFlow(_ context.Context, videoID uuid.UUID, flows []*models.GameFlow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[videoID] = flows
	return nil
}

func (r *memRollupRepo) ListGameFlow(_ context.Context, videoID uuid.UUID) ([]*models.GameFlow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flows[videoID], nil
}

func (r *memRollupRepo) ReplaceCoachingPoints(_ context.Context, videoID uuid.UUID, points []*models.CoachingPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[videoID] = points
	return nil
}

func (r *memRollupRepo) ListCoachingPoints(_ context.Context, videoID uuid.UUID) ([]*models.CoachingPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.points[videoID], nil
}

type memTeamRepo struct {
	mu      sync.Mutex
	teams   map[uuid.UUID]*models.Team
	players map[uuid.UUID][]*models.Player
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{teams: make(map[uuid.UUID]*models.Team), players: make(map[uuid.UUID][]*models.Player)}
}

var _ repositories.TeamRepository = (*memTeamRepo)(nil)

func (r *memTeamRepo) Create(_ context.Context, t *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.teams[t.ID] = &cp
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTeamRepo) ListByUser(_ context.Context, userID string) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Team
	for _, t := range r.teams {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memTeamRepo) AddPlayer(_ context.Context, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.players[p.TeamID] = append(r.players[p.TeamID], &cp)
	return nil
}

func (r *memTeamRepo) ListPlayers(_ context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[teamID], nil
}

type memDashboardRepo struct {
	stats *models.DashboardStats
	calls int
	err   error
}

func (r *memDashboardRepo) Stats(_ context.Context, _ string) (*models.DashboardStats, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	cp := *r.stats
	return &cp, nil
}

func (r *memProfileRepo) clear(videoID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, p := range r.profiles {
		if p.VideoID == videoID {
			delete(r.profiles, k)
		}
	}
}

func (r *memPlayEventRepo) clear(videoID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.events[:0]
	for _, e := range r.events {
		if e.VideoID != videoID {
			kept = append(kept, e)
			continue
		}
		delete(r.faceoffs, e.ID)
		delete(r.transitions, e.ID)
		delete(r.shots, e.ID)
		delete(r.defensive, e.ID)
	}
	r.events = kept
}

func (r *memRollupRepo) clear(videoID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.formations[:0]
	for _, f := range r.formations {
		if f.VideoID != videoID {
			kept = append(kept, f)
		}
	}
	r.formations = kept
	delete(r.flows, videoID)
	delete(r.points, videoID)
}

// ============================================================================
// Collaborator fakes
// ============================================================================

type fakeMedia struct {
	mu        sync.Mutex
	duration  float64
	frames    []media.Keyframe
	err       error
	thumbs    []string
	probes    int
	maxFrames int
}

var _ media.Tools = (*fakeMedia)(nil)

func (m *fakeMedia) AssertReady(context.Context) error { return nil }

func (m *fakeMedia) Duration(context.Context, string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes++
	return m.duration, m.err
}

func (m *fakeMedia) Thumbnail(_ context.Context, _, outPath string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.thumbs = append(m.thumbs, outPath)
	return os.WriteFile(outPath, []byte("jpeg"), 0o644)
}

func (m *fakeMedia) Keyframes(_ context.Context, _ string, _ float64, maxFrames int) ([]media.Keyframe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFrames = maxFrames
	return m.frames, m.err
}

type fakeYouTube struct {
	meta     *youtube.Metadata
	thumb    []byte
	err      error
	thumbErr error
}

var _ youtube.Client = (*fakeYouTube)(nil)

func (f *fakeYouTube) Metadata(context.Context, string) (*youtube.Metadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.meta
	return &cp, nil
}

func (f *fakeYouTube) Thumbnail(context.Context, *youtube.Metadata) ([]byte, error) {
	return f.thumb, f.thumbErr
}

type multiPassFunc func(ctx context.Context, video *models.Video, input *videoai.VideoInput) (*MultiPassResult, error)

func (f multiPassFunc) Analyze(ctx context.Context, video *models.Video, input *videoai.VideoInput) (*MultiPassResult, error) {
	return f(ctx, video, input)
}

type countingInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (c *countingInvalidator) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
}

var errBoom = errors.New("boom")

func floatPtr(f float64) *float64 { return &f }

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

var _ repositories.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Upsert(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	existing, ok := r.users[u.ID]
	if !ok {
		u.CreatedAt, u.UpdatedAt = now, now
		cp := *u
		r.users[u.ID] = &cp
		return nil
	}
	if u.Email != "" {
		existing.Email = u.Email
	}
	if u.Name != "" {
		existing.Name = u.Name
	}
	existing.UpdatedAt = now
	*u = *existing
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

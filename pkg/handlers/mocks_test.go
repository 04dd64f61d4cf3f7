package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
)

const testUserID = "coach-1"

// withUser attaches authenticated claims to the request.
func withUser(r *http.Request) *http.Request {
	return r.WithContext(auth.WithClaims(r.Context(), &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: testUserID},
		Email:            "coach@example.com",
		Name:             "Coach",
	}))
}

// mockAuthService implements auth.AuthService for testing.
type mockAuthService struct {
	claims          *auth.Claims
	token           string
	validateErr     error
	startErr        error
	sessionsStarted int
	sessionsEnded   int
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*auth.Claims, string, error) {
	if m.validateErr != nil {
		return nil, "", m.validateErr
	}
	return m.claims, m.token, nil
}

func (m *mockAuthService) ValidateBearer(r *http.Request) (*auth.Claims, string, error) {
	return m.ValidateRequest(r)
}

func (m *mockAuthService) StartSession(w http.ResponseWriter, r *http.Request, claims *auth.Claims) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.sessionsStarted++
	return nil
}

func (m *mockAuthService) EndSession(w http.ResponseWriter, r *http.Request) error {
	m.sessionsEnded++
	return nil
}

// mockVideoService implements services.VideoService for testing.
type mockVideoService struct {
	video     *models.Video
	videos    []*models.Video
	analyses  []*models.Analysis
	thumbnail string
	err       error

	gotUser string
	gotID   uuid.UUID
	gotURL  string
	gotSub  services.VideoSubmission
	gotFile []byte
	deleted bool
}

func (m *mockVideoService) Upload(ctx context.Context, userID string, sub services.VideoSubmission, file services.VideoFile) (*models.Video, error) {
	m.gotUser, m.gotSub = userID, sub
	buf := make([]byte, 64)
	n, _ := file.Reader.Read(buf)
	m.gotFile = buf[:n]
	return m.video, m.err
}

func (m *mockVideoService) SubmitYouTube(ctx context.Context, userID, youtubeURL string, sub services.VideoSubmission) (*models.Video, error) {
	m.gotUser, m.gotURL, m.gotSub = userID, youtubeURL, sub
	return m.video, m.err
}

func (m *mockVideoService) List(ctx context.Context, userID string) ([]*models.Video, error) {
	m.gotUser = userID
	return m.videos, m.err
}

func (m *mockVideoService) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Video, error) {
	m.gotUser, m.gotID = userID, id
	return m.video, m.err
}

func (m *mockVideoService) Analyses(ctx context.Context, userID string, id uuid.UUID) ([]*models.Analysis, error) {
	m.gotUser, m.gotID = userID, id
	return m.analyses, m.err
}

func (m *mockVideoService) Retry(ctx context.Context, userID string, id uuid.UUID) (*models.Video, error) {
	m.gotUser, m.gotID = userID, id
	return m.video, m.err
}

func (m *mockVideoService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	m.gotUser, m.gotID = userID, id
	if m.err == nil {
		m.deleted = true
	}
	return m.err
}

func (m *mockVideoService) ThumbnailPath(name string) (string, error) {
	if m.thumbnail == "" {
		return "", apperrors.ErrNotFound
	}
	return m.thumbnail, nil
}

// mockStatisticsService implements services.StatisticsService for testing.
type mockStatisticsService struct {
	stats *models.PlayStatistics
	plays []models.PlayByPlayEntry
	err   error
}

func (m *mockStatisticsService) GetVideoPlayStatistics(ctx context.Context, userID string, videoID uuid.UUID) (*models.PlayStatistics, error) {
	return m.stats, m.err
}

func (m *mockStatisticsService) GetVideoPlayByPlay(ctx context.Context, userID string, videoID uuid.UUID) ([]models.PlayByPlayEntry, error) {
	return m.plays, m.err
}

// mockTeamService implements services.TeamService for testing.
type mockTeamService struct {
	team      *models.Team
	teams     []*models.Team
	player    *models.Player
	players   []*models.Player
	err       error
	gotName   string
	gotLevel  *string
	gotTeam   uuid.UUID
	gotPlayer *models.Player
}

func (m *mockTeamService) Create(ctx context.Context, userID, name string, level *string) (*models.Team, error) {
	m.gotName, m.gotLevel = name, level
	return m.team, m.err
}

func (m *mockTeamService) List(ctx context.Context, userID string) ([]*models.Team, error) {
	return m.teams, m.err
}

func (m *mockTeamService) AddPlayer(ctx context.Context, userID string, teamID uuid.UUID, player *models.Player) (*models.Player, error) {
	m.gotTeam, m.gotPlayer = teamID, player
	return m.player, m.err
}

func (m *mockTeamService) ListPlayers(ctx context.Context, userID string, teamID uuid.UUID) ([]*models.Player, error) {
	m.gotTeam = teamID
	return m.players, m.err
}

// mockUserService implements services.UserService for testing.
type mockUserService struct {
	users     map[string]*models.User
	ensureErr error
}

func (m *mockUserService) Ensure(ctx context.Context, id, email, name string) (*models.User, error) {
	if m.ensureErr != nil {
		return nil, m.ensureErr
	}
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	u := &models.User{ID: id, Email: email, Name: name}
	m.users[id] = u
	return u, nil
}

func (m *mockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

// mockDashboardService implements services.DashboardService for testing.
type mockDashboardService struct {
	stats *models.DashboardStats
	err   error
}

func (m *mockDashboardService) Invalidate(ctx context.Context, userID string) {}

func (m *mockDashboardService) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	return m.stats, m.err
}

// mockAnalyticsService implements services.AnalyticsService for testing.
type mockAnalyticsService struct {
	players     []*models.PlayerProfile
	performance *models.PlayerPerformance
	teams       *models.TeamAnalytics
	flow        []*models.GameFlow
	faceoffs    *models.FaceoffAnalytics
	points      []*models.CoachingPoint
	err         error
	gotID       uuid.UUID
}

func (m *mockAnalyticsService) Rebuild(ctx context.Context, videoID uuid.UUID) error {
	return errors.New("not used by handlers")
}

func (m *mockAnalyticsService) VideoPlayers(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.PlayerProfile, error) {
	m.gotID = videoID
	return m.players, m.err
}

func (m *mockAnalyticsService) PlayerPerformance(ctx context.Context, userID string, profileID uuid.UUID) (*models.PlayerPerformance, error) {
	m.gotID = profileID
	return m.performance, m.err
}

func (m *mockAnalyticsService) TeamAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.TeamAnalytics, error) {
	m.gotID = videoID
	return m.teams, m.err
}

func (m *mockAnalyticsService) GameFlow(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.GameFlow, error) {
	m.gotID = videoID
	return m.flow, m.err
}

func (m *mockAnalyticsService) FaceoffAnalytics(ctx context.Context, userID string, videoID uuid.UUID) (*models.FaceoffAnalytics, error) {
	m.gotID = videoID
	return m.faceoffs, m.err
}

func (m *mockAnalyticsService) CoachingInsights(ctx context.Context, userID string, videoID uuid.UUID) ([]*models.CoachingPoint, error) {
	m.gotID = videoID
	return m.points, m.err
}

var (
	_ auth.AuthService           = (*mockAuthService)(nil)
	_ services.VideoService      = (*mockVideoService)(nil)
	_ services.StatisticsService = (*mockStatisticsService)(nil)
	_ services.TeamService       = (*mockTeamService)(nil)
	_ services.UserService       = (*mockUserService)(nil)
	_ services.DashboardService  = (*mockDashboardService)(nil)
	_ services.AnalyticsService  = (*mockAnalyticsService)(nil)
)

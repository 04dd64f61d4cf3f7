// Package server assembles the engine: storage, services, background
// processing and the HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/audit"
	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
	"github.com/lacrosselens/lacrosselens-engine/pkg/handlers"
	"github.com/lacrosselens/lacrosselens-engine/pkg/mcp"
	mcpauth "github.com/lacrosselens/lacrosselens-engine/pkg/mcp/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/mcp/tools"
	"github.com/lacrosselens/lacrosselens-engine/pkg/media"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services"
	"github.com/lacrosselens/lacrosselens-engine/pkg/services/workqueue"
	"github.com/lacrosselens/lacrosselens-engine/pkg/videoai"
	"github.com/lacrosselens/lacrosselens-engine/pkg/youtube"
)

const (
	shutdownTimeout        = 30 * time.Second
	sessionCleanupInterval = time.Hour
)

// Server owns every long-lived resource of a running engine.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *database.DB
	redis      *redis.Client
	jwks       *auth.JWKSClient
	sessions   *auth.PGStore
	runner     *workqueue.Runner
	watchdog   services.ProcessingWatchdog
	httpServer *http.Server
}

// New connects to the database and cache and wires the services and routes.
// Migrations are applied when autoMigrate is set.
func New(ctx context.Context, cfg *config.Config, autoMigrate bool, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	db, err := database.Connect(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	s.db = db

	if autoMigrate {
		if err := Migrate(cfg, logger); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.redis, err = database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		// The stats cache is optional.
		logger.Warn("Redis unavailable, dashboard stats will not be cached", zap.Error(err))
		s.redis = nil
	}

	s.jwks, err = auth.NewJWKSClient(ctx, &auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}
	if !cfg.Auth.EnableVerification {
		logger.Warn("JWT verification is disabled; tokens are trusted without a signature check")
	}

	secret := cfg.Auth.SessionSecret
	if secret == "" {
		if cfg.IsProduction() {
			s.Close()
			return nil, errors.New("SESSION_SECRET is required in production")
		}
		logger.Warn("SESSION_SECRET not set; sessions will not survive a restart")
		secret = uuid.NewString()
	}
	s.sessions = auth.NewPGStore(
		auth.NewPGSessionBackend(db.Pool),
		secret,
		cfg.Auth.SessionTTL,
		auth.DeriveCookieSettings(cfg.BaseURL, cfg.Auth.CookieDomain),
	)

	handler, err := s.wire(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// wire builds repositories, services and handlers and returns the root handler.
func (s *Server) wire(ctx context.Context) (http.Handler, error) {
	cfg, logger := s.cfg, s.logger
	provider := database.NewScopeProvider(s.db)
	scope := services.ProviderScope(provider)

	userRepo := repositories.NewUserRepository()
	teamRepo := repositories.NewTeamRepository()
	videoRepo := repositories.NewVideoRepository()
	analysisRepo := repositories.NewAnalysisRepository()
	profileRepo := repositories.NewPlayerProfileRepository()
	eventRepo := repositories.NewPlayEventRepository()
	rollupRepo := repositories.NewRollupRepository()
	dashboardRepo := repositories.NewDashboardRepository()

	model, err := videoai.NewFromConfig(&cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("create video model: %w", err)
	}
	yt, err := youtube.NewClient(ctx, &cfg.YouTube, logger)
	if err != nil {
		return nil, fmt.Errorf("create youtube client: %w", err)
	}
	mediaTools := media.New(&cfg.Storage, logger)

	s.runner = workqueue.NewRunner(logger,
		workqueue.WithStrategy(workqueue.NewThrottledStrategy(cfg.Processing.MaxConcurrent)))

	dashboardService := services.NewDashboardService(dashboardRepo, s.redis, cfg.Redis.StatsTTL, logger)
	analyticsService := services.NewAnalyticsService(
		videoRepo, profileRepo, eventRepo, rollupRepo, services.DatabaseTransactor, logger)
	profiles := services.NewProfileAggregator(profileRepo, logger)
	enrichmentService := services.NewEnrichmentService(
		analysisRepo,
		services.NewDefaultEnricherRegistry(profiles, eventRepo),
		services.DatabaseTransactor,
		logger,
	)
	processor := services.NewVideoProcessor(
		videoRepo,
		analysisRepo,
		rollupRepo,
		enrichmentService,
		services.NewMultiPassAnalyzer(model, &cfg.Processing, logger),
		model,
		mediaTools,
		yt,
		analyticsService,
		dashboardService,
		s.runner,
		scope,
		cfg,
		logger,
	)
	s.watchdog = services.NewProcessingWatchdog(videoRepo, processor, scope, &cfg.Processing, logger)

	videoService := services.NewVideoService(
		videoRepo, analysisRepo, teamRepo, processor, mediaTools, yt, dashboardService, &cfg.Storage, logger)
	statisticsService := services.NewStatisticsService(videoRepo, analysisRepo, logger)
	teamService := services.NewTeamService(teamRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	authService := auth.NewAuthService(s.jwks, s.sessions, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	mcpServer := mcp.NewServer("lacrosselens", cfg.Version, logger)
	tools.RegisterAnalyticsTools(mcpServer.MCP(), &tools.AnalyticsToolDeps{
		Videos:     videoService,
		Statistics: statisticsService,
		Analytics:  analyticsService,
		Logger:     logger.Named("mcp-tools"),
	})
	tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version, s.runner)

	return newRouter(routerDeps{
		provider: provider,
		auditor:  audit.NewSecurityAuditor(logger),
		logger:   logger,
		public: []publicRoutes{
			handlers.NewHealthHandler(cfg, s.db.Pool, s.runner, logger),
			handlers.NewWellKnownHandler(cfg, logger),
		},
		protected: []protectedRoutes{
			handlers.NewAuthHandler(authService, userService, logger),
			handlers.NewVideoHandler(videoService, statisticsService, cfg.Storage.MaxUploadMB, logger),
			handlers.NewTeamHandler(teamService, logger),
			handlers.NewDashboardHandler(dashboardService, logger),
			handlers.NewAnalyticsHandler(analyticsService, logger),
		},
		authMiddleware: authMiddleware,
		mcp:            handlers.NewMCPHandler(mcpServer, logger),
		mcpAuth:        mcpauth.NewMiddleware(authService, logger),
	}), nil
}

// Run serves HTTP and runs the background loops until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	go s.watchdog.RunScheduler(bgCtx)
	go s.sessions.RunCleanup(bgCtx, sessionCleanupInterval, s.logger)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting",
			zap.String("addr", s.httpServer.Addr),
			zap.String("base_url", s.cfg.BaseURL),
			zap.String("version", s.cfg.Version))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	cancelBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP shutdown did not complete", zap.Error(err))
	}
	// Interrupted runs stay in processing; the watchdog retries them after restart.
	if err := s.runner.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Background runs did not stop in time", zap.Error(err))
	}
	return nil
}

// Close releases the connections held by the server.
func (s *Server) Close() {
	if s.jwks != nil {
		s.jwks.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if s.db != nil {
		s.db.Close()
	}
}

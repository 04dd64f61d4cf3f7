package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/server"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the video processing pipeline",
	Long: `Start the HTTP server. Pending migrations are applied first unless
--skip-migrations is given. SIGINT or SIGTERM starts a graceful shutdown;
runs interrupted by it are retried by the watchdog after restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		logger.Info("Configuration loaded",
			zap.String("env", cfg.Env),
			zap.String("base_url", cfg.BaseURL),
			zap.Bool("auth_verification", cfg.Auth.EnableVerification),
			zap.String("database", cfg.Database.Host),
			zap.String("ai_provider", cfg.AI.Provider),
			zap.String("processing_mode", cfg.Processing.Mode))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, !skipMigrations, logger)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

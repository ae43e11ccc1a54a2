package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/app"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/db"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bitewise",
		Short: "Bitewise food-ordering wizard backend",
		Long: `Bitewise serves the multilingual food-ordering wizard: language and
service selection, the question/answer wizard with voice input, and
delivery dispatch.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, log *logger.Logger, conn *gorm.DB) error {
					if err := db.AutoMigrateAll(conn); err != nil {
						return fmt.Errorf("automigrate: %w", err)
					}
					log.Info("Schema migrated")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Install the default wizard catalog, languages and services",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, log *logger.Logger, conn *gorm.DB) error {
					if err := db.AutoMigrateAll(conn); err != nil {
						return fmt.Errorf("automigrate: %w", err)
					}
					if err := db.SeedAll(ctx, conn); err != nil {
						return fmt.Errorf("seed: %w", err)
					}
					log.Info("Seed data installed")
					return nil
				})
			},
		},
	)
	return root
}

// loadEnv is best effort; a missing file leaves the process env untouched.
func loadEnv(path string) {
	if path != "" {
		_ = godotenv.Load(path)
		return
	}
	_ = godotenv.Load()
}

func newLogger() (*logger.Logger, error) {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runServe(parent context.Context) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signalContext(parent)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to initialize app", "error", err)
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

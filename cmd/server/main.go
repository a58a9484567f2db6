package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tender_backend/internal/app/di"
	"tender_backend/internal/platform/config"
	platformdb "tender_backend/internal/platform/db"
	"tender_backend/internal/platform/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	log       *slog.Logger
	logCloser io.Closer

	rootCmd = &cobra.Command{
		Use:           "tender-server",
		Short:         "Tender portal API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			l, closer, err := logger.New(logger.LoadConfigFromEnv())
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			log, logCloser = l, closer
			slog.SetDefault(log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tender-server version %s\n", version)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, versionCmd)
	// Running the binary without a subcommand serves the API.
	rootCmd.RunE = serveCmd.RunE
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// openDB connects to the configured database and migrates it when migrate is true.
func openDB(cfg platformdb.Config, migrate bool) (*gorm.DB, error) {
	db, err := platformdb.Open(cfg)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := platformdb.Migrate(db, di.Models()...); err != nil {
			return nil, err
		}
		slog.Info("database migrated", "driver", cfg.Driver)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

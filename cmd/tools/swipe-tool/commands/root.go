package commands

import (
	"github.com/spf13/cobra"

	"github.com/banshee-data/inky2048/internal/config"
	"github.com/banshee-data/inky2048/internal/db"
	"github.com/banshee-data/inky2048/internal/version"
)

var (
	dbPath     string
	configPath string
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swipe-tool",
		Short:         "Replay touch recordings and inspect recorded swipes",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "inky.db", "SQLite database path")
	root.PersistentFlags().StringVar(&configPath, "config", "", "tuning config JSON (default built-in values)")

	root.AddCommand(replayCmd(), statsCmd(), sessionsCmd(), migrateCmd())
	return root
}

func loadTuning() (*config.TuningConfig, error) {
	if configPath == "" {
		return config.DefaultTuningConfig(), nil
	}
	return config.LoadTuningConfig(configPath)
}

// openDB opens the database without migrating it.
func openDB() (*db.DB, error) {
	return db.OpenDB(dbPath)
}

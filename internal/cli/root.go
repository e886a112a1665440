// Package cli implements the team task API command line.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/team-task-api/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "team-task-api",
	Short: "Task and team member assignment service",
	Long: `team-task-api tracks tasks, the team members who work on them and
the per-member assignment records linking the two.

Quick start:
  team-task-api migrate                     Create or update tables
  team-task-api seed-members members.yaml   Load team members
  team-task-api serve                       Start the HTTP API`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (environment variables take precedence)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedMembersCmd())
	rootCmd.AddCommand(newTokenCmd())
}

// loadConfig loads configuration and installs the process logger
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newLogger builds a JSON logger in release mode and a text logger otherwise
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.GinMode == "release" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

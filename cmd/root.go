package main

import (
	"log/slog"
	"os"

	"github.com/jrenard/optiex/internal/config"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "optiex",
	Short: "Optimization exercises with gap-stagnation termination",
	Long: `Optiex solves a collection of small optimization exercises (knapsacks,
portfolio selection, lot sizing, unit commitment, robot arm motion) with a
black-box metaheuristic, watching the optimality gap and stopping runs
whose gap has stopped improving.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stderr, opts)
		slog.SetDefault(slog.New(handler))

		cfg = config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		applyConfigDefaults(cmd)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

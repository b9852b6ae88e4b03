package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/pomotrack/internal/config"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newRootCmd(&log).Execute(); err != nil {
		log.Fatal().Err(err).Msg("pomotrack")
	}
}

func newRootCmd(log *zerolog.Logger) *cobra.Command {
	var cfg *config.Config
	root := &cobra.Command{
		Use:           "pomotrack",
		Short:         "Pomodoro task and session tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			*log = newLogger(cfg.Server)
			return nil
		},
	}
	var purgeDays int
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete anonymous projects, tasks and labels older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return purge(cmd.Context(), cfg, *log, purgeDays)
		},
	}
	purgeCmd.Flags().IntVar(&purgeDays, "days", 30, "age in days after which anonymous data is deleted")

	root.AddCommand(
		purgeCmd,
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), cfg, *log)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the Postgres schema or create Mongo indexes",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), cfg, *log)
			},
		},
	)
	return root
}

func newLogger(s config.ServerConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if s.IsDevelopment() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}

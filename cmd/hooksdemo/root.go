package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/internal/config"
	"github.com/ryanhamamura/viahooks/internal/demos"
	"github.com/ryanhamamura/viahooks/vianats"
	"github.com/spf13/cobra"
)

const sharedStream = "HOOKS_SHARED"

func newRootCmd(logger zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "hooksdemo",
		Short:         "State-management demos served with via",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(logger))
	return root
}

func newServeCmd(logger zerolog.Logger) *cobra.Command {
	var (
		configPath string
		flags      config.Config
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the demo server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	def := config.Default()
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&flags.Address, "addr", def.Address, "http listen address")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", def.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.DevMode, "dev", def.DevMode, "console logging")
	cmd.Flags().DurationVar(&flags.ContextTTL, "context-ttl", def.ContextTTL, "reap pages without a live connection after this long")
	cmd.Flags().StringVar(&flags.SessionDB, "session-db", "", "SQLite file for sessions (in memory if empty)")
	cmd.Flags().StringVar(&flags.NATSDir, "nats-dir", "", "data directory for the embedded NATS server (disabled if empty)")
	return cmd
}

// applyFlags copies the flags the user set explicitly over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags config.Config) {
	set := cmd.Flags().Changed
	if set("addr") {
		cfg.Address = flags.Address
	}
	if set("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if set("dev") {
		cfg.DevMode = flags.DevMode
	}
	if set("context-ttl") {
		cfg.ContextTTL = flags.ContextTTL
	}
	if set("session-db") {
		cfg.SessionDB = flags.SessionDB
	}
	if set("nats-dir") {
		cfg.NATSDir = flags.NATSDir
	}
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger = logger.Level(level)

	opts := via.Options{
		DevMode:       cfg.DevMode,
		ServerAddress: cfg.Address,
		DocumentTitle: cfg.Title,
		LogLevel:      &level,
		ContextTTL:    cfg.ContextTTL,
		Plugins:       []via.Plugin{demos.Stylesheet},
	}

	if cfg.SessionDB != "" {
		db, err := sql.Open("sqlite3", cfg.SessionDB)
		if err != nil {
			return fmt.Errorf("open session db: %w", err)
		}
		defer db.Close()
		sm, err := via.NewSQLiteSessionManager(db, 5*time.Minute)
		if err != nil {
			return err
		}
		opts.SessionManager = sm
		logger.Info().Str("path", cfg.SessionDB).Msg("sessions stored in sqlite")
	}

	initial := 0
	if cfg.NATSDir != "" {
		ps, err := vianats.New(ctx, cfg.NATSDir)
		if err != nil {
			return err
		}
		err = vianats.EnsureStream(ps, vianats.StreamConfig{
			Name:     sharedStream,
			Subjects: []string{demos.SharedSubject},
		})
		if err != nil {
			ps.Close()
			return err
		}
		if initial, err = replaySharedCount(ps); err != nil {
			logger.Warn().Err(err).Int("count", initial).Msg("shared counter replay incomplete")
		}
		opts.PubSub = ps
		logger.Info().Str("dir", cfg.NATSDir).Msg("embedded nats enabled")
	}

	v := via.New()
	v.Config(opts)

	shared, err := demos.NewSharedCounter(initial, v.PubSub(), logger)
	if err != nil {
		return err
	}
	defer shared.Close()

	demos.Register(v, shared)
	v.Start()
	return nil
}

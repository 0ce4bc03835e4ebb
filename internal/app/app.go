package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/songrater/internal/api"
	"github.com/five82/songrater/internal/config"
	"github.com/five82/songrater/internal/logging"
	"github.com/five82/songrater/internal/prefs"
	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/state"
	"github.com/five82/songrater/internal/ui"
)

// Options configure the songrater application. Zero values fall back to the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/songrater/prefs.toml
	APIURL     string // overrides api_url
	PollEvery  int    // seconds; overrides poll_interval when positive
	LogLevel   string // overrides log_level
}


// Run boots the songrater TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load prefs failed", slog.String("error", err.Error()))
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	schemas := resource.Builtin()
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}

	logger.Info("songrater starting",
		slog.String("api_url", client.BaseURL()),
		slog.Duration("poll_interval", cfg.PollInterval))

	store := &state.Store{}

	preload(ctx, store, client, schemas, logger)

	StartPoller(ctx, store, client, schemas, cfg.PollInterval, logger)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Remote:    client,
		Store:     store,
		Logger:    logger,
		Schemas:   schemas,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		APIURL:    client.BaseURL(),
		LogFile:   cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("songrater stopped")
	return nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
}

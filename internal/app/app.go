package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/config"
	"github.com/zhaohua/mpconsole/internal/logging"
	"github.com/zhaohua/mpconsole/internal/prefs"
	"github.com/zhaohua/mpconsole/internal/sizes"
	"github.com/zhaohua/mpconsole/internal/state"
	"github.com/zhaohua/mpconsole/internal/ui"
)

// Options configure the console application.
type Options struct {
	ConfigPath string // empty uses ~/.config/mpconsole/config.toml
	PrefsPath  string // empty uses ~/.config/mpconsole/prefs.toml
	EnvFile    string // optional .env file applied before the config
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the console TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath, ui.PageKeys()...)
	if err != nil {
		logger.Warn("load prefs failed", zap.String("path", prefsPath), zap.Error(err))
	}

	client, err := sizes.NewClient(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("init sizes client: %w", err)
	}

	interval := pollInterval(cfg, opts)
	logger.Info("starting console",
		zap.String("api_base", client.BaseURL()),
		zap.Duration("poll_interval", interval),
	)

	store := &state.Store{}
	poller := StartPoller(ctx, store, client, interval, logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Reload:    poller.Trigger,
		Logger:    logger,
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		LastPage:  userPrefs.LastPage,
		PrefsPath: prefsPath,
	})
}

// pollInterval prefers the command line over the config file.
func pollInterval(cfg config.Config, opts Options) time.Duration {
	if opts.PollEvery > 0 {
		return time.Duration(opts.PollEvery) * time.Second
	}
	if cfg.PollSeconds > 0 {
		return time.Duration(cfg.PollSeconds) * time.Second
	}
	return defaultPollInterval
}

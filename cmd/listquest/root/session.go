package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/civil"

	"listquest/internal/app"
	"listquest/internal/config"
	"listquest/internal/logging"
	"listquest/internal/storage"
)

// session is one load-mutate-save cycle against the database.
type session struct {
	cfg      config.Config
	app      *app.App
	store    *storage.Store
	logger   *slog.Logger
	closeLog func() error
}

// openSession loads config, opens the database, restores the app and rolls
// over tasks due today. Interactive sessions log only to the configured
// file so the terminal stays clean.
func openSession(ctx context.Context, opts *options, interactive bool) (*session, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}

	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = io.Discard
	}
	logger, closeLog, err := logging.Open(cfg.Log, fallback)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	appOpts := []app.Option{}
	if opts.today != "" {
		d, err := civil.ParseDate(opts.today)
		if err != nil {
			closeLog()
			return nil, fmt.Errorf("invalid --today: %w", err)
		}
		appOpts = append(appOpts, app.WithClock(func() civil.Date { return d }))
	}

	store, err := storage.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	a := app.New(logger, appOpts...)
	if err := a.Load(ctx, store, a.Today()); err != nil {
		store.Close()
		closeLog()
		return nil, err
	}
	return &session{cfg: cfg, app: a, store: store, logger: logger, closeLog: closeLog}, nil
}

func (s *session) save(ctx context.Context) error {
	return s.app.Save(ctx, s.store)
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close database", "err", err)
	}
	_ = s.closeLog()
}

// mutate runs fn inside a session and saves afterwards.
func mutate(ctx context.Context, opts *options, fn func(s *session) error) error {
	s, err := openSession(ctx, opts, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(s); err != nil {
		return err
	}
	return s.save(ctx)
}

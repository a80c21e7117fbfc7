package commands

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tableflip.dev/gapflow/pkg/app"
	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/share"
	"tableflip.dev/gapflow/pkg/team"
)

// session is everything a command needs for one invocation.
type session struct {
	cfg    blob.Config
	blob   blob.Store
	log    *zap.Logger
	ctrl   *app.Controller
	closer io.Closer
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// openSession loads the configuration and restores the controller. sharer
// may be nil for commands that never share.
func openSession(ro *rootOptions, sharer func(cfg blob.Config) share.Sharer) (*session, error) {
	log, err := newLogger(ro.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	cfg, err := blob.LoadConfig()
	if err != nil {
		return nil, err
	}
	b, closer, err := blob.Open(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("opened store", zap.String("backend", cfg.Backend()), zap.String("path", cfg.BasePath()))

	o := app.Options{
		Blob:   b,
		Team:   teamSource(cfg),
		Logger: log,
	}
	if sharer != nil {
		o.Sharer = sharer(cfg)
	}
	ctrl, err := app.New(o)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &session{cfg: cfg, blob: b, log: log, ctrl: ctrl, closer: closer}, nil
}

func (s *session) Close() {
	_ = s.log.Sync()
	if err := s.closer.Close(); err != nil {
		s.log.Warn("closing store", zap.Error(err))
	}
}

func teamSource(cfg blob.Config) team.Source {
	if path := cfg.TeamPath(); path != "" {
		return team.File{Path: path}
	}
	return team.Sample(time.Now())
}

// requireLogin fails with a hint when nobody has logged in yet.
func requireLogin(ctrl *app.Controller) error {
	if !ctrl.Authenticated() {
		return fmt.Errorf("%w, run `gapflow login --name <name>` first", app.ErrNotAuthenticated)
	}
	return nil
}

// Package store keeps the journal's entries and signed in identity in memory
// and mirrors every change into a blob.Store.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Blob keys.
const (
	LogsKey = "gap_logs"
	UserKey = "gap_user"
)

var (
	// ErrCorrupt reports persisted state that could not be read back. The
	// store falls back to an empty state and stays usable.
	ErrCorrupt = errors.New("store: persisted state unreadable")

	// ErrUnsaved reports a change that is held in memory but was not
	// written to the blob store.
	ErrUnsaved = errors.New("store: changes not saved")
)

// Clock supplies creation instants.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type options struct {
	clock Clock
	ids   func() string
	log   *zap.Logger
}

// Option configures Entries and Session.
type Option func(*options)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDs replaces the uuid generator.
func WithIDs(f func() string) Option {
	return func(o *options) { o.ids = f }
}

// WithLogger sets the logger warnings are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{
		clock: ClockFunc(time.Now),
		ids:   uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/gap"
)

// Session holds the signed in identity. There is no logout.
type Session struct {
	mu      sync.Mutex
	blob    blob.Store
	opts    options
	current *gap.Identity
}

// NewSession returns a holder with nobody signed in, backed by b. Call
// Restore to load the persisted identity.
func NewSession(b blob.Store, opts ...Option) *Session {
	return &Session{blob: b, opts: newOptions(opts)}
}

// Restore loads the persisted identity. It returns nil when nobody has
// signed in; an unreadable blob also yields nil and an error wrapping
// ErrCorrupt.
func (s *Session) Restore() (*gap.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	raw, ok, err := s.blob.Get(UserKey)
	if err != nil {
		s.opts.log.Warn("could not read identity", zap.String("key", UserKey), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, UserKey, err)
	}
	if !ok {
		return nil, nil
	}
	var id *gap.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		s.opts.log.Warn("could not decode identity", zap.String("key", UserKey), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, UserKey, err)
	}
	if id == nil {
		return nil, nil
	}
	s.current = id
	cp := *id
	return &cp, nil
}

// Login makes id current and persists it. The identity stays current even
// when the write fails; the error then wraps ErrUnsaved.
func (s *Session) Login(id gap.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &id
	b, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("store: encode identity: %w", err)
	}
	if err := s.blob.Set(UserKey, string(b)); err != nil {
		s.opts.log.Warn("identity not saved", zap.String("name", id.Name), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnsaved, err)
	}
	return nil
}

// Current returns a copy of the signed in identity, or nil.
func (s *Session) Current() *gap.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

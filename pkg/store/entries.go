package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/gap"
)

// Entries holds the current user's entries, most recent first. New entries
// are prepended, so the sequence never needs sorting.
type Entries struct {
	mu    sync.Mutex
	blob  blob.Store
	opts  options
	seq   []gap.Entry
	dirty bool

	// last is the blob most recently read or written and the sequence it
	// decodes to. It is written back untouched while the sequence matches.
	last    string
	lastSeq []gap.Entry
}

// NewEntries returns an empty store backed by b. Call Restore to load what
// was persisted.
func NewEntries(b blob.Store, opts ...Option) *Entries {
	return &Entries{blob: b, opts: newOptions(opts)}
}

// Restore loads the persisted sequence and makes it current. When the blob
// cannot be read or decoded the store starts empty and the returned error
// wraps ErrCorrupt.
func (s *Entries) Restore() ([]gap.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = []gap.Entry{}
	s.dirty = false
	s.last, s.lastSeq = "", nil

	raw, ok, err := s.blob.Get(LogsKey)
	if err != nil {
		s.opts.log.Warn("could not read entries, starting empty", zap.String("key", LogsKey), zap.Error(err))
		return []gap.Entry{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, LogsKey, err)
	}
	if !ok {
		return []gap.Entry{}, nil
	}

	var seq []gap.Entry
	if err := json.Unmarshal([]byte(raw), &seq); err != nil {
		s.opts.log.Warn("could not decode entries, starting empty", zap.String("key", LogsKey), zap.Error(err))
		return []gap.Entry{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, LogsKey, err)
	}
	if seq == nil {
		seq = []gap.Entry{}
	}
	s.seq = seq
	s.last, s.lastSeq = raw, clone(seq)
	return clone(seq), nil
}

// Append validates the draft, stamps it with a fresh id and the current time,
// prepends it and persists the whole sequence. A *gap.ValidationError leaves
// the store untouched. When the write fails the entry is kept in memory and
// the error wraps ErrUnsaved.
func (s *Entries) Append(d gap.Draft) (gap.Entry, error) {
	if err := d.Validate(); err != nil {
		return gap.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := d.Finalize(s.opts.ids(), s.opts.clock.Now().UnixMilli())
	seq := make([]gap.Entry, 0, len(s.seq)+1)
	seq = append(seq, e)
	seq = append(seq, s.seq...)
	s.seq = seq

	if err := s.persistLocked(); err != nil {
		return e, err
	}
	return e, nil
}

// Persist writes entries under LogsKey, replacing what was there. Writing
// back the sequence that was restored reproduces the restored blob exactly.
func (s *Entries) Persist(entries []gap.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

func (s *Entries) write(entries []gap.Entry) error {
	data := s.last
	if s.lastSeq == nil || !slices.Equal(entries, s.lastSeq) {
		var err error
		if data, err = encode(entries); err != nil {
			return err
		}
	}
	if err := s.blob.Set(LogsKey, data); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsaved, err)
	}
	s.last, s.lastSeq = data, clone(entries)
	return nil
}

// Flush retries the write of a sequence that failed to persist.
func (s *Entries) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.persistLocked()
}

// Dirty reports whether the in-memory sequence differs from what was last
// written.
func (s *Entries) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Entries returns a copy of the current sequence.
func (s *Entries) Entries() []gap.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.seq)
}

// Len is the number of entries held.
func (s *Entries) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seq)
}

func (s *Entries) persistLocked() error {
	if err := s.write(s.seq); err != nil {
		s.dirty = true
		s.opts.log.Warn("entries not saved", zap.Int("entries", len(s.seq)), zap.Error(err))
		return err
	}
	s.dirty = false
	return nil
}

func encode(entries []gap.Entry) (string, error) {
	if entries == nil {
		entries = []gap.Entry{}
	}
	// Match JSON.stringify: no HTML escaping and no trailing newline.
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return "", fmt.Errorf("store: encode entries: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func clone(seq []gap.Entry) []gap.Entry {
	out := make([]gap.Entry, len(seq))
	copy(out, seq)
	return out
}

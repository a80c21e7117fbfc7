package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch streams an Event per changed key until ctx is cancelled. Bursts of
// writes to the same key are coalesced. Callers should drain the channel;
// events are dropped rather than blocking the watcher.
func (s *Diskv) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, fmt.Errorf("blob: base path unknown")
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("blob: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("blob: create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("blob: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer watcher.Close()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(50 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				key := s.keyForPath(evt.Name)
				if key == "" {
					continue
				}
				throttle.Enqueue(Event{Key: key}, send)
			}
		}
	}()

	return events, nil
}

// keyForPath maps a file under the base path back to its key. Temp files and
// anything outside the base directory map to "".
func (s *Diskv) keyForPath(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	if strings.ContainsRune(rel, os.PathSeparator) || strings.HasPrefix(rel, ".") {
		return ""
	}
	return rel
}

// eventThrottle coalesces rapid change notifications so followers re-read
// once per burst of writes.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Key] = struct{}{}
	if t.timer == nil && !t.stopped {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

// flush holds the lock while sending so nothing is sent after Stop returns;
// send must not block.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil

	for key := range pending {
		send(Event{Key: key})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}

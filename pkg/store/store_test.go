package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/gap"
)

// tickClock returns the configured instants in order, repeating the last.
type tickClock struct {
	ms []int64
	i  int
}

func (c *tickClock) Now() time.Time {
	v := c.ms[len(c.ms)-1]
	if c.i < len(c.ms) {
		v = c.ms[c.i]
	}
	c.i++
	return time.UnixMilli(v)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// failingBlob reads from an inner store but refuses writes.
type failingBlob struct {
	blob.Store
	fail bool
}

func (f *failingBlob) Set(key, value string) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.Store.Set(key, value)
}

// brokenReader fails every read.
type brokenReader struct{ blob.Memory }

func (b *brokenReader) Get(string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func draft(gain string) gap.Draft {
	return gap.Draft{
		Date:           "2024-01-01",
		Author:         "Alice",
		Gain:           gain,
		ActionCategory: gap.None,
		Plan:           "P",
	}
}

func TestAppendToEmptyStore(t *testing.T) {
	mem := blob.NewMemory(nil)
	s := NewEntries(mem, WithClock(&tickClock{ms: []int64{1700}}), WithIDs(sequentialIDs()))

	restored, err := s.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored) != 0 {
		t.Fatalf("expected empty store, got %d", len(restored))
	}

	e, err := s.Append(draft("A"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if e.Timestamp != 1700 {
		t.Fatalf("expected timestamp 1700, got %d", e.Timestamp)
	}
	if mem.Writes() != 1 {
		t.Fatalf("expected exactly one blob write, got %d", mem.Writes())
	}

	again := NewEntries(mem)
	got, err := again.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff([]gap.Entry{e}, got); diff != "" {
		t.Fatalf("restored sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendPrependsMostRecentFirst(t *testing.T) {
	s := NewEntries(blob.NewMemory(nil), WithClock(&tickClock{ms: []int64{100, 200, 200}}), WithIDs(sequentialIDs()))

	first, _ := s.Append(draft("first"))
	second, _ := s.Append(draft("second"))
	third, _ := s.Append(draft("third"))

	got := s.Entries()
	want := []gap.Entry{third, second, first}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Timestamp < got[i].Timestamp {
			t.Fatalf("sequence not descending at %d: %d < %d", i, got[i-1].Timestamp, got[i].Timestamp)
		}
	}
}

func TestAppendCopiesDraftVerbatim(t *testing.T) {
	s := NewEntries(blob.NewMemory(nil), WithIDs(sequentialIDs()))
	d := gap.Draft{
		Date:           "2024-02-02",
		Author:         "Bo",
		Role:           "Dev",
		Gain:           "learned",
		ActionCategory: gap.SOP,
		ActionContent:  "wrote the runbook",
		Plan:           "share it",
	}
	before := d

	e, err := s.Append(d)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if d != before {
		t.Fatalf("draft was mutated")
	}
	want := d.Finalize(e.ID, e.Timestamp)
	if e != want {
		t.Fatalf("entry fields differ from draft: %+v", e)
	}
}

func TestAppendRejectsInvalidDraft(t *testing.T) {
	mem := blob.NewMemory(nil)
	s := NewEntries(mem)

	d := draft("A")
	d.ActionCategory = gap.Iteration
	_, err := s.Append(d)

	var verr *gap.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("invalid draft must not be inserted")
	}
	if mem.Writes() != 0 {
		t.Fatalf("invalid draft must not be persisted")
	}
}

func TestAppendKeepsEntryWhenWriteFails(t *testing.T) {
	fb := &failingBlob{Store: blob.NewMemory(nil), fail: true}
	s := NewEntries(fb, WithIDs(sequentialIDs()))

	e, err := s.Append(draft("A"))
	if !errors.Is(err, ErrUnsaved) {
		t.Fatalf("expected ErrUnsaved, got %v", err)
	}
	if e.ID != "id-1" {
		t.Fatalf("expected the entry to be returned, got %+v", e)
	}
	if !s.Dirty() {
		t.Fatalf("expected store to be dirty")
	}
	if s.Len() != 1 {
		t.Fatalf("entry should stay in memory")
	}

	fb.fail = false
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("expected clean store after flush")
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush of clean store: %v", err)
	}
}

func TestRestoreCorruptFallsBackToEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mem := blob.NewMemory(map[string]string{LogsKey: `[{"id":`})
	s := NewEntries(mem, WithLogger(zap.New(core)))

	got, err := s.Restore()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if len(got) != 0 || s.Len() != 0 {
		t.Fatalf("expected empty fallback")
	}
	if logs.FilterField(zap.String("key", LogsKey)).Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}

	if _, err := s.Append(draft("A")); err != nil {
		t.Fatalf("store should stay usable: %v", err)
	}
}

func TestRestoreReadFailure(t *testing.T) {
	s := NewEntries(&brokenReader{})
	if _, err := s.Restore(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	entries := []gap.Entry{
		{ID: "b", Date: "2024-01-02", Author: "Bo", Role: "Dev", Gain: "g<2>", ActionCategory: gap.SOP, ActionContent: "c", Plan: "p", Timestamp: 200},
		{ID: "a", Date: "2024-01-01", Author: "Al", Gain: "g1", ActionCategory: gap.None, Plan: "p", Timestamp: 100},
	}
	mem := blob.NewMemory(nil)
	s := NewEntries(mem)
	if err := s.Persist(entries); err != nil {
		t.Fatalf("persist: %v", err)
	}
	original, _, _ := mem.Get(LogsKey)

	got, err := s.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Fatalf("restore(persist(x)) != x (-want +got):\n%s", diff)
	}

	if err := s.Persist(got); err != nil {
		t.Fatalf("persist: %v", err)
	}
	again, _, _ := mem.Get(LogsKey)
	if again != original {
		t.Fatalf("blob drifted\n got: %s\nwant: %s", again, original)
	}
}

func TestPersistKeepsBlobsWrittenElsewhere(t *testing.T) {
	blobs := map[string]string{
		"unescaped text": `[{"id":"a","date":"2024-01-01","author":"Al","role":"","gain":"R&D <fast>","actionCategory":"NONE","actionContent":"","plan":"p","timestamp":1}]`,
		"no role":        `[{"id":"a","date":"2024-01-01","author":"Al","gain":"g","actionCategory":"NONE","actionContent":"","plan":"p","timestamp":1}]`,
		"null":           `null`,
		"spaced":         `[ ]`,
	}
	for name, original := range blobs {
		t.Run(name, func(t *testing.T) {
			mem := blob.NewMemory(map[string]string{LogsKey: original})
			s := NewEntries(mem)
			got, err := s.Restore()
			if err != nil {
				t.Fatalf("restore: %v", err)
			}
			if err := s.Persist(got); err != nil {
				t.Fatalf("persist: %v", err)
			}
			if again, _, _ := mem.Get(LogsKey); again != original {
				t.Fatalf("blob drifted\n got: %s\nwant: %s", again, original)
			}
		})
	}
}

func TestAppendDoesNotEscapeHTML(t *testing.T) {
	mem := blob.NewMemory(nil)
	s := NewEntries(mem, WithClock(&tickClock{ms: []int64{1}}), WithIDs(sequentialIDs()))
	if _, err := s.Append(draft("R&D <fast>")); err != nil {
		t.Fatalf("append: %v", err)
	}
	v, _, _ := mem.Get(LogsKey)
	want := `[{"id":"id-1","date":"2024-01-01","author":"Alice","gain":"R&D <fast>","actionCategory":"NONE","actionContent":"","plan":"P","timestamp":1}]`
	if v != want {
		t.Fatalf("unexpected blob\n got: %s\nwant: %s", v, want)
	}
}

func TestPersistEmptyWritesArray(t *testing.T) {
	mem := blob.NewMemory(nil)
	if err := NewEntries(mem).Persist(nil); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if v, _, _ := mem.Get(LogsKey); v != "[]" {
		t.Fatalf("expected [], got %q", v)
	}
}

func TestSessionLoginAndRestore(t *testing.T) {
	mem := blob.NewMemory(nil)
	s := NewSession(mem)

	id, err := s.Restore()
	if err != nil || id != nil {
		t.Fatalf("expected absent identity, got %v %v", id, err)
	}

	if err := s.Login(gap.Identity{Name: "Alice", Role: "PM"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if v, _, _ := mem.Get(UserKey); v != `{"name":"Alice","role":"PM"}` {
		t.Fatalf("unexpected blob %q", v)
	}

	restored, err := NewSession(mem).Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored == nil || *restored != (gap.Identity{Name: "Alice", Role: "PM"}) {
		t.Fatalf("unexpected identity %+v", restored)
	}
}

func TestSessionRestoreCorrupt(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewSession(blob.NewMemory(map[string]string{UserKey: "{"}), WithLogger(zap.New(core)))

	id, err := s.Restore()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if id != nil || s.Current() != nil {
		t.Fatalf("expected absent identity")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestSessionLoginWriteFailure(t *testing.T) {
	s := NewSession(&failingBlob{Store: blob.NewMemory(nil), fail: true})
	err := s.Login(gap.Identity{Name: "Alice"})
	if !errors.Is(err, ErrUnsaved) {
		t.Fatalf("expected ErrUnsaved, got %v", err)
	}
	if cur := s.Current(); cur == nil || cur.Name != "Alice" {
		t.Fatalf("identity should be current, got %+v", cur)
	}
}

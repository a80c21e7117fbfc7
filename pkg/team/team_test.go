package team

import (
	"testing"
	"time"

	"tableflip.dev/gapflow/pkg/gap"
)

func TestSampleIsDeterministicAndValid(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := Sample(now)
	b := Sample(now)
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("unexpected sample sizes %d %d", len(a), len(b))
	}
	seen := map[string]bool{}
	for i, e := range a {
		if e != b[i] {
			t.Fatalf("sample differs at %d", i)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
		if e.Timestamp >= now.UnixMilli() {
			t.Fatalf("sample entry %s is not in the past", e.ID)
		}
		if i > 0 && a[i-1].Timestamp < e.Timestamp {
			t.Fatalf("sample not most recent first at %d", i)
		}
		d := gap.Draft{Gain: e.Gain, Plan: e.Plan, ActionCategory: e.ActionCategory, ActionContent: e.ActionContent}
		if err := d.Validate(); err != nil {
			t.Fatalf("sample entry %s invalid: %v", e.ID, err)
		}
	}
}

func TestStaticReturnsCopy(t *testing.T) {
	s := Static{{ID: "a"}}
	got, _ := s.Entries()
	got[0].ID = "changed"
	if s[0].ID != "a" {
		t.Fatalf("static source was mutated")
	}
}

func TestLoadFileYAML(t *testing.T) {
	entries, err := File{Path: "testdata/team.yaml"}.Entries()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ActionCategory != gap.SOP || entries[0].Role != "Product Lead" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].ActionCategory != gap.None {
		t.Fatalf("missing category should default to NONE, got %q", entries[1].ActionCategory)
	}
	if entries[1].Timestamp != 1709118000000 {
		t.Fatalf("unexpected timestamp %d", entries[1].Timestamp)
	}
}

func TestLoadFileJSON(t *testing.T) {
	entries, err := LoadFile("testdata/team.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 || entries[0].ActionCategory != gap.Iteration {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile("testdata/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadFile("testdata/noid.yaml"); err == nil {
		t.Fatalf("expected error for entry without id")
	}
}

// Package team supplies the read-only entries shown alongside the user's own
// in the team feed.
package team

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tableflip.dev/gapflow/pkg/gap"
)

// Source yields the team entries. Implementations must not hand out slices
// they keep mutating.
type Source interface {
	Entries() ([]gap.Entry, error)
}

// Static is a fixed set of team entries.
type Static []gap.Entry

func (s Static) Entries() ([]gap.Entry, error) {
	out := make([]gap.Entry, len(s))
	copy(out, s)
	return out, nil
}

// File reads team entries from a YAML or JSON file on every call.
type File struct {
	Path string
}

func (f File) Entries() ([]gap.Entry, error) {
	return LoadFile(f.Path)
}

// LoadFile decodes a list of entries. Files ending in .json are read as JSON,
// anything else as YAML.
func LoadFile(path string) ([]gap.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("team: read %s: %w", path, err)
	}
	var entries []gap.Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &entries)
	default:
		err = yaml.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("team: decode %s: %w", path, err)
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("team: %s: entry %d has no id", path, i)
		}
		if e.ActionCategory == "" {
			entries[i].ActionCategory = gap.None
		}
	}
	return entries, nil
}

type member struct {
	name, role string
}

var members = []member{
	{"Mina Park", "Product Lead"},
	{"Jonas Weber", "Backend Engineer"},
	{"Priya Raman", "Designer"},
	{"Diego Alvarez", "QA Engineer"},
}

// Sample is the built-in mock team: a handful of entries spread over the days
// before now, most recent first.
func Sample(now time.Time) Static {
	type item struct {
		who     int
		ago     time.Duration
		gain    string
		cat     gap.ActionCategory
		content string
		plan    string
	}
	items := []item{
		{0, 3 * time.Hour, "Customers skim the changelog, they read the first line only", gap.SOP, "Release notes template now leads with the user-facing change", "Apply the template to the next two releases"},
		{1, 20 * time.Hour, "Flaky integration test was a shared temp dir, not the network", gap.Iteration, "Each test gets its own temp dir", "Audit the remaining suites for shared fixtures"},
		{2, 2 * 24 * time.Hour, "Design review goes faster with a written brief up front", gap.None, "", "Try a one page brief for the onboarding flow"},
		{3, 3 * 24 * time.Hour, "Most regressions this sprint came from config defaults", gap.Iteration, "Added a test that loads the shipped defaults", "Pair with backend on a config schema"},
		{0, 5 * 24 * time.Hour, "Async standups freed up an hour a week", gap.SOP, "Standup moved to a shared thread, documented in the team handbook", "Check in with the team after a month"},
	}

	out := make(Static, 0, len(items))
	for i, it := range items {
		created := now.Add(-it.ago)
		m := members[it.who]
		out = append(out, gap.Entry{
			ID:             fmt.Sprintf("team-%02d", i+1),
			Date:           created.Format("2006-01-02"),
			Author:         m.name,
			Role:           m.role,
			Gain:           it.gain,
			ActionCategory: it.cat,
			ActionContent:  it.content,
			Plan:           it.plan,
			Timestamp:      created.UnixMilli(),
		})
	}
	return out
}

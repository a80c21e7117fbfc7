package app

import (
	"sort"
	"time"

	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/timeutil"
	"tableflip.dev/gapflow/pkg/view"
)

// ReportSection groups one author's displayed entries.
type ReportSection struct {
	Author  string      `json:"author"`
	Role    string      `json:"role,omitempty"`
	Entries []gap.Entry `json:"entries"`
	Stats   view.Stats  `json:"stats"`
}

// ReportResult summarizes the displayed feed for a time window.
type ReportResult struct {
	Since    time.Time       `json:"since"`
	Until    time.Time       `json:"until"`
	Mode     view.Mode       `json:"mode"`
	Sections []ReportSection `json:"sections"`
	Stats    view.Stats      `json:"stats"`
}

// Report groups the displayed entries created inside w by author. Sections
// are ordered by entry count, then author name; entries keep feed order.
func (c *Controller) Report(w timeutil.Window) ReportResult {
	if w.Since.After(w.Until) {
		w.Since, w.Until = w.Until, w.Since
	}
	var window []gap.Entry
	for _, e := range c.Displayed() {
		if w.Contains(e.Timestamp) {
			window = append(window, e)
		}
	}

	result := ReportResult{
		Since: w.Since,
		Until: w.Until,
		Mode:  c.mode,
		Stats: view.Tally(window),
	}
	if len(window) == 0 {
		return result
	}

	byAuthor := make(map[string]*ReportSection)
	for _, e := range window {
		section, ok := byAuthor[e.Author]
		if !ok {
			section = &ReportSection{Author: e.Author, Role: e.Role}
			byAuthor[e.Author] = section
		}
		section.Entries = append(section.Entries, e)
	}

	sections := make([]ReportSection, 0, len(byAuthor))
	for _, section := range byAuthor {
		section.Stats = view.Tally(section.Entries)
		sections = append(sections, *section)
	}
	sort.Slice(sections, func(i, j int) bool {
		if len(sections[i].Entries) != len(sections[j].Entries) {
			return len(sections[i].Entries) > len(sections[j].Entries)
		}
		return sections[i].Author < sections[j].Author
	})
	result.Sections = sections
	return result
}

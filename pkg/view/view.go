// Package view derives what the feed shows from the stored entries.
package view

import (
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/gapflow/pkg/gap"
)

// Mode selects between the personal feed and the merged team feed.
type Mode int

const (
	Mine Mode = iota
	Team
)

func (m Mode) String() string {
	switch m {
	case Team:
		return "team"
	default:
		return "mine"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Team {
		return Mine
	}
	return Team
}

// ParseMode reads a mode name. The empty string means Mine.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mine", "me", "personal":
		return Mine, nil
	case "team", "all":
		return Team, nil
	}
	return Mine, fmt.Errorf("unknown view mode %q", s)
}

// Compose returns the displayed sequence. Mine shows own as given, which is
// already most recent first. Team merges own with the team entries ordered
// by timestamp, newest first; equal timestamps keep their input order with
// own entries ahead of team ones. Neither input is modified.
func Compose(mode Mode, own, team []gap.Entry) []gap.Entry {
	if mode != Team {
		out := make([]gap.Entry, len(own))
		copy(out, own)
		return out
	}
	out := make([]gap.Entry, 0, len(own)+len(team))
	out = append(out, own...)
	out = append(out, team...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Stats are counters over a displayed sequence.
type Stats struct {
	TotalLogs      int `json:"totalLogs"`
	SOPCount       int `json:"sopCount"`
	IterationCount int `json:"iterationCount"`
}

// Tally counts the displayed entries. It is recomputed from scratch on every
// call.
func Tally(displayed []gap.Entry) Stats {
	s := Stats{TotalLogs: len(displayed)}
	for _, e := range displayed {
		switch e.ActionCategory {
		case gap.SOP:
			s.SOPCount++
		case gap.Iteration:
			s.IterationCount++
		}
	}
	return s
}

// Since keeps the entries created at or after cutoff (epoch ms), preserving
// order.
func Since(entries []gap.Entry, cutoff int64) []gap.Entry {
	out := make([]gap.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

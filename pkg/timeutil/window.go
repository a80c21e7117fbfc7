// Package timeutil parses the time windows and entry dates accepted on the
// command line.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultWindow is used by the report when no window is given.
const DefaultWindow = "1w"

// DateLayout is the calendar date format of an entry.
const DateLayout = "2006-01-02"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var units = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
}

// Window is a span of time ending at Until.
type Window struct {
	Since time.Time
	Until time.Time
	Label string
}

// Last returns the window of the given length ending at now. An empty input
// means DefaultWindow.
func Last(input string, now time.Time) (Window, error) {
	if strings.TrimSpace(input) == "" {
		input = DefaultWindow
	}
	d, err := ParseDuration(input)
	if err != nil {
		return Window{}, err
	}
	return Window{Since: now.Add(-d), Until: now, Label: FormatDuration(d)}, nil
}

// Cutoff is the start of the window in epoch milliseconds.
func (w Window) Cutoff() int64 {
	return w.Since.UnixMilli()
}

// Contains reports whether the epoch millisecond timestamp ts falls inside
// the window, bounds included.
func (w Window) Contains(ts int64) bool {
	return ts >= w.Since.UnixMilli() && ts <= w.Until.UnixMilli()
}

// ParseDuration reads compact durations such as "3d", "1w" or "1w2d6h".
func ParseDuration(input string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var total time.Duration
	for len(s) > 0 {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		n := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
		if n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		value, err := strconv.Atoi(s[:n])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", input, err)
		}
		s = strings.TrimLeftFunc(s[n:], unicode.IsSpace)
		u := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
		if u < 0 {
			u = len(s)
		}
		unit, ok := units[s[:u]]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q in duration %q", s[:u], input)
		}
		total += time.Duration(value) * unit
		s = s[u:]
	}
	if total <= 0 {
		return 0, fmt.Errorf("duration %q must be greater than zero", input)
	}
	return total, nil
}

// FormatDuration renders d with w/d/h/m tokens, dropping seconds.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	b := &strings.Builder{}
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}} {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(b, "%d%s", n, u.label)
			d -= n * u.size
		}
	}
	return b.String()
}

// ParseDate resolves "today", "yesterday" or a YYYY-MM-DD date relative to
// now and returns it in DateLayout. An empty input means today.
func ParseDate(input string, now time.Time) (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(input)); s {
	case "", "today":
		return now.Format(DateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(DateLayout), nil
	default:
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD, today or yesterday", input)
		}
		return t.Format(DateLayout), nil
	}
}

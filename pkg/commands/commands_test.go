package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"tableflip.dev/gapflow/pkg/app"
	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/view"
)

func init() {
	color.NoColor = true
}

// isolate points the configuration at a fresh temporary directory.
func isolate(t *testing.T, backend string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GAPFLOW_CONFIG_PATH", dir)
	t.Setenv("GAPFLOW_PATH", dir)
	t.Setenv("GAPFLOW_BACKEND", backend)
	t.Setenv("GAPFLOW_TEAM", "")
	t.Setenv("GAPFLOW_INVITE_URL", "https://example.com/join")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := New()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "gapflow %s", strings.Join(args, " "))
	return out
}

func feed(t *testing.T, args ...string) feedView {
	t.Helper()
	out := mustRun(t, append(args, "--json")...)
	var v feedView
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestLoginAndWhoami(t *testing.T) {
	isolate(t, "diskv")

	require.Contains(t, mustRun(t, "whoami"), "Not logged in.")
	require.Contains(t, mustRun(t, "login", "--name", "Alice", "--role", "PM"), "Logged in as Alice (PM).")
	require.Contains(t, mustRun(t, "whoami"), "Alice (PM)")

	_, err := run(t, "login", "--name", "Mallory")
	require.ErrorIs(t, err, app.ErrAlreadyAuthenticated)
	require.Contains(t, mustRun(t, "whoami"), "Alice (PM)")
}

func TestAddRequiresLogin(t *testing.T) {
	isolate(t, "diskv")

	_, err := run(t, "add", "--gain", "g", "--plan", "p")
	require.ErrorIs(t, err, app.ErrNotAuthenticated)
}

func TestAddRejectsInvalidEntry(t *testing.T) {
	isolate(t, "diskv")
	mustRun(t, "login", "--name", "Alice")

	_, err := run(t, "add", "--gain", "g", "--plan", "p", "--action", "sop")
	var verr *gap.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "actionContent", verr.Field)
	require.Empty(t, feed(t, "feed").Entries)
}

func TestAddThenFeed(t *testing.T) {
	for _, backend := range []string{"diskv", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			isolate(t, backend)
			mustRun(t, "login", "--name", "Alice", "--role", "PM")
			mustRun(t, "add", "-g", "first", "-p", "p1", "--date", "2024-01-01")
			mustRun(t, "add", "-g", "second", "-a", "iteration", "-c", "fixed it", "-p", "p2")

			v := feed(t, "feed")
			require.Equal(t, "mine", v.Mode)
			require.Len(t, v.Entries, 2)
			require.Equal(t, "second", v.Entries[0].Gain)
			require.Equal(t, gap.Iteration, v.Entries[0].ActionCategory)
			require.Equal(t, "first", v.Entries[1].Gain)
			require.Equal(t, "2024-01-01", v.Entries[1].Date)
			require.Equal(t, "Alice", v.Entries[1].Author)
			require.Equal(t, "PM", v.Entries[1].Role)
			require.Equal(t, 2, v.Stats.TotalLogs)
			require.Equal(t, 1, v.Stats.IterationCount)

			team := feed(t, "feed", "--team")
			require.Equal(t, "team", team.Mode)
			require.Greater(t, len(team.Entries), 2)
			for i := 1; i < len(team.Entries); i++ {
				require.GreaterOrEqual(t, team.Entries[i-1].Timestamp, team.Entries[i].Timestamp)
			}
		})
	}
}

func TestStats(t *testing.T) {
	isolate(t, "diskv")
	mustRun(t, "login", "--name", "Alice")
	mustRun(t, "add", "-g", "g", "-a", "sop", "-c", "runbook", "-p", "p")

	mine := feed(t, "stats")
	require.Empty(t, mine.Entries)
	require.Equal(t, 1, mine.Stats.TotalLogs)
	require.Equal(t, 1, mine.Stats.SOPCount)

	team := feed(t, "stats", "--team")
	require.Greater(t, team.Stats.TotalLogs, 1)

	require.Contains(t, mustRun(t, "stats"), "1 log")
}

func TestShareInvite(t *testing.T) {
	isolate(t, "diskv")
	mustRun(t, "login", "--name", "Alice")

	out := mustRun(t, "share", "--invite")
	require.Equal(t, "Alice invited you to log gains on GAP Flow: https://example.com/join?from=Alice\n", out)
}

func TestShareEntry(t *testing.T) {
	isolate(t, "diskv")
	mustRun(t, "login", "--name", "Alice")
	mustRun(t, "add", "-g", "Reviews go faster", "-p", "Write a brief", "--date", "2024-02-03")

	id := feed(t, "feed").Entries[0].ID
	out := mustRun(t, "share", id[:6])
	require.Contains(t, out, "GAP · 2024-02-03 · Alice")
	require.Contains(t, out, "Reviews go faster")
	require.Contains(t, out, "Write a brief")

	out = mustRun(t, "share", id, "--json")
	var export map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &export), out)
	require.Equal(t, "entry", export["kind"])
}

func TestShareErrors(t *testing.T) {
	isolate(t, "diskv")

	_, err := run(t, "share")
	require.Error(t, err)

	_, err = run(t, "share", "abc", "--invite")
	require.Error(t, err)

	_, err = run(t, "share", "nope")
	require.ErrorIs(t, err, app.ErrNotFound)

	out, err := run(t, "share", "--json")
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &body), out)
	require.Contains(t, body["error"], "needs an entry id")
}

func TestReportKeyAndInfo(t *testing.T) {
	isolate(t, "diskv")
	mustRun(t, "login", "--name", "Alice")
	mustRun(t, "add", "-g", "g", "-a", "sop", "-c", "runbook", "-p", "p")

	var report struct {
		Mode     view.Mode `json:"mode"`
		Sections []struct {
			Author string `json:"author"`
		} `json:"sections"`
		Stats struct {
			TotalLogs int `json:"totalLogs"`
		} `json:"stats"`
	}
	out := mustRun(t, "report", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	require.Equal(t, view.Mine, report.Mode)
	require.Len(t, report.Sections, 1)
	require.Equal(t, "Alice", report.Sections[0].Author)
	require.Equal(t, 1, report.Stats.TotalLogs)

	text := mustRun(t, "report", "--last", "2d")
	require.True(t, strings.HasPrefix(text, "Report · mine · last 2d ("), text)
	require.Contains(t, text, "Alice · 1 logs, 1 sop, 0 iteration")

	_, err := run(t, "report", "--last", "soon")
	require.Error(t, err)

	var glyphs []map[string]string
	out = mustRun(t, "key", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &glyphs), out)
	require.Len(t, glyphs, 3)

	var info map[string]any
	out = mustRun(t, "info", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &info), out)
	require.Equal(t, true, info["authenticated"])
	require.EqualValues(t, 1, info["entries"])
}

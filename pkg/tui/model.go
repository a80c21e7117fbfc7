// Package tui is a terminal feed over the application controller: it shows
// the displayed entries and their counters, toggles the view mode and
// triggers shares.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/gapflow/pkg/app"
	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/glyph"
)

const helpLine = "tab mine/team · j/k move · s share · i invite · q quit"

// sharedMsg reports the outcome of a share request.
type sharedMsg struct {
	invite bool
	err    error
}

// Model is the Bubble Tea model for the feed.
type Model struct {
	ctx   context.Context
	ctrl  *app.Controller
	theme Theme

	cursor int
	width  int
	height int
	status string
	err    error
}

// New builds the feed model. The controller must be authenticated.
func New(ctx context.Context, ctrl *app.Controller) *Model {
	return &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		theme:  DefaultTheme(),
		width:  80,
		height: 24,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *app.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case sharedMsg:
		m.err = msg.err
		switch {
		case msg.err != nil:
			m.status = ""
		case msg.invite:
			m.status = "Invite link shared."
		default:
			m.status = "Entry shared."
		}
	case tea.KeyMsg:
		m.clamp()
		cmd := m.handleKey(msg)
		m.clamp()
		return m, cmd
	}
	m.clamp()
	return m, nil
}

// clamp keeps the cursor on a displayed entry after the feed changed.
func (m *Model) clamp() {
	if n := len(m.ctrl.Displayed()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	displayed := m.ctrl.Displayed()
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "tab":
		m.ctrl.SetViewMode(m.ctrl.ViewMode().Toggle())
		m.cursor = 0
		m.status = ""
	case "j", "down":
		if m.cursor < len(displayed)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "s":
		if len(displayed) == 0 {
			return nil
		}
		e := displayed[m.cursor]
		return m.share(&e)
	case "i":
		return m.share(nil)
	}
	return nil
}

func (m *Model) share(e *gap.Entry) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return sharedMsg{invite: e == nil, err: ctrl.RequestShare(ctx, e)}
	}
}

func (m *Model) View() string {
	displayed := m.ctrl.Displayed()
	cursor := min(m.cursor, max(len(displayed)-1, 0))
	t := m.theme
	b := &strings.Builder{}

	who := "anonymous"
	if id := m.ctrl.Identity(); id != nil {
		who = id.Name
		if id.Role != "" {
			who = fmt.Sprintf("%s (%s)", id.Name, id.Role)
		}
	}
	stats := m.ctrl.Stats()
	fmt.Fprintf(b, "%s · %s · %s\n", t.Header.Render("GAP Flow"), who, t.Mode.Render(m.ctrl.ViewMode().String()))
	fmt.Fprintf(b, "%s\n\n", t.Stats.Render(fmt.Sprintf("%d logs · %d sop · %d iteration", stats.TotalLogs, stats.SOPCount, stats.IterationCount)))

	if len(displayed) == 0 {
		fmt.Fprintf(b, "%s\n", t.Faint.Render("  nothing logged yet"))
	}

	// Leave room for the header, detail pane and footer.
	rows := max(m.height-14, 3)
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	for i := start; i < len(displayed) && i < start+rows; i++ {
		e := displayed[i]
		line := fmt.Sprintf("%s %s  %-20s %s", m.glyph(e.ActionCategory), e.Date, truncate.StringWithTail(e.Byline(), 20, "…"), e.Gain)
		line = truncate.StringWithTail(line, uint(max(m.width-2, 10)), "…")
		if i == cursor {
			fmt.Fprintf(b, "%s\n", t.Selected.Render("› "+line))
		} else {
			fmt.Fprintf(b, "%s\n", t.Row.Render("  "+line))
		}
	}

	if len(displayed) > 0 {
		fmt.Fprintf(b, "\n%s\n", m.detail(displayed[cursor]))
	}

	switch {
	case m.err != nil:
		fmt.Fprintf(b, "%s\n", t.Error.Render(m.err.Error()))
	case m.status != "":
		fmt.Fprintf(b, "%s\n", t.Status.Render(m.status))
	}
	fmt.Fprintf(b, "%s", t.Help.Render(helpLine))
	return b.String()
}

func (m *Model) detail(e gap.Entry) string {
	t := m.theme
	width := max(m.width-4-t.Detail.GetHorizontalFrameSize(), 20)
	action := glyph.For(e.ActionCategory).Meaning
	if e.ActionContent != "" {
		action = e.ActionContent
	}
	body := strings.Join([]string{
		t.Label.Render("Gain  ") + wordwrap.String(e.Gain, width-6),
		t.Label.Render("Action") + " " + wordwrap.String(action, width-7),
		t.Label.Render("Plan  ") + wordwrap.String(e.Plan, width-6),
	}, "\n")
	return t.Detail.Render(body)
}

func (m *Model) glyph(c gap.ActionCategory) string {
	s := glyph.For(c).Symbol
	switch c {
	case gap.SOP:
		return m.theme.SOP.Render(s)
	case gap.Iteration:
		return m.theme.Iter.Render(s)
	default:
		return m.theme.Faint.Render(s)
	}
}

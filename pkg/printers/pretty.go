package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/glyph"
	"tableflip.dev/gapflow/pkg/view"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

const idWidth = 8

var (
	spacing = strings.Repeat(" ", idWidth+2)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

// Title prints a bold, underlined heading.
func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Feed prints one block per entry: a header row with the date, glyph and
// byline, then the gain, action and plan.
func (pp *PrettyPrint) Feed(entries ...gap.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	b := color.New(color.Bold)
	f := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = " "
	tbl.Wrap = true
	tbl.MaxColWidth = 72

	for _, e := range entries {
		id := ""
		if pp.ShowID {
			id = y.Sprint(shortID(e.ID))
		}
		g := glyph.For(e.ActionCategory)
		tbl.AddRow(id, categoryColor(e.ActionCategory).Sprint(g.Symbol), b.Sprint(e.Byline()), f.Sprint(e.Date))
		tbl.AddRow("", "", "gain:", e.Gain)
		if e.ActionContent != "" {
			tbl.AddRow("", "", strings.ToLower(e.ActionCategory.String())+":", e.ActionContent)
		}
		tbl.AddRow("", "", "plan:", e.Plan)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Stats prints the counters on one line.
func (pp *PrettyPrint) Stats(s view.Stats) {
	c := color.New(color.Faint)
	_, _ = c.Fprintf(pp.out(), "%d %s · %d sop · %d iteration\n",
		s.TotalLogs, plural(s.TotalLogs, "log", "logs"), s.SOPCount, s.IterationCount)
}

// Key prints what each category glyph means.
func (pp *PrettyPrint) Key() {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, g := range glyph.DefaultGlyphs() {
		tbl.AddRow(g.Symbol, g.Key, g.Meaning)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func categoryColor(c gap.ActionCategory) *color.Color {
	switch c {
	case gap.SOP:
		return color.New(color.FgGreen, color.Bold)
	case gap.Iteration:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.Faint)
	}
}

func shortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

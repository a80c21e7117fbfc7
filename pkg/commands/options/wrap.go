package options

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// HelpWidth is the column help text is wrapped at.
const HelpWidth = 80

// Wrap reflows help text to width, collapsing runs of whitespace.
func Wrap(text string, width int) string {
	return wordwrap.String(strings.Join(strings.Fields(text), " "), width)
}

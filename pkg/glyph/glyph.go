package glyph

import "tableflip.dev/gapflow/pkg/gap"

// Glyph is the symbol printed in front of an entry for its action category.
type Glyph struct {
	Key     string `json:"key"`
	Symbol  string `json:"symbol"`
	Meaning string `json:"meaning"`
}

// DefaultGlyphs lists the glyph for every action category, in the order
// they are shown in the key.
func DefaultGlyphs() []Glyph {
	return []Glyph{{
		Key:     "none",
		Symbol:  "⁃",
		Meaning: "no action taken",
	}, {
		Key:     "sop",
		Symbol:  "✷",
		Meaning: "codified as a standard procedure",
	}, {
		Key:     "iteration",
		Symbol:  "↻",
		Meaning: "root cause fixed, not yet standardized",
	}}
}

func (g Glyph) String() string {
	return g.Symbol
}

// For returns the glyph of an action category. Unknown categories render as
// a question mark.
func For(c gap.ActionCategory) Glyph {
	g := DefaultGlyphs()
	switch c {
	case gap.None:
		return g[0]
	case gap.SOP:
		return g[1]
	case gap.Iteration:
		return g[2]
	}
	return Glyph{Key: string(c), Symbol: "?", Meaning: "unknown"}
}

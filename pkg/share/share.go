// Package share renders and exports entries, or the team invite link, when
// the user asks to share.
package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/glyph"
)

// DefaultWidth is the wrap width of a card.
const DefaultWidth = 60

// Request is what gets shared. A nil Entry means the team invite link.
type Request struct {
	Entry *gap.Entry
	From  *gap.Identity
}

// Invite reports whether the request is for the team invite link.
func (r Request) Invite() bool {
	return r.Entry == nil
}

// Sharer delivers a share request somewhere.
type Sharer interface {
	Share(ctx context.Context, req Request) error
}

// Func adapts a function to Sharer.
type Func func(ctx context.Context, req Request) error

func (f Func) Share(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// Card renders an entry as plain text wrapped at width.
func Card(e gap.Entry, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	section := func(b *strings.Builder, title, body string) {
		fmt.Fprintf(b, "%s\n", title)
		fmt.Fprintf(b, "%s\n", indent.String(wordwrap.String(body, width-2), 2))
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "GAP · %s · %s\n", e.Date, e.Byline())
	fmt.Fprintf(b, "%s\n", strings.Repeat("─", width))
	section(b, "Gain", e.Gain)
	action := glyph.For(e.ActionCategory).Meaning
	if e.ActionContent != "" {
		action = fmt.Sprintf("%s %s: %s", glyph.For(e.ActionCategory), e.ActionCategory, e.ActionContent)
	}
	section(b, "Action", action)
	section(b, "Plan", e.Plan)
	return b.String()
}

// InviteLink builds the team invite URL, naming the inviter when known.
func InviteLink(base string, from *gap.Identity) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if from != nil && from.Name != "" {
		q := u.Query()
		q.Set("from", from.Name)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// InviteMessage is the text shared for an invite request.
func InviteMessage(base string, from *gap.Identity) string {
	who := "Your team"
	if from != nil && from.Name != "" {
		who = from.Name
	}
	return fmt.Sprintf("%s invited you to log gains on GAP Flow: %s\n", who, InviteLink(base, from))
}

// Render returns the text for a request.
func Render(req Request, inviteURL string, width int) string {
	if req.Invite() {
		return InviteMessage(inviteURL, req.From)
	}
	return Card(*req.Entry, width)
}

// Printer writes the rendered request to Out.
type Printer struct {
	Out       io.Writer
	InviteURL string
	Width     int
}

func (p *Printer) Share(_ context.Context, req Request) error {
	_, err := io.WriteString(p.Out, Render(req, p.InviteURL, p.Width))
	return err
}

// Clipboard copies the rendered request to the system clipboard.
type Clipboard struct {
	InviteURL string
	Width     int

	// write defaults to clipboard.WriteAll.
	write func(string) error
}

func (c *Clipboard) Share(_ context.Context, req Request) error {
	write := c.write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(Render(req, c.InviteURL, c.Width)); err != nil {
		return fmt.Errorf("share: copy to clipboard: %w", err)
	}
	return nil
}

// JSON exports the request as a JSON document.
type JSON struct {
	Out       io.Writer
	InviteURL string
	Now       func() time.Time
}

type export struct {
	Kind       string        `json:"kind"`
	Entry      *gap.Entry    `json:"entry,omitempty"`
	InviteLink string        `json:"inviteLink,omitempty"`
	From       *gap.Identity `json:"from,omitempty"`
	Exported   string        `json:"exportedAt"`
}

func (j *JSON) Share(_ context.Context, req Request) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	doc := export{
		Kind:     "entry",
		Entry:    req.Entry,
		From:     req.From,
		Exported: now().UTC().Format(time.RFC3339),
	}
	if req.Invite() {
		doc.Kind = "invite"
		doc.InviteLink = InviteLink(j.InviteURL, req.From)
	}
	enc := json.NewEncoder(j.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Tee hands the request to every sharer, even after one fails.
type Tee []Sharer

func (t Tee) Share(ctx context.Context, req Request) error {
	var errs []error
	for _, s := range t {
		if err := s.Share(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package app wires user actions to the entry store, the session and the
// share target. UIs and CLIs share this logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/share"
	"tableflip.dev/gapflow/pkg/store"
	"tableflip.dev/gapflow/pkg/team"
	"tableflip.dev/gapflow/pkg/view"
)

var (
	ErrNotAuthenticated     = errors.New("app: not logged in")
	ErrAlreadyAuthenticated = errors.New("app: already logged in")
	ErrNotFound             = errors.New("app: entry not found")
	ErrAmbiguous            = errors.New("app: id prefix matches more than one entry")
)

// Options configures a Controller. Blob is required.
type Options struct {
	Blob   blob.Store
	Team   team.Source
	Sharer share.Sharer
	Logger *zap.Logger
	Clock  store.Clock
	IDs    func() string
}

// Controller owns the entry store, the session and the view mode. It starts
// Unauthenticated and moves to Authenticated once, on Login.
type Controller struct {
	entries *store.Entries
	session *store.Session
	team    team.Source
	sharer  share.Sharer
	log     *zap.Logger

	mode view.Mode

	teamOnce    sync.Once
	teamEntries []gap.Entry

	warnings []error
}

// New restores the persisted session and entries. Unreadable state does not
// fail construction; it is reported through Warnings.
func New(o Options) (*Controller, error) {
	if o.Blob == nil {
		return nil, errors.New("app: no blob store configured")
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	opts := []store.Option{store.WithLogger(o.Logger)}
	if o.Clock != nil {
		opts = append(opts, store.WithClock(o.Clock))
	}
	if o.IDs != nil {
		opts = append(opts, store.WithIDs(o.IDs))
	}

	c := &Controller{
		entries: store.NewEntries(o.Blob, opts...),
		session: store.NewSession(o.Blob, opts...),
		team:    o.Team,
		sharer:  o.Sharer,
		log:     o.Logger,
	}
	if _, err := c.session.Restore(); err != nil {
		c.warnings = append(c.warnings, err)
	}
	if _, err := c.entries.Restore(); err != nil {
		c.warnings = append(c.warnings, err)
	}
	return c, nil
}

// Warnings lists the recoverable problems met while restoring state.
func (c *Controller) Warnings() []error {
	return append([]error(nil), c.warnings...)
}

// Authenticated reports whether someone has logged in.
func (c *Controller) Authenticated() bool {
	return c.session.Current() != nil
}

// Identity returns the logged in identity or nil.
func (c *Controller) Identity() *gap.Identity {
	return c.session.Current()
}

// Login accepts the identity handed over by the login collaborator. It may
// only happen once. A failed write still logs the user in and returns an
// error wrapping store.ErrUnsaved.
func (c *Controller) Login(id gap.Identity) error {
	if cur := c.session.Current(); cur != nil {
		return fmt.Errorf("%w as %s", ErrAlreadyAuthenticated, cur.Name)
	}
	if err := c.session.Login(id); err != nil {
		return err
	}
	c.log.Info("logged in", zap.String("name", id.Name), zap.String("role", id.Role))
	return nil
}

// SubmitEntry records a new entry for the logged in user. Author and role
// default to the identity's.
func (c *Controller) SubmitEntry(d gap.Draft) (gap.Entry, error) {
	id := c.session.Current()
	if id == nil {
		return gap.Entry{}, ErrNotAuthenticated
	}
	if strings.TrimSpace(d.Author) == "" {
		d.Author = id.Name
	}
	if d.Role == "" {
		d.Role = id.Role
	}
	e, err := c.entries.Append(d)
	if err != nil {
		return e, err
	}
	c.log.Debug("entry added", zap.String("id", e.ID), zap.String("category", e.ActionCategory.String()))
	return e, nil
}

// SetViewMode switches between the personal and the team feed.
func (c *Controller) SetViewMode(m view.Mode) {
	c.mode = m
}

func (c *Controller) ViewMode() view.Mode {
	return c.mode
}

// Own returns the user's own entries, most recent first.
func (c *Controller) Own() []gap.Entry {
	return c.entries.Entries()
}

// Team returns the read-only team entries. They are loaded once; a failing
// source yields no entries and a warning.
func (c *Controller) Team() []gap.Entry {
	c.teamOnce.Do(func() {
		if c.team == nil {
			return
		}
		entries, err := c.team.Entries()
		if err != nil {
			c.log.Warn("team entries unavailable", zap.Error(err))
			c.warnings = append(c.warnings, err)
			return
		}
		c.teamEntries = entries
	})
	return append([]gap.Entry(nil), c.teamEntries...)
}

// Displayed is the sequence the feed shows for the current view mode.
func (c *Controller) Displayed() []gap.Entry {
	if c.mode != view.Team {
		return view.Compose(view.Mine, c.Own(), nil)
	}
	return view.Compose(view.Team, c.Own(), c.Team())
}

// Stats counts over the displayed sequence.
func (c *Controller) Stats() view.Stats {
	return view.Tally(c.Displayed())
}

// Find looks up a displayed entry by id or by a unique id prefix.
func (c *Controller) Find(id string) (gap.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return gap.Entry{}, ErrNotFound
	}
	var match []gap.Entry
	for _, e := range c.Displayed() {
		if e.ID == id {
			return e, nil
		}
		if strings.HasPrefix(e.ID, id) {
			match = append(match, e)
		}
	}
	switch len(match) {
	case 0:
		return gap.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return match[0], nil
	default:
		return gap.Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// RequestShare hands the target to the share collaborator. A nil entry asks
// for the team invite link.
func (c *Controller) RequestShare(ctx context.Context, e *gap.Entry) error {
	if c.sharer == nil {
		return errors.New("app: no share target configured")
	}
	req := share.Request{From: c.session.Current()}
	if e != nil {
		cp := *e
		req.Entry = &cp
	}
	return c.sharer.Share(ctx, req)
}

// Unsaved reports entries held in memory that failed to persist.
func (c *Controller) Unsaved() bool {
	return c.entries.Dirty()
}

// Save retries a failed write.
func (c *Controller) Save() error {
	return c.entries.Flush()
}

package gap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionCategory tags what was done with a gain.
type ActionCategory string

const (
	// None means no action was taken.
	None ActionCategory = "NONE"
	// SOP means the gain was codified as a repeatable standard procedure.
	SOP ActionCategory = "SOP"
	// Iteration means a root cause was fixed but not yet standardized.
	Iteration ActionCategory = "ITERATION"
)

var categoryAliases = map[string]ActionCategory{
	"none":      None,
	"-":         None,
	"sop":       SOP,
	"standard":  SOP,
	"iteration": Iteration,
	"iter":      Iteration,
	"fix":       Iteration,
}

// ParseActionCategory resolves a category name or alias.
func ParseActionCategory(s string) (ActionCategory, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return None, nil
	}
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown action category %q", s)
}

// Valid reports whether c is one of the known categories.
func (c ActionCategory) Valid() bool {
	switch c {
	case None, SOP, Iteration:
		return true
	}
	return false
}

func (c ActionCategory) String() string {
	return string(c)
}

// Entry is one journal record. Entries are values and never change after
// creation.
type Entry struct {
	ID             string         `json:"id" yaml:"id"`
	Date           string         `json:"date" yaml:"date"`
	Author         string         `json:"author" yaml:"author"`
	Role           string         `json:"role,omitempty" yaml:"role,omitempty"`
	Gain           string         `json:"gain" yaml:"gain"`
	ActionCategory ActionCategory `json:"actionCategory" yaml:"actionCategory"`
	ActionContent  string         `json:"actionContent" yaml:"actionContent"`
	Plan           string         `json:"plan" yaml:"plan"`
	Timestamp      int64          `json:"timestamp" yaml:"timestamp"`
}

// Draft is an entry before it has been assigned an id and timestamp.
type Draft struct {
	Date           string         `json:"date"`
	Author         string         `json:"author"`
	Role           string         `json:"role,omitempty"`
	Gain           string         `json:"gain"`
	ActionCategory ActionCategory `json:"actionCategory"`
	ActionContent  string         `json:"actionContent"`
	Plan           string         `json:"plan"`
}

// Finalize copies the draft into an entry with the given id and timestamp.
func (d Draft) Finalize(id string, timestamp int64) Entry {
	return Entry{
		ID:             id,
		Date:           d.Date,
		Author:         d.Author,
		Role:           d.Role,
		Gain:           d.Gain,
		ActionCategory: d.ActionCategory,
		ActionContent:  d.ActionContent,
		Plan:           d.Plan,
		Timestamp:      timestamp,
	}
}

// Byline is the author with the role appended when known.
func (e Entry) Byline() string {
	if e.Role == "" {
		return e.Author
	}
	return fmt.Sprintf("%s (%s)", e.Author, e.Role)
}

func (e Entry) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("gap.Entry{%s}", e.ID)
	}
	return string(b)
}

// Identity is the signed in user. Whatever the login collaborator hands over
// is accepted as-is.
type Identity struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

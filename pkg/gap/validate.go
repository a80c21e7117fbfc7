package gap

import (
	"fmt"
	"strings"
)

// ValidationError describes why a draft was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gap: invalid entry: %s %s", e.Field, e.Reason)
}

// Validate checks the draft before it becomes an entry. A NONE action must
// carry no content and any other action must carry some.
func (d Draft) Validate() error {
	if !d.ActionCategory.Valid() {
		return &ValidationError{Field: "actionCategory", Reason: fmt.Sprintf("has unknown value %q", d.ActionCategory)}
	}
	blankContent := strings.TrimSpace(d.ActionContent) == ""
	switch {
	case d.ActionCategory == None && d.ActionContent != "":
		return &ValidationError{Field: "actionContent", Reason: "must be empty when actionCategory is NONE"}
	case d.ActionCategory != None && blankContent:
		return &ValidationError{Field: "actionContent", Reason: fmt.Sprintf("is required when actionCategory is %s", d.ActionCategory)}
	}
	if strings.TrimSpace(d.Gain) == "" {
		return &ValidationError{Field: "gain", Reason: "is required"}
	}
	if strings.TrimSpace(d.Plan) == "" {
		return &ValidationError{Field: "plan", Reason: "is required"}
	}
	return nil
}

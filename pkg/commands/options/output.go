package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/gap"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

type jsonError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HandleError writes err to w as {"error": ...} when --json is set and
// swallows it. Validation failures name the offending field. Without --json
// err is returned unchanged.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if !o.JSON || err == nil {
		return err
	}
	body := jsonError{Error: err.Error()}
	var verr *gap.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	b, merr := json.Marshal(body)
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}

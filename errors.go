package stringquery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ConditionError is one entry of the error report produced by Process.
// Field is empty when the error is not tied to a field. Path pinpoints
// the originating value or sub-group, e.g. "[tags][2]" or "[2][1]".
// Pos is the byte offset in the input, or -1 when not positional.
type ConditionError struct {
	Message string
	Field   string
	Path    string
	Pos     int
}

func (e *ConditionError) Error() string {
	var b strings.Builder
	if e.Field != "" {
		fmt.Fprintf(&b, "field %q: ", e.Field)
	}
	b.WriteString(e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Pos >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Pos)
	}
	return b.String()
}

// ErrorReport extracts the ordered ConditionError entries from an error
// returned by Process. It returns nil for foreign errors.
func ErrorReport(err error) []*ConditionError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]*ConditionError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			var ce *ConditionError
			if errors.As(e, &ce) {
				out = append(out, ce)
			}
		}
		return out
	}
	var ce *ConditionError
	if errors.As(err, &ce) {
		return []*ConditionError{ce}
	}
	return nil
}

// errorCollector accumulates the semantic errors of one Process call.
// Structural and syntax errors never land here; they abort the parse.
type errorCollector struct {
	errs []*ConditionError
}

func (c *errorCollector) add(err *ConditionError) {
	c.errs = append(c.errs, err)
}

func (c *errorCollector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range c.errs {
		merr = multierror.Append(merr, e)
	}
	return merr
}

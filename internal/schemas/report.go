package schemas

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxContextChars caps the schema and data excerpts printed per error.
const maxContextChars = 1000

var separator = strings.Repeat("=", 68)

// ErrTooManyErrors is returned by Report.Write when the error cap is reached.
var ErrTooManyErrors = errors.New("too many errors detected")

// Report writes schema findings as numbered text blocks.
type Report struct {
	Out io.Writer
	// MaxErrors stops the report once that many findings were written and
	// another arrives. Zero means unlimited.
	MaxErrors int

	reported int
}

// Reported returns how many findings have been written.
func (r *Report) Reported() int {
	return r.reported
}

// Write prints findings for data in order. It prints "Validation Passed" when
// nothing was reported, and returns ErrTooManyErrors after printing the
// cutoff message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *Report) Write(data any, findings []Finding) error {
	for _, f := range findings {
		if r.MaxErrors > 0 && r.reported == r.MaxErrors {
			fmt.Fprintln(r.Out, "Too many errors detected, aborting validator")
			return ErrTooManyErrors
		}
		r.reported++
		r.writeFinding(data, f)
	}

	if r.reported == 0 {
		fmt.Fprintln(r.Out, "Validation Passed")
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *Report) writeFinding(data any, f Finding) {
	fmt.Fprintf(r.Out, "Validation Error # %d :  %s\n", r.reported, f.Message)
	fmt.Fprintln(r.Out, separator)

	schemaPath := f.SchemaPath
	if len(schemaPath) > 0 {
		schemaPath = schemaPath[:len(schemaPath)-1]
	}
	fmt.Fprintf(r.Out, "Schema path: %s\n", RenderPath(schemaPath))
	fmt.Fprintf(r.Out, "Schema: %s\n", Truncate(MarshalIndent(f.Schema), maxContextChars))

	fmt.Fprintf(r.Out, "JSON data path: %s\n", RenderPath(f.Path))
	fmt.Fprintln(r.Out, "JSON content:")
	fmt.Fprintln(r.Out, Truncate(MarshalIndent(Grandparent(WalkPath(data, f.Path))), maxContextChars))
	fmt.Fprintln(r.Out)
}

package dataset

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates a file format the loaders cannot read.
var ErrUnsupported = errors.New("unsupported dataset format")

// InputFormatError reports a source file that could not be read as a table.
// It is fatal to the whole request: nothing partial is produced.
type InputFormatError struct {
	Name string
	Err  error
}

func (e *InputFormatError) Error() string {
	if e == nil {
		return "unreadable input"
	}
	if e.Name != "" {
		return fmt.Sprintf("unreadable input %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unreadable input: %v", e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

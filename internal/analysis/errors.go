package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// ErrorKind is the stable code recorded for a failed analysis kind.
type ErrorKind string

const (
	ErrKindSchemaMismatch ErrorKind = "schema_mismatch"
	ErrKindTypeMismatch   ErrorKind = "type_mismatch"
	ErrKindEmptyInput     ErrorKind = "empty_input"
	ErrKindInputFormat    ErrorKind = "input_format"
	ErrKindInvalidRequest ErrorKind = "invalid_request"
	ErrKindInternal       ErrorKind = "internal"
)

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid analysis request")

// SchemaMismatchError names required columns absent from the dataset.
type SchemaMismatchError struct {
	Missing []string
	// Detail explains a kind-level requirement, e.g. "no temporal column".
	Detail string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("schema mismatch: %s", e.Detail)
	}
	return fmt.Sprintf("schema mismatch: missing columns: %s", strings.Join(e.Missing, ", "))
}

// TypeMismatchError reports a column that cannot be coerced to the kind an
// analysis needs.
type TypeMismatchError struct {
	Column string
	Want   dataset.Kind
}

func (e *TypeMismatchError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("type mismatch: no selected column has %s values", e.Want)
	}
	return fmt.Sprintf("type mismatch: column %q has no %s values", e.Column, e.Want)
}

// EmptyInputError reports that coercion left no usable rows.
type EmptyInputError struct {
	TimeColumn  string
	ValueColumn string
	Dropped     int
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("empty input: no rows with a parsable %q timestamp and numeric %q value (%d dropped)",
		e.TimeColumn, e.ValueColumn, e.Dropped)
}

// internalError wraps a recovered panic.
type internalError struct{ v any }

func (e *internalError) Error() string { return fmt.Sprintf("internal error: %v", e.v) }

// ErrorKindOf maps an error to its stable code.
func ErrorKindOf(err error) ErrorKind {
	var sm *SchemaMismatchError
	var tm *TypeMismatchError
	var ei *EmptyInputError
	var ife *dataset.InputFormatError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &sm):
		return ErrKindSchemaMismatch
	case errors.As(err, &tm):
		return ErrKindTypeMismatch
	case errors.As(err, &ei):
		return ErrKindEmptyInput
	case errors.As(err, &ife):
		return ErrKindInputFormat
	case errors.Is(err, ErrInvalidRequest):
		return ErrKindInvalidRequest
	}
	return ErrKindInternal
}

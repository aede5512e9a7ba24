package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotFound is returned when a selector or traversal step matches
	// nothing on the page.
	ErrFieldNotFound = errors.New("field not found")

	// ErrMalformedNumber is returned when a field's text cannot be read as a
	// number.
	ErrMalformedNumber = errors.New("malformed numeric field")
)

// FieldError reports which field failed and at which traversal step.
type FieldError struct {
	Field string
	Step  string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s (at %s): %v", e.Field, e.Step, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

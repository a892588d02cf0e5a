package services

import "fmt"

// ExtractionError reports a raw value that was present but could not be
// converted to its field's type.
type ExtractionError struct {
	Field string
	Raw   string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("Error while parsing %s:'%s': %v", e.Field, e.Raw, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

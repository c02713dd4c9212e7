package scorefile

import "fmt"

// NotFoundError is returned when the score-model file does not exist. It is
// raised before any parsing begins.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("score model %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// MalformedError is a fatal defect in a score-model file: a required column
// is absent, a numeric field does not parse, or a data row is too short for
// its layout. Line is 1-based and counts every physical line of the file,
// comments included.
type MalformedError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("score model %s: line %d: %s", e.Path, e.Line, e.Reason)
}

package fetch

import (
	"errors"
	"fmt"
)

// ErrLoad matches every fetch failure, network or parse, so callers can
// catch both on one path.
var ErrLoad = errors.New("data load failed")

// DataLoadError reports a network failure or a non-success HTTP status.
type DataLoadError struct {
	URL    string
	Status int // zero when the request never got a response
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("loading %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("loading %s: %v", e.URL, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

func (e *DataLoadError) Is(target error) bool { return target == ErrLoad }

// ParseError reports a response body that is not the expected JSON.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrLoad }

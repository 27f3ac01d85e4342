package intent

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why the primary classifier gave up.
type ErrorKind int

const (
	// ProviderUnavailable covers failed, cancelled and timed out calls.
	ProviderUnavailable ErrorKind = iota + 1
	// MalformedResponse covers unparseable or invalid JSON.
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case ProviderUnavailable:
		return "provider unavailable"
	case MalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// ClassificationError is returned by Classifier.Classify. Callers recover
// from either kind with Fallback.
type ClassificationError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify: %s: %v", e.Kind, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// IsProviderUnavailable reports whether err is a ProviderUnavailable
// classification error.
func IsProviderUnavailable(err error) bool {
	var ce *ClassificationError
	return errors.As(err, &ce) && ce.Kind == ProviderUnavailable
}

// IsMalformedResponse reports whether err is a MalformedResponse
// classification error.
func IsMalformedResponse(err error) bool {
	var ce *ClassificationError
	return errors.As(err, &ce) && ce.Kind == MalformedResponse
}

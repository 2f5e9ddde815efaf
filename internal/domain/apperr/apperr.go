// Package apperr holds the failure taxonomy shared by the pipeline components.
// Every component returns an *Error whose Kind is one of the sentinels below,
// so callers branch with errors.Is and never inspect provider-specific errors.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrStorage       = errors.New("storage error")
	ErrAssetTransfer = errors.New("asset transfer error")
	ErrFetch         = errors.New("fetch error")
	ErrAnalysis      = errors.New("analysis error")
	ErrNotFound      = errors.New("not found")
	ErrReconcile     = errors.New("reconcile error")
)

type Error struct {
	Kind    error
	Message string
	Err     error
}

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// MessageOf returns the human-readable message carried by err, or def when
// err carries none.
func MessageOf(err error, def string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return def
}

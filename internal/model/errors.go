package model

import (
	"errors"
	"fmt"
)

// ErrNoContent means the operation succeeded but produced nothing to return.
var ErrNoContent = errors.New("no content")

// Kind is the machine-readable category of a pipeline failure.
type Kind string

const (
	KindMalformed Kind = "malformed_input"
	KindStorage   Kind = "storage_error"
	KindArtifact  Kind = "artifact_error"
)

// Error is a categorised failure carrying a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Malformed wraps a parse failure of an upload.
func Malformed(detail string, err error) error {
	return &Error{Kind: KindMalformed, Detail: detail, Err: err}
}

// Storage wraps a failed store round-trip.
func Storage(detail string, err error) error {
	return &Error{Kind: KindStorage, Detail: detail, Err: err}
}

// IsKind reports whether err is a categorised error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Package apperrors defines the typed error kinds the core surfaces to its
// callers (HTTP handlers, scan endpoints, periodic passes). The mapping of
// kinds to HTTP status codes lives in pkg/api's respondError.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error the way §7 of the specification names it.
type Kind string

const (
	ValidationFailed                 Kind = "ValidationFailed"
	NotFound                         Kind = "NotFound"
	InvalidStateTransition           Kind = "InvalidStateTransition"
	InvalidStateForTicketTypeMutation Kind = "InvalidStateForTicketTypeMutation"
	DuplicateTicketTypeCode          Kind = "DuplicateTicketTypeCode"
	NotAWinner                       Kind = "NotAWinner"
	WinnerNotFound                   Kind = "WinnerNotFound"
	InvalidQR                        Kind = "InvalidQR"
	InvalidPayload                   Kind = "InvalidPayload"
	AdapterUnavailable                Kind = "AdapterUnavailable"
	Conflict                         Kind = "Conflict"
)

// Error wraps an underlying cause with a Kind and optional structured
// fields (e.g. the codec sub-reason "length"/"magic"/"version").
type Error struct {
	Kind   Kind
	Reason string
	err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// New builds an Error of the given kind wrapping err (err may be nil, in
// which case the Kind's own name is used as the message).
func New(kind Kind, reason string, err error) *Error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Reason: reason, err: err}
}

// Newf is a convenience constructor taking a format string instead of a
// wrapped error, mirroring fmt.Errorf but tagging the result with a Kind.
func Newf(kind Kind, reason, format string, args ...any) *Error {
	return New(kind, reason, fmt.Errorf(format, args...))
}

// KindOf extracts the Kind of err, walking the unwrap chain. Returns ""
// if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err (or something it wraps) carries kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

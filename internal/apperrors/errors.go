package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on it instead of
// string-matching messages.
type Kind string

const (
	KindStorage         Kind = "storage"
	KindUpstream        Kind = "upstream"
	KindUpstreamTimeout Kind = "upstream_timeout"
	KindPersonaNotFound Kind = "persona_not_found"
	KindNotFound        Kind = "not_found"
	KindNoSolution      Kind = "no_solution"
	KindGeneration      Kind = "generation"
	KindEvaluationParse Kind = "evaluation_parse"
	KindValidation      Kind = "validation"
)

// Error is the single error type crossing component boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two errors by Kind, so errors.Is(err, apperrors.New(kind, ""))
// style sentinels work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind of an error, or empty string for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsNotFound(err error) bool        { return IsKind(err, KindNotFound) }
func IsNoSolution(err error) bool      { return IsKind(err, KindNoSolution) }
func IsPersonaNotFound(err error) bool { return IsKind(err, KindPersonaNotFound) }
func IsValidation(err error) bool      { return IsKind(err, KindValidation) }
func IsUpstream(err error) bool {
	k := KindOf(err)
	return k == KindUpstream || k == KindUpstreamTimeout
}

package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a failure so HTTP and engine layers can branch on it
// without inspecting messages.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodePreconditionFailed Code = "precondition_failed"
	CodeTransport          Code = "transport"
	CodePersistence        Code = "persistence"
	CodeRetryable          Code = "retryable"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

var (
	// ErrValidation marks caller input that can never succeed as given
	// (unknown or inactive question key, malformed channel).
	ErrValidation = errors.New("validation failed")
	// ErrTransport marks a collaborator call (LLM, partner API) that failed
	// before producing a usable answer.
	ErrTransport = errors.New("transport failure")
	// ErrNoMatch marks a resolution attempt that produced no candidate.
	ErrNoMatch = errors.New("no match")
	// ErrUnavailable marks an optional integration that is not configured.
	ErrUnavailable = errors.New("integration unavailable")
)

// Error is the canonical wrapper.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code Code, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with a code. A nil err stays nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func Validation(op, format string, args ...any) error {
	return NewError(CodeValidation, op, fmt.Sprintf(format, args...), ErrValidation)
}

func Transport(op string, cause error) error {
	return NewError(CodeTransport, op, causeMessage(cause), errors.Join(ErrTransport, cause))
}

func Unavailable(op, what string) error {
	return NewError(CodeUnavailable, op, what+" not configured", ErrUnavailable)
}

func IsCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

func causeMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps an arbitrary error onto an HTTP status and a stable code.
// An *Error already in the chain wins; otherwise the domain code decides.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := errs.CodeOf(err)
	switch code {
	case errs.CodeValidation:
		return New(http.StatusBadRequest, string(code), err)
	case errs.CodeNotFound:
		return New(http.StatusNotFound, string(code), err)
	case errs.CodeConflict:
		return New(http.StatusConflict, string(code), err)
	case errs.CodePreconditionFailed:
		return New(http.StatusPreconditionFailed, string(code), err)
	case errs.CodeTransport:
		return New(http.StatusBadGateway, string(code), err)
	case errs.CodeUnavailable:
		return New(http.StatusServiceUnavailable, string(code), err)
	case "":
		return New(http.StatusInternalServerError, string(errs.CodeInternal), err)
	default:
		return New(http.StatusInternalServerError, string(code), err)
	}
}

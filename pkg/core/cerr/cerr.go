// Package cerr classifies the core errors by the HTTP status code which
// should be reported to the clients. Use cases wrap their errors with
// one of these constructors, keeping the wrapped error intact, so the
// structured model errors (e.g., *model.ConflictError) may be extracted
// by errors.As in the adapter layer.
// Errors which are not wrapped by cerr (e.g., store transport errors)
// are reported as internal server errors.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// StatusOf returns the HTTP status code of the outer most cerr.Error
// in the err chain, or 500 if err has no such wrapper.
func StatusOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return http.StatusInternalServerError
}

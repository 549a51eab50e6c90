// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr contains the core layer errors. Use cases return these
// errors (possibly wrapped) when they want to report an expected
// failure condition, so the outer layers (e.g., the restful resources)
// can convert them to their protocol dependent representation such as
// an HTTP status code.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps another error and annotates it with the HTTP status code
// which should be reported to web clients. Although the HTTP status
// code is a protocol level concept, its values are well-known and have
// clear semantics which make them a good vocabulary for the use cases.
type Error struct {
	Err            error
	HTTPStatusCode int
}

// Unwrap returns the wrapped error, so errors.Is and errors.As may
// check it.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error returns the wrapped error message, prefixed by the status code.
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest reports a malformed or semantically invalid input.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

// Authentication reports that the caller could not be authenticated.
// The err should not reveal which one of the identity or secret tokens
// was wrong.
func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

// Authorization reports that an authenticated caller is not allowed
// to perform the requested operation.
func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

// NotFound reports that the requested entity does not exist.
func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict reports that the requested change conflicts with the
// current state, like a duplicate unique key.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// StatusCode returns the HTTP status code which is attached to err
// (or any error which it wraps) and the internal server error code
// if no such annotation could be found.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err (or any error which it wraps) is
// a NotFound error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

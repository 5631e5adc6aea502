// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package core provides the error taxonomy shared by models and routes.

Every failure that reaches the route layer is one of the errors defined
here, or it is treated as an internal server error.
*/
package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an associated HTTP status code. The route layer
// translates it into the JSON error envelope.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequestError returns a 400 error. The message commonly lists all
// schema violations, or names a duplicate key.
func BadRequestError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...), Status: http.StatusBadRequest}
}

// UnauthorizedError returns a 401 error for missing or invalid credentials.
func UnauthorizedError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...), Status: http.StatusUnauthorized}
}

// ForbiddenError returns a 403 error for an authenticated requester who is
// not permitted to perform the operation.
func ForbiddenError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...), Status: http.StatusForbidden}
}

// NotFoundError returns a 404 error for a missing row or route.
func NotFoundError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...), Status: http.StatusNotFound}
}

// StatusOf returns the HTTP status for err. Errors outside the taxonomy
// map to http.StatusInternalServerError.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// IsNotFound returns true if err is a 404 error
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsBadRequest returns true if err is a 400 error
func IsBadRequest(err error) bool {
	return StatusOf(err) == http.StatusBadRequest
}

// IsUnauthorized returns true if err is a 401 error
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsForbidden returns true if err is a 403 error
func IsForbidden(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}

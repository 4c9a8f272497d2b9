// Package apperror defines the domain error taxonomy for the catalog core.
// Every failure that leaves a service or repository is one of these codes;
// handlers map codes to HTTP statuses without inspecting anything else.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodePriceFloorViolation    Code = "PRICE_FLOOR_VIOLATION"
	CodeDuplicateItem          Code = "DUPLICATE_ITEM"
	CodeInvalidDateRange       Code = "INVALID_DATE_RANGE"
	CodeReferenceNotFound      Code = "REFERENCE_NOT_FOUND"
	CodeConflict               Code = "CONFLICT"
	CodeUnprocessableReference Code = "UNPROCESSABLE_REFERENCE"
	CodeNotFound               Code = "NOT_FOUND"
	CodeConfirmationRequired   Code = "CONFIRMATION_REQUIRED"
	CodeBadRequest             Code = "BAD_REQUEST"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the domain code carried by err, or CodeBadRequest when err
// is not a domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeBadRequest
}

// HTTPStatus maps the taxonomy onto the admin API status codes.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConfirmationRequired:
		return http.StatusConflict
	case CodeUnprocessableReference, CodeReferenceNotFound:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func NotFound(entity string) *Error {
	return Newf(CodeNotFound, "%s not found", entity)
}

func Conflict(field, entity string) *Error {
	return Newf(CodeConflict, "%s already exists in %s", field, entity)
}

func ReferenceNotFound(kind string, id fmt.Stringer) *Error {
	return Newf(CodeReferenceNotFound, "%s %s does not resolve to an active row", kind, id)
}

// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	OK     bool        `json:"ok"`
	Detail string      `json:"detail"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	OK     bool              `json:"ok"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Codes carried by domain errors. Clients switch on these, not on the message.
const (
	CodeValidation        = "Validation"
	CodeInvalidItem       = "InvalidItem"
	CodeNotFound          = "NotFound"
	CodeLoadNotFound      = "LoadNotFound"
	CodeNoActiveLoad      = "NoActiveLoad"
	CodeProductNotInLoad  = "ProductNotInLoad"
	CodeInsufficientStock = "InsufficientStock"
	CodeOverpayment       = "Overpayment"
	CodeConflict          = "Conflict"
	CodeUnauthorized      = "Unauthorized"
	CodeForbidden         = "Forbidden"
)

// Error is a business-rule failure raised by the service layer. Status is the
// HTTP status the handler responds with; Data carries the state the client
// needs to reconcile without a follow-up read.
type Error struct {
	Code   string
	Status int
	Msg    string
	Data   interface{}
}

func (e *Error) Error() string { return e.Msg }

// Envelope renders the error for the response body.
func (e *Error) Envelope() *APIError {
	return &APIError{Detail: e.Msg, Code: e.Code, Data: e.Data}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Msg: msg}
}

func InvalidItem(msg string) *Error {
	return &Error{Code: CodeInvalidItem, Status: http.StatusBadRequest, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Msg: msg}
}

// LoadNotFound is 404 when the load does not exist and 409 when it exists but
// is already processed.
func LoadNotFound(msg string, procesada bool) *Error {
	status := http.StatusNotFound
	if procesada {
		status = http.StatusConflict
	}
	return &Error{Code: CodeLoadNotFound, Status: status, Msg: msg}
}

func NoActiveLoad(msg string) *Error {
	return &Error{Code: CodeNoActiveLoad, Status: http.StatusConflict, Msg: msg}
}

func ProductNotInLoad(msg string) *Error {
	return &Error{Code: CodeProductNotInLoad, Status: http.StatusBadRequest, Msg: msg}
}

func InsufficientStock(msg string, data interface{}) *Error {
	return &Error{Code: CodeInsufficientStock, Status: http.StatusConflict, Msg: msg, Data: data}
}

func Overpayment(msg string, data interface{}) *Error {
	return &Error{Code: CodeOverpayment, Status: http.StatusConflict, Msg: msg, Data: data}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Msg: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Msg: msg}
}

// As extracts a domain error from err, if there is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the domain code of err, or "" for unexpected errors.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

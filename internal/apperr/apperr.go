// Package apperr defines the error taxonomy for the HTTP API and the two
// response body shapes the original API exposes: {"msg": ...} for business
// errors and {"errors": [{"msg": ...}]} for validation failures.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// AppError is a business error with an HTTP status and a client-safe message.
type AppError struct {
	Status int
	Msg    string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, msg string) *AppError {
	return &AppError{Status: status, Msg: msg}
}

func Wrap(err error, status int, msg string) *AppError {
	return &AppError{Status: status, Msg: msg, Err: err}
}

func BadRequest(msg string) *AppError { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *AppError {
	return New(http.StatusUnauthorized, msg)
}
func Forbidden(msg string) *AppError { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *AppError  { return New(http.StatusNotFound, msg) }

// Internal hides the underlying cause from the client.
func Internal(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, "Server Error")
}

// Dependency marks an external-service failure (GitHub, etc).
func Dependency(err error, msg string) *AppError {
	return Wrap(err, http.StatusBadGateway, msg)
}

type msgBody struct {
	Msg string `json:"msg"`
}

type errorsBody struct {
	Errors []msgBody `json:"errors"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its status and a {"msg": ...} body. Non-AppError
// values become a generic 500 so store internals never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	WriteJSON(w, appErr.Status, msgBody{Msg: appErr.Msg})
}

// WriteValidation writes a 400 with the {"errors": [{"msg": ...}]} shape.
func WriteValidation(w http.ResponseWriter, msgs []string) {
	body := errorsBody{Errors: make([]msgBody, 0, len(msgs))}
	for _, m := range msgs {
		body.Errors = append(body.Errors, msgBody{Msg: m})
	}
	WriteJSON(w, http.StatusBadRequest, body)
}

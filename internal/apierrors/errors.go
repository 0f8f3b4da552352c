// Package apierrors defines the typed failures returned by use-cases and the
// HTTP status each of them maps to.
package apierrors

import (
	"errors"
	"net/http"
)

// Kind classifies an APIError.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthentication
	KindInvalidToken
	KindUnauthorized
	KindUpload
	KindPersistence
)

var kindNames = map[Kind]string{
	KindInternal:       "internal",
	KindValidation:     "validation",
	KindConflict:       "conflict",
	KindNotFound:       "not_found",
	KindAuthentication: "authentication",
	KindInvalidToken:   "invalid_token",
	KindUnauthorized:   "unauthorized",
	KindUpload:         "upload",
	KindPersistence:    "persistence",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// APIError is a failure with a caller-facing message. Err keeps the
// underlying cause for logging and is never sent to clients.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// As extracts an *APIError from the chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

func newError(kind Kind, status int, message string, cause error) *APIError {
	return &APIError{Kind: kind, Status: status, Message: message, Err: cause}
}

func NewValidationError(message string) *APIError {
	return newError(KindValidation, http.StatusBadRequest, message, nil)
}

func NewConflictError(message string) *APIError {
	return newError(KindConflict, http.StatusConflict, message, nil)
}

func NewNotFoundError(message string) *APIError {
	return newError(KindNotFound, http.StatusNotFound, message, nil)
}

func NewAuthenticationError(message string) *APIError {
	return newError(KindAuthentication, http.StatusUnauthorized, message, nil)
}

// NewInvalidTokenError is returned when a token is present but fails
// signature, expiry, type or stored-value checks.
func NewInvalidTokenError(message string) *APIError {
	return newError(KindInvalidToken, http.StatusUnauthorized, message, nil)
}

// NewUnauthorizedError is returned when no token was supplied at all.
func NewUnauthorizedError(message string) *APIError {
	return newError(KindUnauthorized, http.StatusUnauthorized, message, nil)
}

func NewUploadError(message string, cause error) *APIError {
	return newError(KindUpload, http.StatusBadRequest, message, cause)
}

func NewInternalError(cause error) *APIError {
	return newError(KindInternal, http.StatusInternalServerError, "something went wrong", cause)
}

func NewPersistenceError(message string, cause error) *APIError {
	return newError(KindPersistence, http.StatusInternalServerError, message, cause)
}

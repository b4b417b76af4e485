package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories (wrap repository errors)
// =========================================================================

// ErrNotFound turns a repository "not found" sentinel into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists - 409 for unique key collisions.
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrConflict - generic 409
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Factories (new errors)
// =========================================================================

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrVerificationGate is the 403 an admin gets while their access request is
// not approved. status is echoed at the top level of the body.
func ErrVerificationGate(message, status string) *AppError {
	return New(CodeVerificationGate, "auth", message, http.StatusForbidden).WithField("status", status)
}

// =========================================================================
// Predefined errors. Never mutate these; derive with New instead.
// =========================================================================

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrNoFieldsToUpdate = New(
	CodeValidationFailed,
	"request",
	"No fields to update",
	http.StatusBadRequest,
)

var ErrMethodNotAllowed = New(
	CodeMethodNotAllowed,
	"request",
	"Method not allowed",
	http.StatusMethodNotAllowed,
)

var ErrRouteNotFound = New(
	CodeNotFound,
	"request",
	"Endpoint not found",
	http.StatusNotFound,
)

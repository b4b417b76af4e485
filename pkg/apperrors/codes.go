package apperrors

type ErrorCode string

const (
	// system
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"

	// auth
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeVerificationGate   ErrorCode = "VERIFICATION_REQUIRED"
)

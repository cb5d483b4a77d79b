package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Attendance domain
	CodeInvalidCode    = "INVALID_CODE"
	CodeNoOpenSession  = "NO_OPEN_SESSION"
	CodeOfficeMismatch = "OFFICE_MISMATCH"

	// Storage integrity
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeChannelUnavailable = "CHANNEL_UNAVAILABLE"
)

package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrMissingCredentials ErrCode = "MISSING_CREDENTIALS"
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Uploads ───────────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstreamFailure ErrCode = "UPSTREAM_FAILURE"
	ErrSchemaMismatch  ErrCode = "SCHEMA_MISMATCH"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrMissingCredentials:
		return "Email and password are required."
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrFileRequired:
		return "A file upload is required."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	case ErrUpstreamFailure:
		return "An upstream storage operation failed."
	case ErrSchemaMismatch:
		return "An upstream response did not match the expected schema."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

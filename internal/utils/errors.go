package utils

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Input errors
	ErrValidation = "VALIDATION_FAILED"
	ErrDuplicate  = "DUPLICATE_IDENTITY"

	// Authentication/Authorization errors
	ErrNotAuthenticated = "NOT_AUTHENTICATED"
	ErrTokenExpired     = "TOKEN_EXPIRED"
	ErrNotAuthorized    = "NOT_AUTHORIZED"

	// Resource errors
	ErrNotFound = "NOT_FOUND"

	// Storage errors
	ErrStorage = "STORAGE_FAILURE"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewValidationError(rule string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: rule,
	}
}

func NewDuplicateError(field string) *AppError {
	return &AppError{
		Code:    ErrDuplicate,
		Message: field + " already in use",
	}
}

func NewNotAuthenticatedError(reason string) *AppError {
	return &AppError{
		Code:    ErrNotAuthenticated,
		Message: "Not authenticated: " + reason,
	}
}

func NewNotAuthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrNotAuthorized,
		Message: "Not authorized: " + reason,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: resource + " not found",
	}
}

func NewStorageError(message string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrStorage,
		Message: message,
		Origin:  originalErr,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrValidation:
		return 400 // http.StatusBadRequest
	case ErrNotAuthenticated, ErrTokenExpired:
		return 401 // http.StatusUnauthorized
	case ErrNotAuthorized:
		return 403 // http.StatusForbidden
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrDuplicate:
		return 409 // http.StatusConflict
	case ErrStorage:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}

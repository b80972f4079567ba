package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrBadRequest       = errors.New("bad request")

	// State errors
	ErrInvalidOperation = errors.New("invalid operation")

	// Throttling errors
	ErrTooManyRequests = errors.New("too many requests")
)

// OTP errors
var (
	ErrOTPNotFound = errors.New("no one-time password issued for this email")
	ErrOTPExpired  = errors.New("one-time password has expired")
	ErrOTPInvalid  = errors.New("invalid one-time password")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Listing errors
var (
	ErrListingNotFound    = NewResourceNotFoundError("Listing not found.")
	ErrListingUnavailable = NewResourceNotFoundError("Listing not found or unavailable.")
	ErrPhotoUploadFailed  = errors.New("photo upload failed")
	ErrFieldTooLong       = NewValidationError("One of the fields is longer than allowed.")
)

// Rental request errors
var (
	ErrRentalRequestNotFound   = NewResourceNotFoundError("Request not found.")
	ErrSelfBorrow              = NewInvalidOperationError("You cannot borrow your own item.")
	ErrDuplicatePendingRequest = NewConflictError("You already requested this item.")
	ErrRequestAlreadyActioned  = NewInvalidOperationError("Request already actioned.")
	ErrInvalidDecision         = NewValidationError("Invalid decision.")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a new custom error for failed input validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewInvalidOperationError creates a new custom error for a state transition that is not allowed
func NewInvalidOperationError(message string) error {
	return &CustomError{
		Err:     ErrInvalidOperation,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// MessageOf returns the client-facing message carried by a CustomError in err's chain.
func MessageOf(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

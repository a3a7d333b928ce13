package errors

import "fmt"

// ErrorCode identifies a category of application error. Controllers map
// codes to HTTP statuses; services never touch HTTP.
type ErrorCode string

const (
	// Generic
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrForbidden          ErrorCode = "FORBIDDEN"

	// Auth
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrInvalidCredentials         ErrorCode = "INVALID_CREDENTIALS"
	ErrLoginBlocked               ErrorCode = "LOGIN_BLOCKED"
	ErrRegistrationClosed         ErrorCode = "REGISTRATION_CLOSED"

	// Queue engine
	ErrAlreadySelected    ErrorCode = "ALREADY_SELECTED"
	ErrCompanyUnavailable ErrorCode = "COMPANY_UNAVAILABLE"
	ErrInvalidState       ErrorCode = "INVALID_STATE"
	ErrAccessDenied       ErrorCode = "ACCESS_DENIED"
	ErrRoomBusy           ErrorCode = "ROOM_BUSY"
	ErrNoRoomAssigned     ErrorCode = "NO_ROOM_ASSIGNED"
	ErrNotOwner           ErrorCode = "NOT_OWNER"
	ErrStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
)

// AppError is the error type services return to controllers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether err is an *AppError carrying the given code.
func Is(err error, code ErrorCode) bool {
	if ae, ok := err.(*AppError); ok && ae != nil {
		return ae.Code == code
	}
	return false
}

package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeUnknownOperation    ErrorType = "UNKNOWN_OPERATION"
	ErrorTypeArgument            ErrorType = "ARGUMENT_ERROR"
	ErrorTypeAuthentication      ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeForbidden           ErrorType = "FORBIDDEN"
	ErrorTypeInvalidRange        ErrorType = "INVALID_RANGE"
	ErrorTypePastDate            ErrorType = "PAST_DATE"
	ErrorTypeInsufficientBalance ErrorType = "INSUFFICIENT_BALANCE"
	ErrorTypePendingLimit        ErrorType = "PENDING_LIMIT"
	ErrorTypeConflict            ErrorType = "CONFLICT"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypePersistence         ErrorType = "PERSISTENCE_ERROR"
)

type ErrorCode string

const (
	ErrCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingArgument  ErrorCode = "MISSING_ARGUMENT"
	ErrCodeUnknownArgument  ErrorCode = "UNKNOWN_ARGUMENT"
	ErrCodeInvalidType      ErrorCode = "INVALID_TYPE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeTooLong          ErrorCode = "TOO_LONG"
	ErrCodeMalformedBody    ErrorCode = "MALFORMED_BODY"

	ErrCodeSessionNotLinked   ErrorCode = "SESSION_NOT_LINKED"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInsufficientScope  ErrorCode = "INSUFFICIENT_SCOPE"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"

	ErrCodeInvalidDateRange    ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeStartDateInPast     ErrorCode = "START_DATE_IN_PAST"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodePendingLimitReached ErrorCode = "PENDING_LIMIT_REACHED"

	ErrCodeTokenAlreadyLinked    ErrorCode = "TOKEN_ALREADY_LINKED"
	ErrCodeEmployeeAlreadyLinked ErrorCode = "EMPLOYEE_ALREADY_LINKED"
	ErrCodeDuplicateRecord       ErrorCode = "DUPLICATE_RECORD"

	ErrCodeEmployeeNotFound     ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeDepartmentNotFound   ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeLeaveBalanceNotFound ErrorCode = "LEAVE_BALANCE_NOT_FOUND"
	ErrCodeSalaryNotFound       ErrorCode = "SALARY_NOT_FOUND"
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeConstraintViolated ErrorCode = "CONSTRAINT_VIOLATED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Field + ": " + validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Field + ": " + err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Retryable reports whether the failure is transient storage trouble. Business
// rule violations are final.
func (e *AppError) Retryable() bool {
	return e.Type == ErrorTypePersistence
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewUnknownOperationError(name string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownOperation,
		Code:       ErrCodeUnknownOperation,
		Message:    fmt.Sprintf("unknown operation %q", name),
		Details:    map[string]string{"operation": name},
		StatusCode: http.StatusBadRequest,
	}
}

func NewArgumentError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeArgument,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewArgumentFieldError(field, message string, code ErrorCode) *AppError {
	return NewArgumentFieldErrors(ValidationError{Field: field, Message: message, Code: string(code)})
}

// NewArgumentFieldErrors reports per-field failures. A single failure lends
// its code to the error itself.
func NewArgumentFieldErrors(fieldErrors ...ValidationError) *AppError {
	code := ErrCodeValidationFailed
	if len(fieldErrors) == 1 && fieldErrors[0].Code != "" {
		code = ErrorCode(fieldErrors[0].Code)
	}
	return &AppError{
		Type:       ErrorTypeArgument,
		Code:       code,
		Message:    "invalid arguments",
		StatusCode: http.StatusBadRequest,
		Details:    ValidationErrors{Errors: fieldErrors},
	}
}

func NewAuthenticationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInvalidRangeError(start, end string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidRange,
		Code:       ErrCodeInvalidDateRange,
		Message:    "start date must not be after end date",
		Details:    map[string]string{"start_date": start, "end_date": end},
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewPastDateError(start, today string) *AppError {
	return &AppError{
		Type:       ErrorTypePastDate,
		Code:       ErrCodeStartDateInPast,
		Message:    "cannot request leave for past dates",
		Details:    map[string]string{"start_date": start, "today": today},
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInsufficientBalanceError(remaining, requested int) *AppError {
	return &AppError{
		Type:       ErrorTypeInsufficientBalance,
		Code:       ErrCodeInsufficientBalance,
		Message:    fmt.Sprintf("insufficient leave balance: %d days remaining, %d requested", remaining, requested),
		Details:    map[string]int{"remaining_days": remaining, "requested_days": requested},
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewPendingLimitError(pending, limit int) *AppError {
	return &AppError{
		Type:       ErrorTypePendingLimit,
		Code:       ErrCodePendingLimitReached,
		Message:    fmt.Sprintf("%d pending leave requests already awaiting approval", pending),
		Details:    map[string]int{"pending_count": pending, "max_pending": limit},
		StatusCode: http.StatusConflict,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewPersistenceError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

func ErrEmployeeNotFound() *AppError {
	return NewNotFoundError("employee not found", ErrCodeEmployeeNotFound)
}

func ErrLeaveBalanceNotFound() *AppError {
	return NewNotFoundError("leave balance not found", ErrCodeLeaveBalanceNotFound)
}

func ErrSalaryNotFound() *AppError {
	return NewNotFoundError("no salary record found", ErrCodeSalaryNotFound)
}

func ErrSessionNotLinked() *AppError {
	return NewAuthenticationError("session is not linked to an employee", ErrCodeSessionNotLinked)
}

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf returns the error kind of err, or the empty string for foreign errors.
func TypeOf(err error) ErrorType {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Type
	}
	return ""
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

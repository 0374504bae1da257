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
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody    ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInvalidID             ErrorCode = "INVALID_ID"
	ErrCodeInvalidEmploymentType ErrorCode = "INVALID_EMPLOYMENT_TYPE"
	ErrCodeInvalidSalaryRange    ErrorCode = "INVALID_SALARY_RANGE"
	ErrCodeInvalidJobAction      ErrorCode = "INVALID_JOB_ACTION"
	ErrCodeInvalidStatus         ErrorCode = "INVALID_APPLICATION_STATUS"
	ErrCodeInvalidRole           ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidFile           ErrorCode = "INVALID_FILE"
	ErrCodeFileTooLarge          ErrorCode = "FILE_TOO_LARGE"
	ErrCodePasswordMismatch      ErrorCode = "PASSWORD_MISMATCH"

	ErrCodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeBookmarkNotFound    ErrorCode = "BOOKMARK_NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeDepartmentNotFound  ErrorCode = "DEPARTMENT_NOT_FOUND"

	ErrCodeStaffOnly          ErrorCode = "STAFF_ONLY"
	ErrCodeAdminOnly          ErrorCode = "ADMIN_ONLY"
	ErrCodeJobAccessDenied    ErrorCode = "JOB_ACCESS_DENIED"
	ErrCodeBookmarkNotOwned   ErrorCode = "BOOKMARK_NOT_OWNED"
	ErrCodeApplicationsDenied ErrorCode = "APPLICATIONS_ACCESS_DENIED"
	ErrCodeProfileDenied      ErrorCode = "PROFILE_ACCESS_DENIED"

	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeBookmarkExists       ErrorCode = "BOOKMARK_EXISTS"
	ErrCodeUsernameTaken        ErrorCode = "USERNAME_TAKEN"
	ErrCodeDepartmentExists     ErrorCode = "DEPARTMENT_EXISTS"

	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrCodeUploadFailed   ErrorCode = "UPLOAD_FAILED"
	ErrCodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
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
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins field-level validation messages, falling back to Message.
func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by type and code so wrapped sentinels compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
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

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
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

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewExternalError reports a failing collaborator such as object storage or mail delivery.
func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrJobNotFound         = NewNotFoundError("Job not found", ErrCodeJobNotFound)
	ErrApplicationNotFound = NewNotFoundError("Application not found", ErrCodeApplicationNotFound)
	ErrBookmarkNotFound    = NewNotFoundError("Saved job not found", ErrCodeBookmarkNotFound)
	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrDepartmentNotFound  = NewNotFoundError("Department not found", ErrCodeDepartmentNotFound)

	ErrStaffOnly                = NewForbiddenError("Only ADMIN or HR can perform this action", ErrCodeStaffOnly)
	ErrAdminOnly                = NewForbiddenError("Only ADMIN can perform this action", ErrCodeAdminOnly)
	ErrJobAccessDenied          = NewForbiddenError("You can only manage jobs you posted", ErrCodeJobAccessDenied)
	ErrBookmarkNotOwned         = NewForbiddenError("Saved job belongs to another user", ErrCodeBookmarkNotOwned)
	ErrApplicationsAccessDenied = NewForbiddenError("You can only view your own applications", ErrCodeApplicationsDenied)
	ErrProfileAccessDenied      = NewForbiddenError("You can only modify your own profile", ErrCodeProfileDenied)

	ErrInvalidEmploymentType = NewValidationError("employment type must be one of FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP", ErrCodeInvalidEmploymentType)
	ErrInvalidJobAction      = NewValidationError("action must be either kill or restore", ErrCodeInvalidJobAction)
	ErrInvalidStatus         = NewValidationError("status must be one of PENDING, ACCEPTED, REJECTED, INTERVIEW, HIRED, OFFER", ErrCodeInvalidStatus)
	ErrInvalidRole           = NewValidationError("role must be one of ADMIN, HR, USER", ErrCodeInvalidRole)
	ErrPasswordMismatch      = NewValidationError("Current password is incorrect", ErrCodePasswordMismatch)
	ErrFileRequired          = NewValidationFieldError("file", "file is required", ErrCodeInvalidFile)
	ErrInvalidFileType       = NewValidationError("Only PDF files are allowed", ErrCodeInvalidFile)
	ErrFileTooLarge          = NewValidationError("File exceeds the maximum allowed size", ErrCodeFileTooLarge)

	ErrDuplicateApplication = NewConflictError("You have already applied to this job", ErrCodeDuplicateApplication)
	ErrBookmarkExists       = NewConflictError("Job already saved", ErrCodeBookmarkExists)
	ErrUsernameTaken        = NewConflictError("Username already exists", ErrCodeUsernameTaken)
	ErrDepartmentExists     = NewConflictError("Department already exists", ErrCodeDepartmentExists)

	ErrUnauthenticated    = NewUnauthorizedError("Authentication required", ErrCodeUnauthenticated)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthorizedError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the failure half of the API envelope.
type Response struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Success: false, Error: e}
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

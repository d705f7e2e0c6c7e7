package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status codes used across handlers and services.
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response messages.
const (
	MsgSuccess         = "Operation successful"
	MsgUnauthorized    = "Please sign in"
	MsgForbidden       = "Access denied"
	MsgNotFound        = "Resource not found"
	MsgInternalError   = "Internal server error"
	MsgValidationError = "Invalid input data"
	MsgDatabaseError   = "Database operation failed"
	MsgInvalidFormat   = "Invalid data format"

	MsgTokenMissing = "Missing authentication token"
	MsgTokenInvalid = "Invalid authentication token"
	MsgTokenExpired = "Authentication token expired"
)

// ErrorCode classifies an error for clients and logs.
type ErrorCode struct {
	Code        string // machine-readable code, e.g. AUTH_001
	Category    string // coarse category, e.g. Authentication
	SubCategory string
	Description string
}

var (
	// System errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Internal system error",
	}

	// Authentication errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Token verification error",
	}

	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Authorization",
		Description: "Caller lacks the required authorization",
	}

	// Validation errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Input data failed validation",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Data format error",
	}

	// Database errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "General database error",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Database connection error",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Database query error",
	}

	// Business logic errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Operation not permitted in the current state",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Business operation error",
	}
)

// Error is the structured error carried through services and handlers.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is supports errors.Is against sentinel *Error values by comparing codes.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return false
}

// NewError builds an *Error with full classification.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Sentinel errors.
var (
	// Authentication
	ErrTokenExpired = NewError(ErrCodeAuthToken, MsgTokenExpired, StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)
	ErrNotAdmin     = NewError(ErrCodeAuthRole, "Administrator access required", StatusForbidden, nil)

	// Validation
	ErrInvalidInput  = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Required field is missing", StatusBadRequest, nil)

	// Database
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Record not found", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Record already exists", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Database connection failed", StatusServiceUnavailable, nil)

	// Business logic
	ErrInvalidState        = NewError(ErrCodeBusinessState, "Invalid application state for this operation", StatusBadRequest, nil)
	ErrNoDecisionToRelease = NewError(ErrCodeBusinessState, "No internal decision marked to release", StatusBadRequest, nil)
)

// NewValidationError reports user input that failed validation before any
// write was attempted. details typically lists the offending fields.
func NewValidationError(message string, details any) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// NewStateError reports a lifecycle transition that is not permitted from the
// record's current status. No partial state change has occurred.
func NewStateError(message string) error {
	return NewError(ErrCodeBusinessState, message, StatusBadRequest, nil)
}

// ConvertMongoError maps a driver error onto the common taxonomy so callers
// only ever see *Error values.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, MsgDatabaseError, StatusServiceUnavailable, err.Error())
	}

	return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, err.Error())
}

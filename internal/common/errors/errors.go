package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"

	ErrCodeParticipantNotFound ErrorCode = "PARTICIPANT_NOT_FOUND"

	ErrCodeAssignmentInfeasible ErrorCode = "ASSIGNMENT_INFEASIBLE"

	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeTwilioAPI     ErrorCode = "TWILIO_API_ERROR"
)

// AppError is a typed application error carrying a code and an optional
// wrapped cause.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches structured context to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// NewParticipantNotFoundError reports an unknown participant phone.
func NewParticipantNotFoundError(phone string) *AppError {
	return New(ErrCodeParticipantNotFound, fmt.Sprintf("Participant not found: %s", phone)).
		WithDetail("phone", phone)
}

// NewDatabaseError reports a failed store operation.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Store operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewTwilioAPIError reports a failed Twilio API call.
func NewTwilioAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTwilioAPI, fmt.Sprintf("Twilio API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// IsNotFound reports whether err (or anything it wraps) is a not-found
// application error.
func IsNotFound(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == ErrCodeNotFound || appErr.Code == ErrCodeParticipantNotFound
}

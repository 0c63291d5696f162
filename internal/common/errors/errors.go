// Package errors provides standardized error codes for the dialog hook and the fulfillment pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnsupportedIntent ErrorCode = "UNSUPPORTED_INTENT"
	ErrCodeInvalidEvent      ErrorCode = "INVALID_EVENT"

	ErrCodeQueueUnavailable ErrorCode = "QUEUE_UNAVAILABLE"
	ErrCodeInvalidEnvelope  ErrorCode = "INVALID_ENVELOPE"

	ErrCodeSearchUnavailable ErrorCode = "SEARCH_UNAVAILABLE"
	ErrCodeNoCandidates      ErrorCode = "NO_CANDIDATES"

	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeRecordNotFound   ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so the sentinels below work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is; constructors below build the detailed values.
var (
	ErrValidationFailed       = &StandardError{Code: ErrCodeValidationFailed}
	ErrUnsupportedIntent      = &StandardError{Code: ErrCodeUnsupportedIntent}
	ErrInvalidEvent           = &StandardError{Code: ErrCodeInvalidEvent}
	ErrQueueUnavailable       = &StandardError{Code: ErrCodeQueueUnavailable}
	ErrInvalidEnvelope        = &StandardError{Code: ErrCodeInvalidEnvelope}
	ErrSearchUnavailable      = &StandardError{Code: ErrCodeSearchUnavailable}
	ErrStoreUnavailable       = &StandardError{Code: ErrCodeStoreUnavailable}
	ErrRecordNotFound         = &StandardError{Code: ErrCodeRecordNotFound}
	ErrNotificationSendFailed = &StandardError{Code: ErrCodeNotificationSendFailed}
)

func newError(code ErrorCode, message string, cause error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewValidationFailedError(field, message string) *StandardError {
	se := newError(ErrCodeValidationFailed, message, nil)
	se.Details = fmt.Sprintf("field: %s", field)
	se.Metadata = map[string]interface{}{"field": field}
	return se
}

func NewUnsupportedIntentError(intentName string) *StandardError {
	se := newError(ErrCodeUnsupportedIntent, "Intent with name "+intentName+" not supported", nil)
	se.Details = fmt.Sprintf("intentName: %s", intentName)
	return se
}

func NewInvalidEventError(err error) *StandardError {
	return newError(ErrCodeInvalidEvent, "Dialog event failed schema validation", err)
}

func NewQueueUnavailableError(op string, err error) *StandardError {
	se := newError(ErrCodeQueueUnavailable, "Queue "+op+" failed", err)
	se.Metadata = map[string]interface{}{"operation": op}
	return se
}

func NewInvalidEnvelopeError(err error) *StandardError {
	return newError(ErrCodeInvalidEnvelope, "Queue message could not be decoded", err)
}

func NewSearchUnavailableError(err error) *StandardError {
	return newError(ErrCodeSearchUnavailable, "Search index query failed", err)
}

func NewNoCandidatesError(cuisine string) *StandardError {
	se := newError(ErrCodeNoCandidates, "No candidates matched", nil)
	se.Details = fmt.Sprintf("cuisine: %s", cuisine)
	return se
}

func NewStoreUnavailableError(err error) *StandardError {
	return newError(ErrCodeStoreUnavailable, "Restaurant store lookup failed", err)
}

func NewRecordNotFoundError(restaurantID string) *StandardError {
	se := newError(ErrCodeRecordNotFound, "Restaurant record not found", nil)
	se.Details = fmt.Sprintf("restaurantId: %s", restaurantID)
	return se
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	se := newError(ErrCodeNotificationSendFailed, "Notification delivery failed", err)
	se.Metadata = map[string]interface{}{"channel": channel}
	return se
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the job retry count for an error code. The core never
// retries on its own; redelivery only comes from the queue's visibility timeout.
func GetRetryCount(code ErrorCode) int {
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: stdErr.Metadata,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether the failure is transient infrastructure trouble.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeQueueUnavailable, ErrCodeSearchUnavailable, ErrCodeStoreUnavailable, ErrCodeNotificationSendFailed:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch {
	case code == ErrCodeValidationFailed || code == ErrCodeUnsupportedIntent || code == ErrCodeInvalidEvent:
		return "dialog"
	case strings.HasPrefix(string(code), "QUEUE_") || code == ErrCodeInvalidEnvelope:
		return "queue"
	case strings.HasPrefix(string(code), "SEARCH_") || code == ErrCodeNoCandidates:
		return "search"
	case strings.HasPrefix(string(code), "STORE_") || code == ErrCodeRecordNotFound:
		return "store"
	case strings.HasPrefix(string(code), "NOTIFICATION_"):
		return "notification"
	}
	return "internal"
}

// AsStandardError unwraps err to a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return newError(ErrCodeInternal, "Unexpected error", err)
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	return AsStandardError(err).Code
}

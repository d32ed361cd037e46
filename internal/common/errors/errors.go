// Package errors provides the standardized error taxonomy shared by the HTTP API and the workflow workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode is a stable, machine readable error identifier.
type ErrorCode string

// Domain errors. None of these is retried.
const (
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidServiceType ErrorCode = "INVALID_SERVICE_TYPE"
	ErrCodeMissingWard        ErrorCode = "MISSING_WARD"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeMissingRecipient   ErrorCode = "MISSING_RECIPIENT"
)

// Technical errors.
const (
	ErrCodeDatabase               ErrorCode = "DATABASE_ERROR"
	ErrCodeSearch                 ErrorCode = "SEARCH_ERROR"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeExternalService        ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                ErrorCode = "TIMEOUT"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Field     string                 `json:"field,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError carrying the same code, so sentinel comparisons work
// through fmt.Errorf("%w") chains.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &StandardError{Code: ErrCodeValidation}
	ErrInvalidServiceType = &StandardError{Code: ErrCodeInvalidServiceType}
	ErrMissingWard        = &StandardError{Code: ErrCodeMissingWard}
	ErrUnauthorized       = &StandardError{Code: ErrCodeUnauthorized}
	ErrForbidden          = &StandardError{Code: ErrCodeForbidden}
	ErrNotFound           = &StandardError{Code: ErrCodeNotFound}
	ErrInvalidTransition  = &StandardError{Code: ErrCodeInvalidTransition}
	ErrConflict           = &StandardError{Code: ErrCodeConflict}
	ErrMissingRecipient   = &StandardError{Code: ErrCodeMissingRecipient}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for job fail/throw variables.
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports a missing or invalid field.
func NewValidationError(field, message string) *StandardError {
	e := newError(ErrCodeValidation, message, "", false)
	e.Field = field
	return e
}

// NewInvalidServiceTypeError reports a service type absent from the catalog.
func NewInvalidServiceTypeError(serviceType string) *StandardError {
	e := newError(ErrCodeInvalidServiceType, "Unknown service type", fmt.Sprintf("serviceType: %s", serviceType), false)
	e.Field = "service_type"
	return e
}

// NewMissingWardError reports a ward-level service submitted without a ward.
func NewMissingWardError(serviceType string) *StandardError {
	e := newError(ErrCodeMissingWard, "A ward is required for this service", fmt.Sprintf("serviceType: %s", serviceType), false)
	e.Field = "ward"
	return e
}

func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "Authentication required", details, false)
}

func NewForbiddenError(details string) *StandardError {
	return newError(ErrCodeForbidden, "Access denied", details, false)
}

// NewNotFoundError reports an unknown record, office or message id.
func NewNotFoundError(resource, id string) *StandardError {
	e := newError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), fmt.Sprintf("id: %s", id), false)
	e.Metadata = map[string]interface{}{"resource": resource, "id": id}
	return e
}

// NewInvalidTransitionError reports a lifecycle action that is not legal from the current status.
func NewInvalidTransitionError(from, action string) *StandardError {
	e := newError(ErrCodeInvalidTransition, "Transition not allowed", fmt.Sprintf("cannot %s from status %q", action, from), false)
	e.Metadata = map[string]interface{}{"from": from, "action": action}
	return e
}

// NewConflictError reports a write that lost a race against a concurrent update.
func NewConflictError(details string) *StandardError {
	return newError(ErrCodeConflict, "Record was modified concurrently", details, false)
}

func NewMissingRecipientError(details string) *StandardError {
	e := newError(ErrCodeMissingRecipient, "Recipient account could not be resolved", details, false)
	e.Field = "recipient_id"
	return e
}

func NewDatabaseError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabase, "Database error", fmt.Sprintf("operation: %s, error: %v", operation, err), true)
}

func NewSearchError(err error) *StandardError {
	return newError(ErrCodeSearch, "Search query failed", err.Error(), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Failed to send notification", fmt.Sprintf("channel: %s, error: %v", channel, err), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service %s failed", service), err.Error(), true)
}

func NewTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Operation %s timed out", operation), err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabase,
		ErrCodeSearch,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// HTTPStatus maps a code to the response status used by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidServiceType, ErrCodeMissingWard:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeMissingRecipient:
		return http.StatusUnprocessableEntity
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeExternalService, ErrCodeSearch, ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard extracts a StandardError from an error chain, wrapping anything else as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the code of the first StandardError in the chain, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return AsStandard(err).Code
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeInvalidServiceType || code == ErrCodeMissingWard:
		return "CATALOG"
	case code == ErrCodeUnauthorized || code == ErrCodeForbidden:
		return "AUTH"
	case code == ErrCodeInvalidTransition || code == ErrCodeConflict:
		return "LIFECYCLE"
	case code == ErrCodeMissingRecipient:
		return "MESSAGING"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION") || code == ErrCodeNotFound:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure raised by the task core
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindInvalidTimezone Kind = "INVALID_TIMEZONE"
	KindRepository      Kind = "REPOSITORY_ERROR"
	KindInvalidInput    Kind = "INVALID_INPUT"
	KindUnauthorized    Kind = "UNAUTHORIZED"
)

// ErrCodeInternalError is reported for errors that carry no Kind
const ErrCodeInternalError = "INTERNAL_ERROR"

// Messages that callers match on
const (
	MsgTaskNotFound           = "Task not found"
	MsgEventNotFound          = "Event not found"
	MsgTeamMemberTaskNotFound = "Team member task not found"
	MsgAlreadyAssigned        = "Team member already has this task assigned"
	MsgTaskIDTaken            = "Task id already exists"
)

// HTTPStatus returns the response status for a kind
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidTimezone, KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// DomainError is the error type returned by services
type DomainError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a bare kind sentinel of the same kind,
// or a DomainError with the same kind and message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Kind sentinels for errors.Is
var (
	ErrNotFound        = &DomainError{Kind: KindNotFound}
	ErrConflict        = &DomainError{Kind: KindConflict}
	ErrInvalidTimezone = &DomainError{Kind: KindInvalidTimezone}
	ErrRepository      = &DomainError{Kind: KindRepository}
	ErrInvalidInput    = &DomainError{Kind: KindInvalidInput}
)

// NotFound builds a NOT_FOUND error with the given message
func NotFound(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: message}
}

// Conflict builds a CONFLICT error
func Conflict(message string, cause error) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message, Cause: cause}
}

// InvalidTimezone reports an unrecognized timezone identifier
func InvalidTimezone(id string, cause error) *DomainError {
	return &DomainError{Kind: KindInvalidTimezone, Message: fmt.Sprintf("Invalid timezone %q", id), Cause: cause}
}

// Repository wraps a storage failure. Nil stays nil and domain errors pass through unchanged.
func Repository(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return &DomainError{Kind: KindRepository, Cause: err}
}

// InvalidInput reports a malformed request
func InvalidInput(message string) *DomainError {
	return &DomainError{Kind: KindInvalidInput, Message: message}
}

// Unauthorized reports a missing or rejected credential
func Unauthorized(message string) *DomainError {
	if message == "" {
		message = "Authentication required"
	}
	return &DomainError{Kind: KindUnauthorized, Message: message}
}

// KindOf returns the kind carried by err, or "" when err is not a DomainError
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError translates err into a JSON error response and aborts the request
func RespondWithError(c *gin.Context, err error) {
	var de *DomainError
	if !stderrors.As(err, &de) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, "Internal server error"))
		return
	}

	message := de.Message
	if de.Kind == KindRepository {
		// storage details stay in the logs
		message = "Internal server error"
	}
	c.AbortWithStatusJSON(de.Kind.HTTPStatus(), NewAPIError(string(de.Kind), message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, InvalidInput(message))
}

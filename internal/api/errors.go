package api

import (
	"errors"
	"fmt"
	"net/http"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response from the commerce backend. Message is the
// body's message (or error) field and may be empty.
type APIError struct {
	Status    int
	Message   string
	Code      string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Request failed with status code %d", e.Status)
	}
	return e.Message
}

// Is lets callers match on the status class with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func (e *APIError) ErrorType() customErrors.ErrorType {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return customErrors.ErrorTypeUnauthenticated
	case e.Status == http.StatusNotFound:
		return customErrors.ErrorTypeNotFound
	case e.Status >= http.StatusInternalServerError:
		return customErrors.ErrorTypeInternalServerError
	default:
		return customErrors.ErrorTypeBadRequest
	}
}

// errorBody covers both the Spring default error body and the
// {error, code, details} shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func newAPIError(status int, body errorBody, requestID string) *APIError {
	message := body.Message
	if message == "" {
		message = body.Error
	}
	return &APIError{
		Status:    status,
		Message:   message,
		Code:      body.Code,
		RequestID: requestID,
	}
}

// UserMessage picks the text shown to the user for a failed backend call:
// the backend's own message when it sent one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeUnauthenticated     ErrorType = "UNAUTHENTICATED"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeBadRequest          ErrorType = "BAD_REQUEST"
	ErrorTypeInvalidInput        ErrorType = "INVALID_INPUT"
	ErrorTypeProvider            ErrorType = "IDENTITY_PROVIDER"
	ErrorTypeNetwork             ErrorType = "NETWORK"
	ErrorTypeReconciliation      ErrorType = "RECONCILIATION"
	ErrorTypeDisabled            ErrorType = "DISABLED"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
)

type TypedError interface {
	error
	ErrorType() ErrorType
}

type typedError struct {
	err       error
	errorType ErrorType
}

func (e *typedError) Error() string        { return e.err.Error() }
func (e *typedError) ErrorType() ErrorType { return e.errorType }

func (e *typedError) Unwrap() error {
	return e.err
}

func NewTypedError(message string, code ErrorType) error {
	return &typedError{err: errors.New(message), errorType: code}
}

// Wrap attaches a type to an existing error while keeping it unwrappable.
func Wrap(err error, code ErrorType, message string, args ...any) error {
	if err == nil {
		return nil
	}
	return &typedError{err: fmt.Errorf(message+": %w", append(args, err)...), errorType: code}
}

// TypeOf reports the first ErrorType found in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var typedErr TypedError
	if errors.As(err, &typedErr) {
		return typedErr.ErrorType(), true
	}
	return "", false
}


package services

import (
	"errors"
	"fmt"

	"siwes-backend-go/internal/validation"
)

type ServiceError struct {
	Status  int
	Message string
	Details []validation.FieldError
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: 403, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

// ErrConflict covers duplicate keys and invalid state transitions.
func ErrConflict(msg string) error {
	return ServiceError{Status: 409, Message: msg}
}

func ErrValidation(details []validation.FieldError) error {
	return ServiceError{Status: 400, Message: "Validation failed", Details: details}
}

// AsServiceError unwraps err into a ServiceError if it is one.
func AsServiceError(err error) (ServiceError, bool) {
	var serr ServiceError
	if errors.As(err, &serr) {
		return serr, true
	}
	return ServiceError{}, false
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Package apperror defines the application's error kinds.
//
// Services return these; the HTTP layer maps them to status codes with
// errors.Is/errors.As. Every failure kind the API can surface has a
// sentinel here so callers never need to match on message strings.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrAnswerRequired     = errors.New("answer required")
	ErrForbidden          = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel cause
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateUser reports a registration attempt with an email that is
// already taken. The match is case-sensitive exact, same as the store's
// unique index.
func DuplicateUser(email string) *AppError {
	return &AppError{
		Err:     ErrDuplicateUser,
		Message: fmt.Sprintf("a user with email %s already exists", email),
		Field:   "email",
	}
}

// InvalidCredentials reports a failed login. The message deliberately does
// not say whether the email or the password was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

// AlreadyCheckedIn reports a second check-in on the same local day.
// Repeated same-day check-ins are rejected, not silently merged.
func AlreadyCheckedIn(habitID, date string) *AppError {
	return &AppError{
		Err:     ErrAlreadyCheckedIn,
		Message: fmt.Sprintf("habit %s is already checked in for %s", habitID, date),
	}
}

// AnswerRequired reports a check-in on a question-gated habit without a
// non-empty answer.
func AnswerRequired(habitID string) *AppError {
	return &AppError{
		Err:     ErrAnswerRequired,
		Message: fmt.Sprintf("habit %s requires a check-in answer", habitID),
		Field:   "answer",
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

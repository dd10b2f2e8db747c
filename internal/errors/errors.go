package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakline/internal/logger"
)

var (
	// ErrValidation marks client-side failures raised before any I/O
	ErrValidation = stderrors.New("validation failed")
	// ErrAlreadyCompleted is returned when a habit already has a completion today
	ErrAlreadyCompleted = fmt.Errorf("%w: habit already completed today", ErrValidation)
	// ErrNotFound is returned when a referenced habit or completion is absent from local state
	ErrNotFound = stderrors.New("not found")
	// ErrRemoteUnavailable wraps any failure calling the remote service
	ErrRemoteUnavailable = stderrors.New("remote service unavailable")
	// ErrSchemaMismatch means the remote collections do not have the expected attributes
	ErrSchemaMismatch = stderrors.New("database not configured: completion saved locally, please set up the remote collections and attributes")
	// ErrInvalidCredentials is returned when the remote service rejects a sign-in
	ErrInvalidCredentials = stderrors.New("invalid credentials")
	// ErrNotAuthenticated is returned when an operation needs a signed-in user
	ErrNotAuthenticated = stderrors.New("not signed in")
	// ErrHabitBusy is returned when a habit already has a remote call in flight
	ErrHabitBusy = stderrors.New("habit has an operation in flight")
)

// ValidationError describes a single invalid field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a ValidationError for the given field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Remote wraps err so that it matches ErrRemoteUnavailable while keeping the original chain.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteUnavailable, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

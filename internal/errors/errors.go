package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitline/internal/logger"
)

var (
	// ErrNotFound is returned when no habit matches a lookup
	ErrNotFound = stderrors.New("habit not found")
	// ErrAmbiguous is returned when a name or ID prefix matches more than one habit
	ErrAmbiguous = stderrors.New("habit reference is ambiguous")
	// ErrNotLoaded is returned by saves refused because the stored collection could not be read
	ErrNotLoaded = stderrors.New("stored habits could not be loaded, refusing to overwrite them")
)

// ValidationError reports user input that cannot be accepted. It is never
// fatal; callers surface Message next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failure of the persistence collaborator. Op is
// "load" or "save".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s habits: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsPersistence reports whether err is or wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return stderrors.As(err, &pe)
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
		logger.Close()
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	logger.Close()
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

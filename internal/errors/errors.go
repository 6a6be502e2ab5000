package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitlit/internal/logger"
)

var (
	// ErrNotFound is returned when a habit, mood entry or message does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrAlreadyExists is returned when creating a record whose unique key is taken
	ErrAlreadyExists = stderrors.New("already exists")
	// ErrNotInitialized is returned when the database has not been created yet
	ErrNotInitialized = stderrors.New("storage not initialized, run 'habitlit init' first")
	// ErrInvalidInput wraps validation failures on user supplied data
	ErrInvalidInput = stderrors.New("invalid input")
)

// Invalid wraps a validation message so callers can match it with errors.Is
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
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

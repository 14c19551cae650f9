package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why a removal failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorInvalidPath
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// RemovalError represents a detailed removal error
type RemovalError struct {
	ID       string
	Path     string
	Reason   ErrorReason
	Original error
}

// Error implements the error interface
func (e *RemovalError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// UserMessage returns a user-friendly error message
func (e *RemovalError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("File is being used: %s (close the application and try again)", e.Path)
	case ErrorFileNotFound:
		return fmt.Sprintf("Already removed: %s", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("Invalid or unsafe path: %s", e.Path)
	default:
		return fmt.Sprintf("Error removing %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized RemovalError
func CategorizeError(id, path string, err error) *RemovalError {
	if err == nil {
		return nil
	}

	re := &RemovalError{ID: id, Path: path, Original: err}

	switch {
	case os.IsPermission(err):
		re.Reason = ErrorPermissionDenied
	case os.IsNotExist(err):
		re.Reason = ErrorFileNotFound
	case errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY):
		re.Reason = ErrorFileInUse
	default:
		re.Reason = ErrorUnknown
	}

	return re
}

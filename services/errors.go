package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("you must be signed in")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrInvalidFileName = errors.New("invalid file name")
	ErrBlobMissing     = errors.New("uploaded file not found in storage")
	ErrStorageRefInUse = errors.New("upload is already registered to a file")
)

// PermissionError reports a mutation the caller is not allowed to make.
type PermissionError struct {
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("You don't have permission to %s", e.Action)
}

func denied(action string) error {
	return &PermissionError{Action: action}
}

// IsPermissionError reports whether err is or wraps a *PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound             = errors.New("resource not found")
	ErrConversationNotFound = fmt.Errorf("%w: conversation", ErrNotFound)
	ErrDatasetFileNotFound  = fmt.Errorf("%w: dataset file", ErrNotFound)

	// Validation errors
	ErrInvalidPreference = errors.New("invalid feedback preference")
	ErrEmptyDataset      = errors.New("dataset is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// IsNotFoundError reports whether err is any kind of not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package loaders

import (
	"errors"
	"fmt"
)

// Static error definitions for loaders to comply with linting rules

var (
	ErrFileRead        = errors.New("failed to read config file")
	ErrDecode          = errors.New("failed to decode config file")
	ErrMethodCallShape = errors.New("method call must be an object or a two-element array")
	ErrTagShape        = errors.New("tag must be an object with a name")
	ErrUnknownFormat   = errors.New("unsupported config file format")
)

// Helper functions to create wrapped errors with context
func wrapReadError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
}

func wrapDecodeError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
}

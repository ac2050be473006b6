package wirebox

import (
	"errors"
)

// Build errors
var (
	// Discovery errors
	ErrDiscoveryFailed  = errors.New("configuration discovery failed")
	ErrRootNotDirectory = errors.New("scan root is not a directory")

	// Resolution errors
	ErrLoadFailed          = errors.New("failed to load config file")
	ErrImportDepthExceeded = errors.New("import depth limit exceeded")

	// Definition errors
	ErrInvalidMethodName = errors.New("method name must be a non-empty identifier")
	ErrTagNotFound       = errors.New("tag not found")

	// Container errors
	ErrDefinitionNotFound   = errors.New("definition not found")
	ErrParameterNotFound    = errors.New("parameter not found")
	ErrParameterCastFailed  = errors.New("failed to cast parameter to expected type")
	ErrFactoryNotRegistered = errors.New("no factory registered for definition")
	ErrMethodNotFound       = errors.New("instance has no such method")
	ErrPropertyNotSettable  = errors.New("property cannot be set on instance")

	// Builder errors
	ErrObserverNil = errors.New("observer function is nil")

	// Watcher errors
	ErrWatcherAlreadyStarted = errors.New("watcher already started")
)

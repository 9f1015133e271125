package engine

import "errors"

var (
	// ErrStarted indicates Start was called on an engine past Uninitialized.
	ErrStarted = errors.New("engine: already started")

	// ErrDisposed indicates an operation on a disposed engine.
	ErrDisposed = errors.New("engine: disposed")

	// ErrBadConfig indicates generation parameters that cannot produce a scene.
	ErrBadConfig = errors.New("engine: invalid configuration")
)

package entities

import "errors"

var (
	// ErrNotFound - target selector, label or option matched nothing
	ErrNotFound = errors.New("not found")
	// ErrNotActionable - element exists but fails geometry or visibility checks
	ErrNotActionable = errors.New("not actionable")
	// ErrTimeout - a wait condition was not met within its budget
	ErrTimeout = errors.New("timeout")
	// ErrTransport - the browser provider itself is unreachable
	ErrTransport = errors.New("browser transport failure")
	// ErrProviderNotInitialized - a core call was made without a live provider
	ErrProviderNotInitialized = errors.New("browser provider not initialized")
)

package backend

import "errors"

var (
	// ErrClosed is returned when posting to a backend that was shut down.
	ErrClosed = errors.New("backend closed")

	// ErrQueueFull is returned when the event queue cannot take more events.
	ErrQueueFull = errors.New("event queue full")
)

package worker

import "errors"

var (
	// ErrQueueFull is returned by Submit when the queue has no room.
	// Callers surface it as backpressure rather than blocking the
	// submitting request.
	ErrQueueFull = errors.New("scan queue is full")

	// ErrPoolClosed is returned by Submit after Shutdown has begun.
	ErrPoolClosed = errors.New("worker pool is shut down")
)

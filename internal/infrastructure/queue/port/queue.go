package port

import (
	"context"
	"time"
)

// Task is a background job: a stable type name plus opaque payload bytes.
// Payload encoding belongs to the producer and consumer, not this port.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error requests a retry under the
// adapter's policy, so handlers must tolerate re-delivery.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes a single enqueue. Zero values mean "unspecified";
// adapters map what they support and ignore the rest.
type EnqueueOption struct {
	Queue     string        // logical queue name
	ProcessIn time.Duration // delay before processing
	ProcessAt time.Time     // absolute schedule time, wins over ProcessIn
	MaxRetry  int           // retry ceiling
	UniqueTTL time.Duration // dedupe window, if the backend supports it
	Retention time.Duration // how long to keep result metadata
	Deadline  time.Time     // hard processing deadline
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs the workers. Run blocks until the context is canceled or Stop
// is called.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}

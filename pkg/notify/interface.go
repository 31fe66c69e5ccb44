package notify

import "context"

// Builder queues messages and delivers them in one batch
type Builder interface {
	// Add queues a message for the next Send
	Add(msg Message)
	// Send delivers every queued message and returns how many were delivered
	Send(ctx context.Context) (int, error)
}

// Transport delivers a single message
type Transport interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Outbox queues messages and hands them to a transport on Send
type Outbox struct {
	transport Transport

	mu      sync.Mutex
	pending []Message
}

// NewOutbox creates an empty outbox delivering through transport
func NewOutbox(transport Transport) *Outbox {
	return &Outbox{transport: transport}
}

// Add queues msg for the next Send
func (o *Outbox) Add(msg Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, msg)
}

// Pending returns the number of queued messages
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Send empties the queue, trying every message once. It returns the number
// of delivered messages and an aggregate of the delivery errors.
func (o *Outbox) Send(ctx context.Context) (int, error) {
	o.mu.Lock()
	batch := o.pending
	o.pending = nil
	o.mu.Unlock()

	transport := o.transport.Name()
	sent := 0
	var errs []error
	for _, msg := range batch {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("message to %s not sent: %w", msg.Recipient.Email, err))
			messagesTotal.WithLabelValues(transport, resultFailed).Inc()
			continue
		}
		if err := o.transport.Deliver(ctx, msg); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"transport": transport,
				"recipient": msg.Recipient.Email,
			}).Error("Failed to deliver birthday message")
			errs = append(errs, fmt.Errorf("failed to deliver message to %s: %w", msg.Recipient.Email, err))
			messagesTotal.WithLabelValues(transport, resultFailed).Inc()
			continue
		}
		messagesTotal.WithLabelValues(transport, resultSent).Inc()
		sent++
	}
	logrus.WithFields(logrus.Fields{
		"transport": transport,
		"sent":      sent,
		"failed":    len(errs),
	}).Info("Birthday messages sent")
	return sent, utilerrors.NewAggregate(errs)
}

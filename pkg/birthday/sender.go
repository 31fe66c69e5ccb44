package birthday

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog"

	"github.com/openshift/birthday-bot/pkg/employee"
	"github.com/openshift/birthday-bot/pkg/notify"
)

// Sender greets every employee whose birthday is today
type Sender struct {
	employees employee.CollectionInterface
	builder   notify.Builder
	formatter *notify.Formatter
}

// NewSender creates a sender reading from employees and delivering through builder
func NewSender(employees employee.CollectionInterface, builder notify.Builder, formatter *notify.Formatter) *Sender {
	return &Sender{
		employees: employees,
		builder:   builder,
		formatter: formatter,
	}
}

// Send queues one message per employee born on today, flushes the builder and
// returns the number of messages delivered
func (s *Sender) Send(ctx context.Context, today time.Time) (int, error) {
	employees, err := s.employees.FindBornToday(today)
	if err != nil {
		return 0, fmt.Errorf("failed to find birthdays: %w", err)
	}
	klog.Infof("Found %d birthdays on %s", employees.Len(), employee.DateOf(today))

	// Nothing is queued unless every greeting renders.
	messages := make([]notify.Message, 0, employees.Len())
	for _, e := range employee.Sorted(employees) {
		msg, err := s.formatter.Format(e)
		if err != nil {
			return 0, err
		}
		messages = append(messages, msg)
	}
	for _, msg := range messages {
		s.builder.Add(msg)
	}
	return s.builder.Send(ctx)
}

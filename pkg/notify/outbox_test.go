package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/openshift/birthday-bot/pkg/employee"
)

// fakeTransport records deliveries and fails for the configured recipients
type fakeTransport struct {
	name string
	fail map[string]bool

	mu        sync.Mutex
	delivered []string
}

func (f *fakeTransport) Name() string {
	return f.name
}

func (f *fakeTransport) Deliver(_ context.Context, msg Message) error {
	if f.fail[msg.Recipient.Email] {
		return errors.New("mailbox full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, msg.Recipient.Email)
	return nil
}

func message(email string) Message {
	return Message{Subject: DefaultSubject, Body: "Happy birthday", Recipient: employee.Employee{Email: email}}
}

func TestOutboxSend(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{name: "fake-send"}
	outbox := NewOutbox(transport)
	outbox.Add(message("a@x.com"))
	outbox.Add(message("b@x.com"))

	if outbox.Pending() != 2 {
		t.Fatalf("expected 2 pending messages, got %d", outbox.Pending())
	}
	sent, err := outbox.Send(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 {
		t.Errorf("expected 2 messages sent, got %d", sent)
	}
	if diff := cmp.Diff([]string{"a@x.com", "b@x.com"}, transport.delivered); diff != "" {
		t.Errorf("unexpected deliveries (-want +got):\n%s", diff)
	}
	if outbox.Pending() != 0 {
		t.Errorf("expected an empty queue after send, got %d", outbox.Pending())
	}
	if got := testutil.ToFloat64(messagesTotal.WithLabelValues("fake-send", resultSent)); got != 2 {
		t.Errorf("expected sent counter 2, got %v", got)
	}

	sent, err = outbox.Send(context.Background())
	if err != nil || sent != 0 {
		t.Errorf("expected an empty second send, got %d %v", sent, err)
	}
}

func TestOutboxPartialFailure(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{name: "fake-partial", fail: map[string]bool{"b@x.com": true}}
	outbox := NewOutbox(transport)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		outbox.Add(message(email))
	}

	sent, err := outbox.Send(context.Background())
	if sent != 2 {
		t.Errorf("expected 2 messages sent, got %d", sent)
	}
	if err == nil {
		t.Fatal("expected a delivery error")
	}
	if diff := cmp.Diff([]string{"a@x.com", "c@x.com"}, transport.delivered); diff != "" {
		t.Errorf("unexpected deliveries (-want +got):\n%s", diff)
	}
	if got := testutil.ToFloat64(messagesTotal.WithLabelValues("fake-partial", resultFailed)); got != 1 {
		t.Errorf("expected failed counter 1, got %v", got)
	}
}

func TestOutboxCancelledContext(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{name: "fake-cancelled"}
	outbox := NewOutbox(transport)
	outbox.Add(message("a@x.com"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sent, err := outbox.Send(ctx)
	if sent != 0 || !errors.Is(err, context.Canceled) {
		t.Errorf("expected nothing sent and context.Canceled, got %d %v", sent, err)
	}
	if len(transport.delivered) != 0 {
		t.Errorf("expected no deliveries, got %v", transport.delivered)
	}
}

func TestOutboxConcurrentAdd(t *testing.T) {
	t.Parallel()
	outbox := NewOutbox(&fakeTransport{name: "fake-concurrent"})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outbox.Add(message("a@x.com"))
		}()
	}
	wg.Wait()
	sent, err := outbox.Send(context.Background())
	if err != nil || sent != 50 {
		t.Errorf("expected 50 messages sent, got %d %v", sent, err)
	}
}

func TestRegisterMetrics(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	if err := RegisterMetrics(registry); err != nil {
		t.Fatal(err)
	}
	if err := RegisterMetrics(registry); err == nil {
		t.Error("expected an error registering twice")
	}
}

func TestLogTransport(t *testing.T) {
	t.Parallel()
	transport := NewLogTransport(nil)
	if transport.Name() != "log" {
		t.Errorf("unexpected name %q", transport.Name())
	}
	if err := transport.Deliver(context.Background(), message("a@x.com")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

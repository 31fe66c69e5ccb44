package notify

import "github.com/prometheus/client_golang/prometheus"

const (
	resultSent   = "sent"
	resultFailed = "failed"
)

var messagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "birthday_bot_messages_total",
	Help: "Birthday messages handed to a transport, by transport and result.",
}, []string{"transport", "result"})

// RegisterMetrics registers the notification metrics with registerer
func RegisterMetrics(registerer prometheus.Registerer) error {
	return registerer.Register(messagesTotal)
}

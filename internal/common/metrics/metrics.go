package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts inbound commands after normalization.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snowman_commands_total",
			Help: "Number of inbound SMS commands processed, by command keyword",
		},
		[]string{"command"},
	)

	// AssignmentShuffles counts candidate permutations drawn by the
	// assignment engine, accepted or not.
	AssignmentShuffles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snowman_assignment_shuffles_total",
			Help: "Number of candidate permutations drawn during assignment runs",
		},
	)

	// OutboundMessages counts SMS handed to the sender.
	OutboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snowman_outbound_messages_total",
			Help: "Number of outbound SMS sends, by kind and result",
		},
		[]string{"kind", "status"}, // kind: intro or reminder; status: success or failure
	)
)

// RecordCommand records one processed inbound command.
func RecordCommand(command string) {
	CommandsTotal.WithLabelValues(command).Inc()
}

// RecordOutbound records one outbound send attempt.
func RecordOutbound(kind string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	OutboundMessages.WithLabelValues(kind, status).Inc()
}

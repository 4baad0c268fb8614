package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics counts approval decisions and lifecycle transitions.
type WorkflowMetrics struct {
	decisions   *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "efadmin_request_decisions_total",
		Help: "Approve/reject decisions by request kind and outcome.",
	}, []string{"kind", "decision", "outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "efadmin_status_transitions_total",
		Help: "Admin status transitions by resource and outcome.",
	}, []string{"resource", "outcome"})
	reg.MustRegister(decisions, transitions)
	return &WorkflowMetrics{decisions: decisions, transitions: transitions}
}

func (w *WorkflowMetrics) IncDecision(kind, decision string, ok bool) {
	if w == nil || w.decisions == nil {
		return
	}
	w.decisions.WithLabelValues(normalizeLabel(kind), normalizeLabel(decision), outcome(ok)).Inc()
}

func (w *WorkflowMetrics) IncTransition(resource string, ok bool) {
	if w == nil || w.transitions == nil {
		return
	}
	w.transitions.WithLabelValues(normalizeLabel(resource), outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

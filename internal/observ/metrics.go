package observ

import (
	"net/http"

	"github.com/lalith-99/practicedesk/internal/jobtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the intake counters on a private registry, so tests can
// build as many as they like without duplicate-registration panics.
//
// All methods are safe on a nil *Metrics, which is what tests pass when
// they don't care about counting.
type Metrics struct {
	registry     *prometheus.Registry
	tasksCreated *prometheus.CounterVec
	jobTypes     *prometheus.CounterVec
	notesCreated prometheus.Counter
	authFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tasksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_tasks_created_total",
			Help: "Tasks written by the Siri intake endpoint, by storage scope.",
		}, []string{"scope"}),
		jobTypes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_job_type_total",
			Help: "Normalised job types of created tasks, and whether the dictated text matched.",
		}, []string{"job_type", "matched"}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_notes_created_total",
			Help: "Firm notes written by the Siri intake endpoint.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_auth_failures_total",
			Help: "Rejected intake requests by credential failure reason.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(
		m.tasksCreated,
		m.jobTypes,
		m.notesCreated,
		m.authFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Start every known series at zero so a dashboard can tell "no BAS
	// tasks today" apart from "metric missing".
	for _, scope := range []string{"firm", "user"} {
		m.tasksCreated.WithLabelValues(scope)
	}
	for _, jt := range jobtype.All() {
		m.jobTypes.WithLabelValues(string(jt), "true")
	}
	m.jobTypes.WithLabelValues(string(jobtype.Other), "false")
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TaskCreated(scope, jobType string, matched bool) {
	if m == nil {
		return
	}
	m.tasksCreated.WithLabelValues(scope).Inc()
	label := "false"
	if matched {
		label = "true"
	}
	m.jobTypes.WithLabelValues(jobType, label).Inc()
}

func (m *Metrics) NoteCreated() {
	if m == nil {
		return
	}
	m.notesCreated.Inc()
}

func (m *Metrics) AuthFailed(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

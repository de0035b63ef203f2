package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for registration, enrollment and doorway
// verification. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registrations by result: "created", "invalid", "duplicate", "error"
	Registrations *prometheus.CounterVec

	// Enrollment task results: "succeeded", "timeout", "hardware", "error"
	Enrollments *prometheus.CounterVec

	// Participants deleted because another participant claimed their token
	TokenEvictions prometheus.Counter

	// Verification outcomes: "granted", "no_presence", "token_mismatch", "error"
	Verifications *prometheus.CounterVec

	// Time spent waiting for a token on the reader, by workflow
	ScanDuration *prometheus.HistogramVec
}

// New registers every metric on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "accessgate_registrations_total",
			Help: "Total registration attempts by result",
		}, []string{"result"}),

		Enrollments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "accessgate_enrollments_total",
			Help: "Total enrollment tasks by result",
		}, []string{"result"}),

		TokenEvictions: f.NewCounter(prometheus.CounterOpts{
			Name: "accessgate_token_evictions_total",
			Help: "Participants removed because their token was reassigned",
		}),

		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "accessgate_verifications_total",
			Help: "Total doorway verifications by outcome",
		}, []string{"outcome"}),

		ScanDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accessgate_scan_duration_seconds",
			Help:    "Duration of reader scans including time waiting for the reader lock",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"workflow"}),
	}
}

func (m *Metrics) IncRegistration(result string) {
	if m != nil {
		m.Registrations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncEnrollment(result string) {
	if m != nil {
		m.Enrollments.WithLabelValues(result).Inc()
	}
}

// AddEvictions records n evicted participants.
func (m *Metrics) AddEvictions(n int) {
	if m != nil && n > 0 {
		m.TokenEvictions.Add(float64(n))
	}
}

func (m *Metrics) IncVerification(outcome string) {
	if m != nil {
		m.Verifications.WithLabelValues(outcome).Inc()
	}
}

// ObserveScan records how long a reader scan took for workflow.
func (m *Metrics) ObserveScan(workflow string, d time.Duration) {
	if m != nil {
		m.ScanDuration.WithLabelValues(workflow).Observe(d.Seconds())
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"identify/internal/contact/models"
)

// Metrics provides observability for contact resolution.
type Metrics struct {
	IdentifyDuration  *prometheus.HistogramVec
	LockWaitDuration  prometheus.Histogram
	ContactsCreated   *prometheus.CounterVec
	MergesTotal       prometheus.Counter
	ContactsDemoted   prometheus.Counter
	ConsistencyFaults prometheus.Counter
}

// New registers the contact metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IdentifyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "identify_resolve_duration_seconds",
			Help:    "Duration of Identify operations by outcome",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"outcome"}),
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "identify_lock_wait_duration_seconds",
			Help:    "Time spent waiting for identifier locks",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ContactsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "identify_contacts_created_total",
			Help: "Contacts created, by link precedence",
		}, []string{"precedence"}),
		MergesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "identify_merges_total",
			Help: "Identity groups merged under an older primary",
		}),
		ContactsDemoted: factory.NewCounter(prometheus.CounterOpts{
			Name: "identify_contacts_demoted_total",
			Help: "Primary contacts demoted to secondary during merges",
		}),
		ConsistencyFaults: factory.NewCounter(prometheus.CounterOpts{
			Name: "identify_consistency_faults_total",
			Help: "Resolutions aborted because a group had no primary contact",
		}),
	}
}

// ObserveIdentify records one Identify call. Call with time.Now() at the start.
func (m *Metrics) ObserveIdentify(start time.Time, outcome string) {
	m.IdentifyDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if outcome == "consistency_fault" {
		m.ConsistencyFaults.Inc()
	}
}

// ObserveLockWait records how long identifier locks took to acquire.
func (m *Metrics) ObserveLockWait(start time.Time) {
	m.LockWaitDuration.Observe(time.Since(start).Seconds())
}

// RecordEvents counts committed changes.
func (m *Metrics) RecordEvents(events []models.ContactEvent) {
	for _, e := range events {
		switch e.Type {
		case models.EventContactCreated:
			m.ContactsCreated.WithLabelValues(string(e.LinkPrecedence)).Inc()
		case models.EventContactsMerged:
			m.MergesTotal.Inc()
			m.ContactsDemoted.Add(float64(len(e.DemotedIDs)))
		}
	}
}

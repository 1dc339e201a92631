package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdmissionsTotal     prometheus.Counter
	RejectionsTotal     *prometheus.CounterVec
	PinFailuresTotal    prometheus.Counter
	HeadcountMismatches prometheus.Counter
	TripsCompletedTotal prometheus.Counter
	RosterSize          prometheus.Gauge
}

// New registers the kiosk metrics with reg. Tests pass a fresh
// prometheus.NewRegistry so engine instances never collide.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AdmissionsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "kiosk_admissions_total",
			Help: "Total passengers admitted to the roster",
		}),
		RejectionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_rejections_total",
			Help: "Total boarding attempts rejected, by reason",
		}, []string{"reason"}),
		PinFailuresTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "kiosk_pin_failures_total",
			Help: "Total incorrect supervisor PIN submissions",
		}),
		HeadcountMismatches: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "kiosk_headcount_mismatches_total",
			Help: "Total headcount reconciliations that did not match the roster",
		}),
		TripsCompletedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "kiosk_trips_completed_total",
			Help: "Total trips completed and recorded",
		}),
		RosterSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "kiosk_roster_size",
			Help: "Passengers admitted for the current trip",
		}),
	}
}

func (m *Metrics) ObserveAdmission(rosterSize int) {
	m.AdmissionsTotal.Inc()
	m.RosterSize.Set(float64(rosterSize))
}

func (m *Metrics) ObserveRejection(reason string) {
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveTripComplete() {
	m.TripsCompletedTotal.Inc()
	m.RosterSize.Set(0)
}

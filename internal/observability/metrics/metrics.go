package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking wizard flows.
type BookingMetrics struct {
	sessionsStarted    prometheus.Counter
	bookingsCompleted  *prometheus.CounterVec
	intentsTotal       *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	snapshotRestores   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "booking",
			Name:      "sessions_started_total",
			Help:      "Total wizard sessions created",
		}),
		bookingsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "booking",
			Name:      "completed_total",
			Help:      "Total completed bookings by payment path",
		}, []string{"path"}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "payments",
			Name:      "intents_total",
			Help:      "Total payment intent creation attempts",
		}, []string{"status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "notify",
			Name:      "dispatch_total",
			Help:      "Total notification dispatch outcomes",
		}, []string{"kind", "status"}),
		snapshotRestores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "session",
			Name:      "snapshot_restores_total",
			Help:      "Snapshot restore outcomes after payment redirects",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.bookingsCompleted, m.intentsTotal, m.notificationsTotal, m.snapshotRestores)
	return m
}

func (m *BookingMetrics) ObserveSessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

// ObserveBookingCompleted records a terminal booking. Path is
// "etransfer" or "card".
func (m *BookingMetrics) ObserveBookingCompleted(path string) {
	if m == nil {
		return
	}
	m.bookingsCompleted.WithLabelValues(path).Inc()
}

func (m *BookingMetrics) ObserveIntent(status string) {
	if m == nil {
		return
	}
	m.intentsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveNotification(kind string, success bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !success {
		status = "failed"
	}
	m.notificationsTotal.WithLabelValues(kind, status).Inc()
}

// ObserveSnapshotRestore records a rehydration attempt. Outcome is
// "hit", "miss", or "error".
func (m *BookingMetrics) ObserveSnapshotRestore(outcome string) {
	if m == nil {
		return
	}
	m.snapshotRestores.WithLabelValues(outcome).Inc()
}

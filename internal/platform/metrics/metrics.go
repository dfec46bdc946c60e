package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	BabiesCreated        prometheus.Counter
	StorageWriteFailures prometheus.Counter
	ShareViewsServed     prometheus.Counter
	ShareLinksRejected   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		BabiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nestcare_babies_created_total",
			Help: "Total number of baby profiles created",
		}),
		StorageWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nestcare_storage_write_failures_total",
			Help: "Total number of failed writes of the persistence blob",
		}),
		ShareViewsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nestcare_share_views_served_total",
			Help: "Total number of read-only share views rendered",
		}),
		ShareLinksRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nestcare_share_links_rejected_total",
			Help: "Total number of share links rejected as invalid",
		}),
	}
}

// IncBabiesCreated increments the profile creation counter by 1.
func (m *Metrics) IncBabiesCreated() {
	if m != nil {
		m.BabiesCreated.Inc()
	}
}

// IncStorageWriteFailures increments the blob write failure counter by 1.
func (m *Metrics) IncStorageWriteFailures() {
	if m != nil {
		m.StorageWriteFailures.Inc()
	}
}

// IncShareViewsServed increments the share view counter by 1.
func (m *Metrics) IncShareViewsServed() {
	if m != nil {
		m.ShareViewsServed.Inc()
	}
}

// IncShareLinksRejected increments the invalid share link counter by 1.
func (m *Metrics) IncShareLinksRejected() {
	if m != nil {
		m.ShareLinksRejected.Inc()
	}
}

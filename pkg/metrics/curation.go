package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

const outcomeSuccess = "success"

// CurationMetrics counts media operations by outcome and times object store
// calls.
type CurationMetrics struct {
	operations  *prometheus.CounterVec
	objectStore *prometheus.HistogramVec
}

// NewCurationMetrics registers the curation metrics on the provided registerer.
func NewCurationMetrics(reg prometheus.Registerer) *CurationMetrics {
	if reg == nil {
		return &CurationMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_curation_operations_total",
		Help: "Media registry, gallery and tour operations by outcome.",
	}, []string{"operation", "outcome"})
	objectStore := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vault_object_store_duration_seconds",
		Help:    "Latency of object store calls in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation"})
	reg.MustRegister(operations, objectStore)
	return &CurationMetrics{operations: operations, objectStore: objectStore}
}

// Record counts one finished operation. Typed errors are labelled with their
// code, anything else as internal_error.
func (c *CurationMetrics) Record(operation string, err error) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), outcome(err)).Inc()
}

// ObserveObjectStore satisfies storage.DurationObserver.
func (c *CurationMetrics) ObserveObjectStore(operation string, d time.Duration) {
	if c == nil || c.objectStore == nil {
		return
	}
	c.objectStore.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return strings.ToLower(string(pkgerrors.CodeInternal))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

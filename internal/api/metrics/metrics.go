// Package metrics defines the custom Prometheus metrics of the account
// service. Metrics are registered with the default registry on import through
// promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Outcome label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential exchanges.
// Labels:
//   - operation: "login" or "refresh"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and refresh attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// RegistrationsTotal counts registration attempts that reached the service.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"result"},
)

// SubscriptionTogglesTotal counts subscription changes.
// Label:
//   - action: "subscribe" or "unsubscribe"
var SubscriptionTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscription_toggles_total",
		Help:      "Total number of subscription toggles, by resulting action.",
	},
	[]string{"action"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaUploadDuration measures single-object uploads to the media host.
var MediaUploadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_duration_seconds",
		Help:      "Duration of media uploads to the media host, by outcome.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"result"},
)

// StaleMediaDeletedTotal counts background deletions of replaced media.
var StaleMediaDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_media_deleted_total",
		Help:      "Total number of stale media deletions, by outcome.",
	},
	[]string{"result"},
)

// StaleMediaQueueDepth tracks pending deletions in each cleanup worker channel.
// Label:
//   - worker_id: numeric worker index
var StaleMediaQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stale_media_queue_depth",
		Help:      "Current number of media deletions pending in each cleanup worker channel.",
	},
	[]string{"worker_id"},
)

// StaleMediaDroppedTotal counts deletions discarded because the queue was full.
var StaleMediaDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_media_dropped_total",
		Help:      "Total number of stale media deletions dropped on a full queue.",
	},
)

// Result maps an error to the result label value.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

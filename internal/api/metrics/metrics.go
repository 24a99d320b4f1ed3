// Package metrics defines and registers all custom Prometheus metrics for the
// CRM console. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; /metrics serves them through promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm_console"

// ── Backend API metrics ───────────────────────────────────────────────────────

// APIRequestsTotal counts calls issued to the CRM backend.
// Labels:
//   - method: HTTP method of the outgoing call
//   - code: response status code, or "network_error" when no response arrived
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests sent to the CRM backend.",
	},
	[]string{"method", "code"},
)

// APIRequestDuration measures backend round-trip latency.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of requests sent to the CRM backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// APIUnauthorizedTotal counts 401 responses; each one clears stored credentials.
var APIUnauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_unauthorized_total",
		Help:      "Total number of 401 responses received from the CRM backend.",
	},
)

// ── Session and guard metrics ─────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle transitions.
// Label:
//   - event: "bootstrap_anonymous", "bootstrap_authenticated", "bootstrap_failed",
//     "login", "login_failed", "logout", "expire", "refresh"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle transitions, by event.",
	},
	[]string{"event"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "allow", "wait", or the redirect target (e.g. "/login")
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Write serializer metrics ──────────────────────────────────────────────────

// WriteQueueDepth tracks the number of mutations waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var WriteQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "write_queue_depth",
		Help:      "Current number of mutations pending in each serializer worker channel.",
	},
	[]string{"worker_id"},
)

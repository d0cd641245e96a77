// Package metrics defines and registers the portal's custom Prometheus
// metrics. HTTP request metrics come from the echoprometheus middleware; this
// package covers what that middleware cannot see.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

const namespace = "portal"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the back-office API.
// Labels:
//   - endpoint: logical call name (e.g. "deposits.list"), never a raw path
//   - outcome: "ok", "unauthorized", "forbidden", "not_found", "invalid",
//     "error", "unavailable" or "cancelled"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of back-office API calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// BackendRequestDuration measures back-office API latency.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of back-office API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session transitions.
// Labels:
//   - kind: "authenticated" or "cleared"
//   - reason: "logout", "unauthorized" or "" for sign-ins
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session transitions.",
	},
	[]string{"kind", "reason"},
)

// GuardRedirectsTotal counts navigations bounced by a route guard.
// Label:
//   - guard: "public_only", "require_auth" or "require_role"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of navigations redirected by a session guard.",
	},
	[]string{"guard"},
)

// DuplicateSubmitsTotal counts form posts rejected as replays.
var DuplicateSubmitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_submits_total",
		Help:      "Total number of form submissions rejected as duplicates.",
	},
	[]string{"form"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of session events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit writes.
// Label:
//   - result: "written", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of session events handled by the audit pipeline.",
	},
	[]string{"result"},
)

// ObserveSessionEvent counts a session transition. Subscribed to the session
// store at startup.
func ObserveSessionEvent(ev domain.SessionEvent) {
	SessionEventsTotal.WithLabelValues(string(ev.Kind), ev.Reason).Inc()
}

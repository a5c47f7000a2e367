// Package metrics defines the custom Prometheus metrics of the clientes API.
// It is the single source of truth for metric names, labels and help strings.
// HTTP request metrics come from echoprometheus and are wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clientes"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests on protected routes. Callers
// always receive the same 401 body; the reason is only visible here and in
// the logs.
// Label:
//   - reason: "missing_token", "invalid_token", "user_not_found", "user_inactive"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the bearer authenticator.",
	},
	[]string{"reason"},
)

// ── Customer metrics ──────────────────────────────────────────────────────────

// CustomerOperationsTotal counts customer CRUD calls.
// Labels:
//   - operation: "list", "get", "create", "update", "delete"
//   - outcome: "ok", "invalid", "not_found", "duplicate", "error"
var CustomerOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customer_operations_total",
		Help:      "Total number of customer operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

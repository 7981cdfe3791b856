// Package metrics defines all custom Prometheus metrics of the course
// platform API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kursownik"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer token checks.
// Label:
//   - result: "ok", "expired", "invalid", "invalid_format" or "unknown_user"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validations, by result.",
	},
	[]string{"result"},
)

// ── Forex metrics ─────────────────────────────────────────────────────────────

// RateFetchesTotal counts pulls of the upstream rate table.
// Label:
//   - result: "ok", "empty" or "upstream_error"
var RateFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_fetches_total",
		Help:      "Total number of exchange rate fetches, by result.",
	},
	[]string{"result"},
)

// RateFetchDuration measures a successful fetch including persistence.
var RateFetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rate_fetch_duration_seconds",
		Help:      "Duration of a successful exchange rate fetch.",
		Buckets:   prometheus.DefBuckets,
	},
)

// PurchasesTotal counts course purchases.
// Labels:
//   - currency: the currency the buyer paid in (e.g. "USD")
//   - result: "completed", "failed" or "in_progress"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of course purchases, by currency and result.",
	},
	[]string{"currency", "result"},
)

// ── Scheduler metrics ─────────────────────────────────────────────────────────

// SchedulerJobRunsTotal counts background job runs.
// Labels:
//   - job: the job name (e.g. "Daily Morning Fetch")
//   - result: "ok", "error" or "dropped"
var SchedulerJobRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_job_runs_total",
		Help:      "Total number of scheduled job runs, by job and result.",
	},
	[]string{"job", "result"},
)

// SchedulerJobDuration measures how long each job run takes.
var SchedulerJobDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduler_job_duration_seconds",
		Help:      "Duration of scheduled job runs.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"job"},
)

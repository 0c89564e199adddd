package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "api_requests_total", Help: "Handled API requests",
	}, []string{"route", "code"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "schoolapp", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})

	CheckinAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "checkin_accepted_total", Help: "Accepted check-ins",
	})
	CheckinRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "checkin_rejected_total", Help: "Rejected check-ins",
	}, []string{"reason"})

	SyncIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "sync_ingested_total", Help: "Remote documents upserted locally",
	})
	SyncUnresolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "sync_unresolved_total", Help: "Remote documents skipped: identity not resolved",
	})
	SyncAmbiguous = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "sync_ambiguous_total", Help: "Fallback matches with more than one roster candidate",
	})
	SyncPushed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "sync_pushed_total", Help: "Local writes propagated to the remote store",
	})
	SyncErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolapp", Name: "sync_errors_total", Help: "Sync transport errors",
	})
)

func init() {
	prometheus.MustRegister(
		APIRequests, HandlerErrors, DBPing,
		CheckinAccepted, CheckinRejected,
		SyncIngested, SyncUnresolved, SyncAmbiguous, SyncPushed, SyncErrors,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

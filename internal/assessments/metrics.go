package assessments

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analyzed documents.
	// Labels: kind, status
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steward",
			Subsystem: "assessments",
			Name:      "analyses_total",
			Help:      "Total number of analyzed documents by classifier kind and final status",
		},
		[]string{"kind", "status"},
	)

	// AnalysisFailures counts analyses that did not reach the ledger.
	AnalysisFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "steward",
			Subsystem: "assessments",
			Name:      "analysis_failures_total",
			Help:      "Total number of analyses that failed before an entry was appended",
		},
	)

	// AnalysisDuration tracks end-to-end analysis latency.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "steward",
			Subsystem: "assessments",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of document analysis including persistence in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// UnmatchedTotal counts documents where no classifier rule matched and
	// the permissive default applied.
	// Labels: kind
	UnmatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steward",
			Subsystem: "assessments",
			Name:      "unmatched_total",
			Help:      "Total number of documents classified by the default because no rule matched",
		},
		[]string{"kind"},
	)

	// EntriesAppended counts Golden Thread entries by action type.
	// Labels: action
	EntriesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steward",
			Subsystem: "assessments",
			Name:      "entries_appended_total",
			Help:      "Total number of Golden Thread entries appended by action type",
		},
		[]string{"action"},
	)

	// PublishFailures counts reminder and advisory events that could not be
	// published.
	// Labels: subject
	PublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steward",
			Subsystem: "assessments",
			Name:      "publish_failures_total",
			Help:      "Total number of notification publish failures by subject",
		},
		[]string{"subject"},
	)
)

package evaluator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCriteriaEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scorer",
		Name:      "criteria_evaluated_total",
		Help:      "Number of criteria that reached a terminal result.",
	})
	metricCriteriaFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scorer",
		Name:      "criteria_failed_total",
		Help:      "Number of criteria whose agent session failed to produce a result.",
	})
	metricToolCalls = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scorer",
		Name:      "tool_calls_total",
		Help:      "Number of analysis tool calls dispatched for agent sessions.",
	})
	metricChecklistIndicesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scorer",
		Name:      "checklist_indices_skipped_total",
		Help:      "Number of out-of-range checklist indices returned by agents and skipped during scoring.",
	})
)

func recordCriterionEvaluated() {
	metricCriteriaEvaluated.Inc()
}

func recordCriterionFailed() {
	metricCriteriaFailed.Inc()
}

func recordToolCall() {
	metricToolCalls.Inc()
}

func recordSkippedIndices(count int) {
	if count > 0 {
		metricChecklistIndicesSkipped.Add(float64(count))
	}
}

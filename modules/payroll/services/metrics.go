package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	rowsClassified *prometheus.CounterVec
	rowsCommitted  *prometheus.CounterVec
	runsTotal      *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		rowsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "rows_classified_total",
			Help:      "Total classified rows by resolution status.",
		}, []string{"status"}),
		rowsCommitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "rows_committed_total",
			Help:      "Total committed rows by result.",
		}, []string{"result"}),
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "runs_total",
			Help:      "Total import runs by phase reached.",
		}, []string{"phase"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "sld_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	diagramGenerateTotal   *prometheus.CounterVec
	diagramGenerateLatency *prometheus.HistogramVec
	diagramElements        *prometheus.HistogramVec

	diagramExportTotal   *prometheus.CounterVec
	diagramExportLatency *prometheus.HistogramVec

	boardSaveTotal *prometheus.CounterVec
)

// Init registers diagram metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		diagramGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "diagram_generate_total",
				Help: "Total diagram generate operations by kind and result",
			},
			[]string{"kind", "result"},
		)
		diagramGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "diagram_generate_latency_seconds",
				Help:    "Diagram generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "result"},
		)
		diagramElements = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "diagram_elements",
				Help:    "Elements per generated diagram",
				Buckets: prometheus.LinearBuckets(0, 8, 10),
			},
			[]string{"kind"},
		)

		diagramExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "diagram_export_total",
				Help: "Total diagram export operations by format and result",
			},
			[]string{"format", "result"},
		)
		diagramExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "diagram_export_latency_seconds",
				Help:    "Diagram export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		boardSaveTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "board_save_total",
				Help: "Total board save operations by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			diagramGenerateTotal,
			diagramGenerateLatency,
			diagramElements,
			diagramExportTotal,
			diagramExportLatency,
			boardSaveTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveDiagramGenerate records generate latency and result.
func ObserveDiagramGenerate(kind, result string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if diagramGenerateTotal != nil {
		diagramGenerateTotal.WithLabelValues(kind, result).Inc()
	}
	if diagramGenerateLatency != nil {
		diagramGenerateLatency.WithLabelValues(kind, result).Observe(duration.Seconds())
	}
}

// ObserveDiagramElements records the element count of a generated document.
func ObserveDiagramElements(kind string, count int) {
	if kind == "" {
		kind = "unknown"
	}
	if count < 0 {
		count = 0
	}
	if diagramElements != nil {
		diagramElements.WithLabelValues(kind).Observe(float64(count))
	}
}

// ObserveDiagramExport records export latency and result.
func ObserveDiagramExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if diagramExportTotal != nil {
		diagramExportTotal.WithLabelValues(format, result).Inc()
	}
	if diagramExportLatency != nil {
		diagramExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncBoardSave increments the board save counter.
func IncBoardSave(result string) {
	if result == "" {
		result = resultSuccess
	}
	if boardSaveTotal != nil {
		boardSaveTotal.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ous-demographics/internal/overlap"
)

// Config - параметры коллектора
type Config struct {
	Namespace      string
	EnableGoStats  bool
	DurationBucket []float64
}

// Collector экспортирует метрики расчетов пересечения в Prometheus
// и реализует overlap.Observer
type Collector struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	records    *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	partitions prometheus.Gauge
	cacheHits  *prometheus.CounterVec
}

var _ overlap.Observer = (*Collector)(nil)

// NewCollector создает коллектор с собственным реестром
func NewCollector(cfg Config) (*Collector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if cfg.DurationBucket == nil {
		cfg.DurationBucket = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 180, 600}
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "overlap",
			Name:      "runs_total",
			Help:      "Demographic overlap runs by mode and status.",
		}, []string{"mode", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "overlap",
			Name:      "run_duration_seconds",
			Help:      "Duration of demographic overlap runs.",
			Buckets:   cfg.DurationBucket,
		}, []string{"mode"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "overlap",
			Name:      "records_total",
			Help:      "Survey records processed.",
		}, []string{"mode"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "overlap",
			Name:      "records_skipped_total",
			Help:      "Survey records skipped by reason.",
		}, []string{"reason"}),
		partitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "overlap",
			Name:      "partitions",
			Help:      "Partitions used by the last run.",
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Result cache lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	c.registry.MustRegister(c.runs, c.duration, c.records, c.skipped, c.partitions, c.cacheHits)
	if cfg.EnableGoStats {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c, nil
}

func (c *Collector) RunCompleted(stats overlap.RunStats) {
	mode := string(stats.Mode)
	status := "ok"
	if stats.Err != nil {
		status = "error"
	}
	c.runs.WithLabelValues(mode, status).Inc()
	c.duration.WithLabelValues(mode).Observe(stats.Duration.Seconds())
	c.records.WithLabelValues(mode).Add(float64(stats.Records))
	c.partitions.Set(float64(stats.Partitions))
}

func (c *Collector) RecordSkipped(reason string) {
	c.skipped.WithLabelValues(reason).Inc()
}

// CacheLookup учитывает обращение к кешу результатов
func (c *Collector) CacheLookup(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.cacheHits.WithLabelValues(kind, outcome).Inc()
}

// Registry возвращает реестр (для тестов и дополнительных коллекторов)
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler отдает метрики в текстовом формате Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

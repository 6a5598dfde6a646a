package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Outcome labels for the backup run counter.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector owns the Prometheus metrics for a backup run. The tool exits
// after every run, so instead of serving /metrics it renders the registry
// into a textfile for the node_exporter textfile collector.
type Collector struct {
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  struct {
		backupTotal      *prometheus.CounterVec
		backupDuration   prometheus.Histogram
		backupSize       prometheus.Gauge
		retentionDeleted prometheus.Counter
		artifactCount    prometheus.Gauge
		storageBytes     prometheus.Gauge
	}
}

// NewCollector creates a collector with its own registry.
func NewCollector(logger *zap.Logger) *Collector {
	collector := &Collector{
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	collector.initializeMetrics()

	return collector
}

func (c *Collector) initializeMetrics() {
	c.metrics.backupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mysql_backup_total",
			Help: "Total number of backup runs by outcome",
		},
		[]string{"status"},
	)
	c.registry.MustRegister(c.metrics.backupTotal)

	c.metrics.backupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mysql_backup_duration_seconds",
		Help:    "Backup run duration",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	c.registry.MustRegister(c.metrics.backupDuration)

	c.metrics.backupSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mysql_backup_size_bytes",
		Help: "Size of the most recent backup artifact",
	})
	c.registry.MustRegister(c.metrics.backupSize)

	c.metrics.retentionDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mysql_backup_retention_deleted_total",
		Help: "Number of artifacts deleted by the retention policy",
	})
	c.registry.MustRegister(c.metrics.retentionDeleted)

	c.metrics.artifactCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mysql_backup_artifacts",
		Help: "Artifacts present in the storage directory after the run",
	})
	c.registry.MustRegister(c.metrics.artifactCount)

	c.metrics.storageBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mysql_backup_storage_bytes",
		Help: "Cumulative size of the storage directory after the run",
	})
	c.registry.MustRegister(c.metrics.storageBytes)
}

// Metric update methods for each metric type
func (c *Collector) IncBackupTotal(status string) {
	c.metrics.backupTotal.WithLabelValues(status).Inc()
}

func (c *Collector) ObserveBackupDuration(seconds float64) {
	c.metrics.backupDuration.Observe(seconds)
}

func (c *Collector) SetBackupSize(bytes int64) {
	c.metrics.backupSize.Set(float64(bytes))
}

func (c *Collector) AddRetentionDeleted(count int) {
	c.metrics.retentionDeleted.Add(float64(count))
}

func (c *Collector) SetArtifactCount(count int) {
	c.metrics.artifactCount.Set(float64(count))
}

func (c *Collector) SetStorageBytes(bytes int64) {
	c.metrics.storageBytes.Set(float64(bytes))
}

// WriteTextfile renders all metrics in the Prometheus text exposition
// format, atomically replacing the file at path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	c.logger.Info("Wrote metrics textfile", zap.String("path", path))
	return nil
}

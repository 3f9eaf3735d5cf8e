package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1 << 20

// EnableMemoryStatistics starts a goroutine that periodically logs memory
// and goroutine usage of the process. When the context is canceled, the
// metrics gathered by the default Prometheus registry are dumped to a file
// in the given directory.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, datadir string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logMemoryStatistics()
			case <-ctx.Done():
				if err := dumpMetrics(datadir); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

func logMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.WithFields(log.Fields{
		"heap_alloc_mb":  memStats.HeapAlloc / megabyte,
		"total_alloc_mb": memStats.TotalAlloc / megabyte,
		"goroutines":     runtime.NumGoroutine(),
	}).Info("runtime statistics")
}

func dumpMetrics(datadir string) error {
	file, err := os.OpenFile(
		filepath.Join(datadir, "stats"),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	for _, mf := range metricFamilies {
		if _, err := writer.WriteString(mf.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

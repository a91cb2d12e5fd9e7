// Package logger provides data-source logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SourceLogger provides dedicated logging for F1 data source operations.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new data source logger.
func NewSourceLogger(baseLogger *logrus.Logger) *SourceLogger {
	return &SourceLogger{
		Entry: baseLogger.WithField("component", "datasource"),
	}
}

// LogFetch logs a completed fetch from an upstream source.
func (sl *SourceLogger) LogFetch(source, operation string, durationMs float64, fromCache bool) {
	sl.WithFields(logrus.Fields{
		"source":      source,
		"operation":   operation,
		"duration_ms": durationMs,
		"from_cache":  fromCache,
	}).Info("Fetch completed")
}

// LogFallback logs a fall through from one source tier to the next.
func (sl *SourceLogger) LogFallback(operation, fromSource, toSource string, reason error) {
	sl.WithFields(logrus.Fields{
		"operation":   operation,
		"from_source": fromSource,
		"to_source":   toSource,
	}).WithError(reason).Warn("Source failed, falling back")
}

// LogStaticServed logs that the static last-resort dataset answered a query.
func (sl *SourceLogger) LogStaticServed(operation string) {
	sl.WithFields(logrus.Fields{
		"operation": operation,
		"source":    "static",
	}).Warn("Serving static fallback data")
}

// LogSnapshotStored logs persistence of an upstream payload to the snapshot store.
func (sl *SourceLogger) LogSnapshotStored(operation, source string, payloadBytes int) {
	sl.WithFields(logrus.Fields{
		"operation":     operation,
		"source":        source,
		"payload_bytes": payloadBytes,
	}).Debug("Snapshot stored")
}

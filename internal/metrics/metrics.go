package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application-wide counters for the localization service
type Metrics struct {
	startTime time.Time

	// HTTP request metrics
	httpRequestsTotal   atomic.Int64
	httpRequestsSuccess atomic.Int64
	httpRequestsError   atomic.Int64
	httpLatencySum      atomic.Int64 // microseconds
	httpLatencyCount    atomic.Int64

	// Localization metrics
	localizeBatchesTotal    atomic.Int64
	localizeTimestampsTotal atomic.Int64
	localizeErrorsTotal     atomic.Int64
	localizeSentinelsTotal  atomic.Int64
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			startTime: time.Now(),
		}
	})
	return instance
}

// IncHTTPRequests increments the total HTTP request counter
func (m *Metrics) IncHTTPRequests() { m.httpRequestsTotal.Add(1) }

// IncHTTPSuccess increments the successful HTTP request counter
func (m *Metrics) IncHTTPSuccess() { m.httpRequestsSuccess.Add(1) }

// IncHTTPError increments the failed HTTP request counter
func (m *Metrics) IncHTTPError() { m.httpRequestsError.Add(1) }

// RecordHTTPLatency records one request latency in microseconds
func (m *Metrics) RecordHTTPLatency(us int64) {
	m.httpLatencySum.Add(us)
	m.httpLatencyCount.Add(1)
}

// RecordBatch records one completed localization batch
func (m *Metrics) RecordBatch(timestamps, sentinels int) {
	m.localizeBatchesTotal.Add(1)
	m.localizeTimestampsTotal.Add(int64(timestamps))
	m.localizeSentinelsTotal.Add(int64(sentinels))
}

// IncLocalizeErrors increments the failed batch counter
func (m *Metrics) IncLocalizeErrors() { m.localizeErrorsTotal.Add(1) }

// Snapshot returns all counters as a map for the metrics endpoint
func (m *Metrics) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds":            time.Since(m.startTime).Seconds(),
		"http_requests_total":       m.httpRequestsTotal.Load(),
		"http_requests_success":     m.httpRequestsSuccess.Load(),
		"http_requests_error":       m.httpRequestsError.Load(),
		"http_latency_sum_us":       m.httpLatencySum.Load(),
		"http_latency_count":        m.httpLatencyCount.Load(),
		"localize_batches_total":    m.localizeBatchesTotal.Load(),
		"localize_timestamps_total": m.localizeTimestampsTotal.Load(),
		"localize_errors_total":     m.localizeErrorsTotal.Load(),
		"localize_sentinels_total":  m.localizeSentinelsTotal.Load(),
	}
}

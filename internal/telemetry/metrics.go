// Package telemetry provides in-process metrics collection for the
// summarization pipeline.
package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MetricsCollector provides a thread-safe interface for collecting
// application metrics for monitoring and troubleshooting.
type MetricsCollector struct {
	counters   map[string]int64
	gauges     map[string]float64
	timers     map[string][]time.Duration
	latestTime map[string]time.Time
	mu         sync.RWMutex
}

// Metric names recorded by the dispatcher and the inbound surfaces
const (
	MetricRequests         = "summarizer.requests"
	MetricTruncatedInputs  = "summarizer.truncated_inputs"
	MetricContentChars     = "summarizer.content_chars"
	MetricAPICallsSuccess  = "summarizer.api_calls.success"
	MetricAPICallsFailure  = "summarizer.api_calls.failure"
	MetricTotalTime        = "summarizer.total_time"
	MetricLastSuccess      = "summarizer.last_success"
	MetricLastFailure      = "summarizer.last_failure"
	MetricExtractRequests  = "extract.requests"
	MetricExtractFailures  = "extract.failures"
	MetricExtractTime      = "extract.fetch_time"
	MetricSettingsSaves    = "settings.saves"
	MetricSettingsLoadTime = "settings.load_time"

	apiCallsPrefix     = "summarizer.api_calls."
	responseTimePrefix = "summarizer.response_time."
	errorKindPrefix    = "summarizer.errors."
)

// MetricAPICalls returns the per-provider call counter name
func MetricAPICalls(provider string) string {
	return apiCallsPrefix + provider
}

// MetricResponseTime returns the per-provider response time timer name
func MetricResponseTime(provider string) string {
	return responseTimePrefix + provider
}

// MetricErrorKind returns the counter name for one error kind
func MetricErrorKind(kind string) string {
	return errorKindPrefix + kind
}

// NewMetricsCollector creates a new MetricsCollector instance
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		timers:     make(map[string][]time.Duration),
		latestTime: make(map[string]time.Time),
	}
}

// IncrementCounter increments a named counter by the specified amount
func (m *MetricsCollector) IncrementCounter(name string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += amount
}

// SetGauge sets a named gauge to the specified value
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gauges[name] = value
}

// RecordTimer records a duration for the specified timer. Only the most
// recent 100 samples are kept.
func (m *MetricsCollector) RecordTimer(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timers[name] = append(m.timers[name], duration)
	if len(m.timers[name]) > 100 {
		m.timers[name] = m.timers[name][1:]
	}
}

// RecordTimestamp records the current time for the specified event
func (m *MetricsCollector) RecordTimestamp(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latestTime[name] = time.Now()
}

// GetCounter retrieves the current value of a counter
func (m *MetricsCollector) GetCounter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counters[name]
}

// CountersWithPrefix returns every counter whose name starts with prefix,
// keyed by the remainder of the name.
func (m *MetricsCollector) CountersWithPrefix(prefix string) map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int64)
	for name, v := range m.counters {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			out[rest] = v
		}
	}
	return out
}

// ErrorCounts returns the per-kind error counters
func (m *MetricsCollector) ErrorCounts() map[string]int64 {
	return m.CountersWithPrefix(errorKindPrefix)
}

// GetTimerAverage calculates the average duration for a timer
func (m *MetricsCollector) GetTimerAverage(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return average(m.timers[name])
}

// GetTimerP95 calculates the 95th percentile duration for a timer
func (m *MetricsCollector) GetTimerP95(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return p95(m.timers[name])
}

// GetTimeSince calculates the time elapsed since a recorded timestamp
func (m *MetricsCollector) GetTimeSince(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	timestamp, exists := m.latestTime[name]
	if !exists {
		return 0
	}

	return time.Since(timestamp)
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

func p95(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)) * 0.95)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetReport generates a report of all collected metrics, sorted by name
func (m *MetricsCollector) GetReport() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Metrics Report:\n")
	b.WriteString("==============\n\n")

	b.WriteString("Counters:\n")
	for _, name := range sortedKeys(m.counters) {
		fmt.Fprintf(&b, "  %s: %d\n", name, m.counters[name])
	}

	b.WriteString("\nGauges:\n")
	for _, name := range sortedKeys(m.gauges) {
		fmt.Fprintf(&b, "  %s: %.2f\n", name, m.gauges[name])
	}

	b.WriteString("\nTimers (avg):\n")
	for _, name := range sortedKeys(m.timers) {
		durations := m.timers[name]
		fmt.Fprintf(&b, "  %s: avg=%v p95=%v count=%d\n",
			name, average(durations), p95(durations), len(durations))
	}

	b.WriteString("\nTime Since:\n")
	for _, name := range sortedKeys(m.latestTime) {
		timestamp := m.latestTime[name]
		fmt.Fprintf(&b, "  %s: %v ago (%s)\n",
			name, time.Since(timestamp).Round(time.Millisecond), timestamp.Format(time.RFC3339))
	}

	return b.String()
}

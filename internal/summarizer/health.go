package summarizer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/telemetry"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// StatusHealthy indicates the active provider is configured and calls succeed
	StatusHealthy HealthStatus = "healthy"

	// StatusDegraded indicates most recent provider calls are failing
	StatusDegraded HealthStatus = "degraded"

	// StatusUnhealthy indicates no request can succeed with the current settings
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthReport describes the summarizer's readiness. It is computed from
// settings and recorded metrics only; no provider is contacted.
type HealthReport struct {
	Status               HealthStatus       `json:"status"`
	Timestamp            time.Time          `json:"timestamp"`
	ActiveProvider       string             `json:"active_provider"`
	CredentialConfigured bool               `json:"credential_configured"`
	ProvidersConfigured  map[string]bool    `json:"providers_configured"`
	SuccessRate          float64            `json:"success_rate"`
	TotalRequests        int64              `json:"total_requests"`
	ResponseTimes        map[string]float64 `json:"response_times_ms"`
	ResponseTimesP95     map[string]float64 `json:"response_times_p95_ms"`
	SinceLastSuccess     float64            `json:"since_last_success_ms,omitempty"`
	SinceLastFailure     float64            `json:"since_last_failure_ms,omitempty"`
	ErrorsByKind         map[string]int64   `json:"errors_by_kind"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// CreateHealthReport generates a health report from metrics and snapshot
func CreateHealthReport(m *telemetry.MetricsCollector, snapshot settings.Settings) (*HealthReport, error) {
	if m == nil {
		return nil, fmt.Errorf("metrics collector is nil")
	}

	configured := make(map[string]bool, len(settings.Kinds))
	responseTimes := make(map[string]float64, len(settings.Kinds)+1)
	responseTimesP95 := make(map[string]float64, len(settings.Kinds)+1)
	for _, kind := range settings.Kinds {
		cfg, _ := snapshot.Provider(kind)
		configured[string(kind)] = cfg.APIKey != ""
		timer := telemetry.MetricResponseTime(string(kind))
		responseTimes[string(kind)] = millis(m.GetTimerAverage(timer))
		responseTimesP95[string(kind)] = millis(m.GetTimerP95(timer))
	}
	responseTimes["total"] = millis(m.GetTimerAverage(telemetry.MetricTotalTime))
	responseTimesP95["total"] = millis(m.GetTimerP95(telemetry.MetricTotalTime))

	active, activeCfg, known := snapshot.Active()
	credential := known && activeCfg.APIKey != ""

	totalSuccess := m.GetCounter(telemetry.MetricAPICallsSuccess)
	totalFailure := m.GetCounter(telemetry.MetricAPICallsFailure)
	totalRequests := totalSuccess + totalFailure

	var successRate float64
	if totalRequests > 0 {
		successRate = float64(totalSuccess) / float64(totalRequests) * 100.0
	}

	status := StatusHealthy
	switch {
	case !credential:
		status = StatusUnhealthy
	case totalRequests > 0 && successRate < 50:
		status = StatusDegraded
	}

	return &HealthReport{
		Status:               status,
		Timestamp:            time.Now(),
		ActiveProvider:       string(active),
		CredentialConfigured: credential,
		ProvidersConfigured:  configured,
		SuccessRate:          successRate,
		TotalRequests:        totalRequests,
		ResponseTimes:        responseTimes,
		ResponseTimesP95:     responseTimesP95,
		SinceLastSuccess:     millis(m.GetTimeSince(telemetry.MetricLastSuccess)),
		SinceLastFailure:     millis(m.GetTimeSince(telemetry.MetricLastFailure)),
		ErrorsByKind:         m.ErrorCounts(),
	}, nil
}

// CreateHealthReportJSON generates an indented JSON health report
func CreateHealthReportJSON(m *telemetry.MetricsCollector, snapshot settings.Settings) (string, error) {
	report, err := CreateHealthReport(m, snapshot)
	if err != nil {
		return "", err
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal health report: %w", err)
	}

	return string(reportJSON), nil
}

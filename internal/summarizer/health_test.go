package summarizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/telemetry"
)

func TestCreateHealthReport(t *testing.T) {
	m := telemetry.NewMetricsCollector()
	m.IncrementCounter(telemetry.MetricAPICallsSuccess, 80)
	m.IncrementCounter(telemetry.MetricAPICallsFailure, 20)
	m.IncrementCounter(telemetry.MetricErrorKind("provider_returned_error"), 20)
	m.RecordTimer(telemetry.MetricResponseTime("openai"), 500*time.Millisecond)

	report, err := CreateHealthReport(m, snapshotWith(settings.ProviderOpenAI, "sk"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if report.Status != StatusHealthy {
		t.Errorf("Expected status to be healthy, got %s", report.Status)
	}
	if report.TotalRequests != 100 {
		t.Errorf("Expected 100 total requests, got %d", report.TotalRequests)
	}
	if report.SuccessRate != 80.0 {
		t.Errorf("Expected 80%% success rate, got %.1f%%", report.SuccessRate)
	}
	if report.ActiveProvider != "openai" || !report.CredentialConfigured {
		t.Errorf("Expected configured openai, got %s (%v)", report.ActiveProvider, report.CredentialConfigured)
	}
	if !report.ProvidersConfigured["openai"] || report.ProvidersConfigured["gemini"] {
		t.Errorf("Unexpected providers configured: %v", report.ProvidersConfigured)
	}
	if report.ResponseTimes["openai"] != 500 {
		t.Errorf("Expected openai response time 500ms, got %v", report.ResponseTimes["openai"])
	}
	if report.ErrorsByKind["provider_returned_error"] != 20 {
		t.Errorf("Expected 20 provider errors, got %v", report.ErrorsByKind)
	}
}

func TestCreateHealthReportPercentilesAndRecency(t *testing.T) {
	m := telemetry.NewMetricsCollector()
	for i := 1; i <= 20; i++ {
		m.RecordTimer(telemetry.MetricResponseTime("gemini"), time.Duration(i)*10*time.Millisecond)
	}

	report, _ := CreateHealthReport(m, snapshotWith(settings.ProviderGemini, "g"))
	if report.ResponseTimesP95["gemini"] != 200 {
		t.Errorf("Expected gemini p95 of 200ms, got %v", report.ResponseTimesP95["gemini"])
	}
	if report.SinceLastSuccess != 0 || report.SinceLastFailure != 0 {
		t.Errorf("Expected no recency before any call, got %v / %v", report.SinceLastSuccess, report.SinceLastFailure)
	}

	m.RecordTimestamp(telemetry.MetricLastSuccess)
	report, _ = CreateHealthReport(m, snapshotWith(settings.ProviderGemini, "g"))
	if report.SinceLastSuccess <= 0 {
		t.Errorf("Expected time since last success to be recorded")
	}
	if report.SinceLastFailure != 0 {
		t.Errorf("Expected no failure recency, got %v", report.SinceLastFailure)
	}
}

func TestCreateHealthReportStatus(t *testing.T) {
	m := telemetry.NewMetricsCollector()

	report, _ := CreateHealthReport(m, snapshotWith(settings.ProviderGemini, ""))
	if report.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy without credential, got %s", report.Status)
	}

	bogus := snapshotWith(settings.ProviderOpenAI, "sk")
	bogus.APIType = "bogus"
	report, _ = CreateHealthReport(m, bogus)
	if report.Status != StatusUnhealthy || report.CredentialConfigured {
		t.Errorf("Expected unhealthy for unknown provider, got %s", report.Status)
	}

	m.IncrementCounter(telemetry.MetricAPICallsSuccess, 1)
	m.IncrementCounter(telemetry.MetricAPICallsFailure, 3)
	report, _ = CreateHealthReport(m, snapshotWith(settings.ProviderGemini, "g"))
	if report.Status != StatusDegraded {
		t.Errorf("Expected degraded with mostly failing calls, got %s", report.Status)
	}
}

func TestCreateHealthReportNilMetrics(t *testing.T) {
	if _, err := CreateHealthReport(nil, settings.Defaults()); err == nil {
		t.Errorf("Expected error for nil metrics")
	}
}

func TestCreateHealthReportJSON(t *testing.T) {
	m := telemetry.NewMetricsCollector()
	out, err := CreateHealthReportJSON(m, snapshotWith(settings.ProviderDeepSeek, "d"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	for _, key := range []string{"status", "timestamp", "active_provider", "credential_configured", "providers_configured", "success_rate", "total_requests", "response_times_ms", "errors_by_kind"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in health JSON", key)
		}
	}
}

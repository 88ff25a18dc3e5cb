package summarizer

import (
	"context"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/summarizer/providers"
	"github.com/localrivet/pagesummary/internal/telemetry"
	"github.com/localrivet/pagesummary/internal/util"
)

// ProviderSource resolves the adapter for a provider kind.
type ProviderSource interface {
	Get(kind settings.ProviderKind) (providers.Adapter, bool)
}

// DispatcherConfig holds optional Dispatcher collaborators
type DispatcherConfig struct {
	// TruncationLimit overrides DefaultTruncationLimit when positive
	TruncationLimit int
	Metrics         *telemetry.MetricsCollector
	Logger          *slog.Logger
}

// Dispatcher sends one summarization request to the provider selected in a
// settings snapshot. It holds no per-request state and is safe for
// concurrent use.
type Dispatcher struct {
	source          ProviderSource
	truncationLimit int
	metrics         *telemetry.MetricsCollector
	logger          *slog.Logger
}

// NewDispatcher creates a Dispatcher over source. A nil config uses defaults.
func NewDispatcher(source ProviderSource, config *DispatcherConfig) *Dispatcher {
	if config == nil {
		config = &DispatcherConfig{}
	}

	d := &Dispatcher{
		source:          source,
		truncationLimit: config.TruncationLimit,
		metrics:         config.Metrics,
		logger:          config.Logger,
	}
	if d.truncationLimit <= 0 {
		d.truncationLimit = DefaultTruncationLimit
	}
	if d.metrics == nil {
		d.metrics = telemetry.NewMetricsCollector()
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d.logger = d.logger.With("component", "dispatcher")
	return d
}

// Metrics returns the collector this dispatcher records into
func (d *Dispatcher) Metrics() *telemetry.MetricsCollector {
	return d.metrics
}

// GetSummary truncates the content, builds the instruction, resolves the
// active provider from snapshot and performs exactly one provider call.
// Configuration problems are reported before any network activity. Adapter
// errors are returned unchanged.
func (d *Dispatcher) GetSummary(ctx context.Context, req SummaryRequest, snapshot settings.Settings) (SummaryResult, error) {
	start := time.Now()
	requestID := uuid.NewString()
	d.metrics.IncrementCounter(telemetry.MetricRequests, 1)
	d.metrics.SetGauge(telemetry.MetricContentChars, float64(utf8.RuneCountInString(req.Content)))

	content, truncated := truncate(req.Content, d.truncationLimit)
	if truncated {
		d.metrics.IncrementCounter(telemetry.MetricTruncatedInputs, 1)
	}
	instruction := BuildPrompt(req.Style, req.SourceURL)

	log := d.logger.With(
		"request_id", requestID,
		"provider", string(snapshot.APIType),
		"style", string(req.Style),
	)

	kind, cfg, ok := snapshot.Active()
	if !ok {
		return SummaryResult{}, d.fail(log, errortypes.InvalidProviderSelection(string(kind)))
	}
	adapter, ok := d.source.Get(kind)
	if !ok {
		return SummaryResult{}, d.fail(log, errortypes.InvalidProviderSelection(string(kind)))
	}
	if cfg.APIKey == "" {
		return SummaryResult{}, d.fail(log, errortypes.MissingCredential(kind.DisplayName()))
	}

	model := cfg.Model
	if model == "" {
		model = kind.DefaultModel()
	}
	log = log.With("model", model)

	log.Debug("dispatching summary request",
		"content_chars", utf8.RuneCountInString(req.Content),
		"content_fingerprint", util.Fingerprint(req.Content),
		"truncated", truncated,
	)

	d.metrics.IncrementCounter(telemetry.MetricAPICalls(string(kind)), 1)
	callStart := time.Now()
	text, err := adapter.Summarize(ctx, providers.Request{
		Instruction: instruction,
		Content:     content,
		SourceURL:   req.SourceURL,
		APIKey:      cfg.APIKey,
		Model:       model,
	})
	d.metrics.RecordTimer(telemetry.MetricResponseTime(string(kind)), time.Since(callStart))

	if err != nil {
		d.metrics.IncrementCounter(telemetry.MetricAPICallsFailure, 1)
		return SummaryResult{}, d.fail(log, err)
	}

	d.metrics.IncrementCounter(telemetry.MetricAPICallsSuccess, 1)
	d.metrics.RecordTimestamp(telemetry.MetricLastSuccess)
	d.metrics.RecordTimer(telemetry.MetricTotalTime, time.Since(start))

	summary := FixEncoding(text)
	log.Info("summary generated",
		"summary_chars", utf8.RuneCountInString(summary),
		"duration", time.Since(start),
	)

	return SummaryResult{
		Text:      summary,
		Provider:  kind,
		Model:     model,
		RequestID: requestID,
		Truncated: truncated,
	}, nil
}

func (d *Dispatcher) fail(log *slog.Logger, err error) error {
	kind := errortypes.KindOf(err)
	if kind == "" {
		kind = errortypes.KindNetworkOrHTTPFailure
	}
	d.metrics.IncrementCounter(telemetry.MetricErrorKind(string(kind)), 1)
	d.metrics.RecordTimestamp(telemetry.MetricLastFailure)
	errortypes.LogError(log, err)
	return err
}

package summarizer

import (
	"context"
	"errors"
	"strings"

	"github.com/localrivet/pagesummary/internal/errortypes"
)

// ErrEmptyContent is returned when a request carries no page content.
var ErrEmptyContent = errors.New("content is required")

// Validate checks the fields every inbound surface requires.
func (r SummaryRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return errortypes.ValidationError(ErrEmptyContent, "invalid summary request")
	}
	return nil
}

// Service is the inbound summarization entry point. It reads a fresh
// settings snapshot for every request so that saved changes apply to the
// next request without a restart.
type Service struct {
	source     SettingsSource
	dispatcher *Dispatcher
}

var _ Summarizer = (*Service)(nil)

// NewService creates a Service reading settings from source
func NewService(source SettingsSource, dispatcher *Dispatcher) *Service {
	return &Service{
		source:     source,
		dispatcher: dispatcher,
	}
}

// Summarize loads the current settings and dispatches req.
func (s *Service) Summarize(ctx context.Context, req SummaryRequest) (SummaryResult, error) {
	snapshot, err := s.source.Load(ctx)
	if err != nil {
		return SummaryResult{}, errortypes.DatabaseError(err, "failed to load settings")
	}
	return s.dispatcher.GetSummary(ctx, req, snapshot)
}

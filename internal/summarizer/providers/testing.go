package providers

import (
	"context"
	"sync"

	"github.com/localrivet/pagesummary/internal/settings"
)

// StubAdapter is an Adapter for tests. It returns a fixed summary or error
// and records every request it receives.
type StubAdapter struct {
	kind         settings.ProviderKind
	returnString string
	returnError  error

	mu       sync.Mutex
	requests []Request
}

// NewStubAdapter creates a StubAdapter for kind
func NewStubAdapter(kind settings.ProviderKind, returnString string, returnError error) *StubAdapter {
	return &StubAdapter{
		kind:         kind,
		returnString: returnString,
		returnError:  returnError,
	}
}

// Kind returns the provider kind
func (p *StubAdapter) Kind() settings.ProviderKind {
	return p.kind
}

// Name returns the provider display name
func (p *StubAdapter) Name() string {
	return p.kind.DisplayName()
}

// Summarize captures the request and returns the configured response
func (p *StubAdapter) Summarize(_ context.Context, req Request) (string, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	return p.returnString, p.returnError
}

// Calls returns how many times Summarize was invoked
func (p *StubAdapter) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// LastRequest returns the most recent request, if any
func (p *StubAdapter) LastRequest() (Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		return Request{}, false
	}
	return p.requests[len(p.requests)-1], true
}

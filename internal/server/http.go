package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/summarizer"
	"github.com/localrivet/pagesummary/internal/tools"
)

// maxBodyBytes bounds request bodies; page text is the largest payload.
const maxBodyBytes = 4 << 20

// DefaultAllowedOrigins admits browser extension pages when no origins are configured.
var DefaultAllowedOrigins = []string{"chrome-extension://*", "moz-extension://*"}

// HTTPOptions configures the HTTP API.
type HTTPOptions struct {
	// AllowedOrigins are the CORS origins; empty means DefaultAllowedOrigins.
	AllowedOrigins []string

	// RequestTimeout bounds each request; zero disables the timeout middleware.
	RequestTimeout time.Duration

	Logger *slog.Logger
}

// API serves the summarization and settings endpoints over HTTP.
type API struct {
	backend Backend
	logger  *slog.Logger
	router  chi.Router
}

// NewAPI builds the router.
func NewAPI(backend Backend, opts HTTPOptions) *API {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	a := &API{
		backend: backend,
		logger:  logger.With("component", "http"),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(a.logRequests)
	r.Use(chimiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(HandleNotFound)
	r.MethodNotAllowed(HandleMethodNotAllowed)

	r.Get("/health", a.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/summarize", a.handleSummarize)
		r.Post("/summarize-url", a.handleSummarizeURL)
		r.Get("/settings", a.handleGetSettings)
		r.Put("/settings", a.handleSaveSettings)
	})

	a.router = r
	return a
}

// ServeHTTP implements http.Handler
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimiddleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// decodeBody reads a single JSON document into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errortypes.ValidationError(errors.New("request body is empty"), "invalid request body")
		}
		return errortypes.ValidationError(err, "invalid request body")
	}
	return nil
}

// summarizeURLRequest is the body of POST /api/v1/summarize-url
type summarizeURLRequest struct {
	URL   string           `json:"url"`
	Style summarizer.Style `json:"summaryType"`
}

func (a *API) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizer.SummaryRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleError(w, a.logger, err)
		return
	}

	result, err := a.backend.Summarize(r.Context(), req)
	if err != nil {
		HandleError(w, a.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tools.SummarizeResponse{Status: tools.StatusSuccess, Data: summaryData(result)})
}

func (a *API) handleSummarizeURL(w http.ResponseWriter, r *http.Request) {
	var req summarizeURLRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleError(w, a.logger, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		HandleBadRequest(w, "url is required")
		return
	}

	page, result, err := a.backend.SummarizeURL(r.Context(), req.URL, req.Style)
	if err != nil {
		HandleError(w, a.logger, err)
		return
	}

	data := summaryData(result)
	data.Title = page.Title
	writeJSON(w, http.StatusOK, tools.SummarizeResponse{Status: tools.StatusSuccess, Data: data})
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := a.backend.Settings(r.Context())
	if err != nil {
		HandleError(w, a.logger, err)
		return
	}

	masked := current.Masked()
	writeJSON(w, http.StatusOK, tools.SettingsResponse{Status: tools.StatusSuccess, Data: &masked})
}

func (a *API) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var incoming settings.Patch
	if err := decodeBody(w, r, &incoming); err != nil {
		HandleError(w, a.logger, err)
		return
	}

	saved, err := a.backend.SaveSettings(r.Context(), incoming)
	if err != nil {
		HandleError(w, a.logger, err)
		return
	}

	masked := saved.Masked()
	writeJSON(w, http.StatusOK, tools.SettingsResponse{Status: tools.StatusSuccess, Data: &masked})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := a.backend.Health(r.Context())
	if err != nil {
		HandleError(w, a.logger, err)
		return
	}

	status := http.StatusOK
	if report.Status == summarizer.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Package web exposes the protocol over HTTP: content negotiation,
// request parsing, routing to the services and response rendering.
package web

import (
	"io"
	"net/http"

	"github.com/artpar/occigate/adapters/metrics"
	"github.com/artpar/occigate/app"
	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/core/render"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/artpar/occigate/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies. Representations are small; anything
// beyond this is not a representation.
const maxBodyBytes = 1 << 20

// Headers carrying the caller identity towards the backend.
const (
	headerProject = "X-Project-Id"
	headerToken   = "X-Auth-Token"
)

// Handler provides the protocol endpoints.
type Handler struct {
	compute   *app.ComputeService
	storage   *app.StorageService
	query     *app.QueryService
	renderers *render.Registry
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

// Deps contains dependencies for the handler.
type Deps struct {
	Compute   *app.ComputeService
	Storage   *app.StorageService
	Query     *app.QueryService
	Renderers *render.Registry
	Metrics   *metrics.Collector // optional
	Logger    zerolog.Logger
}

// NewHandler creates a protocol handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		compute:   deps.Compute,
		storage:   deps.Storage,
		query:     deps.Query,
		renderers: deps.Renderers,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// Router returns the protocol router. The metrics endpoint is mounted by
// the caller so it stays outside request instrumentation.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	if h.metrics != nil {
		r.Use(h.instrument)
	}

	r.Get("/healthz", h.Health)

	// Capability discovery, at the canonical path and its well-known alias.
	r.Get("/-/", h.Query)
	r.Get("/.well-known/org/ogf/occi/-/", h.Query)

	r.Route("/compute", func(r chi.Router) {
		r.Get("/", h.ComputeIndex)
		r.Post("/", h.ComputeCreate)
		r.Delete("/", h.ComputeDeleteAll)
		r.Get("/{id}", h.ComputeShow)
		r.Post("/{id}", h.ComputeAction)
		r.Delete("/{id}", h.ComputeDelete)
	})

	r.Route("/storage", func(r chi.Router) {
		r.Get("/", h.StorageIndex)
		r.Post("/", h.StorageCreate)
		r.Delete("/", h.StorageDeleteAll)
		r.Get("/{id}", h.StorageShow)
		r.Post("/{id}", h.StorageAction)
		r.Delete("/{id}", h.StorageDelete)
	})

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// negotiate picks the response renderer from the Accept header. When the
// Accept value is unservable the default renderer carries the 406.
func (h *Handler) negotiate(r *http.Request) (render.Renderer, error) {
	return h.renderers.Negotiate(r.Header.Get("Accept"))
}

// tenant extracts the caller identity from the request headers.
func tenant(r *http.Request) (ports.Tenant, error) {
	project := r.Header.Get(headerProject)
	if project == "" {
		return ports.Tenant{}, occierr.Unauthorized("missing " + headerProject + " header")
	}
	return ports.Tenant{ID: project, Token: r.Header.Get(headerToken)}, nil
}

// parseRequest picks a parser for the Content-Type and parses the request
// into a representation.
func (h *Handler) parseRequest(w http.ResponseWriter, r *http.Request) (*parser.Representation, error) {
	contentType := r.Header.Get("Content-Type")
	p, err := parser.For(contentType)
	if err != nil {
		h.countParseFailure(contentType)
		return nil, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.countParseFailure(contentType)
		return nil, occierr.MalformedRepresentation("read body: %v", err)
	}

	rep, err := p.Parse(r.Header, body)
	if err != nil {
		h.countParseFailure(contentType)
		return nil, err
	}
	return rep, nil
}

func (h *Handler) countParseFailure(contentType string) {
	if h.metrics != nil {
		h.metrics.ParseFailures.WithLabelValues(contentType).Inc()
	}
}

// writeResult renders an object and writes it with the given status.
func (h *Handler) writeResult(w http.ResponseWriter, rend render.Renderer, status int, obj any) {
	result, err := rend.Render(obj)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.write(w, status, result)
	if h.metrics != nil {
		h.metrics.RenderedResponses.WithLabelValues(result.ContentType).Inc()
	}
}

// writeError renders an error. The mapping is total, so this never fails.
func (h *Handler) writeError(w http.ResponseWriter, rend render.Renderer, err error) {
	status := occierr.Status(err)
	code := occierr.CodeOf(err)

	evt := h.logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = h.logger.Error()
	}
	evt.Err(err).Str("code", code).Int("status", status).Msg("request failed")

	if h.metrics != nil {
		h.metrics.ValidationFailures.WithLabelValues(code).Inc()
	}
	h.write(w, status, rend.RenderError(err))
}

func (h *Handler) write(w http.ResponseWriter, status int, result render.Result) {
	for _, kv := range result.Headers {
		w.Header().Add(kv[0], kv[1])
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(status)
	w.Write(result.Body)
}

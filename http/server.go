package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pagescout/pagescout"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server exposes the indexer and crawler over a JSON API. The popup
// front end is the intended client; every handler answers quickly so
// keystroke-driven suggestion requests stay responsive.
type Server struct {
	server *http.Server
	router chi.Router

	indexer pagescout.Indexer
	crawler pagescout.CrawlService
	logger  *slog.Logger

	Addr string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used for request and lifecycle logs.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server around the given indexer and crawler.
func NewServer(indexer pagescout.Indexer, crawler pagescout.CrawlService, opts ...ServerOption) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		indexer: indexer,
		crawler: crawler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Put("/documents", s.handleSetDocument)
		r.Post("/documents/invalidate", s.handleInvalidate)
		r.Post("/suggestions", s.handleSuggestions)
		r.Post("/scroll", s.handleScroll)
		r.Post("/crawl/start", s.handleCrawlStart)
		r.Get("/crawl/status", s.handleCrawlStatus)
		r.Get("/crawl/search", s.handleCrawlSearch)
	})

	s.server = &http.Server{Handler: s.router}

	return s
}

// ServeHTTP implements http.Handler so tests can drive the router
// without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open begins listening on Addr and serves until Close.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return pagescout.Errorf(pagescout.EUNAVAILABLE, "listen %s: %v", s.Addr, err)
	}
	s.Addr = ln.Addr().String()

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("listening", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type setDocumentRequest struct {
	FrameHref string `json:"frameHref"`
	HTML      string `json:"html"`
}

func (s *Server) handleSetDocument(w http.ResponseWriter, r *http.Request) {
	var req setDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "invalid request body"))
		return
	}

	if err := s.indexer.SetDocument(req.FrameHref, req.HTML); err != nil {
		s.error(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, map[string]bool{"ok": true})
}

type invalidateRequest struct {
	FrameHref string `json:"frameHref"`
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "invalid request body"))
		return
	}

	known := s.indexer.Invalidate(req.FrameHref)
	s.respond(w, r, http.StatusOK, map[string]bool{"invalidated": known})
}

type suggestionsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type suggestionsResponse struct {
	Suggestions []pagescout.Suggestion `json:"suggestions"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "invalid request body"))
		return
	}

	suggestions, err := s.indexer.Suggest(req.Query, req.Limit)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []pagescout.Suggestion{}
	}

	s.respond(w, r, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

type scrollRequest struct {
	ID string `json:"id"`
}

type scrollResponse struct {
	OK              bool  `json:"ok"`
	HighlightMillis int64 `json:"highlightMillis"`
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "invalid request body"))
		return
	}

	ok, err := s.indexer.ScrollTo(req.ID)
	if err != nil {
		s.error(w, r, err)
		return
	}

	resp := scrollResponse{OK: ok}
	if ok {
		resp.HighlightMillis = pagescout.HighlightDuration.Milliseconds()
	}
	s.respond(w, r, http.StatusOK, resp)
}

type crawlStartRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleCrawlStart(w http.ResponseWriter, r *http.Request) {
	var req crawlStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "invalid request body"))
		return
	}

	outcome, err := s.crawler.Start(r.Context(), req.URL)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, outcome)
}

func (s *Server) handleCrawlStatus(w http.ResponseWriter, r *http.Request) {
	scopeKey := r.URL.Query().Get("scope")
	if scopeKey == "" {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "scope is required"))
		return
	}

	s.respond(w, r, http.StatusOK, s.crawler.Status(scopeKey))
}

type crawlSearchResponse struct {
	Results []pagescout.SiteResult `json:"results"`
}

func (s *Server) handleCrawlSearch(w http.ResponseWriter, r *http.Request) {
	scopeKey := r.URL.Query().Get("scope")
	if scopeKey == "" {
		s.error(w, r, pagescout.Errorf(pagescout.EINVALID, "scope is required"))
		return
	}

	results := s.crawler.Search(r.URL.Query().Get("q"), scopeKey)
	if results == nil {
		results = []pagescout.SiteResult{}
	}

	s.respond(w, r, http.StatusOK, crawlSearchResponse{Results: results})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respond writes v as JSON with the given status.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
}

// error writes err as a JSON error response, mapping the error code to
// an HTTP status.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	code := pagescout.ErrorCode(err)
	status := statusFromCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}

	s.respond(w, r, status, errorResponse{
		Error: pagescout.ErrorMessage(err),
		Code:  code,
	})
}

func statusFromCode(code string) int {
	switch code {
	case pagescout.EINVALID:
		return http.StatusBadRequest
	case pagescout.ENOTFOUND:
		return http.StatusNotFound
	case pagescout.ECONFLICT:
		return http.StatusConflict
	case pagescout.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Port returns the port the server is bound to, or 0 before Open.
func (s *Server) Port() int {
	_, port, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return 0
	}
	p, _ := strconv.Atoi(port)
	return p
}

package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/geo"
	"github.com/lox/skypulse/internal/imagegen"
	"github.com/lox/skypulse/internal/store"
)

// RunLister exposes the upstream audit log.
type RunLister interface {
	RecentRuns(limit int) ([]store.FetchRun, error)
}

type Server struct {
	ctrl       *dashboard.Controller
	runs       RunLister
	addr       string
	log        *zap.SugaredLogger
	tmpl       *template.Template
	imageCache *imagegen.Cache
	geoOpts    geo.PositionOptions
}

// NewServer wires the HTTP surface to ctrl. runs may be nil, in which case
// /api/runs returns an empty list.
func NewServer(ctrl *dashboard.Controller, runs RunLister, addr string, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		ctrl:       ctrl,
		runs:       runs,
		addr:       addr,
		log:        log,
		tmpl:       sharedTemplates(),
		imageCache: imagegen.NewCache(),
		geoOpts:    geo.DefaultOptions,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /partials/clock", s.handleClockPartial)
	mux.HandleFunc("GET /partials/card", s.handleCardPartial)
	mux.HandleFunc("GET /partials/forecast", s.handleForecastPartial)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /locate", s.handleLocate)
	mux.HandleFunc("GET /api/state", s.handleAPIState)
	mux.HandleFunc("POST /api/search", s.handleAPISearch)
	mux.HandleFunc("POST /api/locate", s.handleAPILocate)
	mux.HandleFunc("GET /api/runs", s.handleAPIRuns)
	mux.HandleFunc("GET /forecast.png", s.handleForecastImage)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// detach returns the request context without its cancellation. Search and
// locate update state shared by every page, so a client going away must not
// fail them.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warnw("server shutdown", "error", err)
		}
	}()

	s.log.Infow("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

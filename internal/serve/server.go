// Package serve exposes a generated storefront tree over HTTP together with
// a preview of the bubble scroll timeline.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solvefurniture/storefront/internal/platform/timeouts"
)

// Routes served besides the static tree.
const (
	PreviewPath = "/preview/bubbles"
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

// Config configures a Server.
type Config struct {
	Addr   string
	OutDir string
}

// Server serves one output directory.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	handler    http.Handler
}

// New validates cfg and binds the listener.
func New(cfg Config) (*Server, error) {
	handler, err := NewHandler(cfg.OutDir, prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		listener: listener,
		handler:  handler,
	}, nil
}

// NewHandler returns the routes for outDir, registering metrics with reg.
func NewHandler(outDir string, reg *prometheus.Registry) (http.Handler, error) {
	outDir = strings.TrimSpace(outDir)
	if outDir == "" {
		return nil, errors.New("output directory is required")
	}
	info, err := os.Stat(outDir)
	if err != nil {
		return nil, fmt.Errorf("stat output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", outDir)
	}
	if reg == nil {
		return nil, errors.New("metrics registry is required")
	}
	metrics, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+PreviewPath, metrics.instrument("preview", &previewHandler{outDir: outDir}))
	mux.Handle("GET "+MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("GET /", metrics.instrument("static", http.FileServer(http.Dir(outDir))))
	return mux, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the server routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log.Printf("serving storefront at http://%s", s.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops the server immediately.
func (s *Server) Close() error {
	if s == nil || s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}

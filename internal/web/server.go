package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Services are the dependencies the web UI serves.
type Services struct {
	Resolver  ops.Resolver
	Source    meal.Source
	Favorites *favorites.List
	Log       logger.Logger
}

// NewServer creates and configures the HTTP server for the mealfind web UI.
func NewServer(svc Services, version, bind string, port int) (*http.Server, error) {
	handler, err := NewHandler(svc, version)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// NewHandler builds the routed, instrumented handler.
func NewHandler(svc Services, version string) (http.Handler, error) {
	if svc.Log == nil {
		svc.Log = logger.NewNop()
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	h := &Handlers{
		resolver: svc.Resolver,
		src:      svc.Source,
		favs:     svc.Favorites,
		log:      svc.Log,
		renderer: NewRenderer(templateSub, version, svc.Log),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleSearch)
	mux.HandleFunc("GET /search", h.HandleSearch)
	mux.HandleFunc("GET /favorites", h.HandleFavorites)
	mux.HandleFunc("POST /favorites/{id}/toggle", h.HandleToggleFavorite)
	mux.HandleFunc("GET /meals/{id}", h.HandleDetail)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return securityHeaders(instrument(mux)), nil
}

// securityHeaders adds security-related HTTP headers to all responses.
// Recipe images are remote; htmx is loaded from its CDN.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self'; img-src 'self' https:")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logger.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("mealfind UI running", logger.String("url", "http://"+srv.Addr))
	if strings.HasPrefix(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// Package server serves the dashboard page, per-view fragments and the
// chart, theme and transaction endpoints the browser calls.
package server

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"moneyviz/internal/animation"
	"moneyviz/internal/config"
	"moneyviz/internal/logger"
	"moneyviz/internal/storage"
	"moneyviz/internal/view"
)

// Server represents the main application server
type Server struct {
	Config  *config.Config
	App     *view.App
	Storage storage.StorageClient
	Files   *FileManager

	page      *template.Template
	scheduler *animation.Scheduler
	log       *logger.Logger
}

// NewServer creates a new server instance around app. store may be nil, in
// which case exports can be downloaded but not saved.
func NewServer(cfg *config.Config, app *view.App, store storage.StorageClient) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	s := &Server{
		Config:  cfg,
		App:     app,
		Storage: store,
		page:    page,
		log:     logger.Component("server"),
	}
	if store != nil {
		s.Files = NewFileManager(store)
	}
	return s, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /views/{name}", s.HandleView)
	mux.HandleFunc("GET /api/notices", s.HandleNotices)

	mux.HandleFunc("GET /api/charts", s.HandleListCharts)
	mux.HandleFunc("GET /api/charts/{id}", s.HandleChart)
	mux.HandleFunc("GET /api/charts/{id}/export", s.HandleExport)
	mux.HandleFunc("GET /exports", s.HandleListExports)
	mux.HandleFunc("GET /exports/{path...}", s.HandleFileProxy)

	mux.HandleFunc("POST /api/theme/toggle", s.HandleToggleTheme)
	mux.HandleFunc("POST /api/theme", s.HandleSetTheme)
	mux.HandleFunc("POST /api/viewport", s.HandleViewport)

	mux.HandleFunc("POST /transactions", s.HandleCreateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.HandleDeleteTransaction)

	mux.Handle("GET /static/", http.FileServer(http.FS(staticFS)))

	// Handle root path last (catch-all)
	mux.HandleFunc("GET /{$}", s.HandleRoot)

	return mux
}

// Handler is the route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.SetupRoutes())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request served", logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}

// Close tears down the views, stops the animation clock and releases the
// storage client.
func (s *Server) Close() error {
	s.App.Close()
	if s.scheduler != nil {
		s.scheduler.Close()
	}
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

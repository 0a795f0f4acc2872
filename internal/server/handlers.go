package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"moneyviz/internal/config"
	"moneyviz/internal/logger"
	"moneyviz/internal/models"
	"moneyviz/internal/theme"
	"moneyviz/internal/view"
)

// show navigates to the view called name. Only an unknown view is fatal:
// failed sections have already become notices and a superseded load leaves
// the newer one's regions in place.
func (s *Server) show(ctx context.Context, name string) error {
	if name == "" {
		name = s.App.Current()
	}
	if name == "" {
		name = view.ViewDashboard
	}
	err := s.App.Show(ctx, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, view.ErrUnknownView):
		return err
	default:
		s.log.Warn("view loaded with errors", logger.Fields{"view": name, "error": err.Error()})
		return nil
	}
}

// HandleRoot serves the full page for ?view= (the current view by default)
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("view")
	if err := s.show(r.Context(), name); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.render(w, "page", s.App.Current())
}

// HandleView serves the main fragment of one view for in-page navigation
func (s *Server) HandleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.show(r.Context(), name); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.render(w, "main", name)
}

func (s *Server) render(w http.ResponseWriter, tmpl, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.ExecuteTemplate(w, tmpl, s.pageData(name)); err != nil {
		s.log.Error("failed to render page", err, logger.Fields{"template": tmpl, "view": name})
	}
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"config": "ok", "storage": "disabled"}
	if s.Storage != nil {
		checks["storage"] = "ok"
	}
	health := map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"view":      s.App.Current(),
		"charts":    s.App.Context.Registry.Len(),
		"theme":     s.App.Context.Registry.Mode().String(),
		"checks":    checks,
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleNotices returns and clears the pending notices
func (s *Server) HandleNotices(w http.ResponseWriter, r *http.Request) {
	notices := s.App.Context.Notices.Drain()
	if notices == nil {
		notices = []view.Notice{}
	}
	writeJSON(w, http.StatusOK, notices)
}

type themeResponse struct {
	Theme     string `json:"theme"`
	Persisted bool   `json:"persisted"`
}

// HandleToggleTheme flips the theme of every live chart. A failure to
// persist the preference is reported but the theme stays applied.
func (s *Server) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := s.App.Context.Registry.ToggleTheme(r.Context())
	s.writeTheme(w, mode, err)
}

// HandleSetTheme applies ?mode=light|dark
func (s *Server) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	mode, ok := theme.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown theme %q", r.URL.Query().Get("mode")))
		return
	}
	err := s.App.Context.Registry.UpdateTheme(r.Context(), mode)
	s.writeTheme(w, mode, err)
}

func (s *Server) writeTheme(w http.ResponseWriter, mode theme.Mode, err error) {
	if err != nil {
		s.log.Warn("theme applied but not persisted", logger.Fields{"theme": mode.String(), "error": err.Error()})
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: mode.String(), Persisted: err == nil})
}

// HandleViewport records the browser width. New charts pick up its
// responsive layer immediately; live charts get the breakpoint once resizing
// settles.
func (s *Server) HandleViewport(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(r.URL.Query().Get("width"))
	if err != nil || width <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid width %q", r.URL.Query().Get("width")))
		return
	}
	s.App.Context.Factory.SetWidth(width)
	s.App.Context.Registry.HandleResize(width)
	w.WriteHeader(http.StatusAccepted)
}

// HandleCreateTransaction stores the JSON transaction in the body
func (s *Server) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid transaction body: %w", err))
		return
	}
	id, err := s.App.Transactions.Save(r.Context(), tx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// HandleDeleteTransaction removes a transaction; ?confirm=true is required
func (s *Server) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid transaction id %q", r.PathValue("id")))
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := s.App.Transactions.Delete(r.Context(), id, confirmed); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/charts"
	"moneyviz/internal/export"
	"moneyviz/internal/factory"
	"moneyviz/internal/logger"
	"moneyviz/internal/storage"
)

type chartInfo struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Title     string            `json:"title"`
	Type      string            `json:"type,omitempty"`
	Draws     int               `json:"draws"`
	Destroyed bool              `json:"destroyed"`
	Options   chartopts.Options `json:"options,omitempty"`
	HTML      string            `json:"html,omitempty"`
}

func describe(c *charts.Chart, detail bool) chartInfo {
	info := chartInfo{ID: c.ID(), Kind: c.Kind().String(), Title: c.Title(), Destroyed: c.Destroyed()}
	inst := c.Instance()
	if inst == nil {
		return info
	}
	spec := inst.Spec()
	info.Type = spec.Type
	info.Draws = inst.Draws()
	if detail {
		info.Options = spec.Options
		info.HTML = inst.Snippet().HTML
	}
	return info
}

// HandleListCharts lists the live charts
func (s *Server) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	list := s.App.Context.Factory.Charts()
	out := make([]chartInfo, 0, len(list))
	for _, c := range list {
		out = append(out, describe(c, false))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"charts": out,
		"count":  len(out),
		"live":   s.App.Context.Factory.Engines().Live(),
	})
}

// HandleChart returns one chart with its engine options and painted snippet
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := s.App.Context.Factory.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", factory.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, describe(c, true))
}

// HandleExport downloads the chart's data in ?format= (csv by default).
// With ?save=true the export is stored instead and its path returned.
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.CSV)
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	c, ok := s.App.Context.Factory.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", factory.ErrNotFound, id))
		return
	}
	data, err := export.Export(c, f)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
		if s.Files == nil {
			writeError(w, http.StatusServiceUnavailable, fmt.Errorf("export storage is not configured"))
			return
		}
		p, err := s.Files.StoreExport(r.Context(), id, f.Ext(), data)
		if err != nil {
			s.log.Error("failed to store export", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"path": p, "url": "/" + p})
		return
	}

	filename := export.FileName(c, f)
	w.Header().Set("Content-Type", storage.GetContentType(filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

type exportEntry struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// HandleListExports lists the exports stored on ?date= (YYYY-MM-DD, UTC
// today by default).
func (s *Server) HandleListExports(w http.ResponseWriter, r *http.Request) {
	if s.Files == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("export storage is not configured"))
		return
	}
	day := s.Files.now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v))
			return
		}
		day = parsed
	}

	files, err := s.Files.ListExports(r.Context(), day)
	if err != nil {
		s.log.Error("failed to list exports", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	entries := make([]exportEntry, len(files))
	for i, p := range files {
		entries[i] = exportEntry{Path: p, URL: "/" + p}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    day.Format(time.DateOnly),
		"exports": entries,
		"count":   len(entries),
	})
}

// HandleFileProxy serves stored exports from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if s.Files == nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	filePath := "exports/" + r.PathValue("path")
	data, err := s.Files.GetExport(r.Context(), filePath)
	if err != nil {
		s.log.Warn("export not served", logger.Fields{"path": filePath, "error": err.Error()})
		http.Error(w, "File not found", statusFor(err))
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}

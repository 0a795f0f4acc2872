package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"moneyviz/internal/config"
	"moneyviz/internal/engine"
	"moneyviz/internal/factory"
	"moneyviz/internal/mocks"
	"moneyviz/internal/palette"
	"moneyviz/internal/registry"
	"moneyviz/internal/storage"
	"moneyviz/internal/theme"
	"moneyviz/internal/view"
)

type testServer struct {
	*httptest.Server
	srv   *Server
	store *storage.LocalStorageClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	reg := registry.New(registry.WithStore(storage.NewThemeStore(store, theme.Light)))
	f := factory.New(reg, engine.NewPage())
	app, err := view.NewApp(view.NewContext(mocks.NewMockService("../mocks"), f, palette.New(palette.DefaultScheme)))
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	srv, err := NewServer(&config.Config{}, app, store)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return &testServer{Server: ts, srv: srv, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp, string(data)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var health map[string]interface{}
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if health["status"] != "healthy" || health["theme"] != "light" {
		t.Errorf("Unexpected health %v", health)
	}
}

func TestHandleRoot(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{
		`id="dashboard-stats"`,
		"moneyviz.paintChartJS",
		"财务洞察",
		`class="nav-link active">仪表盘`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}

	resp, _ = ts.do(t, http.MethodGet, "/?view=settings", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown view, got %d", resp.StatusCode)
	}
	resp, _ = ts.do(t, http.MethodGet, "/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown path, got %d", resp.StatusCode)
	}
}

func TestHandleViewSwitchesAndTearsDown(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/", "")

	resp, body := ts.do(t, http.MethodGet, "/views/analytics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "<html") {
		t.Errorf("Expected a fragment, got a full page")
	}
	if !strings.Contains(body, "cashflow-sankey-echarts") {
		t.Errorf("Expected the sankey container in the analytics view")
	}
	if _, ok := ts.srv.App.Context.Factory.Get(view.ChartTrend); ok {
		t.Errorf("Expected dashboard charts to be destroyed")
	}

	resp, _ = ts.do(t, http.MethodGet, "/views/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestChartsAPI(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/", "")

	_, body := ts.do(t, http.MethodGet, "/api/charts", "")
	var list struct {
		Charts []chartInfo `json:"charts"`
		Count  int         `json:"count"`
		Live   int         `json:"live"`
	}
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if list.Count != 6 || list.Live != 6 {
		t.Errorf("Expected six live dashboard charts, got %d (%d live)", list.Count, list.Live)
	}

	resp, body := ts.do(t, http.MethodGet, "/api/charts/"+view.ChartTrend, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var info chartInfo
	if err := json.Unmarshal([]byte(body), &info); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if info.Kind != "line" || info.HTML == "" || info.Options == nil {
		t.Errorf("Unexpected chart detail %+v", info)
	}

	resp, _ = ts.do(t, http.MethodGet, "/api/charts/unknown", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleExport(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/", "")
	base := "/api/charts/" + view.ChartDistribution + "/export"

	resp, body := ts.do(t, http.MethodGet, base+"?format=csv", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Errorf("Expected CSV content type, got %q", resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(body, "Label,Value\n") {
		t.Errorf("Unexpected CSV %q", body)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), view.ChartDistribution+".csv") {
		t.Errorf("Unexpected disposition %q", resp.Header.Get("Content-Disposition"))
	}

	resp, _ = ts.do(t, http.MethodGet, base+"?format=bmp", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown format, got %d", resp.StatusCode)
	}

	resp, body = ts.do(t, http.MethodGet, base+"?format=json&save=true", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", resp.StatusCode, body)
	}
	var saved map[string]string
	if err := json.Unmarshal([]byte(body), &saved); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !strings.HasPrefix(saved["path"], "exports/") {
		t.Fatalf("Unexpected export path %q", saved["path"])
	}
	resp, stored := ts.do(t, http.MethodGet, saved["url"], "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(stored, "[") {
		t.Errorf("Expected the stored JSON export, got %d %q", resp.StatusCode, stored)
	}

	day := strings.Join(strings.Split(saved["path"], "/")[1:4], "-")
	resp, body = ts.do(t, http.MethodGet, "/exports?date="+day, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 listing exports, got %d: %s", resp.StatusCode, body)
	}
	var listed struct {
		Exports []exportEntry `json:"exports"`
		Count   int           `json:"count"`
	}
	if err := json.Unmarshal([]byte(body), &listed); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if listed.Count != 1 || listed.Exports[0].Path != saved["path"] || listed.Exports[0].URL != saved["url"] {
		t.Errorf("Expected the saved export listed, got %+v", listed)
	}
	resp, _ = ts.do(t, http.MethodGet, "/exports?date=yesterday", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed date, got %d", resp.StatusCode)
	}

	resp, _ = ts.do(t, http.MethodGet, "/exports/../preferences/theme", "")
	if resp.StatusCode == http.StatusOK {
		t.Errorf("Expected paths outside exports to be refused")
	}
}

func TestThemeEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.do(t, http.MethodPost, "/api/theme/toggle", "")
	var got themeResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got.Theme != "dark" || !got.Persisted {
		t.Errorf("Expected persisted dark theme, got %+v", got)
	}
	stored, err := ts.store.GetFile(context.Background(), storage.ThemeKey)
	if err != nil || string(stored) != "dark" {
		t.Errorf("Expected stored preference dark, got %q (%v)", stored, err)
	}

	resp, _ := ts.do(t, http.MethodPost, "/api/theme?mode=light", "")
	if resp.StatusCode != http.StatusOK || ts.srv.App.Context.Registry.Mode() != theme.Light {
		t.Errorf("Expected light theme, got %d %s", resp.StatusCode, ts.srv.App.Context.Registry.Mode())
	}
	resp, _ = ts.do(t, http.MethodPost, "/api/theme?mode=purple", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleViewport(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query string
		want  int
	}{
		{"?width=500", http.StatusAccepted},
		{"?width=abc", http.StatusBadRequest},
		{"?width=-1", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, _ := ts.do(t, http.MethodPost, "/api/viewport"+tt.query, "")
		if resp.StatusCode != tt.want {
			t.Errorf("viewport%s: expected %d, got %d", tt.query, tt.want, resp.StatusCode)
		}
	}
}

func TestTransactionEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/transactions",
		`{"account_id":1,"date":"2024-04-01","type":"支出","amount":35,"description":"咖啡"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created struct{ ID int }
	if err := json.Unmarshal([]byte(body), &created); err != nil || created.ID == 0 {
		t.Fatalf("Expected an id, got %q (%v)", body, err)
	}

	resp, _ = ts.do(t, http.MethodPost, "/transactions", `{"account_id":1,"amount":0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid transaction, got %d", resp.StatusCode)
	}
	resp, _ = ts.do(t, http.MethodPost, "/transactions", `{`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed body, got %d", resp.StatusCode)
	}

	path := "/transactions/" + strconv.Itoa(created.ID)
	resp, _ = ts.do(t, http.MethodDelete, path, "")
	if resp.StatusCode != http.StatusPreconditionRequired {
		t.Errorf("Expected 428 without confirmation, got %d", resp.StatusCode)
	}
	resp, _ = ts.do(t, http.MethodDelete, path+"?confirm=true", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	resp, _ = ts.do(t, http.MethodDelete, "/transactions/abc?confirm=true", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad id, got %d", resp.StatusCode)
	}
}

func TestStaticAssets(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/static/moneyviz.js", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "window.moneyviz") {
		t.Errorf("Expected the bootstrap script, got %d", resp.StatusCode)
	}
}

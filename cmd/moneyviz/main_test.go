package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setEnv(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("MOCKUP_MODE", "true")
	t.Setenv("MOCKS_DIR", filepath.Join("..", "..", "internal", "mocks"))
	t.Setenv("STORAGE_MODE", "local")
	t.Setenv("LOCAL_DATA_DIR", dataDir)
	t.Setenv("LOG_LEVEL", "error")
	return dataDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExportToStdout(t *testing.T) {
	setEnv(t)

	out, err := execute(t, "export", "--chart", "asset-distribution-chart", "--format", "csv")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(out, "Label,Value\n") {
		t.Errorf("Unexpected CSV output %q", out)
	}
}

func TestExportByKindToFile(t *testing.T) {
	setEnv(t)
	path := filepath.Join(t.TempDir(), "flows.json")

	if _, err := execute(t, "export", "--view", "analytics", "--chart", "sankey", "--format", "json", "-o", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "总收入") {
		t.Errorf("Expected cash flow rows, got %s", data)
	}
}

func TestExportSave(t *testing.T) {
	dataDir := setEnv(t)

	out, err := execute(t, "export", "--chart", "gauge", "--format", "xlsx", "--save")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	p := strings.TrimSpace(out)
	if !strings.HasPrefix(p, "exports/") || !strings.HasSuffix(p, ".xlsx") {
		t.Fatalf("Unexpected export path %q", p)
	}
	if _, err := os.Stat(filepath.Join(dataDir, filepath.FromSlash(p))); err != nil {
		t.Errorf("Expected the stored export: %v", err)
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing chart flag", []string{"export"}},
		{"unknown format", []string{"export", "--chart", "bar", "--format", "bmp"}},
		{"unknown chart", []string{"export", "--chart", "treemap"}},
		{"unknown view", []string{"export", "--chart", "bar", "--view", "settings"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t)
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("Expected %v to fail", tt.args)
			}
		})
	}
}

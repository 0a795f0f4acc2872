package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewLocalStorageClient(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "nested", "data")

	client, err := NewLocalStorageClient(baseDir)
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	if client.BaseDir() != baseDir {
		t.Errorf("Expected baseDir %s, got %s", baseDir, client.BaseDir())
	}
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		t.Error("base directory was not created")
	}
}

func TestLocalStorageClient_StoreAndGet(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	if err := client.StoreFile(ctx, "exports/2024/01/02/trend.csv", []byte("Label,Value\n")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	data, err := client.GetFile(ctx, "exports/2024/01/02/trend.csv")
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if string(data) != "Label,Value\n" {
		t.Errorf("Unexpected content %q", data)
	}

	// overwrite
	if err := client.StoreFile(ctx, "exports/2024/01/02/trend.csv", []byte("x")); err != nil {
		t.Fatalf("StoreFile overwrite failed: %v", err)
	}
	data, _ = client.GetFile(ctx, "exports/2024/01/02/trend.csv")
	if string(data) != "x" {
		t.Errorf("Expected overwritten content, got %q", data)
	}
}

func TestLocalStorageClient_Missing(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	if _, err := client.GetFile(ctx, "nope.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	exists, err := client.FileExists(ctx, "nope.json")
	if err != nil || exists {
		t.Errorf("Expected missing file, got exists=%v err=%v", exists, err)
	}
	files, err := client.ListDir(ctx, "exports")
	if err != nil || len(files) != 0 {
		t.Errorf("Expected empty listing for missing dir, got %v, %v", files, err)
	}
}

func TestLocalStorageClient_PathsStayInside(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	client, err := NewLocalStorageClient(filepath.Join(base, "root"))
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	if err := client.StoreFile(ctx, "../../escape.txt", []byte("x")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "root", "escape.txt")); err != nil {
		t.Errorf("Expected file kept inside the root: %v", err)
	}
	if err := client.StoreFile(ctx, "/", []byte("x")); err == nil {
		t.Errorf("Expected error for an empty path")
	}
}

func TestLocalStorageClient_ListDir(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	for _, p := range []string{"exports/b.png", "exports/a/c.csv", ThemeKey} {
		if err := client.StoreFile(ctx, p, []byte("1")); err != nil {
			t.Fatalf("StoreFile(%s) failed: %v", p, err)
		}
	}

	got, err := client.ListDir(ctx, "exports")
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if diff := cmp.Diff([]string{"exports/a/c.csv", "exports/b.png"}, got); diff != "" {
		t.Errorf("ListDir mismatch (-want +got):\n%s", diff)
	}

	all, _ := client.ListDir(ctx, "")
	if len(all) != 3 {
		t.Errorf("Expected 3 files at the root, got %v", all)
	}

	exists, err := client.FileExists(ctx, "exports/a")
	if err != nil || exists {
		t.Errorf("Expected a directory not to count as a file")
	}
}

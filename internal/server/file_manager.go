package server

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"moneyviz/internal/logger"
	"moneyviz/internal/storage"
)

// FileManager handles export file I/O only (store/load/list)
type FileManager struct {
	client storage.StorageClient
	now    func() time.Time
	log    *logger.Logger
}

// NewFileManager creates a new file manager
func NewFileManager(client storage.StorageClient) *FileManager {
	return &FileManager{client: client, now: time.Now, log: logger.Component("server")}
}

// StoreExport saves an export of chartID under the dated exports tree and
// returns its path.
// Format: exports/YYYY/MM/DD/<chartID>-HHMMSS.<ext>
func (fm *FileManager) StoreExport(ctx context.Context, chartID, ext string, data []byte) (string, error) {
	p := storage.ExportPath(chartID, ext, fm.now().UTC())
	if err := fm.client.StoreFile(ctx, p, data); err != nil {
		return "", fmt.Errorf("failed to store export %s: %w", p, err)
	}
	fm.log.Info("export stored", logger.Fields{"path": p, "bytes": len(data)})
	return p, nil
}

// GetExport loads a stored export. Paths outside the exports tree are
// rejected.
func (fm *FileManager) GetExport(ctx context.Context, p string) ([]byte, error) {
	clean := path.Clean("/" + p)[1:]
	if strings.Contains(p, "..") || !strings.HasPrefix(clean, "exports/") {
		return nil, fmt.Errorf("invalid export path %q: %w", p, storage.ErrNotFound)
	}
	return fm.client.GetFile(ctx, clean)
}

// ListExports lists the exports stored on day.
func (fm *FileManager) ListExports(ctx context.Context, day time.Time) ([]string, error) {
	dir := fmt.Sprintf("exports/%04d/%02d/%02d", day.Year(), day.Month(), day.Day())
	files, err := fm.client.ListDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports in %s: %w", dir, err)
	}
	return files, nil
}

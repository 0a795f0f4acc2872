package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneyviz/internal/theme"
)

// ThemeStore persists the theme preference under ThemeKey.
type ThemeStore struct {
	client   StorageClient
	fallback theme.Mode
}

// NewThemeStore reads and writes the preference through client. fallback
// is returned when nothing valid has been stored yet.
func NewThemeStore(client StorageClient, fallback theme.Mode) *ThemeStore {
	if _, ok := theme.ParseMode(string(fallback)); !ok {
		fallback = theme.Light
	}
	return &ThemeStore{client: client, fallback: fallback}
}

// Load returns the stored mode, or the fallback when none is stored or the
// stored value is not a known mode.
func (s *ThemeStore) Load(ctx context.Context) (theme.Mode, error) {
	data, err := s.client.GetFile(ctx, ThemeKey)
	if errors.Is(err, ErrNotFound) {
		return s.fallback, nil
	}
	if err != nil {
		return s.fallback, fmt.Errorf("failed to load theme preference: %w", err)
	}
	m, ok := theme.ParseMode(strings.TrimSpace(string(data)))
	if !ok {
		return s.fallback, nil
	}
	return m, nil
}

// Save stores mode.
func (s *ThemeStore) Save(ctx context.Context, mode theme.Mode) error {
	if err := s.client.StoreFile(ctx, ThemeKey, []byte(mode.String())); err != nil {
		return fmt.Errorf("failed to save theme preference: %w", err)
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moneyviz/internal/animation"
	"moneyviz/internal/config"
	"moneyviz/internal/engine"
	"moneyviz/internal/factory"
	"moneyviz/internal/fetchers"
	"moneyviz/internal/logger"
	"moneyviz/internal/mocks"
	"moneyviz/internal/palette"
	"moneyviz/internal/registry"
	"moneyviz/internal/storage"
	"moneyviz/internal/theme"
	"moneyviz/internal/view"
)

// Build wires a complete server from cfg: storage and the persisted theme,
// the chart registry and factory, the data source (mock fixtures in mockup
// mode, the finance API otherwise) and the views.
func Build(ctx context.Context, cfg *config.Config) (*Server, error) {
	log := logger.Component("server")

	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fallback, _ := theme.ParseMode(cfg.DefaultTheme)
	reg := registry.New(
		registry.WithStore(storage.NewThemeStore(store, fallback)),
		registry.WithMode(fallback),
		registry.WithDebounce(cfg.ResizeDebounce),
	)

	scheduler := animation.NewScheduler(cfg.AnimationFrame)
	p := palette.New(cfg.ColorScheme)
	f := factory.New(reg, engine.NewPage(), factory.WithPalette(p), factory.WithAnimator(scheduler))

	var src view.Source
	if cfg.MockupMode {
		src = mocks.NewMockService(cfg.MocksDir)
		log.Info("mockup mode enabled", logger.Fields{"mocks_dir": cfg.MocksDir})
	} else {
		src = fetchers.NewFinanceFetcher(cfg)
		log.Info("using finance API", logger.Fields{"base_url": cfg.APIBaseURL})
	}

	app, err := view.NewApp(view.NewContext(src, f, p))
	if err != nil {
		scheduler.Close()
		store.Close()
		return nil, err
	}
	if mode, err := reg.LoadTheme(ctx); err != nil {
		log.Warn("using default theme", logger.Fields{"theme": mode.String(), "error": err.Error()})
	}

	s, err := NewServer(cfg, app, store)
	if err != nil {
		scheduler.Close()
		store.Close()
		return nil, err
	}
	s.scheduler = scheduler
	return s, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         ":" + s.Config.Port,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", logger.Fields{"port": s.Config.Port})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Package registry tracks every live chart by id and owns the state shared
// by all of them: the theme mode and the responsive breakpoint.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/config"
	"moneyviz/internal/logger"
	"moneyviz/internal/theme"
)

// Target is a registered chart.
type Target interface {
	ID() string
	ApplyTheme(mode theme.Mode)
	ApplyBreakpoint(b theme.Breakpoint)
	Redraw() error
	Resize() error
	Destroy()
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	Load(ctx context.Context) (theme.Mode, error)
	Save(ctx context.Context, mode theme.Mode) error
}

// Registry maps chart ids to live targets. Targets are always called
// outside the lock, so a target may call back into the registry.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]Target
	mode      theme.Mode
	store     ThemeStore
	listeners []func(theme.Mode)

	debounce      time.Duration
	timer         *time.Timer
	resizeSeq     uint64
	breakpoint    theme.Breakpoint
	hasBreakpoint bool

	log *logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore persists theme changes to s.
func WithStore(s ThemeStore) Option {
	return func(r *Registry) { r.store = s }
}

// WithMode sets the initial theme.
func WithMode(m theme.Mode) Option {
	return func(r *Registry) {
		if parsed, ok := theme.ParseMode(string(m)); ok {
			r.mode = parsed
		}
	}
}

// WithDebounce sets the resize quiet period. Values below
// config.MinResizeDebounce are raised to it.
func WithDebounce(d time.Duration) Option {
	return func(r *Registry) { r.debounce = d }
}

// New returns an empty registry in light mode.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]Target),
		mode:     theme.Light,
		debounce: config.MinResizeDebounce,
		log:      logger.Component("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.debounce < config.MinResizeDebounce {
		r.debounce = config.MinResizeDebounce
	}
	return r
}

// LoadTheme reads the persisted theme, if a store is configured, and
// applies it.
func (r *Registry) LoadTheme(ctx context.Context) (theme.Mode, error) {
	r.mu.Lock()
	store := r.store
	r.mu.Unlock()
	if store == nil {
		return r.Mode(), nil
	}
	mode, err := store.Load(ctx)
	if err != nil {
		return r.Mode(), err
	}
	r.apply(mode)
	return mode, nil
}

// Register stores t under id and applies the current theme and breakpoint
// to it. A different target already registered under id is destroyed first.
func (r *Registry) Register(id string, t Target) {
	if t == nil {
		return
	}
	r.mu.Lock()
	prev := r.entries[id]
	r.entries[id] = t
	mode := r.mode
	bp, hasBP := r.breakpoint, r.hasBreakpoint
	r.mu.Unlock()

	if prev != nil && prev != t {
		r.log.Debug("replacing registration", logger.Fields{"chart": id})
		prev.Destroy()
	}
	t.ApplyTheme(mode)
	if hasBP {
		t.ApplyBreakpoint(bp)
	}
}

// Unregister destroys and removes the target under id. Absent ids are a
// no-op.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	t, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		t.Destroy()
	}
	return ok
}

// Get returns the target under id.
func (r *Registry) Get(id string) (Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.entries[id]
	return t, ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Mode returns the current theme.
func (r *Registry) Mode() theme.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// OnThemeChange registers fn to run after every theme update.
func (r *Registry) OnThemeChange(fn func(theme.Mode)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// UpdateTheme switches every registration to mode and redraws it without
// animation, then persists the choice. A persistence failure is returned
// after the theme has been applied.
func (r *Registry) UpdateTheme(ctx context.Context, mode theme.Mode) error {
	parsed, ok := theme.ParseMode(string(mode))
	if !ok {
		return fmt.Errorf("unknown theme %q", mode)
	}
	r.apply(parsed)

	r.mu.Lock()
	store := r.store
	r.mu.Unlock()
	if store != nil {
		if err := store.Save(ctx, parsed); err != nil {
			r.log.Error("failed to persist theme", err, logger.Fields{"theme": string(parsed)})
			return err
		}
	}
	return nil
}

// ToggleTheme flips between light and dark and returns the new mode.
func (r *Registry) ToggleTheme(ctx context.Context) (theme.Mode, error) {
	next := r.Mode().Toggle()
	return next, r.UpdateTheme(ctx, next)
}

func (r *Registry) apply(mode theme.Mode) {
	r.mu.Lock()
	r.mode = mode
	targets := r.snapshot()
	listeners := append([]func(theme.Mode){}, r.listeners...)
	r.mu.Unlock()

	for _, t := range targets {
		t.ApplyTheme(mode)
		r.redraw(t)
	}
	for _, fn := range listeners {
		fn(mode)
	}
	r.log.Info("theme applied", logger.Fields{"theme": string(mode), "charts": len(targets)})
}

// HandleResize schedules the breakpoint for width once no further resize
// has arrived for the debounce period.
func (r *Registry) HandleResize(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resizeSeq++
	seq := r.resizeSeq
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		stale := seq != r.resizeSeq
		r.mu.Unlock()
		if !stale {
			r.ApplyBreakpoint(theme.BreakpointFor(width))
		}
	})
}

// ApplyBreakpoint applies b to every registration immediately.
func (r *Registry) ApplyBreakpoint(b theme.Breakpoint) {
	r.mu.Lock()
	r.breakpoint = b
	r.hasBreakpoint = true
	targets := r.snapshot()
	r.mu.Unlock()

	for _, t := range targets {
		t.ApplyBreakpoint(b)
		if err := t.Resize(); err != nil {
			r.log.Warn("resize failed", logger.Fields{"chart": t.ID(), "error": err.Error()})
		}
	}
	r.log.Debug("breakpoint applied", logger.Fields{"breakpoint": b.String(), "charts": len(targets)})
}

// Breakpoint returns the last applied breakpoint, if any.
func (r *Registry) Breakpoint() (theme.Breakpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.breakpoint, r.hasBreakpoint
}

// ResponsiveConfig returns the responsive option layer for width.
func (r *Registry) ResponsiveConfig(width int) chartopts.Options {
	return theme.ResponsiveConfig(width)
}

// DestroyAll destroys every registration and empties the registry. A
// pending resize is dropped.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	targets := r.snapshot()
	r.entries = make(map[string]Target)
	r.resizeSeq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	for _, t := range targets {
		t.Destroy()
	}
	if len(targets) > 0 {
		r.log.Info("destroyed all charts", logger.Fields{"charts": len(targets)})
	}
}

// snapshot must be called with r.mu held; targets come back in id order.
func (r *Registry) snapshot() []Target {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Target, len(ids))
	for i, id := range ids {
		out[i] = r.entries[id]
	}
	return out
}

func (r *Registry) redraw(t Target) {
	if err := t.Redraw(); err != nil {
		r.log.Warn("redraw failed", logger.Fields{"chart": t.ID(), "error": err.Error()})
	}
}

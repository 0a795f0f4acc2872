package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"moneyviz/internal/charts"
	"moneyviz/internal/engine"
	"moneyviz/internal/theme"
)

type fakeTarget struct {
	id string

	mu          sync.Mutex
	themes      []theme.Mode
	breakpoints []theme.Breakpoint
	redraws     int
	resizes     int
	destroyed   int
	bpApplied   chan theme.Breakpoint
}

func newFake(id string) *fakeTarget {
	return &fakeTarget{id: id, bpApplied: make(chan theme.Breakpoint, 8)}
}

func (f *fakeTarget) ID() string { return f.id }

func (f *fakeTarget) ApplyTheme(m theme.Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes = append(f.themes, m)
}

func (f *fakeTarget) ApplyBreakpoint(b theme.Breakpoint) {
	f.mu.Lock()
	f.breakpoints = append(f.breakpoints, b)
	f.mu.Unlock()
	f.bpApplied <- b
}

func (f *fakeTarget) Redraw() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redraws++
	return nil
}

func (f *fakeTarget) Resize() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes++
	return nil
}

func (f *fakeTarget) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
}

func (f *fakeTarget) counts() (themes, redraws, destroyed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.themes), f.redraws, f.destroyed
}

type memStore struct {
	mode  theme.Mode
	saves int
	err   error
}

func (m *memStore) Load(context.Context) (theme.Mode, error) {
	if m.mode == "" {
		return theme.Light, nil
	}
	return m.mode, nil
}

func (m *memStore) Save(_ context.Context, mode theme.Mode) error {
	if m.err != nil {
		return m.err
	}
	m.mode = mode
	m.saves++
	return nil
}

func TestRegisterAppliesTheme(t *testing.T) {
	r := New(WithMode(theme.Dark))
	a := newFake("a")
	r.Register("a", a)

	if got, ok := r.Get("a"); !ok || got != a {
		t.Fatalf("Expected a to be registered")
	}
	if diff := cmp.Diff([]theme.Mode{theme.Dark}, a.themes); diff != "" {
		t.Errorf("theme mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterTwiceDestroysPrevious(t *testing.T) {
	r := New()
	first, second := newFake("A"), newFake("A")
	r.Register("A", first)
	r.Register("A", second)

	if r.Len() != 1 {
		t.Errorf("Expected one registration, got %d", r.Len())
	}
	if _, _, d := first.counts(); d != 1 {
		t.Errorf("Expected the replaced target destroyed once, got %d", d)
	}
	if _, _, d := second.counts(); d != 0 {
		t.Errorf("Expected the new target alive")
	}

	// registering the same target again must not destroy it
	r.Register("A", second)
	if _, _, d := second.counts(); d != 0 {
		t.Errorf("Expected re-registering the same target to keep it alive")
	}
}

func TestReplacingChartKeepsSharedRegionPainted(t *testing.T) {
	engines := charts.DefaultEngines()
	region := engine.NewRegion("A")
	data := engine.Data{
		Labels:   []string{"一月", "二月"},
		Datasets: []engine.Dataset{{Label: "支出", Data: []float64{3, 4}}},
	}
	newChart := func() *charts.Chart {
		cfg := charts.Config{"id": "A"}
		c, err := charts.New(cfg, charts.NewBar(cfg, nil), region, engines)
		if err != nil {
			t.Fatalf("charts.New failed: %v", err)
		}
		if err := c.Render(data); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return c
	}

	r := New()
	first := newChart()
	r.Register("A", first)
	second := newChart()
	r.Register("A", second)

	if !first.Destroyed() {
		t.Errorf("Expected the replaced chart destroyed")
	}
	if state, _ := second.State(); state != charts.StateReady {
		t.Errorf("Expected the replacement ready, got %s", state)
	}
	if region.Content() == "" {
		t.Errorf("Expected the replacement to stay painted")
	}
	if region.Owner() != second.Instance() {
		t.Errorf("Expected the replacement's instance to hold the region")
	}
	if live := engines.Live(); live != 1 {
		t.Errorf("Expected one live instance, got %d", live)
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	r := New()
	a := newFake("a")
	r.Register("a", a)

	if !r.Unregister("a") {
		t.Errorf("Expected first Unregister to remove a")
	}
	if r.Unregister("a") {
		t.Errorf("Expected second Unregister to be a no-op")
	}
	if r.Unregister("missing") {
		t.Errorf("Expected absent id to be a no-op")
	}
	if _, _, d := a.counts(); d != 1 {
		t.Errorf("Expected exactly one destroy, got %d", d)
	}
	if r.Len() != 0 {
		t.Errorf("Expected empty registry")
	}
}

func TestUpdateThemeVisitsEveryRegistration(t *testing.T) {
	store := &memStore{}
	r := New(WithStore(store))
	targets := []*fakeTarget{newFake("a"), newFake("b"), newFake("c")}
	for _, tg := range targets {
		r.Register(tg.id, tg)
	}

	var notified []theme.Mode
	r.OnThemeChange(func(m theme.Mode) { notified = append(notified, m) })

	if err := r.UpdateTheme(context.Background(), theme.Dark); err != nil {
		t.Fatalf("UpdateTheme failed: %v", err)
	}
	for _, tg := range targets {
		themes, redraws, _ := tg.counts()
		if themes != 2 || redraws != 1 {
			t.Errorf("%s: expected register+update themes and one redraw, got %d/%d", tg.id, themes, redraws)
		}
	}
	if r.Mode() != theme.Dark || store.mode != theme.Dark {
		t.Errorf("Expected dark mode applied and persisted, got %s/%s", r.Mode(), store.mode)
	}
	if diff := cmp.Diff([]theme.Mode{theme.Dark}, notified); diff != "" {
		t.Errorf("listener mismatch (-want +got):\n%s", diff)
	}

	if err := r.UpdateTheme(context.Background(), "sepia"); err == nil {
		t.Errorf("Expected error for unknown theme")
	}
}

func TestToggleThemeTwiceRestores(t *testing.T) {
	store := &memStore{}
	r := New(WithStore(store))
	start := r.Mode()

	m1, err := r.ToggleTheme(context.Background())
	if err != nil || m1 == start {
		t.Fatalf("Expected toggle to switch theme, got %s, %v", m1, err)
	}
	m2, err := r.ToggleTheme(context.Background())
	if err != nil || m2 != start {
		t.Errorf("Expected second toggle to restore %s, got %s, %v", start, m2, err)
	}
	if store.saves != 2 {
		t.Errorf("Expected two saves, got %d", store.saves)
	}
}

func TestUpdateThemePersistFailure(t *testing.T) {
	boom := errors.New("disk full")
	r := New(WithStore(&memStore{err: boom}))
	a := newFake("a")
	r.Register("a", a)

	if err := r.UpdateTheme(context.Background(), theme.Dark); !errors.Is(err, boom) {
		t.Errorf("Expected persistence error, got %v", err)
	}
	if r.Mode() != theme.Dark {
		t.Errorf("Expected theme applied despite persistence failure")
	}
}

func TestLoadTheme(t *testing.T) {
	r := New(WithStore(&memStore{mode: theme.Dark}))
	a := newFake("a")
	r.Register("a", a)

	mode, err := r.LoadTheme(context.Background())
	if err != nil || mode != theme.Dark || r.Mode() != theme.Dark {
		t.Errorf("Expected stored dark theme, got %s, %v", mode, err)
	}
	if themes, _, _ := a.counts(); themes != 2 {
		t.Errorf("Expected the loaded theme applied to registrations, got %d", themes)
	}

	if mode, err := New().LoadTheme(context.Background()); err != nil || mode != theme.Light {
		t.Errorf("Expected light without a store, got %s, %v", mode, err)
	}
}

func TestHandleResizeDebounces(t *testing.T) {
	r := New(WithDebounce(time.Millisecond))
	a := newFake("a")
	r.Register("a", a)

	start := time.Now()
	r.HandleResize(1400)
	r.HandleResize(900)
	r.HandleResize(400)

	select {
	case b := <-a.bpApplied:
		if b != theme.Mobile {
			t.Errorf("Expected only the last width applied, got %s", b)
		}
		if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
			t.Errorf("Expected the debounce to be raised to its minimum, applied after %s", elapsed)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("resize was never applied")
	}

	select {
	case b := <-a.bpApplied:
		t.Errorf("Expected a single application, got another %s", b)
	case <-time.After(400 * time.Millisecond):
	}

	if b, ok := r.Breakpoint(); !ok || b != theme.Mobile {
		t.Errorf("Expected mobile breakpoint recorded, got %s, %v", b, ok)
	}
	a.mu.Lock()
	resizes, redraws := a.resizes, a.redraws
	a.mu.Unlock()
	if resizes != 1 || redraws != 0 {
		t.Errorf("Expected one resize and no theme redraw, got %d/%d", resizes, redraws)
	}
}

func TestRegisterAfterBreakpoint(t *testing.T) {
	r := New()
	r.ApplyBreakpoint(theme.Tablet)
	a := newFake("a")
	r.Register("a", a)
	select {
	case b := <-a.bpApplied:
		if b != theme.Tablet {
			t.Errorf("Expected tablet, got %s", b)
		}
	default:
		t.Errorf("Expected the current breakpoint applied on register")
	}
}

func TestDestroyAll(t *testing.T) {
	r := New()
	a, b := newFake("a"), newFake("b")
	r.Register("a", a)
	r.Register("b", b)
	r.HandleResize(500)

	r.DestroyAll()

	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %v", r.IDs())
	}
	for _, tg := range []*fakeTarget{a, b} {
		if _, _, d := tg.counts(); d != 1 {
			t.Errorf("%s: expected one destroy, got %d", tg.id, d)
		}
	}
	select {
	case <-a.bpApplied:
		t.Errorf("Expected pending resize dropped")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestReentrantTarget(t *testing.T) {
	r := New()
	re := &reentrant{fakeTarget: newFake("re"), reg: r}
	r.Register("re", re)
	r.Register("other", newFake("other"))

	done := make(chan struct{})
	go func() {
		r.ApplyBreakpoint(theme.Desktop)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("re-entrant call deadlocked")
	}
	if re.seen == 0 {
		t.Errorf("Expected the target to observe the registry during resize")
	}
}

type reentrant struct {
	*fakeTarget
	reg  *Registry
	seen int
}

func (r *reentrant) Resize() error {
	r.seen = r.reg.Len()
	return nil
}

func TestIDsSorted(t *testing.T) {
	r := New()
	for _, id := range []string{"c", "a", "b"} {
		r.Register(id, newFake(id))
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if r.ResponsiveConfig(320)["aspectRatio"] != 1.5 {
		t.Errorf("Expected mobile responsive layer")
	}
}

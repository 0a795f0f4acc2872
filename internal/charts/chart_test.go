package charts

import (
	"errors"
	"strings"
	"testing"
	"time"

	"moneyviz/internal/animation"
	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/format"
	"moneyviz/internal/palette"
	"moneyviz/internal/theme"
)

func lineData(values ...float64) engine.Data {
	labels := make([]string, len(values))
	for i := range values {
		labels[i] = string(rune('A' + i))
	}
	return engine.Data{Labels: labels, Datasets: []engine.Dataset{{Label: "资产", Data: values}}}
}

func newChart(t *testing.T, kind Kind, cfg Config) (*Chart, *engine.Region, Engines) {
	t.Helper()
	r, err := NewRenderer(kind, cfg, palette.New(palette.DefaultScheme))
	if err != nil {
		t.Fatalf("NewRenderer(%s) failed: %v", kind, err)
	}
	region := engine.NewRegion(cfg.ID())
	engines := DefaultEngines()
	c, err := New(cfg, r, region, engines)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, region, engines
}

func TestRenderReusesInstance(t *testing.T) {
	c, region, engines := newChart(t, Line, Config{"id": "trend"})

	if err := c.Render(lineData(1, 2, 3)); err != nil {
		t.Fatalf("first Render failed: %v", err)
	}
	first := c.Instance()
	if err := c.Render(lineData(4, 5, 6)); err != nil {
		t.Fatalf("second Render failed: %v", err)
	}

	if engines.Live() != 1 {
		t.Errorf("Expected exactly one live instance, got %d", engines.Live())
	}
	if c.Instance() != first {
		t.Errorf("Expected the instance to be updated in place")
	}
	if first.Draws() != 2 {
		t.Errorf("Expected two draws, got %d", first.Draws())
	}
	if state, err := c.State(); state != StateReady || err != nil {
		t.Errorf("Expected ready state, got %s (%v)", state, err)
	}
	if !strings.Contains(region.Content(), `<canvas id="trend-canvas">`) {
		t.Errorf("Expected canvas in container, got %q", region.Content())
	}
}

func TestRenderEmptyShowsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		data any
	}{
		{"nil line", Line, nil},
		{"no datasets", Bar, engine.Data{Labels: []string{"a"}}},
		{"no pie items", Pie, []format.Item{}},
		{"no heat cells", Heatmap, [][]float64{}},
		{"no flows", Sankey, []Flow{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, region, engines := newChart(t, tt.kind, Config{"id": "empty"})
			if err := c.Render(tt.data); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if state, _ := c.State(); state != StateEmpty {
				t.Errorf("Expected empty state, got %s", state)
			}
			if !strings.Contains(region.Content(), EmptyText) {
				t.Errorf("Expected empty placeholder, got %q", region.Content())
			}
			if engines.Live() != 0 {
				t.Errorf("Expected no live instance, got %d", engines.Live())
			}
		})
	}
}

func TestRenderEmptyAfterDataReleasesInstance(t *testing.T) {
	c, region, engines := newChart(t, Bar, Config{"id": "spend"})
	if err := c.Render(lineData(1, 2)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if err := c.Render(engine.Data{}); err != nil {
		t.Fatalf("Render of empty data failed: %v", err)
	}
	if engines.Live() != 0 || c.Instance() != nil {
		t.Errorf("Expected instance released, live=%d", engines.Live())
	}
	if !strings.Contains(region.Content(), EmptyText) {
		t.Errorf("Expected empty placeholder, got %q", region.Content())
	}
}

func TestRenderFailureShowsErrorPlaceholder(t *testing.T) {
	c, region, engines := newChart(t, Bar, Config{"id": "bad"})
	if err := c.Render(lineData(1)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	err := c.Render("not chart data")
	if !errors.Is(err, ErrRender) {
		t.Fatalf("Expected ErrRender, got %v", err)
	}
	if state, stateErr := c.State(); state != StateFailed || stateErr == nil {
		t.Errorf("Expected failed state with error, got %s (%v)", state, stateErr)
	}
	if !strings.Contains(region.Content(), ErrorText) {
		t.Errorf("Expected error placeholder, got %q", region.Content())
	}
	if engines.Live() != 0 {
		t.Errorf("Expected failed render to release the instance, got %d live", engines.Live())
	}

	// a good render afterwards recovers
	if err := c.Render(lineData(2)); err != nil {
		t.Fatalf("recovery Render failed: %v", err)
	}
	if engines.Live() != 1 {
		t.Errorf("Expected one live instance after recovery, got %d", engines.Live())
	}
}

type panicRenderer struct{ *BarRenderer }

func (panicRenderer) PrepareData(any) (any, error) { panic("boom") }

func TestRenderRecoversPanic(t *testing.T) {
	region := engine.NewRegion("panic")
	c, err := New(Config{"id": "panic"}, panicRenderer{NewBar(Config{}, palette.New(""))}, region, DefaultEngines())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Render(lineData(1)); !errors.Is(err, ErrRender) {
		t.Fatalf("Expected ErrRender from panic, got %v", err)
	}
	if !strings.Contains(region.Content(), ErrorText) {
		t.Errorf("Expected error placeholder, got %q", region.Content())
	}
}

func TestNewRequiresContainer(t *testing.T) {
	if _, err := New(Config{}, NewBar(Config{}, nil), nil, DefaultEngines()); !errors.Is(err, engine.ErrContainerNotFound) {
		t.Errorf("Expected ErrContainerNotFound, got %v", err)
	}
}

func TestNewGeneratesID(t *testing.T) {
	c, err := New(Config{}, NewPie(Config{}, nil), engine.NewRegion("x"), DefaultEngines())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !strings.HasPrefix(c.ID(), "pie-") {
		t.Errorf("Expected generated id with kind prefix, got %q", c.ID())
	}
}

func TestDestroy(t *testing.T) {
	c, region, engines := newChart(t, Pie, Config{"id": "share"})
	if err := c.Render([]format.Item{{Name: "餐饮", Value: 300}, {Name: "交通", Value: 100}}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	c.Destroy()
	c.Destroy()

	if engines.Live() != 0 {
		t.Errorf("Expected no live instances, got %d", engines.Live())
	}
	if region.Content() != "" {
		t.Errorf("Expected container cleared, got %q", region.Content())
	}
	if !c.Destroyed() {
		t.Errorf("Expected chart destroyed")
	}
	if err := c.Render(lineData(1)); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
	if err := c.Update(nil, NoAnimation()); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed from Update, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	t.Run("without instance renders", func(t *testing.T) {
		c, _, engines := newChart(t, Line, Config{"id": "u1"})
		if err := c.Update(lineData(1, 2), UpdateOptions{}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if engines.Live() != 1 {
			t.Errorf("Expected Update to create the instance, got %d live", engines.Live())
		}
	})

	t.Run("no animation", func(t *testing.T) {
		c, _, _ := newChart(t, Line, Config{"id": "u2"})
		if err := c.Render(lineData(1, 2)); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if err := c.Update(lineData(3, 4), NoAnimation()); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		snip := c.Instance().Snippet()
		if !strings.Contains(snip.Script, "'none'") {
			t.Errorf("Expected an immediate redraw, got %q", snip.Script)
		}
		d := c.Prepared().(engine.Data)
		if d.Datasets[0].Data[1] != 4 {
			t.Errorf("Expected new data, got %v", d.Datasets[0].Data)
		}
	})

	t.Run("animated without animator hands timing to the engine", func(t *testing.T) {
		c, _, _ := newChart(t, Bar, Config{"id": "u3"})
		if err := c.Render(lineData(1)); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if err := c.Update(lineData(2), UpdateOptions{Duration: 300 * time.Millisecond}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		o := c.Instance().Spec().Options
		if optionAt(o, "animation.duration") != 300 {
			t.Errorf("Expected duration 300, got %v", optionAt(o, "animation.duration"))
		}
		if chartopts.LookupString(o, "animation.easing") != animation.DefaultUpdateEasing {
			t.Errorf("Expected default easing, got %v", optionAt(o, "animation.easing"))
		}
	})

	t.Run("animated with animator ends on the target", func(t *testing.T) {
		s := animation.NewScheduler(time.Millisecond)
		defer s.Close()
		c, _, _ := newChart(t, Line, Config{"id": "u4"})
		c.SetAnimator(s)
		if err := c.Render(lineData(0, 0)); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if err := c.Update(lineData(10, 20), UpdateOptions{Duration: 20 * time.Millisecond}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		deadline := time.Now().Add(2 * time.Second)
		for {
			d, _ := c.Instance().Spec().Data.(engine.Data)
			if len(d.Datasets) > 0 && d.Datasets[0].Data[1] == 20 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("Expected animation to finish on the target, got %v", d)
			}
			time.Sleep(5 * time.Millisecond)
		}
	})
}

func TestThemeAndBreakpoint(t *testing.T) {
	c, _, _ := newChart(t, Bar, Config{"id": "themed"})
	if err := c.Render(lineData(1, 2)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	c.ApplyTheme(theme.Dark)
	c.ApplyBreakpoint(theme.Mobile)
	if err := c.Redraw(); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}

	o := c.Instance().Spec().Options
	if got := chartopts.LookupString(o, "plugins.legend.labels.color"); got != theme.ColorsFor(theme.Dark).Text {
		t.Errorf("Expected dark legend color, got %q", got)
	}
	if got := chartopts.LookupString(o, "plugins.legend.position"); got != "bottom" {
		t.Errorf("Expected legend at the bottom on mobile, got %q", got)
	}
	if c.ThemeApplications() != 1 {
		t.Errorf("Expected one theme application, got %d", c.ThemeApplications())
	}

	c.ApplyBreakpoint(theme.Desktop)
	if err := c.Resize(); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if got := chartopts.LookupString(c.Instance().Spec().Options, "plugins.legend.position"); got != "top" {
		t.Errorf("Expected legend restored on desktop, got %q", got)
	}
}

func TestRedrawWithoutInstance(t *testing.T) {
	c, _, engines := newChart(t, Line, Config{"id": "idle"})
	if err := c.Redraw(); err != nil {
		t.Errorf("Expected Redraw to be a no-op, got %v", err)
	}
	if engines.Live() != 0 {
		t.Errorf("Expected Redraw not to create an instance")
	}
}

func TestAnimateEffect(t *testing.T) {
	s := animation.NewScheduler(time.Millisecond)
	defer s.Close()
	c, _, _ := newChart(t, Bar, Config{"id": "grow"})
	if task := c.Animate(animation.FadeIn{}, 10*time.Millisecond, ""); task != nil {
		t.Errorf("Expected no task without animator")
	}
	c.SetAnimator(s)
	if err := c.Render(lineData(5, 10)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	task := c.Animate(animation.ByName("grow"), 20*time.Millisecond, "")
	if task == nil {
		t.Fatalf("Expected an animation task")
	}
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("animation did not finish")
	}
	d := c.Instance().Spec().Data.(engine.Data)
	if d.Datasets[0].Data[1] != 10 {
		t.Errorf("Expected final frame to show the data, got %v", d.Datasets[0].Data)
	}
}

func TestRows(t *testing.T) {
	c, _, _ := newChart(t, Pie, Config{"id": "rows"})
	if err := c.Render([]format.Item{{Name: "房租", Value: 3000}, {Name: "餐饮", Value: 1200}}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	rows := c.Rows()
	if len(rows) != 2 || rows[0] != (Row{Label: "房租", Value: 3000}) {
		t.Errorf("Unexpected rows %v", rows)
	}
}

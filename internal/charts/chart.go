// Package charts binds chart variants to containers. A Chart owns exactly
// one engine instance and drives it through render, update, theming and
// teardown; the variant-specific work lives behind the Renderer interface.
package charts

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"moneyviz/internal/animation"
	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/logger"
	"moneyviz/internal/theme"
)

var (
	// ErrRender wraps every failure caught at the render boundary.
	ErrRender = errors.New("chart render failed")
	// ErrDestroyed is returned when a destroyed chart is asked to render.
	ErrDestroyed = errors.New("chart destroyed")
)

// DefaultUpdateDuration is the transition length of an animated update.
const DefaultUpdateDuration = 750 * time.Millisecond

// State is where a chart is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateEmpty     State = "empty"
	StateFailed    State = "failed"
	StateDestroyed State = "destroyed"
)

// Engines are the engines charts paint with.
type Engines struct {
	ChartJS engine.Engine
	ECharts engine.Engine
}

// DefaultEngines returns a fresh Chart.js and ECharts engine.
func DefaultEngines() Engines {
	return Engines{ChartJS: engine.NewChartJS(), ECharts: engine.NewECharts("")}
}

func (e Engines) pick(k EngineKind) engine.Engine {
	if k == ECharts {
		return e.ECharts
	}
	return e.ChartJS
}

// Live is the number of live instances across both engines.
func (e Engines) Live() int {
	n := 0
	if e.ChartJS != nil {
		n += e.ChartJS.Live()
	}
	if e.ECharts != nil {
		n += e.ECharts.Live()
	}
	return n
}

// UpdateOptions tunes Update. A nil Animation means animate.
type UpdateOptions struct {
	Animation *bool
	Duration  time.Duration
	Easing    string
}

// NoAnimation is the UpdateOptions for an immediate redraw.
func NoAnimation() UpdateOptions {
	off := false
	return UpdateOptions{Animation: &off}
}

func (o UpdateOptions) animated() bool { return o.Animation == nil || *o.Animation }

// Chart is one chart bound to a container.
type Chart struct {
	mu sync.Mutex

	id        string
	cfg       Config
	renderer  Renderer
	eng       engine.Engine
	container engine.Container
	animator  *animation.Scheduler
	log       *logger.Logger

	inst     engine.Instance
	raw      any
	prepared any
	state    State
	err      error
	task     *animation.Task

	mode          theme.Mode
	breakpoint    theme.Breakpoint
	hasBreakpoint bool
	legend        string
	themed        int
}

// New binds r to container c. The chart id comes from cfg or is generated
// from the kind. Nothing is painted until Render.
func New(cfg Config, r Renderer, c engine.Container, engines Engines) (*Chart, error) {
	if c == nil {
		return nil, engine.ErrContainerNotFound
	}
	if r == nil {
		return nil, errors.New("chart renderer is nil")
	}
	eng := engines.pick(r.Engine())
	if eng == nil {
		return nil, fmt.Errorf("no %s engine configured", r.Engine())
	}

	id := cfg.ID()
	if id == "" {
		id = GenerateID(string(r.Kind()))
	}

	base := chartopts.GetConfig(string(r.Kind()), cfg.EngineOptions())

	return &Chart{
		id:        id,
		cfg:       cfg,
		renderer:  r,
		eng:       eng,
		container: c,
		log:       logger.Component("charts").With(logger.Fields{"chart": id, "kind": string(r.Kind())}),
		state:     StateIdle,
		mode:      theme.Light,
		legend:    chartopts.LookupString(base, "plugins.legend.position"),
	}, nil
}

// SetAnimator routes animated updates and effects through s. Without one,
// transitions are left to the browser engine.
func (c *Chart) SetAnimator(s *animation.Scheduler) {
	c.mu.Lock()
	c.animator = s
	c.mu.Unlock()
}

func (c *Chart) ID() string                  { return c.id }
func (c *Chart) Kind() Kind                  { return c.renderer.Kind() }
func (c *Chart) Config() Config              { return c.cfg }
func (c *Chart) Container() engine.Container { return c.container }

// State returns the lifecycle state and the last render error.
func (c *Chart) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.err
}

// Instance returns the live engine instance, or nil.
func (c *Chart) Instance() engine.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inst
}

// Prepared returns the last successfully prepared data.
func (c *Chart) Prepared() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepared
}

// Rows returns the current data as export rows.
func (c *Chart) Rows() []Row {
	return RowsOf(c.Prepared())
}

// Title is the configured chart title, falling back to the id.
func (c *Chart) Title() string { return c.cfg.String("title", c.id) }

// Content returns what the container currently shows.
func (c *Chart) Content() string { return c.container.Content() }

// Render prepares data and paints it. The first successful call creates the
// engine instance; later calls update that instance in place. Failures,
// panics included, leave an error placeholder in the container and are
// returned wrapped in ErrRender for the caller to log or ignore.
func (c *Chart) Render(data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(data)
}

func (c *Chart) render(data any) (err error) {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	c.stopTask()

	if c.inst == nil {
		c.state = StateLoading
		c.container.Claim(c)
		ShowLoading(c.container)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
		}
		if err != nil {
			c.fail(err)
		}
	}()

	prepared, err := c.renderer.PrepareData(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	c.raw = data
	if isEmpty(prepared) {
		c.empty()
		return nil
	}

	spec := engine.Spec{Type: c.renderer.ChartType(), Data: prepared, Options: c.options()}
	if c.inst != nil && !c.inst.Destroyed() {
		c.inst.SetData(prepared)
		c.inst.SetOptions(spec.Options)
		if err := c.inst.Update(engine.UpdateAnimate); err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
	} else {
		inst, err := c.eng.New(c.container, spec)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
		c.inst = inst
	}

	c.prepared = prepared
	c.state = StateReady
	c.err = nil
	c.log.Debug("chart rendered")
	return nil
}

// Update swaps in new data (nil keeps the current data) and redraws. With
// no live instance it renders instead. Animated updates ease from the old
// values when an animator is attached; otherwise the transition length and
// easing are handed to the engine.
func (c *Chart) Update(data any, opts UpdateOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	if c.inst == nil || c.inst.Destroyed() {
		if data == nil {
			data = c.raw
		}
		return c.render(data)
	}
	c.stopTask()

	previous := c.prepared
	if data != nil {
		prepared, err := c.safePrepare(data)
		if err != nil {
			c.fail(err)
			return err
		}
		c.raw = data
		if isEmpty(prepared) {
			c.empty()
			return nil
		}
		c.prepared = prepared
		c.inst.SetData(prepared)
	}

	o := c.options()
	if !opts.animated() {
		c.inst.SetOptions(o)
		return c.inst.Update(engine.UpdateNone)
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultUpdateDuration
	}
	easing := opts.Easing
	if easing == "" {
		easing = animation.DefaultUpdateEasing
	}

	from, fromOK := previous.(engine.Data)
	to, toOK := c.prepared.(engine.Data)
	if c.animator != nil && fromOK && toOK {
		c.inst.SetOptions(o)
		scene := animation.Scene{Type: c.renderer.ChartType(), Data: to, Options: o}
		c.play(animation.Transition{From: from}, scene, duration, animation.MustEasing(easing))
		return nil
	}

	c.setAnimation(o, duration, easing)
	c.inst.SetOptions(o)
	return c.inst.Update(engine.UpdateAnimate)
}

// Animate plays a named entrance effect over the current data on the
// attached animator and returns its task, or nil when the chart has no
// animator or its data is not Chart.js data.
func (c *Chart) Animate(effect animation.Effect, duration time.Duration, easing string) *animation.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.prepared.(engine.Data)
	if c.animator == nil || !ok || c.inst == nil || c.inst.Destroyed() {
		return nil
	}
	c.stopTask()
	if easing == "" {
		easing = animation.DefaultEffectEasing
	}
	scene := animation.Scene{Type: c.renderer.ChartType(), Data: data, Options: c.options()}
	return c.play(effect, scene, animation.Duration(effect, duration, scene), animation.MustEasing(easing))
}

// play must be called with c.mu held. Frames paint without engine
// animation; a frame arriving after the task was superseded is dropped.
func (c *Chart) play(effect animation.Effect, target animation.Scene, d time.Duration, easing animation.Easing) *animation.Task {
	var task *animation.Task
	task = c.animator.Animate(d, easing, func(f animation.Frame) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.task != task || c.inst == nil || c.inst.Destroyed() {
			return
		}
		s := effect.Frame(target, f)
		c.inst.SetData(s.Data)
		c.inst.SetOptions(s.Options)
		if err := c.inst.Update(engine.UpdateNone); err != nil {
			c.log.Warn("animation frame failed", logger.Fields{"effect": effect.Name(), "error": err.Error()})
		}
		if f.Final {
			c.task = nil
		}
	})
	c.task = task
	return task
}

func (c *Chart) stopTask() {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

func (c *Chart) setAnimation(o chartopts.Options, d time.Duration, easing string) {
	ms := int(d / time.Millisecond)
	if c.renderer.Engine() == ECharts {
		o["animationDuration"] = ms
		o["animationEasing"] = "cubicInOut"
		return
	}
	anim := chartopts.Map(o, "animation")
	anim["duration"] = ms
	anim["easing"] = easing
}

// ApplyTheme records mode; it takes effect on the next paint.
func (c *Chart) ApplyTheme(mode theme.Mode) {
	c.mu.Lock()
	c.mode = mode
	c.themed++
	c.mu.Unlock()
}

// ThemeApplications counts ApplyTheme calls.
func (c *Chart) ThemeApplications() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.themed
}

// ApplyBreakpoint records the responsive tier; it takes effect on the next
// paint.
func (c *Chart) ApplyBreakpoint(b theme.Breakpoint) {
	c.mu.Lock()
	c.breakpoint = b
	c.hasBreakpoint = true
	c.mu.Unlock()
}

// Redraw repaints the current data with fresh options and no animation.
// It is a no-op without a live instance.
func (c *Chart) Redraw() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inst == nil || c.inst.Destroyed() {
		return nil
	}
	c.stopTask()
	if c.prepared != nil {
		c.inst.SetData(c.prepared)
	}
	c.inst.SetOptions(c.options())
	return c.inst.Update(engine.UpdateNone)
}

// Resize repaints for the breakpoint last applied. The registry calls it
// once a viewport change has settled.
func (c *Chart) Resize() error { return c.Redraw() }

// Destroy releases the engine instance and clears the container, unless a
// newer chart has painted into it since. It is safe to call more than once.
func (c *Chart) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	c.stopTask()
	c.release()
	c.container.Release(c)
	c.state = StateDestroyed
	c.log.Debug("chart destroyed")
}

// Destroyed reports whether Destroy has run.
func (c *Chart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateDestroyed
}

func (c *Chart) release() {
	if c.inst != nil {
		c.inst.Destroy()
		c.inst = nil
	}
}

func (c *Chart) safePrepare(data any) (prepared any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
		}
	}()
	prepared, err = c.renderer.PrepareData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return prepared, nil
}

func (c *Chart) fail(err error) {
	c.release()
	c.prepared = nil
	c.state = StateFailed
	c.err = err
	c.container.Claim(c)
	ShowEmpty(c.container, ErrorText)
	c.log.Error("chart render failed", err)
}

func (c *Chart) empty() {
	c.release()
	c.prepared = nil
	c.state = StateEmpty
	c.err = nil
	c.container.Claim(c)
	ShowEmpty(c.container, EmptyText)
}

// options builds the option tree for the next paint: merged Chart.js
// defaults (ECharts variants start from the user options alone), the
// variant's options, then theme and breakpoint.
func (c *Chart) options() chartopts.Options {
	var base chartopts.Options
	if c.renderer.Engine() == ECharts {
		base = c.cfg.EngineOptions()
	} else {
		base = chartopts.GetConfig(string(c.renderer.Kind()), c.cfg.EngineOptions())
	}
	o := chartopts.DeepMerge(base, c.renderer.Options(base))
	if c.renderer.Engine() == ECharts {
		theme.ApplyECharts(o, c.mode)
	} else {
		theme.Apply(o, c.mode)
	}
	if c.hasBreakpoint {
		theme.ApplyBreakpoint(o, c.breakpoint, c.legend)
	}
	return o
}

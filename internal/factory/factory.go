// Package factory resolves chart kinds to renderers, layers configuration,
// and keeps every chart it builds registered.
package factory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"

	"moneyviz/internal/animation"
	"moneyviz/internal/chartopts"
	"moneyviz/internal/charts"
	"moneyviz/internal/engine"
	"moneyviz/internal/export"
	"moneyviz/internal/logger"
	"moneyviz/internal/palette"
	"moneyviz/internal/registry"
)

var (
	// ErrUnknownChartType is returned for a type name no kind matches.
	ErrUnknownChartType = errors.New("unknown chart type")
	// ErrMissingImplementation is returned when a kind has no constructor.
	ErrMissingImplementation = errors.New("missing chart implementation")
	// ErrNotFound is returned for ids with no chart.
	ErrNotFound = errors.New("chart not found")
)

// Constructor builds the renderer for a merged configuration.
type Constructor func(cfg charts.Config, p *palette.Palette) (charts.Renderer, error)

// Factory creates charts into the regions of one page.
type Factory struct {
	mu       sync.Mutex
	registry *registry.Registry
	page     *engine.Page
	engines  charts.Engines
	palette  *palette.Palette
	animator *animation.Scheduler
	ctors    map[charts.Kind]Constructor
	charts   map[string]*charts.Chart
	width    int
	log      *logger.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithEngines paints with e instead of fresh default engines.
func WithEngines(e charts.Engines) Option {
	return func(f *Factory) { f.engines = e }
}

// WithPalette colors charts from p.
func WithPalette(p *palette.Palette) Option {
	return func(f *Factory) { f.palette = p }
}

// WithAnimator attaches s to every chart created.
func WithAnimator(s *animation.Scheduler) Option {
	return func(f *Factory) { f.animator = s }
}

// WithWidth sets the viewport width used for responsive defaults.
func WithWidth(w int) Option {
	return func(f *Factory) { f.width = w }
}

// New returns a factory that registers charts with reg and paints them into
// page.
func New(reg *registry.Registry, page *engine.Page, opts ...Option) *Factory {
	f := &Factory{
		registry: reg,
		page:     page,
		engines:  charts.DefaultEngines(),
		ctors:    make(map[charts.Kind]Constructor),
		charts:   make(map[string]*charts.Chart),
		width:    1280,
		log:      logger.Component("factory"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.palette == nil {
		f.palette = palette.New(palette.DefaultScheme)
	}
	if f.registry == nil {
		f.registry = registry.New()
	}
	if f.page == nil {
		f.page = engine.NewPage()
	}
	return f
}

// Registry returns the registry charts are kept in.
func (f *Factory) Registry() *registry.Registry { return f.registry }

// Page returns the page charts are painted into.
func (f *Factory) Page() *engine.Page { return f.page }

// Engines returns the engines charts are painted with.
func (f *Factory) Engines() charts.Engines { return f.engines }

// SetWidth updates the viewport width for charts created later.
func (f *Factory) SetWidth(w int) {
	f.mu.Lock()
	f.width = w
	f.mu.Unlock()
}

// RegisterType overrides the constructor for kind. A nil constructor leaves
// the kind known but unimplemented.
func (f *Factory) RegisterType(kind charts.Kind, ctor Constructor) {
	f.mu.Lock()
	f.ctors[kind] = ctor
	f.mu.Unlock()
}

func (f *Factory) constructor(kind charts.Kind) (Constructor, error) {
	f.mu.Lock()
	ctor, overridden := f.ctors[kind]
	f.mu.Unlock()
	if overridden {
		if ctor == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingImplementation, kind)
		}
		return ctor, nil
	}

	switch kind {
	case charts.Bar, charts.Line, charts.Pie, charts.Radar, charts.Gauge, charts.Heatmap, charts.Sankey:
		return func(cfg charts.Config, p *palette.Palette) (charts.Renderer, error) {
			return charts.NewRenderer(kind, cfg, p)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChartType, kind)
	}
}

// CreateChart builds a chart of the named type. The configuration is
// layered top-level only: id and type, then the type defaults, the
// responsive defaults and finally cfg. Any chart already under the same id
// is destroyed first, as is any other chart bound to the same container.
// The chart is registered, then rendered when cfg carries data (gauges
// always render their configured reading). Render failures stay inside the
// chart's container.
func (f *Factory) CreateChart(typeName string, cfg charts.Config) (*charts.Chart, error) {
	kind, ok := charts.ParseKind(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChartType, typeName)
	}
	ctor, err := f.constructor(kind)
	if err != nil {
		return nil, err
	}

	id := cfg.ID()
	if id == "" {
		id = charts.GenerateID(string(kind))
	}
	f.DestroyChart(id)

	f.mu.Lock()
	width := f.width
	f.mu.Unlock()

	merged := charts.Config(chartopts.Spread(
		chartopts.Options{"id": id, "type": string(kind)},
		chartopts.TypeDefaults(string(kind)),
		f.registry.ResponsiveConfig(width),
		chartopts.Options(cfg),
	))
	merged["id"] = id

	renderer, err := ctor(merged, f.palette)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s renderer: %w", kind, err)
	}
	if renderer == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingImplementation, kind)
	}

	container := f.page.Region(merged.String("container", id))
	f.vacate(container, id)
	chart, err := charts.New(merged, renderer, container, f.engines)
	if err != nil {
		return nil, err
	}
	chart.SetAnimator(f.animator)

	f.mu.Lock()
	f.charts[id] = chart
	f.mu.Unlock()
	f.registry.Register(id, chart)

	if data := merged.Data(); data != nil || kind == charts.Gauge {
		if err := chart.Render(data); err != nil {
			f.log.Warn("chart render failed", logger.Fields{"chart": id, "kind": string(kind), "error": err.Error()})
		}
	}
	f.log.Debug("chart created", logger.Fields{"chart": id, "kind": string(kind)})
	return chart, nil
}

// vacate destroys every chart other than id that is bound to container.
func (f *Factory) vacate(container engine.Container, id string) {
	f.mu.Lock()
	var bound []string
	for other, c := range f.charts {
		if other != id && c.Container() == container {
			bound = append(bound, other)
		}
	}
	f.mu.Unlock()

	for _, other := range bound {
		f.log.Debug("container taken over", logger.Fields{"chart": other, "container": container.ID(), "by": id})
		f.DestroyChart(other)
	}
}

// CreateCharts creates each configuration, which must name its type under
// "type". Failures are logged and collected; the charts that were created
// are returned either way.
func (f *Factory) CreateCharts(cfgs []charts.Config) ([]*charts.Chart, error) {
	var (
		created []*charts.Chart
		result  *multierror.Error
	)
	for i, cfg := range cfgs {
		chart, err := f.CreateChart(cfg.String("type", ""), cfg)
		if err != nil {
			f.log.Error("failed to create chart", err, logger.Fields{"index": i, "chart": cfg.ID()})
			result = multierror.Append(result, fmt.Errorf("chart %d (%s): %w", i, cfg.ID(), err))
			continue
		}
		created = append(created, chart)
	}
	return created, result.ErrorOrNil()
}

// Get returns the chart under id.
func (f *Factory) Get(id string) (*charts.Chart, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.charts[id]
	return c, ok
}

// Charts returns the live charts in id order.
func (f *Factory) Charts() []*charts.Chart {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.charts))
	for id := range f.charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*charts.Chart, len(ids))
	for i, id := range ids {
		out[i] = f.charts[id]
	}
	return out
}

// UpdateChart passes data to the chart under id.
func (f *Factory) UpdateChart(id string, data any, opts charts.UpdateOptions) error {
	c, ok := f.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.Update(data, opts)
}

// DestroyChart destroys the chart under id and removes its registration.
// The container stays on the page, empty.
func (f *Factory) DestroyChart(id string) bool {
	f.mu.Lock()
	c, ok := f.charts[id]
	delete(f.charts, id)
	f.mu.Unlock()

	removed := f.registry.Unregister(id)
	if ok {
		c.Destroy()
	}
	return ok || removed
}

// DestroyAll destroys every chart the factory created and every other
// registration.
func (f *Factory) DestroyAll() {
	f.mu.Lock()
	all := f.charts
	f.charts = make(map[string]*charts.Chart)
	f.mu.Unlock()

	f.registry.DestroyAll()
	for _, c := range all {
		c.Destroy()
	}
}

// Export renders the chart under id in format.
func (f *Factory) Export(id string, format export.Format) ([]byte, error) {
	c, ok := f.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return export.Export(c, format)
}

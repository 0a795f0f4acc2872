package view

import (
	"context"
	"errors"
	"sort"
	"sync"

	"moneyviz/internal/charts"
	"moneyviz/internal/logger"
)

// ErrStale is returned by a load that a newer load or a teardown superseded.
var ErrStale = errors.New("view load superseded")

// base holds what every view shares: its generation counter, the cancel
// func of the load in flight and the charts it created.
type base struct {
	vc     *Context
	markup *Markup
	log    *logger.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	charts map[string]struct{}
}

func newBase(vc *Context, m *Markup, name string) base {
	return base{
		vc:     vc,
		markup: m,
		log:    logger.Component("view").With(logger.Fields{"view": name}),
		charts: make(map[string]struct{}),
	}
}

// begin starts a new generation and cancels the load in flight.
func (b *base) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	b.cancel = cancel
	gen := b.gen
	b.mu.Unlock()
	return ctx, gen
}

// finish releases the context of generation gen if it is still current.
func (b *base) finish(gen uint64) {
	b.mu.Lock()
	if gen == b.gen && b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.mu.Unlock()
}

func (b *base) current(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return gen == b.gen
}

// apply runs fn if gen is still the current generation. Stale completions
// are dropped without touching any region.
func (b *base) apply(gen uint64, fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		b.log.Debug("discarding stale completion", logger.Fields{"generation": gen, "current": b.gen})
		return false
	}
	fn()
	return true
}

// setRegion writes html into the page region id. Callers hold b.mu via
// apply.
func (b *base) setRegion(id, html string) {
	b.vc.Page.Region(id).SetContent(html)
}

func (b *base) renderRegion(id, tmpl string, data any) {
	out, err := b.markup.Render(tmpl, data)
	if err != nil {
		b.log.Error("failed to render region", err, logger.Fields{"region": id})
		charts.ShowEmpty(b.vc.Page.Region(id), "渲染失败")
		return
	}
	b.setRegion(id, out)
}

func (b *base) emptyRegion(id string, e EmptyState) {
	b.renderRegion(id, "empty", e)
}

// show renders data in the chart id, updating it in place when a chart of
// the same kind is already live and creating it otherwise. Configuration
// errors are logged; they never stop sibling charts. Callers hold b.mu via
// apply.
func (b *base) show(kind charts.Kind, id string, cfg charts.Config, data any) {
	if c, ok := b.vc.Factory.Get(id); ok && c.Kind() == kind && !c.Destroyed() {
		if err := c.Update(data, charts.UpdateOptions{}); err != nil {
			b.log.Warn("chart update failed", logger.Fields{"chart": id, "error": err.Error()})
		}
		b.charts[id] = struct{}{}
		return
	}

	full := charts.Config{"id": id}
	for k, v := range cfg {
		full[k] = v
	}
	full["data"] = data
	if _, err := b.vc.Factory.CreateChart(string(kind), full); err != nil {
		b.log.Error("failed to create chart", err, logger.Fields{"chart": id, "kind": string(kind)})
		return
	}
	b.charts[id] = struct{}{}
}

// fail records a failed fetch as a transient notice. Cancelled fetches are
// silent.
func (b *base) fail(ctx context.Context, what string, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	b.log.Error("failed to load "+what, err)
	b.vc.Notices.Add(LevelError, "加载"+what+"失败")
}

// Charts returns the ids of the charts the view created, sorted.
func (b *base) Charts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.charts))
	for id := range b.charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Teardown cancels the load in flight, discards its pending completions and
// destroys the view's charts.
func (b *base) Teardown() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.gen++
	ids := make([]string, 0, len(b.charts))
	for id := range b.charts {
		ids = append(ids, id)
	}
	b.charts = make(map[string]struct{})
	b.mu.Unlock()

	for _, id := range ids {
		b.vc.Factory.DestroyChart(id)
	}
}

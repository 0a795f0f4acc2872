package engine

import (
	"sync"
	"sync/atomic"

	"moneyviz/internal/chartopts"
)

type painter func(id string, spec Spec, mode UpdateMode) (Snippet, error)

// instance is the bookkeeping shared by every engine.
type instance struct {
	mu        sync.Mutex
	container Container
	spec      Spec
	paint     painter
	live      *atomic.Int64
	snippet   Snippet
	draws     int
	destroyed bool
}

func newInstance(c Container, spec Spec, live *atomic.Int64, paint painter) *instance {
	return &instance{
		container: c,
		spec:      Spec{Type: spec.Type, Data: spec.Data, Options: chartopts.Clone(spec.Options)},
		paint:     paint,
		live:      live,
	}
}

func (i *instance) ID() string { return i.container.ID() }

func (i *instance) Spec() Spec {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Spec{Type: i.spec.Type, Data: i.spec.Data, Options: chartopts.Clone(i.spec.Options)}
}

func (i *instance) SetData(data any) {
	i.mu.Lock()
	i.spec.Data = data
	i.mu.Unlock()
}

func (i *instance) SetOptions(opts chartopts.Options) {
	i.mu.Lock()
	i.spec.Options = chartopts.Clone(opts)
	i.mu.Unlock()
}

// Update repaints the container from the current data and options.
func (i *instance) Update(mode UpdateMode) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return ErrDestroyed
	}
	snip, err := i.paint(i.container.ID(), i.spec, mode)
	if err != nil {
		return err
	}
	i.snippet = snip
	i.draws++
	i.container.Claim(i)
	i.container.SetContent(snip.HTML)
	return nil
}

// Destroy releases the instance and clears its container unless another
// painter has taken it over since. Safe to repeat.
func (i *instance) Destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.live.Add(-1)
	i.container.Release(i)
}

func (i *instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

func (i *instance) Draws() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.draws
}

func (i *instance) Snippet() Snippet {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.snippet
}

// start performs the first paint and counts the instance as live.
func start(inst *instance) (Instance, error) {
	inst.live.Add(1)
	if err := inst.Update(UpdateAnimate); err != nil {
		inst.Destroy()
		return nil, err
	}
	return inst, nil
}

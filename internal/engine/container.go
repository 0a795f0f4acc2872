package engine

import (
	"errors"
	"sort"
	"sync"
)

// ErrContainerNotFound is returned when a region id is not on the page.
var ErrContainerNotFound = errors.New("container not found")

// Container is the element a chart paints into. The last painter to Claim
// it holds it; Release only clears the container for its current holder.
type Container interface {
	ID() string
	SetContent(html string)
	Content() string
	Clear()
	Claim(owner any) (previous any)
	Owner() any
	Release(owner any) bool
}

// Region is an in-memory page region holding rendered markup.
type Region struct {
	mu      sync.RWMutex
	id      string
	content string
	owner   any
}

// NewRegion creates an empty region.
func NewRegion(id string) *Region {
	return &Region{id: id}
}

func (r *Region) ID() string { return r.id }

func (r *Region) SetContent(html string) {
	r.mu.Lock()
	r.content = html
	r.mu.Unlock()
}

func (r *Region) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Clear empties the region and drops its holder.
func (r *Region) Clear() {
	r.mu.Lock()
	r.content = ""
	r.owner = nil
	r.mu.Unlock()
}

func (r *Region) Claim(owner any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.owner
	r.owner = owner
	return prev
}

func (r *Region) Owner() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

// Release clears the region when owner still holds it. A displaced holder
// leaves its successor's content alone.
func (r *Region) Release(owner any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner == nil || r.owner != owner {
		return false
	}
	r.content = ""
	r.owner = nil
	return true
}

// Page is a set of named regions, the server-side stand-in for a document.
type Page struct {
	mu      sync.RWMutex
	regions map[string]*Region
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{regions: make(map[string]*Region)}
}

// Region returns the region with id, creating it when absent.
func (p *Page) Region(id string) *Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.regions[id]
	if !ok {
		r = NewRegion(id)
		p.regions[id] = r
	}
	return r
}

// Lookup returns an existing region.
func (p *Page) Lookup(id string) (*Region, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.regions[id]
	if !ok {
		return nil, ErrContainerNotFound
	}
	return r, nil
}

// Remove drops a region from the page.
func (p *Page) Remove(id string) {
	p.mu.Lock()
	delete(p.regions, id)
	p.mu.Unlock()
}

// IDs returns region ids in sorted order.
func (p *Page) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.regions))
	for id := range p.regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

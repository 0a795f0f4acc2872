// Package engine is the server-side handle on the browser chart engines.
// An Instance owns the data and options of one painted chart and the snippet
// it last painted into its container.
package engine

import (
	"errors"

	"moneyviz/internal/chartopts"
)

// ErrDestroyed is returned when a destroyed instance is asked to paint.
var ErrDestroyed = errors.New("engine instance destroyed")

// UpdateMode selects how the browser applies an update.
type UpdateMode string

const (
	// UpdateAnimate runs the engine's eased transition.
	UpdateAnimate UpdateMode = "animate"
	// UpdateNone redraws immediately without animation.
	UpdateNone UpdateMode = "none"
)

// Spec is everything an engine needs to paint a chart.
type Spec struct {
	Type    string // engine chart type, e.g. "bar", "doughnut", "heatmap"
	Data    any    // Data for Chart.js, an EChart for ECharts
	Options chartopts.Options
}

// Snippet is an embeddable chart fragment.
// Div holds the root element, Script the <script> block that paints into it,
// HTML both combined for template substitution.
type Snippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// Instance is one live engine chart bound to a container.
type Instance interface {
	ID() string
	Spec() Spec
	SetData(data any)
	SetOptions(opts chartopts.Options)
	Update(mode UpdateMode) error
	Destroy()
	Destroyed() bool
	Draws() int
	Snippet() Snippet
}

// Engine creates instances and counts the live ones.
type Engine interface {
	Name() string
	New(c Container, spec Spec) (Instance, error)
	Live() int
}

// Package animation drives eased, cancellable chart transitions from a
// single frame clock.
package animation

import (
	"math"
	"sort"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Default easings for chart updates and effects.
const (
	DefaultUpdateEasing = "easeInOutQuart"
	DefaultEffectEasing = "easeOutQuart"
)

var easings = map[string]Easing{
	"linear":      func(t float64) float64 { return t },
	"easeInQuad":  func(t float64) float64 { return t * t },
	"easeOutQuad": func(t float64) float64 { return t * (2 - t) },
	"easeInOutQuad": func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	},
	"easeInCubic": func(t float64) float64 { return t * t * t },
	"easeOutCubic": func(t float64) float64 {
		t--
		return t*t*t + 1
	},
	"easeInOutCubic": func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return (t-1)*(2*t-2)*(2*t-2) + 1
	},
	"easeInQuart": func(t float64) float64 { return t * t * t * t },
	"easeOutQuart": func(t float64) float64 {
		t--
		return 1 - t*t*t*t
	},
	"easeInOutQuart": func(t float64) float64 {
		if t < 0.5 {
			return 8 * t * t * t * t
		}
		t--
		return 1 - 8*t*t*t*t
	},
	"easeInElastic": func(t float64) float64 {
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*c4)
	},
	"easeOutElastic": func(t float64) float64 {
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
	},
	"easeOutBounce": easeOutBounce,
}

func easeOutBounce(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// Lookup returns the named easing.
func Lookup(name string) (Easing, bool) {
	e, ok := easings[name]
	return e, ok
}

// MustEasing returns the named easing, or linear for unknown names.
func MustEasing(name string) Easing {
	if e, ok := easings[name]; ok {
		return e
	}
	return easings["linear"]
}

// Names lists the known easings, sorted.
func Names() []string {
	out := make([]string, 0, len(easings))
	for n := range easings {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

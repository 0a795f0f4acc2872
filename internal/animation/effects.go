package animation

import (
	"fmt"
	"math"
	"time"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
)

// Scene is what one animation frame paints: the engine chart type, its data
// and its options.
type Scene struct {
	Type    string
	Data    engine.Data
	Options chartopts.Options
}

// Clone returns a deep copy of s.
func (s Scene) Clone() Scene {
	return Scene{Type: s.Type, Data: s.Data.Clone(), Options: chartopts.Clone(s.Options)}
}

// Effect computes the scene shown at frame f when animating towards target.
// Every effect yields target itself on the final frame.
type Effect interface {
	Name() string
	Frame(target Scene, f Frame) Scene
}

// Stretcher is implemented by effects that need longer than the requested
// duration to finish.
type Stretcher interface {
	Extra(target Scene) time.Duration
}

// Duration is the full run time of e towards target.
func Duration(e Effect, base time.Duration, target Scene) time.Duration {
	if s, ok := e.(Stretcher); ok {
		return base + s.Extra(target)
	}
	return base
}

// ByName returns the named entrance effect; unknown names fade in.
func ByName(name string) Effect {
	switch name {
	case "slideIn":
		return SlideIn{}
	case "grow":
		return Grow{Stagger: 50 * time.Millisecond}
	case "bounce":
		return Bounce{}
	case "pulse":
		return Pulse{Count: 3}
	case "wave":
		return Wave{Frequency: 0.1, Amplitude: 0.1}
	default:
		return FadeIn{}
	}
}

// FadeIn fades legend and tick text from transparent to the text color.
type FadeIn struct{}

func (FadeIn) Name() string { return "fadeIn" }

func (FadeIn) Frame(target Scene, f Frame) Scene {
	if f.Final {
		return target.Clone()
	}
	s := target.Clone()
	color := fmt.Sprintf("rgba(55, 65, 81, %.3f)", f.Progress)
	chartopts.Map(s.Options, "plugins.legend.labels")["color"] = color
	eachTicks(s.Options, func(ticks chartopts.Options) { ticks["color"] = color })
	return s
}

// SlideIn scales every value up from zero.
type SlideIn struct{}

func (SlideIn) Name() string { return "slideIn" }

func (SlideIn) Frame(target Scene, f Frame) Scene {
	if f.Final {
		return target.Clone()
	}
	return scaleValues(target, func(int) float64 { return f.Progress })
}

// Bounce scales values up from zero with a bounce, whatever the easing.
type Bounce struct{}

func (Bounce) Name() string { return "bounce" }

func (Bounce) Frame(target Scene, f Frame) Scene {
	if f.Final {
		return target.Clone()
	}
	p := easeOutBounce(f.Linear)
	return scaleValues(target, func(int) float64 { return p })
}

// Grow builds the chart up in a type-specific way: bars rise one after the
// other, lines draw from left to right, pies sweep open.
type Grow struct {
	Stagger time.Duration // delay between consecutive bars
	Easing  Easing        // per-bar easing, easeOutQuart when nil
}

func (Grow) Name() string { return "grow" }

// Extra covers the stagger of the last bar.
func (g Grow) Extra(target Scene) time.Duration {
	if target.Type != "bar" {
		return 0
	}
	n := maxLen(target.Data)
	if n < 2 {
		return 0
	}
	return time.Duration(n-1) * g.Stagger
}

func (g Grow) Frame(target Scene, f Frame) Scene {
	if f.Final {
		return target.Clone()
	}
	switch target.Type {
	case "bar":
		ease := g.Easing
		if ease == nil {
			ease = MustEasing(DefaultEffectEasing)
		}
		base := f.Duration - g.Extra(target)
		return scaleValues(target, func(i int) float64 {
			if base <= 0 {
				return 1
			}
			adjusted := f.Elapsed - time.Duration(i)*g.Stagger
			if adjusted < 0 {
				adjusted = 0
			}
			return ease(math.Min(float64(adjusted)/float64(base), 1))
		})
	case "line":
		s := target.Clone()
		for di, ds := range target.Data.Datasets {
			n := len(ds.Data)
			reach := float64(n) * f.Progress
			visible := int(math.Floor(reach))
			if visible > n {
				visible = n
			}
			out := append([]float64(nil), ds.Data[:visible]...)
			if visible > 0 && visible < n {
				prev, next := ds.Data[visible-1], ds.Data[visible]
				out = append(out, prev+(next-prev)*(reach-math.Floor(reach)))
			}
			s.Data.Datasets[di].Data = out
		}
		return s
	case "pie", "doughnut":
		s := target.Clone()
		rotation := -90.0
		if r, ok := s.Options["rotation"].(float64); ok {
			rotation = r
		} else if r, ok := s.Options["rotation"].(int); ok {
			rotation = float64(r)
		}
		s.Options["circumference"] = 360 * f.Progress
		s.Options["rotation"] = rotation + 360*(1-f.Progress)
		return s
	default:
		return SlideIn{}.Frame(target, f)
	}
}

// Pulse briefly enlarges tick labels a few times, decaying to rest.
type Pulse struct {
	Count int
}

func (Pulse) Name() string { return "pulse" }

func (p Pulse) Frame(target Scene, f Frame) Scene {
	if f.Final {
		return target.Clone()
	}
	count := p.Count
	if count <= 0 {
		count = 3
	}
	s := target.Clone()
	period := f.Duration / time.Duration(count)
	phase := 0.0
	if period > 0 {
		phase = float64(f.Elapsed%period) / float64(period)
	}
	scale := 1 + math.Sin(phase*math.Pi)*0.1*(1-f.Linear)
	eachTicks(s.Options, func(ticks chartopts.Options) {
		font, ok := ticks["font"].(chartopts.Options)
		if !ok {
			font = chartopts.Options{}
			ticks["font"] = font
		}
		font["size"] = 12 * scale
	})
	return s
}

// Wave ripples line values with a decaying sine.
type Wave struct {
	Frequency float64
	Amplitude float64
}

func (Wave) Name() string { return "wave" }

func (w Wave) Frame(target Scene, f Frame) Scene {
	if f.Final || target.Type != "line" {
		return target.Clone()
	}
	ms := float64(f.Elapsed / time.Millisecond)
	s := target.Clone()
	for di, ds := range s.Data.Datasets {
		for i, v := range ds.Data {
			offset := math.Sin((float64(i)*w.Frequency+ms*0.002)*math.Pi) * w.Amplitude * (1 - f.Linear)
			s.Data.Datasets[di].Data[i] = v * (1 + offset)
		}
	}
	return s
}

// Transition interpolates from the values of From to the target values.
// Points missing on either side count as zero.
type Transition struct {
	From engine.Data
}

func (Transition) Name() string { return "transition" }

func (t Transition) Frame(target Scene, f Frame) Scene {
	if f.Final {
		return target.Clone()
	}
	s := target.Clone()
	for di, ds := range s.Data.Datasets {
		for i, next := range ds.Data {
			prev := 0.0
			if di < len(t.From.Datasets) && i < len(t.From.Datasets[di].Data) {
				prev = t.From.Datasets[di].Data[i]
			}
			if math.IsNaN(prev) {
				prev = 0
			}
			if math.IsNaN(next) {
				continue
			}
			s.Data.Datasets[di].Data[i] = prev + (next-prev)*f.Progress
		}
	}
	return s
}

// Interpolate returns the value between from and to at eased progress p.
func Interpolate(from, to, p float64) float64 {
	return from + (to-from)*p
}

func scaleValues(target Scene, factor func(i int) float64) Scene {
	s := target.Clone()
	for di, ds := range s.Data.Datasets {
		for i, v := range ds.Data {
			s.Data.Datasets[di].Data[i] = v * factor(i)
		}
	}
	return s
}

func maxLen(d engine.Data) int {
	n := 0
	for _, ds := range d.Datasets {
		if len(ds.Data) > n {
			n = len(ds.Data)
		}
	}
	return n
}

func eachTicks(o chartopts.Options, fn func(ticks chartopts.Options)) {
	scales, ok := chartopts.Lookup(o, "scales")
	if !ok {
		return
	}
	m, ok := asOptions(scales)
	if !ok {
		return
	}
	for _, sc := range m {
		scale, ok := asOptions(sc)
		if !ok {
			continue
		}
		if ticks, ok := asOptions(scale["ticks"]); ok {
			fn(ticks)
		}
	}
}

func asOptions(v any) (chartopts.Options, bool) {
	switch t := v.(type) {
	case chartopts.Options:
		return t, t != nil
	case map[string]any:
		return chartopts.Options(t), t != nil
	}
	return nil, false
}

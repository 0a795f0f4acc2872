// Package palette manages the active color scheme and derives per-index
// colors, gradients and alpha variants from it.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Row selects one of the three color rows of a scheme.
type Row string

const (
	Primary   Row = "primary"
	Secondary Row = "secondary"
	Accent    Row = "accent"
)

// Purpose selects a coloring strategy in ChartColors.
type Purpose string

const (
	Comparison Purpose = "comparison"
	Trend      Purpose = "trend"
	Category   Purpose = "category"
)

// GradientKind is the CSS gradient form produced by Gradient.
type GradientKind string

const (
	Linear GradientKind = "linear"
	Radial GradientKind = "radial"
)

// DefaultScheme is used when no or an unknown scheme is requested.
const DefaultScheme = "default"

type scheme map[Row][]string

var schemes = map[string]scheme{
	"default": {
		Primary:   {"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899", "#06b6d4", "#84cc16", "#f97316", "#6366f1"},
		Secondary: {"#60a5fa", "#f87171", "#34d399", "#fbbf24", "#a78bfa", "#f9a8d4", "#22d3ee", "#a3e635", "#fb923c", "#818cf8"},
		Accent:    {"#2563eb", "#dc2626", "#059669", "#d97706", "#7c3aed", "#db2777", "#0891b2", "#65a30d", "#ea580c", "#4f46e5"},
	},
	"financial": {
		Primary:   {"#2563eb", "#059669", "#7c3aed", "#dc2626", "#0891b2", "#ca8a04", "#db2777", "#65a30d", "#ea580c", "#4f46e5"},
		Secondary: {"#3b82f6", "#10b981", "#8b5cf6", "#ef4444", "#06b6d4", "#f59e0b", "#ec4899", "#84cc16", "#f97316", "#6366f1"},
		Accent:    {"#1e40af", "#047857", "#6d28d9", "#b91c1c", "#0e7490", "#a16207", "#be185d", "#4d7c0f", "#c2410c", "#4338ca"},
	},
	"monochrome": {
		Primary:   {"#1f2937", "#374151", "#4b5563", "#6b7280", "#9ca3af", "#d1d5db", "#e5e7eb", "#f3f4f6", "#f9fafb", "#ffffff"},
		Secondary: {"#111827", "#1f2937", "#374151", "#4b5563", "#6b7280", "#9ca3af", "#d1d5db", "#e5e7eb", "#f3f4f6", "#f9fafb"},
		Accent:    {"#000000", "#111827", "#1f2937", "#374151", "#4b5563", "#6b7280", "#9ca3af", "#d1d5db", "#e5e7eb", "#f3f4f6"},
	},
	"warm": {
		Primary:   {"#ef4444", "#f97316", "#f59e0b", "#eab308", "#84cc16", "#ec4899", "#f43f5e", "#fb923c", "#fbbf24", "#facc15"},
		Secondary: {"#f87171", "#fb923c", "#fbbf24", "#fde047", "#a3e635", "#f9a8d4", "#fb7185", "#fdba74", "#fcd34d", "#fde68a"},
		Accent:    {"#dc2626", "#ea580c", "#d97706", "#ca8a04", "#65a30d", "#db2777", "#e11d48", "#f97316", "#f59e0b", "#eab308"},
	},
	"cool": {
		Primary:   {"#3b82f6", "#06b6d4", "#0891b2", "#6366f1", "#8b5cf6", "#2563eb", "#0284c7", "#0e7490", "#4f46e5", "#7c3aed"},
		Secondary: {"#60a5fa", "#22d3ee", "#06b6d4", "#818cf8", "#a78bfa", "#3b82f6", "#0ea5e9", "#14b8a6", "#6366f1", "#8b5cf6"},
		Accent:    {"#2563eb", "#0891b2", "#0e7490", "#4f46e5", "#7c3aed", "#1e40af", "#0369a1", "#047857", "#4338ca", "#6d28d9"},
	},
}

var hexPattern = regexp.MustCompile(`^#?([a-fA-F\d]{2})([a-fA-F\d]{2})([a-fA-F\d]{2})$`)

// Shadow holds three alpha variants of one color.
type Shadow struct {
	Light  string `json:"light"`
	Medium string `json:"medium"`
	Dark   string `json:"dark"`
}

// Palette is the active color scheme. It is safe for concurrent use.
type Palette struct {
	mu        sync.RWMutex
	scheme    string
	listeners []func(scheme string)
}

// New creates a palette using the named scheme, or the default one.
func New(name string) *Palette {
	if _, ok := schemes[name]; !ok {
		name = DefaultScheme
	}
	return &Palette{scheme: name}
}

// Schemes lists the known scheme names.
func Schemes() []string {
	return []string{"default", "financial", "monochrome", "warm", "cool"}
}

// Scheme returns the active scheme name.
func (p *Palette) Scheme() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scheme
}

// SetScheme switches the active scheme and notifies subscribers. Unknown
// names are ignored and reported as false.
func (p *Palette) SetScheme(name string) bool {
	if _, ok := schemes[name]; !ok {
		return false
	}
	p.mu.Lock()
	changed := p.scheme != name
	p.scheme = name
	listeners := append([]func(string){}, p.listeners...)
	p.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(name)
		}
	}
	return true
}

// Subscribe registers fn to be called after every scheme change.
func (p *Palette) Subscribe(fn func(scheme string)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// OnThemeChange follows the theme: dark selects cool, anything else default.
func (p *Palette) OnThemeChange(mode string) {
	if mode == "dark" {
		p.SetScheme("cool")
		return
	}
	p.SetScheme(DefaultScheme)
}

func (p *Palette) row(r Row) []string {
	p.mu.RLock()
	s := schemes[p.scheme]
	p.mu.RUnlock()
	if colors, ok := s[r]; ok {
		return colors
	}
	return s[Primary]
}

// Color returns the i-th color of row, cycling past the end.
func (p *Palette) Color(i int, r Row) string {
	colors := p.row(r)
	if i < 0 {
		i = -i
	}
	return colors[i%len(colors)]
}

// Colors returns the first n colors of row, cycling.
func (p *Palette) Colors(n int, r Row) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = p.Color(i, r)
	}
	return out
}

// Gradient returns a CSS gradient between two primary colors. An end index of
// zero means the color after start.
func (p *Palette) Gradient(start, end int, kind GradientKind) string {
	if end == 0 {
		end = start + 1
	}
	a, b := p.Color(start, Primary), p.Color(end, Primary)
	if kind == Radial {
		return fmt.Sprintf("radial-gradient(circle, %s, %s)", a, b)
	}
	return fmt.Sprintf("linear-gradient(135deg, %s, %s)", a, b)
}

// ColorWithAlpha returns the i-th color of row as rgba.
func (p *Palette) ColorWithAlpha(i int, alpha float64, r Row) string {
	return HexToRGBA(p.Color(i, r), alpha)
}

// ShadowColors returns 0.1, 0.2 and 0.3 alpha variants of the i-th color.
func (p *Palette) ShadowColors(i int) Shadow {
	return Shadow{
		Light:  p.ColorWithAlpha(i, 0.1, Primary),
		Medium: p.ColorWithAlpha(i, 0.2, Primary),
		Dark:   p.ColorWithAlpha(i, 0.3, Primary),
	}
}

// ChartColors picks n colors suited to a chart purpose.
func (p *Palette) ChartColors(purpose Purpose, n int) []string {
	switch purpose {
	case Trend:
		return ColorScale(p.Color(0, Primary), n)
	case Category:
		return p.Colors(n, Secondary)
	default:
		return p.Colors(n, Primary)
	}
}

// DrawingColor returns the i-th primary color for raster rendering.
func (p *Palette) DrawingColor(i int) drawing.Color {
	return parseHex(p.Color(i, Primary))
}

// HexToRGBA converts #rrggbb to an rgba() string. Anything else is returned
// unchanged.
func HexToRGBA(hex string, alpha float64) string {
	if !hexPattern.MatchString(hex) {
		return hex
	}
	c := parseHex(hex)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// ContrastColor returns black or white, whichever reads better on bg.
func ContrastColor(bg string) string {
	c := parseHex(bg)
	brightness := (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
	if brightness > 128 {
		return "#000000"
	}
	return "#ffffff"
}

// ColorScale darkens base in steps down to 20% of its brightness.
func ColorScale(base string, steps int) []string {
	if steps <= 0 {
		return []string{}
	}
	c := parseHex(base)
	out := make([]string, steps)
	for i := 0; i < steps; i++ {
		factor := 1.0
		if steps > 1 {
			factor = 1 - float64(i)/float64(steps-1)*0.8
		}
		out[i] = ToHex(drawing.Color{
			R: uint8(math.Round(float64(c.R) * factor)),
			G: uint8(math.Round(float64(c.G) * factor)),
			B: uint8(math.Round(float64(c.B) * factor)),
			A: 255,
		})
	}
	return out
}

// ToHex formats a color as #rrggbb.
func ToHex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb into a color; malformed input yields black.
func ParseHex(hex string) drawing.Color {
	return parseHex(hex)
}

func parseHex(hex string) drawing.Color {
	if !hexPattern.MatchString(hex) {
		return drawing.Color{A: 255}
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

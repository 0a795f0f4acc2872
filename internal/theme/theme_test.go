package theme

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"moneyviz/internal/chartopts"
)

func TestParseModeAndToggle(t *testing.T) {
	if m, ok := ParseMode(" DARK "); !ok || m != Dark {
		t.Errorf("Expected Dark, got %v %v", m, ok)
	}
	if _, ok := ParseMode("sepia"); ok {
		t.Errorf("Expected unknown mode to be rejected")
	}
	if Light.Toggle().Toggle() != Light {
		t.Errorf("Expected double toggle to return to light")
	}
}

func TestApplyRecolorsPresentSections(t *testing.T) {
	o := chartopts.GetConfig("line", nil)
	Apply(o, Dark)

	c := ColorsFor(Dark)
	checks := map[string]string{
		"plugins.legend.labels.color":     c.Text,
		"scales.x.ticks.color":            c.Text,
		"scales.y.grid.color":             c.Grid,
		"scales.y.grid.borderColor":       c.Border,
		"plugins.tooltip.backgroundColor": c.TooltipBackground,
		"plugins.tooltip.bodyColor":       c.TooltipText,
	}
	for path, want := range checks {
		if got := chartopts.LookupString(o, path); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}

	bare := chartopts.Options{}
	Apply(bare, Dark)
	if len(bare) != 0 {
		t.Errorf("Expected Apply not to invent sections, got %v", bare)
	}
}

func TestBreakpointFor(t *testing.T) {
	tests := []struct {
		width int
		want  Breakpoint
	}{
		{320, Mobile},
		{639, Mobile},
		{640, Tablet},
		{1023, Tablet},
		{1024, Desktop},
		{1920, Desktop},
	}
	for _, tt := range tests {
		if got := BreakpointFor(tt.width); got != tt.want {
			t.Errorf("BreakpointFor(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestApplyBreakpoint(t *testing.T) {
	tests := []struct {
		name     string
		bp       Breakpoint
		original string
		legend   string
		base     int
		title    int
	}{
		{"mobile", Mobile, "right", "bottom", 10, 11},
		{"tablet keeps original", Tablet, "right", "right", 11, 12},
		{"desktop defaults to top", Desktop, "", "top", 12, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := chartopts.GetConfig("bar", nil)
			ApplyBreakpoint(o, tt.bp, tt.original)

			if got := chartopts.LookupString(o, "plugins.legend.position"); got != tt.legend {
				t.Errorf("legend position = %q, want %q", got, tt.legend)
			}
			for _, path := range []string{"plugins.legend.labels.font.size", "plugins.tooltip.bodyFont.size", "scales.y.ticks.font.size"} {
				if v, _ := chartopts.Lookup(o, path); v != tt.base {
					t.Errorf("%s = %v, want %d", path, v, tt.base)
				}
			}
			if v, _ := chartopts.Lookup(o, "plugins.tooltip.titleFont.size"); v != tt.title {
				t.Errorf("title font = %v, want %d", v, tt.title)
			}
			if chartopts.LookupString(o, "plugins.tooltip.bodyFont.family") != chartopts.FontFamily {
				t.Errorf("Expected font family to survive a size change")
			}
		})
	}
}

func TestResponsiveConfig(t *testing.T) {
	want := chartopts.Options{"maintainAspectRatio": true, "aspectRatio": 1.5}
	if diff := cmp.Diff(want, ResponsiveConfig(500)); diff != "" {
		t.Errorf("mobile config mismatch (-want +got):\n%s", diff)
	}
	if _, ok := ResponsiveConfig(1400)["aspectRatio"]; ok {
		t.Errorf("Expected no aspect ratio on desktop")
	}
}

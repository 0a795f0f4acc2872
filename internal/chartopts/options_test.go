package chartopts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetConfigOverrideKeepsSiblings(t *testing.T) {
	cfg := GetConfig("line", Options{
		"plugins": Options{"legend": Options{"position": "bottom"}},
	})

	if got := LookupString(cfg, "plugins.legend.position"); got != "bottom" {
		t.Errorf("Expected legend position 'bottom', got %q", got)
	}
	if _, ok := Lookup(cfg, "plugins.tooltip.backgroundColor"); !ok {
		t.Errorf("Expected tooltip defaults to survive a legend override")
	}
	if v, _ := Lookup(cfg, "plugins.legend.labels.padding"); v != 15 {
		t.Errorf("Expected legend label padding 15 from globals, got %v", v)
	}
	if v, _ := Lookup(cfg, "plugins.legend.display"); v != true {
		t.Errorf("Expected line legend display from type defaults, got %v", v)
	}
	if v, _ := Lookup(cfg, "elements.line.tension"); v != 0.3 {
		t.Errorf("Expected line tension 0.3, got %v", v)
	}
}

func TestGetConfigOverrideWinsAtEveryDepth(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		override Options
		path     string
		want     any
	}{
		{"top level", "bar", Options{"barPercentage": 0.5}, "barPercentage", 0.5},
		{"nested", "bar", Options{"scales": Options{"y": Options{"beginAtZero": false}}}, "scales.y.beginAtZero", false},
		{"deep", "radar", Options{"scales": Options{"r": Options{"ticks": Options{"stepSize": 25}}}}, "scales.r.ticks.stepSize", 25},
		{"type over global", "pie", nil, "plugins.legend.position", "right"},
		{"plain map override", "gauge", Options{"plugins": map[string]any{"tooltip": map[string]any{"enabled": true}}}, "plugins.tooltip.enabled", true},
		{"no type defaults", "heatmap", nil, "animation.duration", 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetConfig(tt.kind, tt.override)
			got, ok := Lookup(cfg, tt.path)
			if !ok {
				t.Fatalf("Expected %s to be present", tt.path)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestGetConfigDoesNotMutateInputs(t *testing.T) {
	override := Options{"plugins": Options{"legend": Options{"position": "left"}}}
	before := Clone(override)

	cfg := GetConfig("pie", override)
	Set(cfg, "plugins.legend.position", "mutated")
	Set(cfg, "plugins.tooltip.padding", 99)

	if diff := cmp.Diff(before, override); diff != "" {
		t.Errorf("override mutated (-before +after):\n%s", diff)
	}
	if got := LookupString(GetConfig("pie", nil), "plugins.legend.position"); got != "right" {
		t.Errorf("Expected pie defaults untouched, got %q", got)
	}
	if v, _ := Lookup(Global(), "plugins.tooltip.padding"); v != 12 {
		t.Errorf("Expected global tooltip padding untouched, got %v", v)
	}
}

func TestDeepMergeReplacesSlicesAndScalars(t *testing.T) {
	dst := Options{"colors": []string{"a", "b"}, "n": 1, "obj": Options{"k": 1}}
	src := Options{"colors": []string{"c"}, "obj": "flat"}

	got := DeepMerge(dst, src)
	want := Options{"colors": []string{"c"}, "n": 1, "obj": "flat"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DeepMerge mismatch (-want +got):\n%s", diff)
	}

	got["colors"].([]string)[0] = "z"
	if src["colors"].([]string)[0] != "c" {
		t.Errorf("Expected result slices to be independent of src")
	}
}

func TestSpreadIsTopLevelOnly(t *testing.T) {
	got := Spread(
		Options{"id": "x", "options": Options{"a": 1, "b": 2}},
		Options{"options": Options{"a": 3}},
	)
	want := Options{"id": "x", "options": Options{"a": 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Spread mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeDefaultsAndSchemes(t *testing.T) {
	if TypeDefaults("sankey") != nil {
		t.Errorf("Expected no defaults for sankey")
	}
	if TypeDefaults("GAUGE")["cutout"] != "75%" {
		t.Errorf("Expected gauge cutout 75%%")
	}
	if got := ColorScheme("nope")[0]; got != "#3b82f6" {
		t.Errorf("Expected unknown scheme to fall back to default, got %s", got)
	}
	if got := DefaultColor(11); got != "#ef4444" {
		t.Errorf("Expected DefaultColor to cycle, got %s", got)
	}
}

func TestMapCreatesPath(t *testing.T) {
	o := Options{}
	Map(o, "plugins.legend")["display"] = false
	if v, _ := Lookup(o, "plugins.legend.display"); v != false {
		t.Errorf("Expected Map to create nested objects, got %v", o)
	}
}

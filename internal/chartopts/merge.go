package chartopts

import (
	"strings"
)

// DeepMerge returns a new tree with src layered over dst. Nested objects are
// merged key by key; slices and scalars from src replace what dst holds.
// Neither argument is modified and the result shares no containers with them.
func DeepMerge(dst, src Options) Options {
	out := Clone(dst)
	if out == nil {
		out = Options{}
	}
	for k, sv := range src {
		sm, srcIsMap := asMap(sv)
		dm, dstIsMap := asMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = DeepMerge(dm, sm)
			continue
		}
		out[k] = cloneValue(sv)
	}
	return out
}

// Spread merges layers left to right at the top level only, the way an
// object spread does: a nested object in a later layer replaces the earlier
// one wholesale.
func Spread(layers ...Options) Options {
	out := Options{}
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

// Clone deep copies an option tree.
func Clone(o Options) Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Options:
		return Clone(t)
	case map[string]any:
		return Clone(Options(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []Options:
		out := make([]Options, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	default:
		return v
	}
}

func asMap(v any) (Options, bool) {
	switch t := v.(type) {
	case Options:
		return t, t != nil
	case map[string]any:
		return Options(t), t != nil
	default:
		return nil, false
	}
}

// Lookup resolves a dotted path such as "plugins.legend.position".
func Lookup(o Options, path string) (any, bool) {
	var cur any = o
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// LookupString is Lookup for string leaves.
func LookupString(o Options, path string) string {
	v, _ := Lookup(o, path)
	s, _ := v.(string)
	return s
}

// Set writes v at a dotted path, creating intermediate objects as needed.
// A non-object value in the way is replaced.
func Set(o Options, path string, v any) {
	parts := strings.Split(path, ".")
	cur := o
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			next = Options{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

// Map returns the nested object at path, creating it when absent.
func Map(o Options, path string) Options {
	if existing, ok := Lookup(o, path); ok {
		if m, ok := asMap(existing); ok {
			return m
		}
	}
	m := Options{}
	Set(o, path, m)
	return m
}

package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/davetashner/tripdash/internal/filter"
)

const filtersKey = "filters"

type keyKind int

const (
	kindString keyKind = iota
	kindInt
)

// Key is one settable configuration entry, addressed by a dot-notation
// path such as "top_k" or "filters.borough".
type Key struct {
	Path string
	kind keyKind
	get  func(*Config) any
}

var scalarKeys = []Key{
	{Path: "api_url", get: func(c *Config) any { return c.APIURL }},
	{Path: "output_format", get: func(c *Config) any { return c.OutputFormat }},
	{Path: "top_k", kind: kindInt, get: func(c *Config) any { return c.TopK }},
	{Path: "trips_limit", kind: kindInt, get: func(c *Config) any { return c.TripsLimit }},
	{Path: "timeout", get: func(c *Config) any { return c.Timeout }},
	{Path: "charts_dir", get: func(c *Config) any { return c.ChartsDir }},
}

func filterKey(f filter.Field) Key {
	return Key{
		Path: filtersKey + "." + f.Key,
		get:  func(c *Config) any { return f.Get(c.Filters) },
	}
}

// Keys returns every settable key: the scalar keys, then one
// filters.<name> key per filter dimension.
func Keys() []Key {
	out := slices.Clone(scalarKeys)
	for _, f := range filter.Fields() {
		out = append(out, filterKey(f))
	}
	return out
}

// LookupKey resolves path to its Key, or explains why path is invalid.
func LookupKey(path string) (Key, error) {
	if path == "" {
		return Key{}, errors.New("empty key path")
	}
	first, rest, nested := strings.Cut(path, ".")

	if first == filtersKey {
		if !nested {
			return Key{}, errors.New("filters requires a filter name (e.g. filters.borough)")
		}
		if strings.Contains(rest, ".") {
			return Key{}, fmt.Errorf("key path too deep: %q", path)
		}
		f, ok := filter.Lookup(rest)
		if !ok {
			return Key{}, fmt.Errorf("unknown filter %q; valid filters: %s", rest, filterNames())
		}
		return filterKey(f), nil
	}

	for _, k := range scalarKeys {
		if k.Path != first {
			continue
		}
		if nested {
			return Key{}, fmt.Errorf("key %q is a scalar; cannot use sub-keys", first)
		}
		return k, nil
	}
	return Key{}, fmt.Errorf("unknown key %q; valid top-level keys: %s", first, topLevelNames())
}

// Value returns k's value in cfg and whether it is set.
func (k Key) Value(cfg *Config) (any, bool) {
	switch v := k.get(cfg).(type) {
	case string:
		return v, v != ""
	case int:
		return v, v != 0
	default:
		return v, false
	}
}

// GetValue returns the value at path in cfg. The bare "filters" path
// returns every set filter as a map.
func GetValue(cfg *Config, path string) (any, error) {
	if path == filtersKey {
		set := make(map[string]any)
		for _, f := range filter.Fields() {
			if v := f.Get(cfg.Filters); v != "" {
				set[f.Key] = v
			}
		}
		if len(set) == 0 {
			return nil, fmt.Errorf("key %q not found", path)
		}
		return set, nil
	}

	k, err := LookupKey(path)
	if err != nil {
		return nil, err
	}
	v, ok := k.Value(cfg)
	if !ok {
		return nil, fmt.Errorf("key %q not found", path)
	}
	return v, nil
}

// Values returns the set keys of cfg, by path.
func Values(cfg *Config) map[string]any {
	out := make(map[string]any)
	for _, k := range Keys() {
		if v, ok := k.Value(cfg); ok {
			out[k.Path] = v
		}
	}
	return out
}

// SetValue stores raw at path in a raw YAML map. Integer keys must parse
// as integers. Every other value, filters included, is kept as a string.
func SetValue(data map[string]any, path, raw string) error {
	k, err := LookupKey(path)
	if err != nil {
		return err
	}
	var v any = raw
	if k.kind == kindInt {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", path, raw)
		}
		v = n
	}

	parent, leaf, nested := strings.Cut(path, ".")
	if !nested {
		data[parent] = v
		return nil
	}
	child, ok := data[parent]
	if !ok {
		child = make(map[string]any)
		data[parent] = child
	}
	m, ok := child.(map[string]any)
	if !ok {
		return fmt.Errorf("key %q is not a map", parent)
	}
	m[leaf] = v
	return nil
}

func topLevelNames() string {
	names := []string{filtersKey}
	for _, k := range scalarKeys {
		names = append(names, k.Path)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func filterNames() string {
	fields := filter.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Key
	}
	return strings.Join(names, ", ")
}

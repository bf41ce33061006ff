package state

import (
	"bytes"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Partial is a sparse state tree keyed by YAML field names. Nested records
// are given as nested Partial (or map[string]any) values; only the leaves
// present are changed.
type Partial map[string]any

// mergeState applies partial on top of base and returns the result.
// base is round-tripped through its YAML form so that the merge can walk
// plain maps and the result is decoded back with unknown keys rejected.
func mergeState(base State, partial Partial) (State, error) {
	raw, err := yaml.Marshal(base)
	if err != nil {
		return State{}, fmt.Errorf("encode state: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return State{}, fmt.Errorf("decode state tree: %w", err)
	}

	if err := deepMerge(tree, partial, ""); err != nil {
		return State{}, err
	}

	merged, err := yaml.Marshal(tree)
	if err != nil {
		return State{}, fmt.Errorf("encode merged state: %w", err)
	}

	var next State
	dec := yaml.NewDecoder(bytes.NewReader(merged))
	dec.KnownFields(true)
	if err := dec.Decode(&next); err != nil {
		return State{}, fmt.Errorf("decode merged state: %w", err)
	}
	return next, nil
}

// deepMerge overwrites the leaves of dst named in src, recursing into
// nested records. Keys missing from dst are rejected, as is replacing a
// record with a scalar or the other way round, or a leaf with a value of a
// different kind.
func deepMerge(dst map[string]any, src map[string]any, path string) error {
	for key, val := range src {
		keyPath := key
		if path != "" {
			keyPath = path + "." + key
		}

		existing, ok := dst[key]
		if !ok {
			return fmt.Errorf("unknown config key %q", keyPath)
		}

		srcMap, srcIsMap := asMap(val)
		dstMap, dstIsMap := asMap(existing)

		switch {
		case srcIsMap && dstIsMap:
			if err := deepMerge(dstMap, srcMap, keyPath); err != nil {
				return err
			}
		case srcIsMap:
			return fmt.Errorf("config key %q is a value, not a record", keyPath)
		case dstIsMap:
			return fmt.Errorf("config key %q is a record; set its fields individually", keyPath)
		default:
			want, got := scalarKind(existing), scalarKind(val)
			if want != got {
				return fmt.Errorf("config key %q wants a %s, got a %s", keyPath, want, got)
			}
			dst[key] = val
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Partial:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// scalarKind classifies a leaf as YAML sees it: every integer and float
// type is a number, named string types are strings.
func scalarKind(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return "list"
	}
}

// ParsePartial decodes a YAML document into a Partial.
func ParsePartial(data []byte) (Partial, error) {
	var p Partial
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	return p, nil
}

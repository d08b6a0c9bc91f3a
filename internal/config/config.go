// Package config holds the flat key/value settings of one compiler.
//
// Settings are merged additively: core defaults first, then defaults
// registered by extensions through SetDefaults, then explicit overrides.
// Lookups never fail; a missing or mistyped value yields the zero value
// of the accessor.
package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"kekpiler/internal/diag"
)

// Core setting keys.
const (
	KeyContentClassPrefix         = "contentClassPrefix"
	KeyHeadingLevelOffset         = "headingLevelOffset"
	KeyImageMissingAltSeverity    = "imageMissingAltSeverity"
	KeyTaskItemClass              = "taskItemClass"
	KeyDebugDump                  = "debugDump"
	KeyBadTableLayoutSeverity     = "badTableLayoutSeverity"
	KeyDuplicateReferenceSeverity = "duplicateReferenceSeverity"
	KeyUnusedMetadataSeverity     = "unusedMetadataSeverity"
	KeyUnknownCustomBlockSeverity = "unknownCustomBlockSeverity"
)

// Defaults returns a fresh copy of the core defaults.
func Defaults() map[string]any {
	return map[string]any{
		KeyContentClassPrefix:         "",
		KeyHeadingLevelOffset:         0,
		KeyImageMissingAltSeverity:    diag.SevWarning,
		KeyTaskItemClass:              "task-list-item",
		KeyDebugDump:                  false,
		KeyBadTableLayoutSeverity:     diag.SevWarning,
		KeyDuplicateReferenceSeverity: diag.SevWarning,
		KeyUnusedMetadataSeverity:     diag.SevWarning,
		KeyUnknownCustomBlockSeverity: diag.SevWarning,
	}
}

// Config is the merged view of defaults and overrides.
type Config struct {
	defaults  map[string]any
	overrides map[string]any
}

// New creates a config with the core defaults and the given overrides.
func New(overrides map[string]any) *Config {
	c := &Config{
		defaults:  Defaults(),
		overrides: make(map[string]any, len(overrides)),
	}
	maps.Copy(c.overrides, overrides)
	return c
}

// SetDefaults adds defaults for keys that have none yet.
// Defaults registered earlier are kept.
func (c *Config) SetDefaults(defs map[string]any) {
	for k, v := range defs {
		if _, ok := c.defaults[k]; !ok {
			c.defaults[k] = v
		}
	}
}

// Set overrides a single key.
func (c *Config) Set(key string, value any) {
	c.overrides[key] = value
}

// Merge overrides every key in values.
func (c *Config) Merge(values map[string]any) {
	maps.Copy(c.overrides, values)
}

// Value returns the override for key, or its default.
func (c *Config) Value(key string) (any, bool) {
	if v, ok := c.overrides[key]; ok {
		return v, true
	}
	v, ok := c.defaults[key]
	return v, ok
}

// Keys lists every known key in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.defaults)+len(c.overrides))
	for k := range c.defaults {
		keys = append(keys, k)
	}
	for k := range c.overrides {
		if _, ok := c.defaults[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (c *Config) String(key string) string {
	v, _ := c.Value(key)
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

func (c *Config) Bool(key string) bool {
	v, _ := c.Value(key)
	b, _ := v.(bool)
	return b
}

// Int accepts any integer type; TOML decodes numbers as int64.
func (c *Config) Int(key string) int {
	v, _ := c.Value(key)
	n, _ := toInt(v)
	return n
}

func (c *Config) Strings(key string) []string {
	v, _ := c.Value(key)
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return strings.Fields(s)
	}
	return nil
}

// Severity reads a severity stored either as diag.Severity or as its label.
// Unparseable values fall back to warning.
func (c *Config) Severity(key string) diag.Severity {
	v, _ := c.Value(key)
	sev, err := toSeverity(v)
	if err != nil {
		return diag.SevWarning
	}
	return sev
}

// Any returns the raw value, for settings carrying functions or structured data.
func (c *Config) Any(key string) any {
	v, _ := c.Value(key)
	return v
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toSeverity(v any) (diag.Severity, error) {
	switch s := v.(type) {
	case diag.Severity:
		if s > diag.SevError {
			return 0, fmt.Errorf("severity out of range: %d", s)
		}
		return s, nil
	case string:
		return diag.ParseSeverity(s)
	}
	return 0, fmt.Errorf("unsupported severity value %v (%T)", v, v)
}

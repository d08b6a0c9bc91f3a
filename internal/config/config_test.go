package config

import (
	"testing"

	"kekpiler/internal/diag"
)

func TestDefaultsAndOverrides(t *testing.T) {
	c := New(map[string]any{KeyHeadingLevelOffset: int64(1)})

	if got := c.Int(KeyHeadingLevelOffset); got != 1 {
		t.Errorf("headingLevelOffset = %d, want 1", got)
	}
	if got := c.String(KeyTaskItemClass); got != "task-list-item" {
		t.Errorf("taskItemClass = %q", got)
	}
	if got := c.Severity(KeyImageMissingAltSeverity); got != diag.SevWarning {
		t.Errorf("imageMissingAltSeverity = %v", got)
	}

	c.Set(KeyImageMissingAltSeverity, "error")
	if got := c.Severity(KeyImageMissingAltSeverity); got != diag.SevError {
		t.Errorf("severity from label = %v, want error", got)
	}
}

func TestSetDefaultsIsAdditive(t *testing.T) {
	c := New(map[string]any{"showLineNumbers": false})
	c.SetDefaults(map[string]any{
		"showLineNumbers":  true,
		KeyTaskItemClass:   "other",
		"lineNumberOffset": 0,
	})

	if c.Bool("showLineNumbers") {
		t.Error("override must win over extension default")
	}
	if got := c.String(KeyTaskItemClass); got != "task-list-item" {
		t.Errorf("extension default replaced core default: %q", got)
	}
	if _, ok := c.Value("lineNumberOffset"); !ok {
		t.Error("new default not registered")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   bool
	}{
		{"defaults", nil, false},
		{"toml int", map[string]any{KeyHeadingLevelOffset: int64(2)}, false},
		{"offset too large", map[string]any{KeyHeadingLevelOffset: 9}, true},
		{"offset not a number", map[string]any{KeyHeadingLevelOffset: "one"}, true},
		{"bad prefix", map[string]any{KeyContentClassPrefix: "md kek"}, true},
		{"empty task class", map[string]any{KeyTaskItemClass: ""}, true},
		{"bad severity", map[string]any{KeyBadTableLayoutSeverity: "fatal"}, true},
		{"extension severity", map[string]any{"missingFigureCaptionSeverity": "info"}, false},
		{"debug dump not bool", map[string]any{KeyDebugDump: "yes"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.overrides).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("expected validation category, got %v", err)
			}
		})
	}
}

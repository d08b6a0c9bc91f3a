package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

const settingsInvalidCode = "SETTINGS_INVALID"

var classNamePattern = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*$`)

type coreSettings struct {
	ContentClassPrefix string
	HeadingLevelOffset any
	TaskItemClass      string
	DebugDump          any
}

// Validate checks the core settings and every key ending in "Severity".
// Failures are wrapped as validation errors.
func (c *Config) Validate() error {
	s := coreSettings{
		ContentClassPrefix: c.String(KeyContentClassPrefix),
		HeadingLevelOffset: c.Any(KeyHeadingLevelOffset),
		TaskItemClass:      c.String(KeyTaskItemClass),
		DebugDump:          c.Any(KeyDebugDump),
	}
	err := validation.ValidateStruct(&s,
		validation.Field(&s.ContentClassPrefix, validation.Match(classNamePattern)),
		validation.Field(&s.HeadingLevelOffset, validation.By(intInRange(-5, 5))),
		validation.Field(&s.TaskItemClass, validation.Required, validation.Match(classNamePattern)),
		validation.Field(&s.DebugDump, validation.By(isBool)),
	)
	if err != nil {
		return wrapValidationError(err)
	}

	severities := make(map[string]any)
	keys := make([]*validation.KeyRules, 0)
	for _, k := range c.Keys() {
		if !strings.HasSuffix(k, "Severity") {
			continue
		}
		severities[k] = c.Any(k)
		keys = append(keys, validation.Key(k, validation.By(isSeverity)))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := validation.Validate(severities, validation.Map(keys...)); err != nil {
		return wrapValidationError(err)
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

func wrapValidationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid compiler settings").
		WithTextCode(settingsInvalidCode)
}

func intInRange(lo, hi int) validation.RuleFunc {
	return func(value any) error {
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("must be an integer, got %T", value)
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func isBool(value any) error {
	if _, ok := value.(bool); !ok {
		return errors.New("must be a boolean")
	}
	return nil
}

func isSeverity(value any) error {
	_, err := toSeverity(value)
	return err
}

package main

import (
	"fmt"
	"os"
	"strings"
)

// toggle is the value of an auto|on|off flag such as --color or --ui.
type toggle uint8

const (
	toggleAuto toggle = iota
	toggleOn
	toggleOff
)

func parseToggle(flag, value string) (toggle, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on", "always", "true":
		return toggleOn, nil
	case "off", "never", "false":
		return toggleOff, nil
	}
	return toggleAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled returns the explicit setting, or detect() for auto.
func (t toggle) enabled(detect func() bool) bool {
	switch t {
	case toggleOn:
		return true
	case toggleOff:
		return false
	}
	return detect()
}

// interactive reports whether f is a terminal that can redraw in place.
func interactive(f *os.File) bool {
	return isTerminal(f) && os.Getenv("TERM") != "dumb"
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kekpiler/internal/diag"
	"kekpiler/internal/diagfmt"
)

type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	colorMode, err := parseToggle("color", colorFlag)
	if err != nil {
		return globalOptions{}, err
	}
	useColor := colorMode.enabled(func() bool { return isTerminal(os.Stderr) })
	color.NoColor = !useColor
	return globalOptions{
		color:          useColor,
		quiet:          quiet,
		timings:        timings,
		maxDiagnostics: maxDiagnostics,
	}, nil
}

// printDiagnostics writes diags to w in the requested format.
func printDiagnostics(w io.Writer, diags []diag.Diagnostic, format string, opts globalOptions, baseDir string) error {
	switch format {
	case "pretty", "":
		if len(diags) == 0 {
			return nil
		}
		diagfmt.Pretty(w, diags, diagfmt.PrettyOpts{
			Color:    opts.color,
			PathMode: diagfmt.PathModeRelative,
			BaseDir:  baseDir,
			Snippet:  true,
			Max:      opts.maxDiagnostics,
		})
		if !opts.quiet {
			_, err := fmt.Fprintln(w, diagfmt.Summary(diags))
			return err
		}
		return nil
	case "short":
		if len(diags) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(limit(diags, opts.maxDiagnostics)))
		return err
	case "json":
		return diagfmt.JSON(w, diags, diagfmt.JSONOpts{
			PathMode:       diagfmt.PathModeRelative,
			BaseDir:        baseDir,
			Max:            opts.maxDiagnostics,
			IncludeSnippet: true,
		})
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
}

func limit(diags []diag.Diagnostic, n int) []diag.Diagnostic {
	if n > 0 && len(diags) > n {
		return diags[:n]
	}
	return diags
}

// parseSettingFlags turns key=value pairs into settings. Values are read as
// integers or booleans when they parse as such, strings otherwise.
func parseSettingFlags(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q (expected key=value)", pair)
		}
		value = strings.TrimSpace(value)
		if n, err := strconv.Atoi(value); err == nil {
			out[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			out[key] = b
		} else {
			out[key] = value
		}
	}
	return out, nil
}

func mergeSettings(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

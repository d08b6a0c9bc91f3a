package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kekpiler/internal/extensions"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new kekpiler project",
	Long: `Initialize a new kekpiler project by creating a project manifest
(kekpiler.toml) and a sample document (docs/index.md). If [path|name] is
omitted, initializes the current directory. If a non-existing name is provided,
a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit creates kekpiler.toml and docs/index.md in the target directory,
// refusing to overwrite an existing manifest.
func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "Documentation"
	}

	manifestPath := filepath.Join(target, manifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest()), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	docsDir := filepath.Join(target, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	indexPath := filepath.Join(docsDir, "index.md")
	createdIndex := false
	if _, err := os.Stat(indexPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(indexPath, []byte(defaultIndex(name)), 0o600); err != nil {
			return fmt.Errorf("failed to write index.md: %w", err)
		}
		createdIndex = true
	}

	out := cmd.OutOrStdout()
	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(out, "Initialized kekpiler project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", manifestName)
	if createdIndex {
		fmt.Fprintf(out, "  - docs/index.md\n")
	} else {
		fmt.Fprintf(out, "  - docs/index.md (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a manifest enabling the default extensions.
func buildDefaultManifest() string {
	quoted := make([]string, 0, len(extensions.Default()))
	for _, name := range extensions.Default() {
		quoted = append(quoted, fmt.Sprintf("%q", name))
	}
	return fmt.Sprintf(`# kekpiler project manifest
[build]
source = "docs"
output = "out"
jobs = 0
indent = false
cache = true

[extensions]
enabled = [%s]

[settings]
contentClassPrefix = ""
headingLevelOffset = 0
imageMissingAltSeverity = "warning"
`, strings.Join(quoted, ", "))
}

func defaultIndex(name string) string {
	return fmt.Sprintf(`---
title: %s
---
@[TOC]()

# %s

Write your documentation here.

## Code

`+"```go showLineNumbers\nfmt.Println(\"hello\")\n```"+`
@[caption](A first listing)
`, name, name)
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"kekpiler/internal/config"
	"kekpiler/internal/extensions"
)

const manifestName = "kekpiler.toml"

const noManifestMessage = "no kekpiler.toml found\nplease specify the source directory explicitly, e.g.:\n  kekpiler build path/to/docs"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
	// extensionsSet is true when [extensions].enabled is present, even empty.
	extensionsSet bool
}

type projectConfig struct {
	Settings   map[string]any   `toml:"settings"`
	Build      buildConfig      `toml:"build"`
	Extensions extensionsConfig `toml:"extensions"`
}

type buildConfig struct {
	Source string `toml:"source"`
	Output string `toml:"output"`
	Jobs   int    `toml:"jobs"`
	Indent bool   `toml:"indent"`
	Cache  *bool  `toml:"cache"`
}

type extensionsConfig struct {
	Enabled []string `toml:"enabled"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, meta, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:          manifestPath,
		Root:          filepath.Dir(manifestPath),
		Config:        cfg,
		extensionsSet: meta.IsDefined("extensions", "enabled"),
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, toml.MetaData, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, meta, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return projectConfig{}, meta, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Build.Jobs < 0 {
		return projectConfig{}, meta, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	known := extensions.Names()
	for _, name := range cfg.Extensions.Enabled {
		if !slices.Contains(known, name) {
			return projectConfig{}, meta, fmt.Errorf("%s: unknown extension %q (known: %s)", path, name, strings.Join(known, ", "))
		}
	}
	if err := config.New(cfg.Settings).Validate(); err != nil {
		return projectConfig{}, meta, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, meta, nil
}

// extensionList returns the extensions to install: the manifest list when
// set, the defaults otherwise.
func (m *projectManifest) extensionList() []string {
	if m == nil || !m.extensionsSet {
		return extensions.Default()
	}
	return m.Config.Extensions.Enabled
}

func (m *projectManifest) settings() map[string]any {
	if m == nil {
		return nil
	}
	return m.Config.Settings
}

// sourceDir resolves [build].source against the manifest directory.
func (m *projectManifest) sourceDir() string {
	return m.resolve(m.Config.Build.Source, ".")
}

func (m *projectManifest) outputDir() string {
	return m.resolve(m.Config.Build.Output, "out")
}

func (m *projectManifest) cacheEnabled() bool {
	if m == nil || m.Config.Build.Cache == nil {
		return true
	}
	return *m.Config.Build.Cache
}

func (m *projectManifest) resolve(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(m.Root, filepath.FromSlash(value))
}

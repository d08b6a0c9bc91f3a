package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"kekpiler/internal/extensions"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadProjectManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[build]
source = "docs"
jobs = 2
cache = false

[extensions]
enabled = ["toc", "slugger"]

[settings]
headingLevelOffset = 1
contentClassPrefix = "kek-"
`)
	nested := filepath.Join(root, "docs", "guide")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	manifest, ok, err := loadProjectManifest(nested)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}
	rootAbs, _ := filepath.Abs(root)
	if manifest.Root != rootAbs {
		t.Errorf("Root = %q, want %q", manifest.Root, rootAbs)
	}
	if got := manifest.sourceDir(); got != filepath.Join(rootAbs, "docs") {
		t.Errorf("sourceDir = %q", got)
	}
	if got := manifest.outputDir(); got != filepath.Join(rootAbs, "out") {
		t.Errorf("outputDir = %q", got)
	}
	if manifest.cacheEnabled() {
		t.Error("cache must be disabled")
	}
	if got := manifest.extensionList(); !slices.Equal(got, []string{"toc", "slugger"}) {
		t.Errorf("extensions = %v", got)
	}
	if got := manifest.settings()["headingLevelOffset"]; got != int64(1) {
		t.Errorf("headingLevelOffset = %#v", got)
	}
}

func TestManifestDefaults(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[build]\n")
	manifest, ok, err := loadProjectManifest(root)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}
	if !slices.Equal(manifest.extensionList(), extensions.Default()) {
		t.Errorf("extensions = %v, want defaults", manifest.extensionList())
	}
	if !manifest.cacheEnabled() {
		t.Error("cache must default to enabled")
	}

	// пустой список - осознанный отказ от расширений
	writeManifest(t, root, "[extensions]\nenabled = []\n")
	manifest, _, err = loadProjectManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := manifest.extensionList(); len(got) != 0 {
		t.Errorf("extensions = %v, want none", got)
	}

	var nilManifest *projectManifest
	if !slices.Equal(nilManifest.extensionList(), extensions.Default()) || nilManifest.settings() != nil {
		t.Error("nil manifest must fall back to defaults")
	}
}

func TestManifestErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[build\n", "failed to parse TOML"},
		{"unknown key", "[build]\nsrc = \"docs\"\n", "unknown keys: build.src"},
		{"negative jobs", "[build]\njobs = -1\n", "jobs must not be negative"},
		{"unknown extension", "[extensions]\nenabled = [\"nope\"]\n", `unknown extension "nope"`},
		{"bad setting", "[settings]\nheadingLevelOffset = 9\n", "invalid compiler settings"},
		{"bad severity", "[settings]\nimageMissingAltSeverity = \"loud\"\n", "invalid compiler settings"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeManifest(t, root, tc.data)
			_, ok, err := loadProjectManifest(root)
			if !ok {
				t.Fatal("manifest must be found")
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestManifestNotFound(t *testing.T) {
	_, ok, err := loadProjectManifest(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Skip("a kekpiler.toml exists above the temp directory")
	}
}

func TestInitWritesLoadableProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "handbook")
	var out bytes.Buffer
	initCmd.SetOut(&out)
	t.Cleanup(func() { initCmd.SetOut(nil) })

	if err := runInit(initCmd, []string{target}); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if !strings.Contains(out.String(), "docs/index.md") {
		t.Errorf("unexpected output %q", out.String())
	}
	manifest, ok, err := loadProjectManifest(target)
	if err != nil || !ok {
		t.Fatalf("generated manifest: ok=%v err=%v", ok, err)
	}
	if !slices.Equal(manifest.extensionList(), extensions.Default()) {
		t.Errorf("extensions = %v", manifest.extensionList())
	}
	index, err := os.ReadFile(filepath.Join(target, "docs", "index.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), "title: handbook") {
		t.Errorf("index.md = %q", index)
	}

	if err := runInit(initCmd, []string{target}); err == nil {
		t.Error("second init must fail")
	}
}

package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"kekpiler/internal/buildcache"
	"kekpiler/internal/diag"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *recordingSink) statuses(file string) map[Status]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[Status]bool{}
	for _, e := range s.events {
		if e.File == file {
			out[e.Status] = true
		}
	}
	return out
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListDocuments(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.md":         "",
		"a/c.MD":       "",
		"notes.txt":    "",
		".hidden/d.md": "",
		"a/deep/e.md":  "",
	})
	got, err := ListDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a/c.MD", "a/deep/e.md", "b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListDocuments = %v, want %v", got, want)
	}
	if p := OutputPath("/out", "a/c.MD"); p != filepath.Join("/out", "a", "c.html") {
		t.Errorf("OutputPath = %q", p)
	}
}

func TestBuild(t *testing.T) {
	src := writeTree(t, map[string]string{
		"index.md":     "# Home\n",
		"guide/use.md": "text ![](x.png)\n",
		"broken.md":    "![](y.png)\n",
	})
	out := t.TempDir()
	cache, err := buildcache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sink := &recordingSink{}
	req := &BuildRequest{
		SourceDir: src,
		OutputDir: out,
		Files:     []string{"broken.md", "guide/use.md", "index.md"},
		Settings:  map[string]any{"imageMissingAltSeverity": "warning"},
		Jobs:      2,
		Cache:     cache,
		Version:   "test",
		Progress:  sink,
	}

	res, err := Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil || string(html) != "<article><h1>Home</h1></article>" {
		t.Fatalf("index.html = %q, %v", html, err)
	}
	if _, err := os.Stat(filepath.Join(out, "guide", "use.html")); err != nil {
		t.Errorf("nested output missing: %v", err)
	}
	if n := len(res.Diagnostics()); n != 2 {
		t.Errorf("expected 2 diagnostics, got %v", res.Diagnostics())
	}
	if !sink.statuses("index.md")[StatusDone] || !sink.statuses("index.md")[StatusQueued] {
		t.Errorf("missing progress events for index.md")
	}
	if len(res.Timings.Stages()) == 0 || len(res.Report.Stages) == 0 {
		t.Errorf("timings not aggregated: %+v", res.Report)
	}

	// второй прогон обслуживается кэшем, диагностики сохраняются
	res, err = Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Files {
		if !f.Cached {
			t.Errorf("%s was not served from cache", f.Source)
		}
	}
	if n := len(res.Diagnostics()); n != 2 {
		t.Errorf("cached diagnostics lost: %v", res.Diagnostics())
	}
	if !sink.statuses("index.md")[StatusCached] {
		t.Error("missing cached event")
	}
}

func TestBuildReportsFailedDocuments(t *testing.T) {
	src := writeTree(t, map[string]string{
		"ok.md":  "fine\n",
		"bad.md": "![](pic.png)\n",
	})
	out := t.TempDir()
	res, err := Build(context.Background(), &BuildRequest{
		SourceDir: src,
		OutputDir: out,
		Settings:  map[string]any{"imageMissingAltSeverity": "error"},
	})
	if !errors.Is(err, ErrDocumentsFailed) {
		t.Fatalf("expected ErrDocumentsFailed, got %v", err)
	}
	if res.Failed() != 1 {
		t.Errorf("Failed() = %d", res.Failed())
	}
	for _, f := range res.Files {
		switch f.Source {
		case "bad.md":
			if !IsDocumentError(f.Err) || len(f.Diagnostics) != 1 || f.Diagnostics[0].Code != diag.MdImageMissingAlt {
				t.Errorf("bad.md: err=%v diags=%v", f.Err, f.Diagnostics)
			}
		case "ok.md":
			if f.Err != nil {
				t.Errorf("ok.md failed: %v", f.Err)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(out, "bad.html")); !os.IsNotExist(err) {
		t.Error("failed document must not produce output")
	}
}

func TestBuildCancelled(t *testing.T) {
	src := writeTree(t, map[string]string{"a.md": "a\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, &BuildRequest{SourceDir: src, OutputDir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompileSingle(t *testing.T) {
	res, err := Compile(context.Background(), &CompileRequest{
		Source:     []byte("# A\n\n@[TOC]()\n"),
		Extensions: []string{"slugger", "toc"},
		DebugDump:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.HTML == "" || res.Dump.Tokens == "" || res.Dump.Tree == "" {
		t.Errorf("unexpected result %+v", res)
	}

	_, err = Compile(context.Background(), &CompileRequest{Path: filepath.Join(t.TempDir(), "missing.md")})
	if err == nil {
		t.Error("missing file must fail")
	}
	if _, err := Compile(context.Background(), &CompileRequest{Extensions: []string{"nope"}, Source: []byte("x")}); err == nil {
		t.Error("unknown extension must fail")
	}
}

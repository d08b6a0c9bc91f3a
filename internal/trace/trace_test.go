package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeStage, true},
		{LevelError, ScopeNode, false},
		{LevelPhase, ScopeDocument, true},
		{LevelPhase, ScopeStage, false},
		{LevelDetail, ScopeStage, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
		{Level(42), ScopeDriver, false},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"debug", "DEBUG", "Debug"} {
		if l, err := ParseLevel(in); err != nil || l != LevelDebug {
			t.Errorf("ParseLevel(%q) = %v, %v", in, l, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSpansNestThroughContext(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithDocument(WithTracer(context.Background(), tr), "a.md")

	doc, dctx := Start(ctx, ScopeDocument, "compile")
	stage, sctx := Start(dctx, ScopeStage, "render")
	if stage.ID() != 0 || sctx != dctx {
		t.Error("filtered span must be inert and keep the context")
	}
	stage.End("")
	doc.With("size", "12").End("ok")
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "render") {
		t.Errorf("stage span must be filtered at phase level:\n%s", out)
	}
	if strings.Count(out, "a.md") != 2 || strings.Count(out, "compile") != 2 {
		t.Errorf("expected begin and end of compile tagged with the document:\n%s", out)
	}
	if !strings.Contains(out, "{size=12}") || !strings.Contains(out, "ms") {
		t.Errorf("end event lacks extra or elapsed:\n%s", out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)
	parent, pctx := Start(ctx, ScopeDriver, "build")
	child, _ := Start(pctx, ScopeNode, "hook")
	child.End("done")
	parent.End("")
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["scope"] != "node" || ev["detail"] != "done" || ev["parent_id"] != float64(parent.ID()) {
		t.Errorf("unexpected event: %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for i, name := range []string{"a", "b", "c", "d"} {
		doc := "x.md"
		if i%2 == 1 {
			doc = "y.md"
		}
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeStage, Name: name, Document: doc})
	}
	snap := ring.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText, ""); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump must write one line per event:\n%s", buf.String())
	}
	buf.Reset()
	if err := ring.Dump(&buf, FormatText, "y.md"); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 || strings.Contains(buf.String(), "x.md") {
		t.Errorf("document filter failed:\n%s", buf.String())
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give a disabled tracer, got %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Fatalf("both mode must keep a ring, got %T", tr)
	}

	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Error("tracer lost in context")
	}
	Point(WithDocument(ctx, "p.md"), ScopeStage, "cache", "hit")
	if snap := RingOf(tr).Snapshot(); len(snap) != 1 || snap[0].Document != "p.md" {
		t.Errorf("point event missing: %+v", snap)
	}
	if FromContext(context.Background()) != Nop || RingOf(Nop) != nil {
		t.Error("missing tracer must fall back to Nop")
	}
}

func TestParseFormatAndMode(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "text": FormatText, "NDJSON": FormatNDJSON} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
}

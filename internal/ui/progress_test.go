package ui

import (
	"fmt"
	"strings"
	"testing"

	"kekpiler/internal/buildpipeline"
	"kekpiler/internal/compiler"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	model := NewProgressModel("build docs", []string{"a.md", "b.md"}, events).(*progressModel)

	for _, ev := range []buildpipeline.Event{
		{File: "a.md", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking, Detail: compiler.StageTokenize},
		{File: "b.md", Stage: buildpipeline.StageCache, Status: buildpipeline.StatusCached},
		{File: "unknown.md", Stage: buildpipeline.StageRead, Status: buildpipeline.StatusWorking},
	} {
		model.Update(eventMsg(ev))
	}

	view := model.View()
	for _, want := range []string{"tokenize", "cached", "a.md", "b.md"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}
	if got := model.percent(); got < 0.64 || got > 0.66 {
		t.Errorf("percent = %v, want 0.65", got)
	}

	model.Update(eventMsg{File: "a.md", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	if model.percent() != 1 {
		t.Errorf("percent after completion = %v", model.percent())
	}
	model.Update(doneMsg{})
	if !strings.Contains(model.View(), "done: build docs") {
		t.Errorf("missing done header:\n%s", model.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.md", 20, "short.md"},
		{"docs/very/long/name.md", 10, "docs/ve..."},
		{"日本語", 4, "日本"}, // многоточие не оставило бы места для текста
		{"日本語テキスト", 7, "日本..."},
		{"abcdef", 2, "ab"},
		{"abcdef", 0, "abcdef"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestProgressSummaryAndCollapsedRows(t *testing.T) {
	files := make([]string, maxRows+3)
	for i := range files {
		files[i] = fmt.Sprintf("doc%02d.md", i)
	}
	model := NewProgressModel("site", files, make(chan buildpipeline.Event)).(*progressModel)
	model.Update(eventMsg{File: "doc00.md", Stage: buildpipeline.StageCache, Status: buildpipeline.StatusCached})
	model.Update(eventMsg{File: "doc01.md", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusError})
	model.Update(eventMsg{File: "doc02.md", Stage: buildpipeline.StageRead, Status: buildpipeline.StatusWorking})

	view := model.View()
	if !strings.Contains(view, "2/15 documents, 1 cached, 1 failed") {
		t.Errorf("unexpected summary:\n%s", view)
	}
	// в длинном списке видны только активные и упавшие документы
	for _, want := range []string{"doc01.md", "doc02.md", "13 more"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "doc00.md") {
		t.Errorf("cached row should be collapsed:\n%s", view)
	}
}

package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("tokenize")
	tm.End(a, "12 tokens")
	b := tm.Begin("render")
	tm.End(b, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(r.Stages))
	}
	if r.Stages[0].Name != "tokenize" || r.Stages[0].Note != "12 tokens" {
		t.Errorf("unexpected first stage: %+v", r.Stages[0])
	}
	if r.TotalMS < r.Stages[0].DurationMS {
		t.Errorf("total %f smaller than a stage %f", r.TotalMS, r.Stages[0].DurationMS)
	}
	if !strings.Contains(tm.Summary(), "// 12 tokens") {
		t.Errorf("summary lost the note:\n%s", tm.Summary())
	}

	tm.Reset()
	if tm.Len() != 0 || len(tm.Report().Stages) != 0 {
		t.Error("reset must drop all stages")
	}
}

func TestReportAdd(t *testing.T) {
	var total Report
	total.Add(Report{TotalMS: 3, Stages: []StageReport{{Name: "a", DurationMS: 1}, {Name: "b", DurationMS: 2, Note: "x"}}})
	total.Add(Report{TotalMS: 4, Stages: []StageReport{{Name: "b", DurationMS: 4}}})

	if total.TotalMS != 7 {
		t.Errorf("TotalMS = %v, want 7", total.TotalMS)
	}
	if len(total.Stages) != 2 || total.Stages[1].DurationMS != 6 {
		t.Errorf("unexpected stages: %+v", total.Stages)
	}
	// заметки отдельных компиляций не переносятся в сумму
	if total.Stages[1].Note != "" {
		t.Errorf("note must be dropped, got %q", total.Stages[1].Note)
	}
}

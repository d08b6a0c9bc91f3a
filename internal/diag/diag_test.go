package diag

import (
	"testing"

	"kekpiler/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	f := source.NewFile("docs/sample.md", []byte("a\nb\n"))
	bag := NewBag(0)
	r := BagReporter{Bag: bag, File: f}

	r.Report(MdUnusedMetadata, SevWarning, 2, "another")
	r.Report(MdBadTableLayout, SevError, 0, "first line\nsecond")

	expected := "error MD1001 docs/sample.md:1:1 first line second\n" +
		"warning MD1004 docs/sample.md:2:1 another"

	if got := FormatShortDiagnostics(bag.Items()); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	// порядок добавления не меняется
	if bag.Items()[0].Code != MdUnusedMetadata {
		t.Errorf("bag order changed by formatting")
	}
}

func TestBagLimitAndFlags(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(New(SevInfo, MdInfo, 0, "a")) || !bag.Add(New(SevWarning, MdInfo, 1, "b")) {
		t.Fatal("expected first two diagnostics to be stored")
	}
	if bag.Add(New(SevWarning, MdInfo, 2, "c")) {
		t.Error("expected limit to reject third warning")
	}
	if bag.HasErrors() {
		t.Error("HasErrors must be false")
	}
	if !bag.HasWarnings() {
		t.Error("HasWarnings must be true")
	}
	// ошибка проходит сверх лимита
	if !bag.Add(New(SevError, MdInfo, 3, "d")) || !bag.HasErrors() {
		t.Error("error diagnostics must bypass the limit")
	}
	if bag.Len() != 3 || bag.Dropped() != 1 {
		t.Errorf("len=%d dropped=%d, want 3 and 1", bag.Len(), bag.Dropped())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	r.Report(MdImageMissingAlt, SevWarning, 4, "missing alt")
	r.Report(MdImageMissingAlt, SevWarning, 4, "missing alt")
	r.Report(MdImageMissingAlt, SevWarning, 9, "missing alt")
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"info": SevInfo, "WARNING": SevWarning, " error ": SevError} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

// Package observ measures how long each compiler stage takes.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Stage records the duration and note of one compiler stage.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the stages of one compilation in the order they ran.
type Timer struct {
	stages []Stage
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{stages: make([]Stage, 0, 8)} }

// Reset forgets every recorded stage.
func (t *Timer) Reset() { t.stages = t.stages[:0] }

// Len returns the number of recorded stages.
func (t *Timer) Len() int { return len(t.stages) }

// Begin starts a new stage and returns its index.
func (t *Timer) Begin(name string) int {
	t.stages = append(t.stages, Stage{Name: name, Start: time.Now()})
	return len(t.stages) - 1
}

// End finishes a stage by its index. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.stages) {
		return
	}
	s := &t.stages[idx]
	s.Dur = time.Since(s.Start)
	s.Note = note
}

// Summary returns a human-readable table of all tracked stages.
func (t *Timer) Summary() string {
	return t.Report().String()
}

// StageReport представляет сжатую информацию о стадии для сериализации.
type StageReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Stages  []StageReport `json:"stages" msgpack:"stages"`
}

// Report формирует срез стадий и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.stages) == 0 {
		return Report{}
	}
	report := Report{
		Stages: make([]StageReport, len(t.stages)),
	}
	var total time.Duration
	for i, stage := range t.stages {
		total += stage.Dur
		report.Stages[i] = StageReport{
			Name:       stage.Name,
			DurationMS: durationToMillis(stage.Dur),
			Note:       stage.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Add folds other into r, summing stages with the same name. Stages keep
// the order in which their names first appeared.
func (r *Report) Add(other Report) {
	for _, s := range other.Stages {
		found := false
		for i := range r.Stages {
			if r.Stages[i].Name == s.Name {
				r.Stages[i].DurationMS += s.DurationMS
				found = true
				break
			}
		}
		if !found {
			s.Note = ""
			r.Stages = append(r.Stages, s)
		}
	}
	r.TotalMS += other.TotalMS
}

func (r Report) String() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			b.WriteString("  // " + s.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

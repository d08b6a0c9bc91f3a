package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageRead loads the document from disk.
	StageRead Stage = "read"
	// StageCompile runs the compiler stages.
	StageCompile Stage = "compile"
	// StageWrite writes the HTML output.
	StageWrite Stage = "write"
	// StageCache looks up or stores the cached result.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusCached indicates the result came from the build cache.
	StatusCached Status = "cached"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Detail  string // имя стадии компилятора во время StageCompile
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

// Timings sums stage durations over documents. Add and Merge need a
// non-nil map; reads work on nil.
type Timings map[Stage]time.Duration

var stageOrder = []Stage{StageRead, StageCache, StageCompile, StageWrite}

func (t Timings) Add(stage Stage, dur time.Duration) { t[stage] += dur }

// Merge adds every stage recorded in other.
func (t Timings) Merge(other Timings) {
	for stage, dur := range other {
		t[stage] += dur
	}
}

// Stages returns the recorded stages in pipeline order.
func (t Timings) Stages() []Stage {
	out := make([]Stage, 0, len(t))
	for _, stage := range stageOrder {
		if _, ok := t[stage]; ok {
			out = append(out, stage)
		}
	}
	return out
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageRead, Status: StatusQueued})
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}

package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kekpiler/internal/compiler"
	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/extensions"
	"kekpiler/internal/observ"
	"kekpiler/internal/source"
)

// CompileRequest configures the compilation of one document.
type CompileRequest struct {
	Path           string
	Source         []byte // nil - прочитать Path с диска
	Settings       map[string]any
	Extensions     []string
	Indent         bool
	MaxDiagnostics int
	DebugDump      bool
	Progress       ProgressSink
	// Display is the name used in progress events, Path when empty.
	Display string
}

// CompileResult captures the output of one document.
type CompileResult struct {
	HTML        string
	Diagnostics []diag.Diagnostic
	Timings     observ.Report
	Dump        compiler.Dump
}

// Compile reads and compiles a single document. Diagnostics are returned
// even when the compilation fails.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	display := req.Display
	if display == "" {
		display = req.Path
	}

	var file *source.File
	if req.Source != nil {
		file = source.NewFile(req.Path, req.Source)
	} else {
		if req.Path == "" {
			return result, fmt.Errorf("missing document path")
		}
		start := time.Now()
		emit(req.Progress, Event{File: display, Stage: StageRead, Status: StatusWorking})
		loaded, err := source.Load(req.Path)
		if err != nil {
			result.Diagnostics = []diag.Diagnostic{readFailure(req.Path, err)}
			emit(req.Progress, Event{File: display, Stage: StageRead, Status: StatusError, Err: err})
			return result, err
		}
		emit(req.Progress, Event{File: display, Stage: StageRead, Status: StatusDone, Elapsed: time.Since(start)})
		file = loaded
	}

	settings := make(map[string]any, len(req.Settings)+1)
	for k, v := range req.Settings {
		settings[k] = v
	}
	if req.DebugDump {
		settings[config.KeyDebugDump] = true
	}

	c := compiler.New(compiler.Options{
		Settings:       settings,
		MaxDiagnostics: req.MaxDiagnostics,
		Observer: func(ev compiler.StageEvent) {
			if ev.Status == compiler.StageStart {
				emit(req.Progress, Event{File: display, Stage: StageCompile, Status: StatusWorking, Detail: ev.Name})
			}
		},
	})
	if err := extensions.Install(c, req.Extensions); err != nil {
		return result, err
	}

	start := time.Now()
	html, err := c.CompileFile(ctx, file, req.Indent)
	result.Diagnostics = c.Diagnostics()
	result.Timings = c.Timings()
	if req.DebugDump {
		result.Dump = c.DebugDump()
	}
	if err != nil {
		emit(req.Progress, Event{File: display, Stage: StageCompile, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return result, err
	}
	result.HTML = html
	emit(req.Progress, Event{File: display, Stage: StageCompile, Status: StatusDone, Elapsed: time.Since(start)})
	return result, nil
}

// IsDocumentError reports whether err is an error severity diagnostic that
// aborted the document, as opposed to an I/O or setup failure.
func IsDocumentError(err error) bool {
	var cerr *compiler.Error
	return errors.As(err, &cerr)
}

func readFailure(path string, err error) diag.Diagnostic {
	d := diag.New(diag.SevError, diag.IOReadFailed, 0, err.Error())
	d.Path = path
	return d
}

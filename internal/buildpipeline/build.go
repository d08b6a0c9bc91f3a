// Package buildpipeline compiles documents, one at a time or a whole
// directory tree in parallel with a build cache and progress events.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"kekpiler/internal/buildcache"
	"kekpiler/internal/diag"
	"kekpiler/internal/observ"
	"kekpiler/internal/trace"
)

// ErrDocumentsFailed is returned by Build when at least one document failed.
var ErrDocumentsFailed = errors.New("documents failed")

// BuildRequest configures a batch build of a directory.
type BuildRequest struct {
	SourceDir      string
	OutputDir      string
	Files          []string // пусто - все .md файлы под SourceDir
	Settings       map[string]any
	Extensions     []string
	Indent         bool
	Jobs           int
	MaxDiagnostics int
	Cache          *buildcache.DiskCache
	Version        string
	Progress       ProgressSink
}

// FileResult is the outcome of one document.
type FileResult struct {
	Source      string // путь относительно SourceDir
	Output      string
	Diagnostics []diag.Diagnostic
	Timings     observ.Report
	Cached      bool
	Err         error
}

// BuildResult captures per-document results and aggregated timings.
type BuildResult struct {
	Files   []FileResult
	Timings Timings
	Report  observ.Report
}

// Failed counts the documents that produced no output.
func (r BuildResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Diagnostics returns the diagnostics of every document in file order.
func (r BuildResult) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// Build compiles every document of req.SourceDir into req.OutputDir,
// mirroring the directory layout. A failing document does not stop the
// others; cancellation of ctx does.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	if req.SourceDir == "" {
		return result, fmt.Errorf("missing source directory")
	}
	files := req.Files
	if len(files) == 0 {
		listed, err := ListDocuments(req.SourceDir)
		if err != nil {
			return result, err
		}
		files = listed
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(req.SourceDir, "out")
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "build")
	span.With("files", strconv.Itoa(len(files)))
	defer span.End("")

	emitQueued(req.Progress, files)
	fingerprint := buildcache.Fingerprint(req.Settings, req.Extensions)

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))
	stageTimes := make([]Timings, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stageTimes[i] = make(Timings, len(stageOrder))
			b := &builder{req: req, outputDir: outputDir, fingerprint: fingerprint, timings: stageTimes[i]}
			results[i] = b.document(trace.WithDocument(gctx, rel), rel)
			if errors.Is(results[i].Err, context.Canceled) || errors.Is(results[i].Err, context.DeadlineExceeded) {
				return results[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		result.Files = results
		return result, err
	}

	result.Files = results
	result.Timings = make(Timings, len(stageOrder))
	for i := range results {
		result.Report.Add(results[i].Timings)
		result.Timings.Merge(stageTimes[i])
	}
	if failed := result.Failed(); failed > 0 {
		return result, fmt.Errorf("%w: %d of %d", ErrDocumentsFailed, failed, len(files))
	}
	return result, nil
}

type builder struct {
	req         *BuildRequest
	outputDir   string
	fingerprint buildcache.Digest
	timings     Timings
}

func (b *builder) document(ctx context.Context, rel string) FileResult {
	res := FileResult{Source: rel, Output: OutputPath(b.outputDir, rel)}
	path := filepath.Join(b.req.SourceDir, rel)

	start := time.Now()
	emit(b.req.Progress, Event{File: rel, Stage: StageRead, Status: StatusWorking})
	content, err := os.ReadFile(path)
	b.timings.Add(StageRead, time.Since(start))
	if err != nil {
		res.Err = err
		res.Diagnostics = []diag.Diagnostic{readFailure(path, err)}
		emit(b.req.Progress, Event{File: rel, Stage: StageRead, Status: StatusError, Err: err})
		return res
	}

	key := buildcache.Key(content, b.fingerprint, b.req.Version)
	if b.req.Cache != nil {
		start = time.Now()
		var entry buildcache.Entry
		ok, cerr := b.req.Cache.Get(key, &entry)
		b.timings.Add(StageCache, time.Since(start))
		if cerr != nil {
			res.Diagnostics = append(res.Diagnostics, cacheFailure(path, cerr))
		}
		if ok {
			res.Cached = true
			res.Diagnostics = append(res.Diagnostics, entry.Diagnostics...)
			res.Timings = entry.Timings
			res.Err = b.write(res.Output, entry.HTML)
			if res.Err != nil {
				res.Diagnostics = append(res.Diagnostics, writeFailure(res.Output, res.Err))
			}
			trace.Point(ctx, trace.ScopeDocument, "cache", "hit")
			emit(b.req.Progress, Event{File: rel, Stage: StageCache, Status: StatusCached})
			return res
		}
	}

	compiled, err := Compile(ctx, &CompileRequest{
		Path:           path,
		Source:         content,
		Settings:       b.req.Settings,
		Extensions:     b.req.Extensions,
		Indent:         b.req.Indent,
		MaxDiagnostics: b.req.MaxDiagnostics,
		Progress:       b.req.Progress,
		Display:        rel,
	})
	res.Diagnostics = append(res.Diagnostics, compiled.Diagnostics...)
	res.Timings = compiled.Timings
	b.timings.Add(StageCompile, time.Duration(compiled.Timings.TotalMS*float64(time.Millisecond)))
	if err != nil {
		res.Err = err
		return res
	}

	start = time.Now()
	emit(b.req.Progress, Event{File: rel, Stage: StageWrite, Status: StatusWorking})
	if err := b.write(res.Output, compiled.HTML); err != nil {
		res.Err = err
		res.Diagnostics = append(res.Diagnostics, writeFailure(res.Output, err))
		emit(b.req.Progress, Event{File: rel, Stage: StageWrite, Status: StatusError, Err: err})
		return res
	}
	b.timings.Add(StageWrite, time.Since(start))

	if b.req.Cache != nil {
		start = time.Now()
		err := b.req.Cache.Put(key, &buildcache.Entry{
			Path:        rel,
			HTML:        compiled.HTML,
			Diagnostics: compiled.Diagnostics,
			Timings:     compiled.Timings,
		})
		b.timings.Add(StageCache, time.Since(start))
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, cacheFailure(path, err))
		}
	}
	emit(b.req.Progress, Event{File: rel, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(start)})
	return res
}

func (b *builder) write(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o600); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func writeFailure(path string, err error) diag.Diagnostic {
	d := diag.New(diag.SevError, diag.IOWriteFailed, 0, err.Error())
	d.Path = path
	return d
}

func cacheFailure(path string, err error) diag.Diagnostic {
	d := diag.New(diag.SevWarning, diag.IOCacheFailed, 0, err.Error())
	d.Path = path
	return d
}

package colloquy

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/farcloser/colloquy/internal/metadata"
	"github.com/farcloser/colloquy/internal/pcm"
	"github.com/farcloser/colloquy/internal/types"
)

// DefaultConcurrency bounds how many files are in flight at once.
const DefaultConcurrency = 3

// Loader reads and decodes one file into metadata and a sample buffer.
// The engine performs no I/O of its own beyond the default WAV loader;
// callers plug in decode facilities for other containers.
type Loader func(ctx context.Context, path string) (*types.Metadata, *types.Buffer, error)

// LoadWAV is the default Loader: native in-memory WAV decode, no external
// binaries involved.
func LoadWAV(_ context.Context, path string) (*types.Metadata, *types.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	meta, err := metadata.Read(data, int64(len(data)))
	if err != nil {
		return nil, nil, err
	}

	buf, err := pcm.DecodeWAV(data)
	if err != nil {
		return nil, nil, err
	}

	return meta, buf, nil
}

// FileReport is the complete per-file outcome: metadata, metrics, the
// validation map, and the overall status. StatusError means the pipeline
// faulted before validation could run; Message carries the fault and the
// quality fields stay empty.
type FileReport struct {
	Path       string
	Metadata   *types.Metadata
	Metrics    *Metrics
	Filename   *FilenameResult
	Validation Validation
	Status     Status
	Message    string
}

// BatchOptions configures a batch (or single-file) run.
type BatchOptions struct {
	Mode     AnalysisMode
	Criteria *Criteria
	Analysis AnalysisOptions
	Filename FilenameOptions

	// Concurrency limits in-flight files (default: DefaultConcurrency).
	Concurrency int

	// Progress, when set, is invoked after each file completes with the
	// processed count so far and the total. Calls are serialized.
	Progress func(processed, total int)

	// Load overrides the per-file loader (default: LoadWAV).
	Load Loader
}

// AnalyzeFile runs the full pipeline for one file: load, analyze,
// validate filename, validate criteria. Faults never escape; they are
// folded into a StatusError report.
func AnalyzeFile(ctx context.Context, path string, opts BatchOptions) *FileReport {
	report := &FileReport{Path: path}

	if opts.Filename.Pattern != PatternNone {
		report.Filename = ValidateFilename(filepath.Base(path), opts.Filename)
	}

	if opts.Mode != ModeFilenameOnly {
		load := opts.Load
		if load == nil {
			load = LoadWAV
		}

		meta, buf, err := load(ctx, path)
		if err != nil {
			report.Status = StatusError
			report.Message = err.Error()

			return report
		}

		report.Metadata = meta

		metrics, err := Analyze(buf, opts.Mode, opts.Analysis)
		if err != nil {
			report.Status = StatusError
			report.Message = err.Error()

			return report
		}

		report.Metrics = metrics
	}

	report.Validation, report.Status = Validate(
		report.Metadata, report.Metrics, report.Filename, opts.Criteria, opts.Mode,
	)

	return report
}

// AnalyzeBatch runs the pipeline over an ordered file list with bounded
// concurrency. One file's failure produces a StatusError report for that
// file only and never aborts its siblings. Cancellation is cooperative:
// once ctx is done no new file starts, files already in flight finish and
// keep their results, and unstarted files are omitted from the output.
// Output order follows input order regardless of completion order.
func AnalyzeBatch(ctx context.Context, paths []string, opts BatchOptions) []*FileReport {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	// One private slot per file; no shared mutation between pipelines.
	slots := make([]*FileReport, len(paths))

	var (
		group     errgroup.Group
		mu        sync.Mutex
		processed int
	)

	group.SetLimit(opts.Concurrency)

	for i, path := range paths {
		// Cancellation takes effect at file-start boundaries only.
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			// A submission blocked waiting for a slot may outlive
			// cancellation; its file must not start. The slot stays nil
			// and the progress callback is skipped.
			if ctx.Err() != nil {
				return nil
			}

			report := AnalyzeFile(ctx, path, opts)
			slots[i] = report

			slog.Debug("file analyzed", "path", path, "status", report.Status.String())

			mu.Lock()
			processed++

			if opts.Progress != nil {
				opts.Progress(processed, len(paths))
			}
			mu.Unlock()

			return nil
		})
	}

	_ = group.Wait() // pipelines never return errors

	reports := make([]*FileReport, 0, len(paths))

	for _, report := range slots {
		if report != nil {
			reports = append(reports, report)
		}
	}

	return reports
}

//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/colloquy"
	"github.com/farcloser/colloquy/internal/output"
)

const reportFile = "colloquy-report.jsonl"

var (
	errNotDirectory = errors.New("not a directory")
	errNoAudioFiles = errors.New("no audio files found")
)

// audioExtensions are the containers the batch scanner picks up. Everything
// except .wav goes through the ffmpeg decode path.
var audioExtensions = []string{".wav", ".flac", ".m4a", ".mp3", ".ogg"}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Analyze every recording in a folder and write a JSONL report",
		ArgsUsage: "<folder>",
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of files analyzed concurrently",
				Value:   colloquy.DefaultConcurrency,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			opts, err := batchOptions(cmd)
			if err != nil {
				return err
			}

			opts.Concurrency = max(cmd.Int("workers"), 1)

			return runBatch(ctx, cmd.Args().First(), opts)
		},
	}
}

func runBatch(ctx context.Context, folder string, opts colloquy.BatchOptions) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", folder, errNotDirectory)
	}

	files, err := collectAudioFiles(folder)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", folder, errNoAudioFiles)
	}

	fmt.Fprintf(os.Stderr, "Found %d files to analyze (%d workers)\n", len(files), opts.Concurrency)

	opts.Progress = func(processed, total int) {
		fmt.Fprintf(os.Stderr, "[%d/%d]\n", processed, total)
	}

	startTime := time.Now()
	reports := colloquy.AnalyzeBatch(ctx, files, opts)

	out, err := os.Create(reportFile)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	counts := map[colloquy.Status]int{}

	for _, report := range reports {
		counts[report.Status]++

		if err := enc.Encode(output.ReportToMap(report)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr,
		"Analyzed %d files in %s: %d pass, %d warning, %d fail, %d error\n",
		len(reports),
		time.Since(startTime).Round(time.Millisecond),
		counts[colloquy.StatusPass],
		counts[colloquy.StatusWarning],
		counts[colloquy.StatusFail],
		counts[colloquy.StatusError],
	)
	fmt.Fprintf(os.Stderr, "Report written to %s\n", reportFile)

	return nil
}

// collectAudioFiles walks the folder and returns supported files sorted by
// path, so report order is stable across runs.
func collectAudioFiles(folder string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if slices.Contains(audioExtensions, ext) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/colloquy"
	"github.com/farcloser/colloquy/internal/integration/ffmpeg"
	"github.com/farcloser/colloquy/internal/integration/ffprobe"
	"github.com/farcloser/colloquy/internal/types"
)

// loadFile decodes one file. WAV goes through the native in-memory path;
// everything else is probed and decoded through ffmpeg.
func loadFile(ctx context.Context, path string) (*types.Metadata, *types.Buffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return colloquy.LoadWAV(ctx, path)
	}

	probe, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	meta, err := probe.Metadata()
	if err != nil {
		return nil, nil, err
	}

	input, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer input.Close()

	buf, err := ffmpeg.Decode(ctx, input, meta.SampleRate, meta.Channels)
	if err != nil {
		return nil, nil, err
	}

	return meta, buf, nil
}

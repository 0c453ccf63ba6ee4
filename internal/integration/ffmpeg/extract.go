// Package ffmpeg is the external decode facility: it turns any container
// ffmpeg can read into the interleaved PCM the engine consumes. Decode
// failures are terminal per-file errors and are never retried.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/colloquy/internal/integration/binary"
	"github.com/farcloser/colloquy/internal/pcm"
	"github.com/farcloser/colloquy/internal/types"
)

// ExtractStream decodes a specific audio stream from a container into raw
// interleaved little-endian PCM.
func ExtractStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	streamIndex int,
	format *types.PCMFormat,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "start")

	ffmpegPath, found := binary.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", "-",
		"-map", "0:a:"+strconv.Itoa(streamIndex),
		"-f", bitDepthToSpec(format.BitDepth),
		"-acodec", codec,
		"-v", "quiet",
		"-",
	)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}

// Decode reads the first audio stream of a file into per-channel float
// buffers, going through the 32-bit extraction path.
func Decode(ctx context.Context, input io.Reader, sampleRate int, channels int) (*types.Buffer, error) {
	format := &types.PCMFormat{
		SampleRate: sampleRate,
		BitDepth:   types.Depth32,
		Channels:   uint(channels),
	}

	var raw bytes.Buffer

	if err := ExtractStream(ctx, input, &raw, 0, format); err != nil {
		return nil, err
	}

	return pcm.Deinterleave(&raw, *format)
}

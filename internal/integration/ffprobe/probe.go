//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/colloquy/internal/integration/binary"
	"github.com/farcloser/colloquy/internal/types"
)

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

/*
Bit depth reporting is codec-dependent: WAV/PCM and AIFF containers report
bits_per_sample, FLAC reports bits_per_raw_sample instead, and lossy codecs
report neither (no bit depth concept). Both fields are read and the first
non-zero one wins; zero means unknown and downstream validation treats the
field as unconstrained.
*/

// Stream describes one audio stream. Video fields are not mapped; the
// first codec_type == "audio" stream is the recording.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"` // pcm_s16le, flac, ...
	CodecType        string `json:"codec_type"` // audio
	SampleRate       string `json:"sample_rate,omitempty"`
	Channels         int    `json:"channels,omitempty"`
	ChannelLayout    string `json:"channel_layout,omitempty"` // stereo, mono
	Duration         string `json:"duration,omitempty"`       // seconds, float string
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"`
	SampleFmt        string `json:"sample_fmt,omitempty"` // ffmpeg-internal representation
}

// Format describes the container.
type Format struct {
	Filename   string `json:"filename"`
	NbStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`        // short container name(s), e.g. "wav"
	Duration   string `json:"duration,omitempty"` // seconds, float string
	Size       string `json:"size,omitempty"`     // bytes, as string
	ProbeScore int    `json:"probe_score"`        // 0-100 format detection confidence
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

// AudioStream returns the first audio stream of the probe result.
func (r *Result) AudioStream() (*Stream, error) {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i], nil
		}
	}

	return nil, fmt.Errorf("%w: no audio stream in %q", fault.ErrReadFailure, r.Format.Filename)
}

// Metadata converts the probe result into file metadata.
func (r *Result) Metadata() (*types.Metadata, error) {
	stream, err := r.AudioStream()
	if err != nil {
		return nil, err
	}

	sampleRate, _ := strconv.Atoi(stream.SampleRate)

	duration, _ := strconv.ParseFloat(stream.Duration, 64)
	if duration == 0 {
		duration, _ = strconv.ParseFloat(r.Format.Duration, 64)
	}

	fileSize, _ := strconv.ParseInt(r.Format.Size, 10, 64)

	bitDepth := stream.BitsPerSample
	if bitDepth == 0 {
		bitDepth, _ = strconv.Atoi(stream.BitsPerRawSample)
	}

	return &types.Metadata{
		FileType:   r.Format.FormatName,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   stream.Channels,
		Duration:   duration,
		FileSize:   fileSize,
	}, nil
}

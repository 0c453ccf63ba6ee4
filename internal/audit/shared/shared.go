// Package shared holds constants and block helpers common to the audit
// packages.
package shared

import (
	"math"
	"strconv"

	"github.com/farcloser/colloquy/internal/types"
)

const (
	// BlockMs is the common block size for level-pattern analyses. 250 ms
	// balances temporal resolution against run-to-run estimate stability.
	BlockMs = 250

	// FloorWindowMs is the short RMS window for noise floor estimation.
	FloorWindowMs = 50

	// SyncWindowMs is the window for channel time-sync detection.
	SyncWindowMs = 50

	// MinSilenceMs is the shortest run reported as silence. Anything
	// shorter is a tick or an edit click, not true silence.
	MinSilenceMs = 150

	// HardClipThreshold marks a sample as hard-clipped.
	HardClipThreshold = 0.999

	// NearClipThreshold marks a sample as dangerously close to full scale.
	NearClipThreshold = 0.98

	// NormalizationTargetDb is the peak target for delivery.
	NormalizationTargetDb = -6.0

	// ActiveSpeechMarginDb above the noise floor marks a block as active
	// speech.
	ActiveSpeechMarginDb = 20.0
)

// Db converts a linear amplitude to dBFS. Zero input yields -Inf, which is
// preserved (never clamped) so silence compares correctly downstream.
func Db(x float64) float64 {
	return 20 * math.Log10(x)
}

// RMS returns the root mean square of a sample slice (0 for empty input).
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sumSq float64
	for _, s := range samples {
		sumSq += s * s
	}

	return math.Sqrt(sumSq / float64(len(samples)))
}

// BlockFrames returns the frame count of an ms-sized block, at least 1.
func BlockFrames(sampleRate, ms int) int {
	return max(sampleRate*ms/1000, 1)
}

// ChannelBlockRMS computes per-channel RMS over consecutive BlockMs blocks.
// The trailing partial block is included when it holds at least half a
// block. Several analyses share this single pass: stereo classification,
// mic bleed (both methods), and the conversational bundle.
func ChannelBlockRMS(buf *types.Buffer) [][]float64 {
	blockFrames := BlockFrames(buf.SampleRate, BlockMs)
	frames := buf.Frames()
	numBlocks := frames / blockFrames

	if frames%blockFrames >= blockFrames/2 {
		numBlocks++
	}

	out := make([][]float64, len(buf.Channels))

	for ch, samples := range buf.Channels {
		blocks := make([]float64, 0, numBlocks)

		for b := range numBlocks {
			start := b * blockFrames
			end := min(start+blockFrames, len(samples))
			blocks = append(blocks, RMS(samples[start:end]))
		}

		out[ch] = blocks
	}

	return out
}

// BlockStartSec returns the start timestamp of block b.
func BlockStartSec(b, sampleRate int) float64 {
	blockFrames := BlockFrames(sampleRate, BlockMs)

	return float64(b*blockFrames) / float64(sampleRate)
}

// ChannelName names a channel for human-readable output.
func ChannelName(ch, numChannels int) string {
	if numChannels == 2 {
		if ch == 0 {
			return "left"
		}

		return "right"
	}

	if numChannels == 1 {
		return "mono"
	}

	return "channel " + strconv.Itoa(ch+1)
}

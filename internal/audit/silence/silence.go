// Package silence segments a recording into below-threshold runs.
package silence

import (
	"math"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	// Silence threshold sits a quarter of the way up from the noise floor
	// to the peak.
	thresholdFraction = 0.25

	// Fallback when the noise floor is unmeasurable (digital silence).
	fallbackThresholdDb = -80.0
)

// Detect finds contiguous runs of 50 ms windows whose cross-channel RMS
// falls below a dynamic threshold derived from the measured noise floor and
// peak. Runs shorter than 150 ms are discarded as ticks, not silence.
func Detect(buf *types.Buffer, noiseFloorDb, peakDb float64) *types.SilenceResult {
	windowFrames := shared.BlockFrames(buf.SampleRate, shared.FloorWindowMs)
	frames := buf.Frames()

	thresholdDb := noiseFloorDb + thresholdFraction*(peakDb-noiseFloorDb)
	if math.IsInf(noiseFloorDb, -1) || math.IsNaN(thresholdDb) {
		thresholdDb = fallbackThresholdDb
	}

	threshold := math.Pow(10, thresholdDb/20)

	result := &types.SilenceResult{
		ThresholdDb: thresholdDb,
		Duration:    buf.Duration(),
	}

	if frames == 0 {
		return result
	}

	minSilenceFrames := shared.BlockFrames(buf.SampleRate, shared.MinSilenceMs)

	var (
		inSilence    bool
		silenceStart int
	)

	flush := func(end int) {
		if !inSilence {
			return
		}

		inSilence = false

		if end-silenceStart < minSilenceFrames {
			return
		}

		rate := float64(buf.SampleRate)
		result.Segments = append(result.Segments, types.SilenceSegment{
			StartSec:    float64(silenceStart) / rate,
			EndSec:      float64(end) / rate,
			DurationSec: float64(end-silenceStart) / rate,
		})
	}

	for start := 0; start < frames; start += windowFrames {
		end := min(start+windowFrames, frames)

		// Window RMS averaged across channels.
		var sumSq float64

		for _, samples := range buf.Channels {
			for _, s := range samples[start:end] {
				sumSq += s * s
			}
		}

		rms := math.Sqrt(sumSq / float64((end-start)*len(buf.Channels)))

		if rms < threshold {
			if !inSilence {
				inSilence = true
				silenceStart = start
			}
		} else {
			flush(start)
		}
	}

	flush(frames)

	if len(result.Segments) == 0 {
		return result
	}

	rate := float64(buf.SampleRate)
	endSec := float64(frames) / rate

	first := result.Segments[0]
	if first.StartSec == 0 {
		result.LeadingSec = first.DurationSec
	}

	last := result.Segments[len(result.Segments)-1]
	// The trailing run's end lands within one window of the buffer end.
	if endSec-last.EndSec < float64(windowFrames)/rate {
		result.TrailingSec = last.DurationSec
	}

	for i, seg := range result.Segments {
		if i == 0 && result.LeadingSec > 0 {
			continue
		}

		if i == len(result.Segments)-1 && result.TrailingSec > 0 {
			continue
		}

		if seg.DurationSec > result.LongestSec {
			result.LongestSec = seg.DurationSec
		}
	}

	return result
}

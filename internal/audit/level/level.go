// Package level measures peak amplitude and normalization distance.
package level

import (
	"math"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

// Options configures the normalization check.
type Options struct {
	TargetDb    float64 // peak target (default -6 dBFS)
	ToleranceDb float64 // band around the target counted as normalized (default 1)
}

func DefaultOptions() Options {
	return Options{
		TargetDb:    shared.NormalizationTargetDb,
		ToleranceDb: 1.0,
	}
}

// Measure finds the maximum absolute sample across all channels and
// classifies the peak against the target. An all-zero buffer reports
// PeakDb = -Inf, status too-quiet, DistanceDb = -Inf (never NaN).
func Measure(buf *types.Buffer, opts Options) *types.LevelResult {
	if opts.ToleranceDb == 0 {
		opts.ToleranceDb = 1.0
	}

	if opts.TargetDb == 0 {
		opts.TargetDb = shared.NormalizationTargetDb
	}

	var (
		peak   float64
		frames uint64
	)

	for _, samples := range buf.Channels {
		for _, s := range samples {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}

	if buf.Frames() > 0 {
		frames = uint64(buf.Frames())
	}

	peakDb := shared.Db(peak)

	result := &types.LevelResult{
		PeakDb:   peakDb,
		TargetDb: opts.TargetDb,
		Frames:   frames,
	}

	if math.IsInf(peakDb, -1) {
		result.Status = types.NormTooQuiet
		result.DistanceDb = math.Inf(-1)

		return result
	}

	distance := peakDb - opts.TargetDb
	result.DistanceDb = distance

	switch {
	case math.Abs(distance) <= opts.ToleranceDb:
		result.Status = types.NormNormalized
	case distance > 0:
		result.Status = types.NormTooLoud
	default:
		result.Status = types.NormTooQuiet
	}

	return result
}

// Package noisefloor estimates the residual background level of a
// recording, per channel and overall.
package noisefloor

import (
	"math"
	"sort"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	quietestFraction = 0.30 // fraction of windows the estimate is drawn from
	histogramBinDb   = 1.0
)

// Estimate computes short-window RMS across each channel, keeps the
// quietest 30% of windows, and reports the mode of their dB histogram as
// the channel's noise floor. The overall floor is the minimum across
// channels: a bleed-free channel should not be penalized by the other
// channel's hiss. Exactly-zero windows are counted separately as digital
// silence and excluded from the floor histogram.
func Estimate(buf *types.Buffer) *types.NoiseFloorResult {
	windowFrames := shared.BlockFrames(buf.SampleRate, shared.FloorWindowMs)

	result := &types.NoiseFloorResult{
		OverallDb:    math.Inf(-1),
		PerChannelDb: make([]float64, len(buf.Channels)),
	}

	var (
		zeroWindows  uint64
		totalWindows uint64
	)

	overall := math.Inf(1)
	anyFloor := false

	for ch, samples := range buf.Channels {
		var (
			windowsDb []float64
			chWindows uint64
		)

		for start := 0; start+windowFrames <= len(samples); start += windowFrames {
			window := samples[start : start+windowFrames]
			chWindows++

			if allZero(window) {
				zeroWindows++

				continue
			}

			windowsDb = append(windowsDb, shared.Db(shared.RMS(window)))
		}

		totalWindows += chWindows

		floor := channelFloor(windowsDb)
		result.PerChannelDb[ch] = floor

		if !math.IsInf(floor, -1) {
			anyFloor = true

			if floor < overall {
				overall = floor
			}
		}
	}

	if anyFloor {
		result.OverallDb = overall
	}

	if totalWindows > 0 {
		result.Windows = totalWindows / uint64(len(buf.Channels))
		result.DigitalSilencePct = 100 * float64(zeroWindows) / float64(totalWindows)
	}

	result.HasDigitalSilence = zeroWindows > 0

	return result
}

func allZero(samples []float64) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}

	return true
}

// channelFloor reports the representative level of the quietest windows:
// sort by level, keep the bottom 30%, and take the mode of a 1 dB
// histogram over them.
func channelFloor(windowsDb []float64) float64 {
	if len(windowsDb) == 0 {
		return math.Inf(-1)
	}

	sorted := make([]float64, len(windowsDb))
	copy(sorted, windowsDb)
	sort.Float64s(sorted)

	keep := max(int(float64(len(sorted))*quietestFraction), 1)
	quietest := sorted[:keep]

	// Histogram mode over 1 dB bins. Ties resolve to the quieter bin
	// (lower index) for determinism.
	counts := map[int]int{}

	for _, db := range quietest {
		counts[int(math.Floor(db/histogramBinDb))]++
	}

	bestBin, bestCount := 0, -1

	bins := make([]int, 0, len(counts))
	for bin := range counts {
		bins = append(bins, bin)
	}

	sort.Ints(bins)

	for _, bin := range bins {
		if counts[bin] > bestCount {
			bestBin, bestCount = bin, counts[bin]
		}
	}

	// Report the bin center.
	return (float64(bestBin) + 0.5) * histogramBinDb
}

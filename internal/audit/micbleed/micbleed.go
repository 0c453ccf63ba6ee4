// Package micbleed measures cross-channel leakage on 2-channel
// conversational recordings.
//
// Two methods co-exist. The old method averages the inactive channel's
// level while the other side clearly dominates. The new method works on
// per-block separation statistics. Both are pure functions over the same
// block RMS data and are never merged; only their final detections combine
// into the unified "possible bleed" verdict.
package micbleed

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	dominanceRatio = 2.5

	// Old method: inactive-channel level above this means audible bleed.
	oldBleedThresholdDb = -60.0

	// New method: separation below this marks a block as confirmed bleed.
	separationThresholdDb = 15.0

	// New method: percentage of confirmed-bleed blocks that trips detection.
	confirmedBleedPctThreshold = 0.5

	// Separation assigned when the quiet channel is digitally silent.
	silentSeparationDb = 120.0

	maxReportedSegments = 10
)

// OldMethod averages the level of the inactive channel during blocks where
// the other channel is clearly dominant. LeftChannelBleedDb is the left
// channel's level while the right side holds the floor (bleed into left),
// and vice versa. Channels that are never measurable report -Inf.
func OldMethod(blockRMS [][]float64, floorPerChannelDb []float64) *types.MicBleedOld {
	result := &types.MicBleedOld{
		LeftChannelBleedDb:  math.Inf(-1),
		RightChannelBleedDb: math.Inf(-1),
	}

	if len(blockRMS) != 2 {
		return result
	}

	activeL := activeThreshold(floorPerChannelDb, 0)
	activeR := activeThreshold(floorPerChannelDb, 1)

	var (
		leftSum    float64
		leftCount  int
		rightSum   float64
		rightCount int
	)

	blocks := min(len(blockRMS[0]), len(blockRMS[1]))

	for b := range blocks {
		l, r := blockRMS[0][b], blockRMS[1][b]

		if r > activeR && r > dominanceRatio*l {
			leftSum += l
			leftCount++
		}

		if l > activeL && l > dominanceRatio*r {
			rightSum += r
			rightCount++
		}
	}

	if leftCount > 0 {
		result.LeftChannelBleedDb = shared.Db(leftSum / float64(leftCount))
	}

	if rightCount > 0 {
		result.RightChannelBleedDb = shared.Db(rightSum / float64(rightCount))
	}

	result.Detected = result.LeftChannelBleedDb > oldBleedThresholdDb ||
		result.RightChannelBleedDb > oldBleedThresholdDb

	return result
}

// NewMethod computes per-block cross-channel separation (dominant level
// minus the other channel's level), reporting distribution statistics, a
// severity score, the peak block correlation, and the worst segments.
func NewMethod(buf *types.Buffer, blockRMS [][]float64, floorPerChannelDb []float64) *types.MicBleedNew {
	result := &types.MicBleedNew{
		MedianSeparationDb: silentSeparationDb,
		P10SeparationDb:    silentSeparationDb,
	}

	if len(blockRMS) != 2 || len(buf.Channels) != 2 {
		return result
	}

	activeL := activeThreshold(floorPerChannelDb, 0)
	activeR := activeThreshold(floorPerChannelDb, 1)

	blockFrames := shared.BlockFrames(buf.SampleRate, shared.BlockMs)
	left, right := buf.Channels[0], buf.Channels[1]
	blocks := min(len(blockRMS[0]), len(blockRMS[1]))

	var (
		separations []float64
		segments    []types.BleedSegment
		confirmed   int
	)

	for b := range blocks {
		l, r := blockRMS[0][b], blockRMS[1][b]

		// Active speech on at least the dominant side.
		if l <= activeL && r <= activeR {
			continue
		}

		louder, quieter := l, r
		if r > l {
			louder, quieter = r, l
		}

		separation := silentSeparationDb
		if quieter > 0 {
			separation = shared.Db(louder) - shared.Db(quieter)
		}

		separations = append(separations, separation)

		start := b * blockFrames
		end := min(start+blockFrames, len(left))

		correlation := blockCorrelation(left[start:end], right[start:end])
		if correlation > result.PeakCorrelation {
			result.PeakCorrelation = correlation
		}

		if separation < separationThresholdDb {
			confirmed++

			rate := float64(buf.SampleRate)
			segments = append(segments, types.BleedSegment{
				StartSec:     float64(start) / rate,
				EndSec:       float64(end) / rate,
				SeparationDb: separation,
				Correlation:  correlation,
			})
		}
	}

	if len(separations) == 0 {
		return result
	}

	sorted := make([]float64, len(separations))
	copy(sorted, separations)
	sort.Float64s(sorted)

	result.MedianSeparationDb = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	result.P10SeparationDb = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	result.ConfirmedBleedPct = 100 * float64(confirmed) / float64(len(separations))
	result.Detected = result.ConfirmedBleedPct > confirmedBleedPctThreshold

	// Severity combines extent (confirmed percentage) with magnitude (how
	// far the median sits below a comfortable 20 dB separation).
	severity := result.ConfirmedBleedPct*4 + max(0, 20-result.MedianSeparationDb)*2.5
	result.SeverityScore = min(severity, 100)

	// Worst segments first: lowest separation wins, start time breaks ties.
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].SeparationDb != segments[j].SeparationDb {
			return segments[i].SeparationDb < segments[j].SeparationDb
		}

		return segments[i].StartSec < segments[j].StartSec
	})

	if len(segments) > maxReportedSegments {
		segments = segments[:maxReportedSegments]
	}

	result.Segments = segments

	return result
}

// Combine produces the unified verdict: either method flagging means
// possible bleed.
func Combine(oldMethod *types.MicBleedOld, newMethod *types.MicBleedNew) *types.MicBleedResult {
	result := &types.MicBleedResult{
		Old: oldMethod,
		New: newMethod,
	}

	if oldMethod != nil && oldMethod.Detected {
		result.Possible = true
	}

	if newMethod != nil && newMethod.Detected {
		result.Possible = true
	}

	return result
}

// activeThreshold converts a channel noise floor into a linear RMS
// activity threshold (floor + 20 dB). Unmeasurable floors fall back to
// -80 dBFS.
func activeThreshold(floorPerChannelDb []float64, ch int) float64 {
	floorDb := -80.0
	if ch < len(floorPerChannelDb) && !math.IsInf(floorPerChannelDb[ch], -1) {
		floorDb = floorPerChannelDb[ch]
	}

	return math.Pow(10, (floorDb+shared.ActiveSpeechMarginDb)/20)
}

func blockCorrelation(left, right []float64) float64 {
	n := min(len(left), len(right))
	if n < 2 {
		return 0
	}

	correlation := stat.Correlation(left[:n], right[:n], nil)
	if math.IsNaN(correlation) {
		return 0
	}

	return correlation
}

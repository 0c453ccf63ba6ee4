// Package conversation analyzes two-speaker recordings where each channel
// carries one participant: speech overlap, channel consistency, and
// channel time sync. All three run off the same block RMS pass.
package conversation

import (
	"math"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	dominanceRatio = 2.5

	// Overlap runs shorter than two blocks are backchannel ("mm-hm"), not
	// a turn-taking problem.
	minOverlapBlocks = 2

	// Consistency partitions the file into fixed 10 s segments.
	consistencySegmentSec = 10

	syncInSyncMs       = 50.0
	syncSlightOffsetMs = 100.0
)

// Analyze runs the three conversational sub-analyses. Callers gate on the
// file having been classified ConversationalStereo.
func Analyze(buf *types.Buffer, blockRMS [][]float64, floorPerChannelDb []float64) *types.ConversationResult {
	if len(buf.Channels) != 2 || len(blockRMS) != 2 {
		return nil
	}

	activeL := activeThreshold(floorPerChannelDb, 0)
	activeR := activeThreshold(floorPerChannelDb, 1)

	return &types.ConversationResult{
		Overlap:     overlap(buf, blockRMS, activeL, activeR),
		Consistency: consistency(buf, blockRMS, activeL, activeR),
		Sync:        timeSync(buf, activeL, activeR),
	}
}

// overlap reports the share of active-speech blocks where both channels
// talk at once, plus the qualifying overlap segments.
func overlap(buf *types.Buffer, blockRMS [][]float64, activeL, activeR float64) *types.OverlapResult {
	blocks := min(len(blockRMS[0]), len(blockRMS[1]))
	blockSec := float64(shared.BlockFrames(buf.SampleRate, shared.BlockMs)) / float64(buf.SampleRate)

	result := &types.OverlapResult{
		MinSegmentSec: float64(minOverlapBlocks) * blockSec,
	}

	var (
		runStart int
		runLen   int
	)

	flush := func(end int) {
		if runLen >= minOverlapBlocks {
			seg := types.OverlapSegment{
				StartSec:    shared.BlockStartSec(runStart, buf.SampleRate),
				EndSec:      shared.BlockStartSec(end, buf.SampleRate),
				DurationSec: float64(runLen) * blockSec,
			}
			result.Segments = append(result.Segments, seg)

			if seg.DurationSec > result.LongestSegmentSec {
				result.LongestSegmentSec = seg.DurationSec
			}
		}

		runLen = 0
	}

	for b := range blocks {
		lActive := blockRMS[0][b] > activeL
		rActive := blockRMS[1][b] > activeR

		if !lActive && !rActive {
			flush(b)

			continue
		}

		result.ActiveBlocks++

		if lActive && rActive {
			result.BothActiveBlocks++

			if runLen == 0 {
				runStart = b
			}

			runLen++
		} else {
			flush(b)
		}
	}

	flush(blocks)

	if result.ActiveBlocks > 0 {
		result.OverlapPct = 100 * float64(result.BothActiveBlocks) / float64(result.ActiveBlocks)
	}

	return result
}

// consistency partitions the file into 10 s segments, labels each by the
// plurality dominant channel (balanced blocks are the steady state and are
// ignored), and flags segments conflicting with the first non-balanced
// label seen in the file.
func consistency(buf *types.Buffer, blockRMS [][]float64, activeL, activeR float64) *types.ConsistencyResult {
	blocks := min(len(blockRMS[0]), len(blockRMS[1]))
	blocksPerSegment := max(consistencySegmentSec*1000/shared.BlockMs, 1)

	result := &types.ConsistencyResult{IsConsistent: true}

	const (
		labelNone = iota
		labelLeft
		labelRight
	)

	reference := labelNone

	for start := 0; start < blocks; start += blocksPerSegment {
		end := min(start+blocksPerSegment, blocks)

		var leftDom, rightDom int

		for b := start; b < end; b++ {
			l, r := blockRMS[0][b], blockRMS[1][b]

			switch {
			case l > activeL && l > dominanceRatio*r:
				leftDom++
			case r > activeR && r > dominanceRatio*l:
				rightDom++
			}
		}

		label := labelNone

		switch {
		case leftDom > rightDom:
			label = labelLeft
		case rightDom > leftDom:
			label = labelRight
		}

		result.TotalSegments++

		if label == labelNone {
			continue
		}

		if reference == labelNone {
			reference = label

			continue
		}

		if label != reference {
			result.InconsistentSegments++
			result.IsConsistent = false
		}
	}

	if result.TotalSegments > 0 {
		consistent := result.TotalSegments - result.InconsistentSegments
		result.ConsistencyPct = 100 * float64(consistent) / float64(result.TotalSegments)
	} else {
		result.ConsistencyPct = 100
	}

	return result
}

// timeSync compares each channel's first and last above-threshold 50 ms
// window. A channel with no activity cannot be compared; the result then
// reports zero differences.
func timeSync(buf *types.Buffer, activeL, activeR float64) *types.SyncResult {
	windowFrames := shared.BlockFrames(buf.SampleRate, shared.SyncWindowMs)

	firstL, lastL, okL := activitySpan(buf.Channels[0], windowFrames, activeL)
	firstR, lastR, okR := activitySpan(buf.Channels[1], windowFrames, activeR)

	result := &types.SyncResult{Status: types.SyncInSync}

	if !okL || !okR {
		return result
	}

	windowMs := 1000 * float64(windowFrames) / float64(buf.SampleRate)

	result.StartDiffMs = math.Abs(float64(firstL-firstR)) * windowMs
	result.EndDiffMs = math.Abs(float64(lastL-lastR)) * windowMs
	result.MaxDiffMs = max(result.StartDiffMs, result.EndDiffMs)

	switch {
	case result.MaxDiffMs < syncInSyncMs:
		result.Status = types.SyncInSync
	case result.MaxDiffMs <= syncSlightOffsetMs:
		result.Status = types.SyncSlightOffset
	default:
		result.Status = types.SyncOutOfSync
	}

	return result
}

func activitySpan(samples []float64, windowFrames int, threshold float64) (first, last int, found bool) {
	first, last = -1, -1

	window := 0
	for start := 0; start+windowFrames <= len(samples); start += windowFrames {
		if shared.RMS(samples[start:start+windowFrames]) > threshold {
			if first < 0 {
				first = window
			}

			last = window
		}

		window++
	}

	return first, last, first >= 0
}

func activeThreshold(floorPerChannelDb []float64, ch int) float64 {
	floorDb := -80.0
	if ch < len(floorPerChannelDb) && !math.IsInf(floorPerChannelDb[ch], -1) {
		floorDb = floorPerChannelDb[ch]
	}

	return math.Pow(10, (floorDb+shared.ActiveSpeechMarginDb)/20)
}

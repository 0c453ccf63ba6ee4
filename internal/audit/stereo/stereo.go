// Package stereo classifies the channel relationship of 2-channel files.
package stereo

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	// Block activity floor: below this RMS a block is silent.
	silentRms = 1e-4 // -80 dBFS

	// A block is "identical" when the L-R difference sits 40 dB below the
	// louder channel.
	identicalRatio = 0.01

	// Dominance ratio between channels for a block to count as one-sided.
	dominanceRatio = 2.5

	monoFraction         = 0.9
	dualMonoCorrelation  = 0.95
	conversationFraction = 0.6
	minTurnFraction      = 0.05
)

// Classify inspects the dominant pattern across 250 ms blocks and labels
// the file Mono, DualMono, ConversationalStereo, or TrueStereo. Confidence
// is the fraction of active blocks consistent with the chosen label.
// Only meaningful for 2-channel buffers; callers gate on channel count.
func Classify(buf *types.Buffer, blockRMS [][]float64) *types.StereoResult {
	if len(buf.Channels) != 2 || len(blockRMS) != 2 {
		return &types.StereoResult{Type: types.StereoMono, Confidence: 0}
	}

	left, right := buf.Channels[0], buf.Channels[1]
	blocks := min(len(blockRMS[0]), len(blockRMS[1]))

	result := &types.StereoResult{Blocks: blocks}

	if blocks == 0 || len(left) == 0 {
		result.Type = types.StereoMono
		result.Confidence = 1

		return result
	}

	result.Correlation = stat.Correlation(left, right, nil)

	blockFrames := shared.BlockFrames(buf.SampleRate, shared.BlockMs)

	var (
		active    int
		identical int
		leftDom   int
		rightDom  int
		balanced  int
	)

	for b := range blocks {
		l, r := blockRMS[0][b], blockRMS[1][b]
		if l < silentRms && r < silentRms {
			continue
		}

		active++

		louder := max(l, r)

		start := b * blockFrames
		end := min(start+blockFrames, len(left))

		if diffRMS(left[start:end], right[start:end]) < identicalRatio*louder {
			identical++

			continue
		}

		switch {
		case l > dominanceRatio*r:
			leftDom++
		case r > dominanceRatio*l:
			rightDom++
		default:
			balanced++
		}
	}

	if active == 0 {
		// Nothing but silence; degenerate mono.
		result.Type = types.StereoMono
		result.Confidence = 1

		return result
	}

	identicalFrac := float64(identical) / float64(active)
	dominantFrac := float64(leftDom+rightDom) / float64(active)
	minTurn := float64(min(leftDom, rightDom)) / float64(active)

	switch {
	case identicalFrac >= monoFraction:
		result.Type = types.StereoMono
		result.Confidence = identicalFrac
	case dominantFrac >= conversationFraction && minTurn >= minTurnFraction:
		result.Type = types.StereoConversational
		result.Confidence = dominantFrac
	case result.Correlation > dualMonoCorrelation && identicalFrac+float64(balanced)/float64(active) >= 0.5:
		result.Type = types.StereoDualMono
		result.Confidence = identicalFrac + float64(balanced)/float64(active)
	default:
		result.Type = types.StereoTrue
		result.Confidence = float64(balanced) / float64(active)
	}

	return result
}

func diffRMS(left, right []float64) float64 {
	n := min(len(left), len(right))
	if n == 0 {
		return 0
	}

	var sumSq float64

	for i := range n {
		d := left[i] - right[i]
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(n))
}

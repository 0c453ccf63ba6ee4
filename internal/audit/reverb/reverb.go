// Package reverb estimates RT60 from transient decay events.
//
// The procedure: short-term energy is tracked in 20 ms windows; a window
// rising 15 dB above the trailing 200 ms average marks a transient. The
// decay that follows is fit with an ordinary least-squares regression of
// dB energy over time, restricted to the first 400 ms after the peak and
// to windows above the noise floor. RT60 extrapolates the fitted slope to
// a 60 dB fall. The reported figure is the median across detected events,
// which keeps one bad fit from skewing the estimate.
package reverb

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	energyWindowMs  = 20
	trailingWindows = 10 // 200 ms of history for the rise reference
	riseDb          = 15.0
	decaySpanMs     = 400
	floorMarginDb   = 6.0
	minFitPoints    = 4

	// Plausibility bounds; fits outside are discarded as bad events.
	minRt60Sec = 0.05
	maxRt60Sec = 3.0
)

// Estimate computes RT60 per channel and overall. Channels with no usable
// decay events report 0; a file with no events at all reports 0 with the
// excellent label withheld (label computes from the overall figure).
func Estimate(buf *types.Buffer, floorPerChannelDb []float64) *types.ReverbResult {
	result := &types.ReverbResult{
		PerChannelRt60: make([]float64, len(buf.Channels)),
	}

	var all []float64

	for ch, samples := range buf.Channels {
		floor := math.Inf(-1)
		if ch < len(floorPerChannelDb) {
			floor = floorPerChannelDb[ch]
		}

		events := channelEvents(samples, buf.SampleRate, floor)
		result.PerChannelRt60[ch] = median(events)
		all = append(all, events...)
	}

	result.Events = len(all)
	result.Rt60Sec = median(all)
	result.Label = labelFor(result.Rt60Sec)

	return result
}

func labelFor(rt60 float64) types.ReverbLabel {
	switch {
	case rt60 < 0.3:
		return types.ReverbExcellent
	case rt60 < 0.5:
		return types.ReverbGood
	case rt60 < 0.8:
		return types.ReverbFair
	default:
		return types.ReverbPoor
	}
}

// channelEvents returns one RT60 estimate per detected transient-decay
// event, in time order.
func channelEvents(samples []float64, sampleRate int, floorDb float64) []float64 {
	windowFrames := shared.BlockFrames(sampleRate, energyWindowMs)

	var envelope []float64

	for start := 0; start+windowFrames <= len(samples); start += windowFrames {
		envelope = append(envelope, shared.Db(shared.RMS(samples[start:start+windowFrames])))
	}

	if len(envelope) <= trailingWindows {
		return nil
	}

	windowSec := float64(windowFrames) / float64(sampleRate)
	decayWindows := max(decaySpanMs/energyWindowMs, minFitPoints)

	cutoffDb := floorDb + floorMarginDb
	if math.IsInf(floorDb, -1) {
		cutoffDb = -90.0
	}

	var events []float64

	for i := trailingWindows; i < len(envelope); i++ {
		reference := trailingAverage(envelope, i)
		if math.IsInf(reference, -1) {
			reference = cutoffDb
		}

		if envelope[i] < reference+riseDb || envelope[i] < cutoffDb {
			continue
		}

		// Transient found; the decay starts at its local peak.
		peakIdx := i
		for peakIdx+1 < len(envelope) && envelope[peakIdx+1] >= envelope[peakIdx] {
			peakIdx++
		}

		rt60, used := fitDecay(envelope, peakIdx, decayWindows, cutoffDb, windowSec)
		if used > 0 {
			if rt60 >= minRt60Sec && rt60 <= maxRt60Sec {
				events = append(events, rt60)
			}

			i = peakIdx + used
		} else {
			i = peakIdx
		}
	}

	return events
}

func trailingAverage(envelope []float64, i int) float64 {
	var (
		sum   float64
		count int
	)

	for j := max(i-trailingWindows, 0); j < i; j++ {
		if math.IsInf(envelope[j], -1) {
			continue
		}

		sum += envelope[j]
		count++
	}

	if count == 0 {
		return math.Inf(-1)
	}

	return sum / float64(count)
}

// fitDecay regresses dB over time for the windows following peakIdx, stops
// at the noise floor, and extrapolates the slope to a 60 dB fall. Returns
// the RT60 estimate and the number of windows consumed (0 = unusable).
func fitDecay(envelope []float64, peakIdx, maxWindows int, cutoffDb, windowSec float64) (float64, int) {
	var xs, ys []float64

	for k := 0; k <= maxWindows && peakIdx+k < len(envelope); k++ {
		db := envelope[peakIdx+k]
		if db < cutoffDb || math.IsInf(db, -1) {
			break
		}

		xs = append(xs, float64(k)*windowSec)
		ys = append(ys, db)
	}

	if len(xs) < minFitPoints {
		return 0, 0
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if slope >= -1e-9 {
		return 0, len(xs)
	}

	return -60.0 / slope, len(xs)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

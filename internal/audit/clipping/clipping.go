// Package clipping detects hard- and near-clipped sample runs per channel.
package clipping

import (
	"sort"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

// Any contiguous run of clipped samples counts as one event.
const minRunSamples = 1

// MaxReportedRegions caps the hard-clipping region list to the N largest.
const MaxReportedRegions = 10

// Detect scans every sample against the hard and near clip thresholds,
// groups contiguous hard-clipped samples into per-channel regions, and
// reports percentages, event counts, a per-channel breakdown, and the
// largest regions with timestamps.
func Detect(buf *types.Buffer) *types.ClippingResult {
	numChannels := len(buf.Channels)

	result := &types.ClippingResult{
		Channels: make([]types.ChannelClipping, numChannels),
	}

	var regions []types.ClippingRegion

	rate := float64(buf.SampleRate)

	for ch, samples := range buf.Channels {
		chStats := &result.Channels[ch]
		chStats.Channel = ch

		var (
			hardRun     uint64
			hardStart   int
			nearRun     uint64
		)

		flushHard := func(end int) {
			if hardRun >= minRunSamples {
				chStats.ClippedEvents++
				result.Events++

				regions = append(regions, types.ClippingRegion{
					Channel:     ch,
					ChannelName: shared.ChannelName(ch, numChannels),
					StartSec:    float64(hardStart) / rate,
					EndSec:      float64(end) / rate,
					Samples:     hardRun,
				})
			}

			hardRun = 0
		}

		flushNear := func() {
			if nearRun >= minRunSamples {
				chStats.NearEvents++
				result.NearEvents++
			}

			nearRun = 0
		}

		for i, s := range samples {
			a := s
			if a < 0 {
				a = -a
			}

			result.Samples++

			switch {
			case a >= shared.HardClipThreshold:
				if hardRun == 0 {
					hardStart = i
				}

				hardRun++
				chStats.ClippedSamples++

				// A hard-clipped sample also ends any near run.
				flushNear()
			case a >= shared.NearClipThreshold:
				nearRun++
				chStats.NearSamples++

				flushHard(i)
			default:
				flushHard(i)
				flushNear()
			}
		}

		flushHard(len(samples))
		flushNear()
	}

	if result.Samples > 0 {
		var clipped, near uint64

		for _, ch := range result.Channels {
			clipped += ch.ClippedSamples
			near += ch.NearSamples
		}

		result.ClippedPct = 100 * float64(clipped) / float64(result.Samples)
		result.NearPct = 100 * float64(near) / float64(result.Samples)
	}

	// Largest regions first; ties break on start time for determinism.
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Samples != regions[j].Samples {
			return regions[i].Samples > regions[j].Samples
		}

		return regions[i].StartSec < regions[j].StartSec
	})

	if len(regions) > MaxReportedRegions {
		regions = regions[:MaxReportedRegions]
	}

	result.HardRegions = regions

	return result
}

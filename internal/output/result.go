// Package output provides shared report serialization for colloquy JSON
// and JSONL output.
package output

import (
	"math"

	"github.com/farcloser/colloquy"
	"github.com/farcloser/colloquy/internal/types"
)

// ReportToMap converts a per-file report into the canonical map structure
// used for JSON and JSONL serialization.
func ReportToMap(report *colloquy.FileReport) map[string]any {
	out := map[string]any{
		"path":   report.Path,
		"status": report.Status.String(),
	}

	if report.Message != "" {
		out["message"] = report.Message
	}

	if meta := report.Metadata; meta != nil {
		out["metadata"] = map[string]any{
			"file_type":   meta.FileType,
			"sample_rate": meta.SampleRate,
			"bit_depth":   meta.BitDepth,
			"channels":    meta.Channels,
			"duration":    meta.Duration,
			"file_size":   meta.FileSize,
		}
	}

	if report.Metrics != nil {
		out["metrics"] = MetricsToMap(report.Metrics)
	}

	if fname := report.Filename; fname != nil {
		fields := map[string]any{
			"name":   fname.Name,
			"status": fname.Status.String(),
		}
		if fname.Issue != "" {
			fields["issue"] = fname.Issue
		}

		out["filename"] = fields
	}

	if len(report.Validation) > 0 {
		validation := map[string]any{}

		for field, verdict := range report.Validation {
			entry := map[string]any{"status": verdict.Status.String()}

			if verdict.Value != "" {
				entry["value"] = verdict.Value
			}

			if verdict.Issue != "" {
				entry["issue"] = verdict.Issue
			}

			validation[field] = entry
		}

		out["validation"] = validation
	}

	return out
}

// MetricsToMap flattens the metrics bundle. Nil analyzers are omitted.
func MetricsToMap(metrics *colloquy.Metrics) map[string]any {
	out := map[string]any{}

	if r := metrics.Level; r != nil {
		out["level"] = map[string]any{
			"peak_db":     db(r.PeakDb),
			"status":      r.Status.String(),
			"distance_db": db(r.DistanceDb),
			"target_db":   r.TargetDb,
			"frames":      r.Frames,
		}
	}

	if r := metrics.NoiseFloor; r != nil {
		perChannel := make([]any, 0, len(r.PerChannelDb))
		for _, v := range r.PerChannelDb {
			perChannel = append(perChannel, db(v))
		}

		out["noise_floor"] = map[string]any{
			"overall_db":          db(r.OverallDb),
			"per_channel_db":      perChannel,
			"has_digital_silence": r.HasDigitalSilence,
			"digital_silence_pct": r.DigitalSilencePct,
			"windows":             r.Windows,
		}
	}

	if r := metrics.Reverb; r != nil {
		out["reverb"] = map[string]any{
			"rt60_sec":         r.Rt60Sec,
			"label":            r.Label.String(),
			"per_channel_rt60": r.PerChannelRt60,
			"events":           r.Events,
		}
	}

	if r := metrics.Silence; r != nil {
		out["silence"] = SilenceToMap(r)
	}

	if r := metrics.Clipping; r != nil {
		out["clipping"] = ClippingToMap(r)
	}

	if r := metrics.Stereo; r != nil {
		out["stereo"] = map[string]any{
			"type":        r.Type.String(),
			"confidence":  r.Confidence,
			"correlation": r.Correlation,
			"blocks":      r.Blocks,
		}
	}

	if r := metrics.MicBleed; r != nil {
		out["mic_bleed"] = micBleedToMap(r)
	}

	if r := metrics.Conversation; r != nil {
		out["conversation"] = conversationToMap(r)
	}

	return out
}

// SilenceToMap flattens the silence segmentation result.
func SilenceToMap(r *types.SilenceResult) map[string]any {
	segments := make([]any, 0, len(r.Segments))
	for _, seg := range r.Segments {
		segments = append(segments, map[string]any{
			"start":    seg.StartSec,
			"end":      seg.EndSec,
			"duration": seg.DurationSec,
		})
	}

	return map[string]any{
		"leading_sec":  r.LeadingSec,
		"trailing_sec": r.TrailingSec,
		"longest_sec":  r.LongestSec,
		"threshold_db": db(r.ThresholdDb),
		"segments":     segments,
	}
}

// ClippingToMap flattens the clipping result.
func ClippingToMap(r *types.ClippingResult) map[string]any {
	channels := make([]any, 0, len(r.Channels))
	for _, ch := range r.Channels {
		channels = append(channels, map[string]any{
			"channel":         ch.Channel,
			"clipped_samples": ch.ClippedSamples,
			"clipped_events":  ch.ClippedEvents,
			"near_samples":    ch.NearSamples,
			"near_events":     ch.NearEvents,
		})
	}

	regions := make([]any, 0, len(r.HardRegions))
	for _, region := range r.HardRegions {
		regions = append(regions, map[string]any{
			"channel": region.ChannelName,
			"start":   region.StartSec,
			"end":     region.EndSec,
			"samples": region.Samples,
		})
	}

	return map[string]any{
		"clipped_pct":  r.ClippedPct,
		"events":       r.Events,
		"near_pct":     r.NearPct,
		"near_events":  r.NearEvents,
		"samples":      r.Samples,
		"channels":     channels,
		"hard_regions": regions,
	}
}

func micBleedToMap(r *types.MicBleedResult) map[string]any {
	out := map[string]any{"possible": r.Possible}

	if old := r.Old; old != nil {
		out["old"] = map[string]any{
			"left_channel_bleed_db":  db(old.LeftChannelBleedDb),
			"right_channel_bleed_db": db(old.RightChannelBleedDb),
			"detected":               old.Detected,
		}
	}

	if newMethod := r.New; newMethod != nil {
		segments := make([]any, 0, len(newMethod.Segments))
		for _, seg := range newMethod.Segments {
			segments = append(segments, map[string]any{
				"start":         seg.StartSec,
				"end":           seg.EndSec,
				"separation_db": db(seg.SeparationDb),
				"correlation":   seg.Correlation,
			})
		}

		out["new"] = map[string]any{
			"median_separation_db": db(newMethod.MedianSeparationDb),
			"p10_separation_db":    db(newMethod.P10SeparationDb),
			"confirmed_bleed_pct":  newMethod.ConfirmedBleedPct,
			"severity_score":       newMethod.SeverityScore,
			"peak_correlation":     newMethod.PeakCorrelation,
			"segments":             segments,
			"detected":             newMethod.Detected,
		}
	}

	return out
}

func conversationToMap(r *types.ConversationResult) map[string]any {
	out := map[string]any{}

	if overlap := r.Overlap; overlap != nil {
		segments := make([]any, 0, len(overlap.Segments))
		for _, seg := range overlap.Segments {
			segments = append(segments, map[string]any{
				"start":    seg.StartSec,
				"end":      seg.EndSec,
				"duration": seg.DurationSec,
			})
		}

		out["overlap"] = map[string]any{
			"overlap_pct":         overlap.OverlapPct,
			"segments":            segments,
			"min_segment_sec":     overlap.MinSegmentSec,
			"longest_segment_sec": overlap.LongestSegmentSec,
		}
	}

	if consistency := r.Consistency; consistency != nil {
		out["consistency"] = map[string]any{
			"is_consistent":         consistency.IsConsistent,
			"consistency_pct":       consistency.ConsistencyPct,
			"total_segments":        consistency.TotalSegments,
			"inconsistent_segments": consistency.InconsistentSegments,
		}
	}

	if sync := r.Sync; sync != nil {
		out["sync"] = map[string]any{
			"status":        sync.Status.String(),
			"start_diff_ms": sync.StartDiffMs,
			"end_diff_ms":   sync.EndDiffMs,
			"max_diff_ms":   sync.MaxDiffMs,
		}
	}

	return out
}

// db renders a level for JSON. encoding/json cannot represent infinities,
// and -Inf (true digital silence) must survive serialization, so it becomes
// the string "-inf".
func db(v float64) any {
	if math.IsInf(v, -1) {
		return "-inf"
	}

	if math.IsInf(v, 1) {
		return "inf"
	}

	return v
}

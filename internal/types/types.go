//nolint:staticcheck // too dumb on Db vs. DB
package types

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// PCMFormat describes raw interleaved little-endian PCM, as produced by the
// decode facility or read straight out of a WAV data chunk.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// Buffer is a fully decoded recording: one float64 slice per channel,
// samples normalized to [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// Frames returns the per-channel sample count (0 for an empty buffer).
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(b.Frames()) / float64(b.SampleRate)
}

// Metadata holds container-level file properties, read from the header
// without decoding audio. Immutable once read.
type Metadata struct {
	FileType   string  // container type, e.g. "wav"
	SampleRate int     // Hz
	BitDepth   int     // bits per sample; 0 = unknown (e.g. compressed codecs)
	Channels   int     // channel count
	Duration   float64 // seconds
	FileSize   int64   // bytes
}

/*
Peak / Normalization Interpretation

| PeakDb        | Interpretation                           |
|---------------|------------------------------------------|
| -Inf          | Digital silence. Nothing was recorded.   |
| < -20 dBFS    | Very quiet. Gain staging problem.        |
| -9 to -3 dBFS | Healthy headroom for voice recording.    |
| > -1 dBFS     | Hot. Clipping risk on any processing.    |

The normalization check compares the peak to a -6 dBFS target. DistanceDb is
signed: positive = louder than target. For an all-silent buffer DistanceDb is
-Inf (not NaN) and the status is too-quiet.
*/

// NormalizationStatus classifies the peak relative to the target level.
type NormalizationStatus int

const (
	NormNormalized NormalizationStatus = iota
	NormTooLoud
	NormTooQuiet
)

func (s NormalizationStatus) String() string {
	switch s {
	case NormNormalized:
		return "normalized"
	case NormTooLoud:
		return "too_loud"
	case NormTooQuiet:
		return "too_quiet"
	}

	return "unknown"
}

// LevelResult contains peak and normalization results.
type LevelResult struct {
	PeakDb     float64 // dBFS; -Inf for all-zero input
	Status     NormalizationStatus
	DistanceDb float64 // signed distance from target; -Inf for silence
	TargetDb   float64
	Frames     uint64
}

/*
Noise Floor Interpretation

| OverallDb    | Interpretation                        |
|--------------|---------------------------------------|
| -Inf         | Digital silence throughout.           |
| < -65 dB     | Studio-grade quiet.                   |
| -65 to -50   | Acceptable home-booth floor.          |
| -50 to -40   | Audible hiss or room tone.            |
| > -40 dB     | Noisy. Investigate the recording rig. |

Digital silence (exactly-zero windows) is reported separately from a low
noise floor: zeros usually mean gating, editing, or a dead channel, while a
low-but-nonzero floor is just a quiet room.
*/

// NoiseFloorResult contains per-channel and overall noise floor estimates.
// OverallDb is the minimum across channels.
type NoiseFloorResult struct {
	OverallDb         float64   // -Inf = silence
	PerChannelDb      []float64 // one entry per channel
	HasDigitalSilence bool
	DigitalSilencePct float64 // percentage of exactly-zero windows
	Windows           uint64  // RMS windows inspected per channel
}

// ReverbLabel buckets an RT60 estimate for voice-recording QC.
// Shorter decay = drier room = better.
type ReverbLabel int

const (
	ReverbExcellent ReverbLabel = iota
	ReverbGood
	ReverbFair
	ReverbPoor
)

func (l ReverbLabel) String() string {
	switch l {
	case ReverbExcellent:
		return "excellent"
	case ReverbGood:
		return "good"
	case ReverbFair:
		return "fair"
	case ReverbPoor:
		return "poor"
	}

	return "unknown"
}

/*
RT60 Interpretation

| Rt60Sec     | Label     | Typical space                 |
|-------------|-----------|-------------------------------|
| < 0.3 s     | excellent | Treated booth                 |
| 0.3-0.5 s   | good      | Furnished room                |
| 0.5-0.8 s   | fair      | Bare home office              |
| > 0.8 s     | poor      | Hallway, kitchen, bathroom    |

Estimates come from transient decay events. Recordings without clear
transients (continuous speech, music beds) yield few events and a less
reliable estimate; Events reports how many were usable.
*/

// ReverbResult contains the reverberation estimate.
type ReverbResult struct {
	Rt60Sec        float64
	Label          ReverbLabel
	PerChannelRt60 []float64 // 0 where a channel produced no usable events
	Events         int       // decay events the median was taken over
}

// SilenceSegment is one contiguous below-threshold run.
type SilenceSegment struct {
	StartSec    float64
	EndSec      float64
	DurationSec float64
}

// SilenceResult aggregates silence segmentation.
type SilenceResult struct {
	Segments    []SilenceSegment // ordered by start time
	LeadingSec  float64          // silence at buffer start
	TrailingSec float64          // silence at buffer end
	LongestSec  float64          // longest internal segment
	ThresholdDb float64          // dynamic threshold actually used
	Duration    float64          // total buffer duration in seconds
}

// ClippingRegion is one contiguous run of hard-clipped samples on a channel.
type ClippingRegion struct {
	Channel     int
	ChannelName string // "left", "right", or "channel N"
	StartSec    float64
	EndSec      float64
	Samples     uint64
}

// ChannelClipping contains per-channel clipping counters.
type ChannelClipping struct {
	Channel        int
	ClippedSamples uint64
	ClippedEvents  uint64
	NearSamples    uint64
	NearEvents     uint64
}

/*
Clipping Interpretation

| ClippedPct  | Interpretation                           |
|-------------|------------------------------------------|
| 0           | Clean.                                   |
| < 0.01 %    | A few isolated overs. Usually inaudible. |
| 0.01-0.1 %  | Audible crackle on peaks. Re-record.     |
| > 0.1 %     | Overdriven input. Unusable take.         |

Near-clipping (above the near threshold but below hard) flags recordings
with no safety margin: the next plosive will clip.
*/

// ClippingResult contains overall clipping analysis.
type ClippingResult struct {
	ClippedPct  float64
	Events      uint64
	NearPct     float64
	NearEvents  uint64
	Samples     uint64
	Channels    []ChannelClipping
	HardRegions []ClippingRegion // N largest, by sample count
}

// StereoType classifies the channel relationship of a 2-channel file.
type StereoType int

const (
	StereoMono StereoType = iota
	StereoDualMono
	StereoConversational
	StereoTrue
)

func (t StereoType) String() string {
	switch t {
	case StereoMono:
		return "mono"
	case StereoDualMono:
		return "dual_mono"
	case StereoConversational:
		return "conversational_stereo"
	case StereoTrue:
		return "true_stereo"
	}

	return "unknown"
}

// ParseStereoType converts a string to a StereoType, reporting success.
func ParseStereoType(s string) (StereoType, bool) {
	switch s {
	case "mono":
		return StereoMono, true
	case "dual_mono":
		return StereoDualMono, true
	case "conversational_stereo":
		return StereoConversational, true
	case "true_stereo":
		return StereoTrue, true
	default:
		return 0, false
	}
}

/*
Stereo Separation Interpretation

| Type                  | Pattern across 250 ms blocks                      |
|-----------------------|---------------------------------------------------|
| mono                  | Channels bit-identical or near-identical          |
| dual_mono             | Same program both sides, minor level differences  |
| conversational_stereo | Dominance alternates; other channel mostly silent |
| true_stereo           | Both channels active with independent content     |

Confidence is the fraction of blocks consistent with the chosen label.
Below ~0.6 the file straddles two patterns; treat the label as a hint.
*/

// StereoResult contains the separation classification.
type StereoResult struct {
	Type        StereoType
	Confidence  float64 // 0..1
	Correlation float64 // whole-file Pearson correlation between channels
	Blocks      int
}

// BleedSegment is one of the worst cross-channel bleed spans.
type BleedSegment struct {
	StartSec     float64
	EndSec       float64
	SeparationDb float64
	Correlation  float64
}

// MicBleedOld contains the legacy bleed measurement: mean level of the
// inactive channel during blocks where the other channel clearly dominates.
// Kept alongside the new method for backward comparison; do not merge.
type MicBleedOld struct {
	LeftChannelBleedDb  float64 // left's level during right-dominant blocks; -Inf if never measurable
	RightChannelBleedDb float64
	Detected            bool // either side louder than the bleed threshold
}

/*
Mic Bleed (new method) Interpretation

| MedianSeparationDb | Interpretation                          |
|--------------------|-----------------------------------------|
| > 40 dB            | Isolated booths or headsets. Excellent. |
| 25-40 dB           | Normal same-room recording.             |
| 15-25 dB           | Noticeable bleed. Check mic placement.  |
| < 15 dB            | Severe. Channels barely separated.      |

ConfirmedBleedPct counts active-speech blocks whose separation falls below
the bleed threshold. Above 0.5 % the unified verdict reports possible bleed.
SeverityScore (0-100) combines magnitude and extent.
*/

// MicBleedNew contains the block-separation bleed measurement.
type MicBleedNew struct {
	MedianSeparationDb float64
	P10SeparationDb    float64
	ConfirmedBleedPct  float64
	SeverityScore      float64 // 0-100
	PeakCorrelation    float64
	Segments           []BleedSegment // worst offenders, ordered by severity
	Detected           bool           // ConfirmedBleedPct above threshold
}

// MicBleedResult carries both methods plus the unified verdict (OR of the
// two detections).
type MicBleedResult struct {
	Old      *MicBleedOld
	New      *MicBleedNew
	Possible bool
}

// OverlapSegment is one span where both speakers talk at once.
type OverlapSegment struct {
	StartSec    float64
	EndSec      float64
	DurationSec float64
}

// OverlapResult contains speech overlap analysis. OverlapPct is relative to
// blocks with at least one active channel, not to the whole file.
type OverlapResult struct {
	OverlapPct        float64
	Segments          []OverlapSegment
	MinSegmentSec     float64 // shortest overlap counted as a segment
	LongestSegmentSec float64
	ActiveBlocks      int
	BothActiveBlocks  int
}

// ConsistencyResult reports whether each speaker stays on their channel
// across fixed-length file segments.
type ConsistencyResult struct {
	IsConsistent         bool
	ConsistencyPct       float64
	TotalSegments        int
	InconsistentSegments int
}

// SyncStatus classifies channel time alignment.
type SyncStatus int

const (
	SyncInSync SyncStatus = iota
	SyncSlightOffset
	SyncOutOfSync
)

func (s SyncStatus) String() string {
	switch s {
	case SyncInSync:
		return "in_sync"
	case SyncSlightOffset:
		return "slight_offset"
	case SyncOutOfSync:
		return "out_of_sync"
	}

	return "unknown"
}

// SyncResult contains channel time-sync analysis based on first/last
// above-threshold activity per channel.
type SyncResult struct {
	Status      SyncStatus
	StartDiffMs float64
	EndDiffMs   float64
	MaxDiffMs   float64
}

// ConversationResult bundles the ConversationalStereo-only analyses.
// All three share a single block-RMS pass.
type ConversationResult struct {
	Overlap     *OverlapResult
	Consistency *ConsistencyResult
	Sync        *SyncResult
}

package colloquy

import "fmt"

// AnalysisMode gates which metrics are computed and which validations run.
type AnalysisMode int

const (
	// ModeFull computes the standard metrics plus the stereo relationship
	// analyses (old-method mic bleed, conversational bundle).
	ModeFull AnalysisMode = iota

	// ModeAudioOnly computes only the cheap per-file metrics: peak, noise
	// floor, silence, clipping, stereo classification.
	ModeAudioOnly

	// ModeFilenameOnly skips audio entirely; only filename validation runs
	// and every audio-derived field validates as unknown.
	ModeFilenameOnly

	// ModeExperimental adds the expensive estimators on top of ModeFull:
	// RT60 and the new-method mic bleed statistics.
	ModeExperimental
)

func (m AnalysisMode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeAudioOnly:
		return "audio-only"
	case ModeFilenameOnly:
		return "filename-only"
	case ModeExperimental:
		return "experimental"
	}

	return "unknown"
}

// ParseMode converts a string to an AnalysisMode value.
func ParseMode(s string) (AnalysisMode, error) {
	switch s {
	case "full", "":
		return ModeFull, nil
	case "audio-only":
		return ModeAudioOnly, nil
	case "filename-only":
		return ModeFilenameOnly, nil
	case "experimental":
		return ModeExperimental, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (valid: full, audio-only, filename-only, experimental)", s)
	}
}

// AnalysisOptions configures the level analyzer thresholds.
type AnalysisOptions struct {
	// TargetDb is the normalization target peak level (default: -6 dBFS).
	TargetDb float64

	// ToleranceDb is the band around the target within which a peak counts
	// as normalized (default: 1 dB).
	ToleranceDb float64
}

// DefaultAnalysisOptions returns sensible defaults for voice-recording QC.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		TargetDb:    -6.0,
		ToleranceDb: 1.0,
	}
}

// applyDefaults fills zero-valued fields. A zero target is not meaningful
// for voice QC, so it always means "unset".
func applyDefaults(opts *AnalysisOptions) {
	if opts.TargetDb == 0 {
		opts.TargetDb = -6.0
	}

	if opts.ToleranceDb == 0 {
		opts.ToleranceDb = 1.0
	}
}

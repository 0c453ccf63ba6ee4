package colloquy

import (
	"fmt"

	"github.com/farcloser/colloquy/fault"
	"github.com/farcloser/colloquy/internal/audit/clipping"
	"github.com/farcloser/colloquy/internal/audit/conversation"
	"github.com/farcloser/colloquy/internal/audit/level"
	"github.com/farcloser/colloquy/internal/audit/micbleed"
	"github.com/farcloser/colloquy/internal/audit/noisefloor"
	"github.com/farcloser/colloquy/internal/audit/reverb"
	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/audit/silence"
	"github.com/farcloser/colloquy/internal/audit/stereo"
	"github.com/farcloser/colloquy/internal/types"
)

/*
Usage:

metrics, err := colloquy.Analyze(buf, colloquy.ModeFull, colloquy.DefaultAnalysisOptions())
if metrics.Clipping.Events > 0 {
    fmt.Println("Clipping detected!")
}

// Validate against a preset
criteria, _ := colloquy.CriteriaForPreset("conversational")
validation, status := colloquy.Validate(meta, metrics, nil, criteria, colloquy.ModeFull)
fmt.Println(status)

// Whole pipeline over a folder
reports := colloquy.AnalyzeBatch(ctx, paths, colloquy.BatchOptions{
    Mode:     colloquy.ModeFull,
    Criteria: criteria,
})
*/

// Metrics is the per-file metrics bundle. Fields are nil when the analysis
// mode or the channel layout did not produce them. Computed once per file
// per invocation; re-analysis under a different mode builds a new bundle.
type Metrics struct {
	Level        *types.LevelResult
	NoiseFloor   *types.NoiseFloorResult
	Reverb       *types.ReverbResult
	Silence      *types.SilenceResult
	Clipping     *types.ClippingResult
	Stereo       *types.StereoResult
	MicBleed     *types.MicBleedResult
	Conversation *types.ConversationResult
}

// Analyze runs the level analyzer over a decoded buffer. Results are
// deterministic for identical input. The mode gates the expensive metrics:
//
//	audio-only     peak, noise floor, silence, clipping, stereo class
//	full           + old-method mic bleed, conversational bundle
//	experimental   + RT60, new-method mic bleed
func Analyze(buf *types.Buffer, mode AnalysisMode, opts AnalysisOptions) (*Metrics, error) {
	if mode == ModeFilenameOnly {
		return &Metrics{}, nil
	}

	if buf == nil || len(buf.Channels) == 0 || buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: empty channel array", fault.ErrAnalysis)
	}

	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", fault.ErrAnalysis, buf.SampleRate)
	}

	applyDefaults(&opts)

	metrics := &Metrics{}

	metrics.Level = level.Measure(buf, level.Options{
		TargetDb:    opts.TargetDb,
		ToleranceDb: opts.ToleranceDb,
	})
	metrics.NoiseFloor = noisefloor.Estimate(buf)
	metrics.Silence = silence.Detect(buf, metrics.NoiseFloor.OverallDb, metrics.Level.PeakDb)
	metrics.Clipping = clipping.Detect(buf)

	// Single block RMS pass shared by every stereo-relationship analysis.
	blockRMS := shared.ChannelBlockRMS(buf)

	if len(buf.Channels) == 2 {
		metrics.Stereo = stereo.Classify(buf, blockRMS)
	}

	if mode == ModeExperimental {
		metrics.Reverb = reverb.Estimate(buf, metrics.NoiseFloor.PerChannelDb)
	}

	if mode == ModeAudioOnly {
		return metrics, nil
	}

	if metrics.Stereo != nil && metrics.Stereo.Type != types.StereoMono {
		oldMethod := micbleed.OldMethod(blockRMS, metrics.NoiseFloor.PerChannelDb)

		var newMethod *types.MicBleedNew
		if mode == ModeExperimental {
			newMethod = micbleed.NewMethod(buf, blockRMS, metrics.NoiseFloor.PerChannelDb)
		}

		metrics.MicBleed = micbleed.Combine(oldMethod, newMethod)
	}

	if metrics.Stereo != nil && metrics.Stereo.Type == types.StereoConversational {
		metrics.Conversation = conversation.Analyze(buf, blockRMS, metrics.NoiseFloor.PerChannelDb)
	}

	return metrics, nil
}

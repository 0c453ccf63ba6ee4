package colloquy

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/farcloser/colloquy/internal/types"
)

// Status is a validation verdict. Ordering matters for aggregation:
// fail > warning > pass > unknown, with error reserved for pipeline faults
// that preempted validation entirely.
type Status int

const (
	StatusUnknown Status = iota
	StatusPass
	StatusWarning
	StatusFail
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusPass:
		return "pass"
	case StatusWarning:
		return "warning"
	case StatusFail:
		return "fail"
	case StatusError:
		return "error"
	}

	return "unknown"
}

// FieldResult is the verdict for one criteria field. Unknown means the
// field was not evaluated (no constraint configured, or the prerequisite
// metric is absent under the current mode), distinct from fail.
type FieldResult struct {
	Status Status `json:"status"`
	Value  string `json:"value,omitempty"`
	Issue  string `json:"issue,omitempty"`
}

// Validation maps field names to their verdicts.
type Validation map[string]FieldResult

// Validate evaluates metadata and metrics against the criteria and folds in
// an optional filename verdict. It never returns an error: any field whose
// prerequisite is missing is marked unknown. The overall status is the
// worst field status; an all-unknown result aggregates to pass, since no
// explicit constraint was violated.
func Validate(
	meta *types.Metadata,
	metrics *Metrics,
	filename *FilenameResult,
	criteria *Criteria,
	mode AnalysisMode,
) (Validation, Status) {
	if criteria == nil {
		criteria = &Criteria{}
	}

	fields := Validation{}

	validateMetadata(fields, meta, criteria)
	validateAudio(fields, meta, metrics, criteria, mode)

	if filename != nil {
		fields["filename"] = FieldResult{
			Status: filename.Status,
			Value:  filename.Name,
			Issue:  filename.Issue,
		}
	}

	overall := StatusUnknown
	for _, field := range fields {
		if field.Status != StatusError && field.Status > overall {
			overall = field.Status
		}
	}

	if overall == StatusUnknown {
		overall = StatusPass
	}

	return fields, overall
}

func validateMetadata(fields Validation, meta *types.Metadata, criteria *Criteria) {
	fields["file_type"] = membership(len(criteria.FileTypes) > 0, meta != nil, func() (string, bool) {
		return meta.FileType, slices.Contains(criteria.FileTypes, meta.FileType)
	})

	fields["sample_rate"] = membership(len(criteria.SampleRates) > 0, meta != nil, func() (string, bool) {
		return strconv.Itoa(meta.SampleRate), slices.Contains(criteria.SampleRates, meta.SampleRate)
	})

	fields["bit_depth"] = membership(len(criteria.BitDepths) > 0, meta != nil && meta.BitDepth > 0, func() (string, bool) {
		return strconv.Itoa(meta.BitDepth), slices.Contains(criteria.BitDepths, meta.BitDepth)
	})

	fields["channels"] = membership(len(criteria.Channels) > 0, meta != nil, func() (string, bool) {
		return strconv.Itoa(meta.Channels), slices.Contains(criteria.Channels, meta.Channels)
	})

	fields["min_duration"] = membership(criteria.MinDuration > 0, meta != nil, func() (string, bool) {
		return fmt.Sprintf("%.2fs", meta.Duration), meta.Duration >= criteria.MinDuration
	})
}

func validateAudio(fields Validation, meta *types.Metadata, metrics *Metrics, criteria *Criteria, mode AnalysisMode) {
	audio := mode != ModeFilenameOnly && metrics != nil

	if len(criteria.StereoTypes) > 0 {
		switch {
		case meta != nil && meta.Channels != 2:
			// The stereo-type constraint has no meaning for non-stereo
			// layouts; skipping is not a failure.
			fields["stereo_type"] = FieldResult{Status: StatusUnknown, Issue: "not a 2-channel file"}
		case !audio || metrics.Stereo == nil:
			fields["stereo_type"] = FieldResult{Status: StatusUnknown}
		case slices.Contains(criteria.StereoTypes, metrics.Stereo.Type):
			fields["stereo_type"] = FieldResult{Status: StatusPass, Value: metrics.Stereo.Type.String()}
		default:
			fields["stereo_type"] = FieldResult{
				Status: StatusFail,
				Value:  metrics.Stereo.Type.String(),
				Issue:  "stereo type not in accepted set",
			}
		}
	} else {
		fields["stereo_type"] = FieldResult{Status: StatusUnknown}
	}

	if criteria.MaxOverlapFailPct <= 0 {
		fields["overlap_percentage"] = FieldResult{Status: StatusUnknown}
		fields["overlap_segment"] = FieldResult{Status: StatusUnknown}

		return
	}

	if !audio || metrics.Conversation == nil || metrics.Conversation.Overlap == nil {
		fields["overlap_percentage"] = FieldResult{Status: StatusUnknown}
		fields["overlap_segment"] = FieldResult{Status: StatusUnknown}

		return
	}

	overlap := metrics.Conversation.Overlap

	fields["overlap_percentage"] = banded(
		overlap.OverlapPct,
		criteria.MaxOverlapWarningPct,
		criteria.MaxOverlapFailPct,
		fmt.Sprintf("%.1f%%", overlap.OverlapPct),
		"speech overlap",
	)

	fields["overlap_segment"] = banded(
		overlap.LongestSegmentSec,
		criteria.MaxOverlapSegmentWarningSec,
		criteria.MaxOverlapSegmentFailSec,
		fmt.Sprintf("%.2fs", overlap.LongestSegmentSec),
		"longest overlap segment",
	)
}

// membership renders the standard accepted-set verdict: unknown when no
// constraint is configured or the value is unavailable, else pass/fail.
func membership(configured, available bool, check func() (string, bool)) FieldResult {
	if !configured {
		return FieldResult{Status: StatusUnknown}
	}

	if !available {
		return FieldResult{Status: StatusUnknown, Issue: "value unavailable"}
	}

	value, ok := check()
	if ok {
		return FieldResult{Status: StatusPass, Value: value}
	}

	return FieldResult{Status: StatusFail, Value: value, Issue: "value not in accepted set"}
}

// banded renders a warn/fail-cutoff verdict: below warning passes, between
// warning and fail warns, at or above fail fails.
func banded(value, warning, fail float64, rendered, what string) FieldResult {
	switch {
	case value >= fail:
		return FieldResult{
			Status: StatusFail,
			Value:  rendered,
			Issue:  fmt.Sprintf("%s at or above fail cutoff (%.1f)", what, fail),
		}
	case warning > 0 && value >= warning:
		return FieldResult{
			Status: StatusWarning,
			Value:  rendered,
			Issue:  fmt.Sprintf("%s above warning cutoff (%.1f)", what, warning),
		}
	default:
		return FieldResult{Status: StatusPass, Value: rendered}
	}
}

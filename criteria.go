package colloquy

import (
	"fmt"

	"github.com/farcloser/colloquy/internal/types"
)

// Criteria is an immutable specification of accepted values per field.
// Empty sets and zero scalars mean "no constraint configured": the field
// validates as unknown, never as fail.
type Criteria struct {
	FileTypes   []string
	SampleRates []int
	BitDepths   []int
	Channels    []int

	// MinDuration in seconds; 0 disables the check.
	MinDuration float64

	// StereoTypes the detected classification must fall into. Only applies
	// to 2-channel files; 1-channel files skip the check entirely.
	StereoTypes []types.StereoType

	// Speech overlap cutoffs: below warning = pass, between warning and
	// fail = warning, at or above fail = fail. A zero fail cutoff disables
	// both overlap checks.
	MaxOverlapWarningPct float64
	MaxOverlapFailPct    float64

	// Longest overlap segment cutoffs, seconds. Same banding.
	MaxOverlapSegmentWarningSec float64
	MaxOverlapSegmentFailSec    float64
}

// CriteriaForPreset returns the built-in criteria for a named preset.
func CriteriaForPreset(name string) (*Criteria, error) {
	switch name {
	case "conversational", "":
		return &Criteria{
			FileTypes:   []string{"wav"},
			SampleRates: []int{48000},
			BitDepths:   []int{16, 24},
			Channels:    []int{2},
			MinDuration: 30,
			StereoTypes: []types.StereoType{types.StereoConversational},

			MaxOverlapWarningPct:        5,
			MaxOverlapFailPct:           10,
			MaxOverlapSegmentWarningSec: 3,
			MaxOverlapSegmentFailSec:    5,
		}, nil
	case "monologue":
		return &Criteria{
			FileTypes:   []string{"wav"},
			SampleRates: []int{44100, 48000},
			BitDepths:   []int{16, 24, 32},
			Channels:    []int{1},
			MinDuration: 1,
		}, nil
	default:
		return nil, fmt.Errorf("unknown criteria preset %q (valid: conversational, monologue)", name)
	}
}

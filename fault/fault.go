// Package fault defines the engine error taxonomy. All errors are
// per-file: the batch coordinator converts them into error-status records
// and never lets one file abort its siblings.
package fault

import "errors"

var (
	// ErrFormat marks an unparsable or unsupported container header.
	// Localized to the metadata reader.
	ErrFormat = errors.New("unsupported or corrupt container")

	// ErrDecode marks a failure of the external decode facility. Not
	// retried by the engine.
	ErrDecode = errors.New("decode failed")

	// ErrAnalysis marks an unexpected numeric or DSP failure, e.g. an
	// empty channel array or invalid sample rate reaching the analyzers.
	ErrAnalysis = errors.New("analysis failed")
)

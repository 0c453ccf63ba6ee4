package colloquy

import "github.com/farcloser/colloquy/fault"

// Error taxonomy, re-exported for errors.Is at the API boundary.
var (
	ErrFormat   = fault.ErrFormat
	ErrDecode   = fault.ErrDecode
	ErrAnalysis = fault.ErrAnalysis
)

package ffmpeg

import "time"

const (
	name = "ffmpeg"

	// Decoding to raw PCM is I/O bound; an hour-long interview at 48 kHz
	// still finishes well inside this.
	timeout = 5 * time.Minute

	// All streams decode to signed 32-bit little-endian, the widest
	// integer format the deinterleaver handles. Narrower sources upscale
	// losslessly.
	codec = "pcm_s32le"
)

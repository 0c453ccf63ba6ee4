package ffmpeg

import (
	"strconv"

	"github.com/farcloser/colloquy/internal/types"
)

func bitDepthToSpec(bitDepth types.BitDepth) string {
	// BitDepth 32 = s32le, 24 = s24le, 16 = s16le
	return "s" + strconv.Itoa(int(bitDepth)) + "le"
}

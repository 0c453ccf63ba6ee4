// Package pcm converts raw interleaved little-endian PCM into per-channel
// float64 buffers normalized to [-1, 1]. It also decodes WAV files natively
// so single-file analysis does not need the external decode facility.
package pcm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/farcloser/colloquy/fault"
	"github.com/farcloser/colloquy/internal/metadata"
	"github.com/farcloser/colloquy/internal/types"
)

const (
	maxValue16 = 32768.0      // 2^15 — 16-bit signed PCM normalization divisor
	maxValue24 = 8388608.0    // 2^23 — 24-bit signed PCM normalization divisor
	maxValue32 = 2147483648.0 // 2^31 — 32-bit signed PCM normalization divisor
)

// Deinterleave reads interleaved signed little-endian PCM from r until EOF
// and splits it into one normalized float64 slice per channel. A trailing
// partial frame is dropped.
func Deinterleave(r io.Reader, format types.PCMFormat) (*types.Buffer, error) {
	bytesPerSample := int(format.BitDepth / 8)
	numChannels := int(format.Channels)

	if bytesPerSample == 0 || numChannels == 0 {
		return nil, fmt.Errorf(
			"%w: cannot deinterleave %d-bit %d-channel PCM",
			fault.ErrDecode, format.BitDepth, format.Channels,
		)
	}

	frameSize := bytesPerSample * numChannels

	var maxVal float64

	switch format.BitDepth {
	case types.Depth16:
		maxVal = maxValue16
	case types.Depth24:
		maxVal = maxValue24
	case types.Depth32:
		maxVal = maxValue32
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", fault.ErrDecode, format.BitDepth)
	}

	channels := make([][]float64, numChannels)

	buf := make([]byte, frameSize*4096)
	leftover := 0

	for {
		n, err := r.Read(buf[leftover:])
		n += leftover

		completeFrames := (n / frameSize) * frameSize
		data := buf[:completeFrames]

		switch format.BitDepth {
		case types.Depth16:
			for i := 0; i < len(data); i += frameSize {
				for ch := range numChannels {
					sample := float64(int16(binary.LittleEndian.Uint16(data[i+ch*2:]))) / maxVal
					channels[ch] = append(channels[ch], sample)
				}
			}
		case types.Depth24:
			for i := 0; i < len(data); i += frameSize {
				for ch := range numChannels {
					offset := i + ch*3

					raw := int32(data[offset]) | int32(data[offset+1])<<8 | int32(data[offset+2])<<16
					if raw&0x800000 != 0 {
						raw |= ^0xFFFFFF
					}

					channels[ch] = append(channels[ch], float64(raw)/maxVal)
				}
			}
		case types.Depth32:
			for i := 0; i < len(data); i += frameSize {
				for ch := range numChannels {
					sample := float64(int32(binary.LittleEndian.Uint32(data[i+ch*4:]))) / maxVal
					channels[ch] = append(channels[ch], sample)
				}
			}
		}

		// Carry the incomplete tail frame into the next read.
		leftover = n - completeFrames
		copy(buf, buf[completeFrames:n])

		if err != nil {
			if err == io.EOF {
				break
			}

			return nil, fmt.Errorf("%w: %w", fault.ErrDecode, err)
		}
	}

	return &types.Buffer{
		SampleRate: format.SampleRate,
		Channels:   channels,
	}, nil
}

// DecodeWAV decodes a complete in-memory WAV file. Integer PCM at 16, 24,
// or 32 bits and IEEE float at 32 or 64 bits are supported; anything else
// the container can hold goes through the external decode facility instead.
func DecodeWAV(data []byte) (*types.Buffer, error) {
	header, err := metadata.ParseWav(data)
	if err != nil {
		return nil, err
	}

	end := header.DataOffset + int(header.DataSize)
	if header.DataSize <= 0 || end > len(data) {
		end = len(data)
	}

	samples := data[header.DataOffset:end]

	if header.FormatTag == metadata.FormatIEEEFloat {
		return decodeFloat(samples, header)
	}

	return Deinterleave(bytes.NewReader(samples), types.PCMFormat{
		SampleRate: header.SampleRate,
		BitDepth:   types.BitDepth(header.BitsPerSample),
		Channels:   uint(header.Channels),
	})
}

func decodeFloat(data []byte, header *metadata.WavHeader) (*types.Buffer, error) {
	bytesPerSample := header.BitsPerSample / 8
	if header.BitsPerSample != 32 && header.BitsPerSample != 64 {
		return nil, fmt.Errorf("%w: unsupported float bit depth %d", fault.ErrDecode, header.BitsPerSample)
	}

	frameSize := bytesPerSample * header.Channels
	channels := make([][]float64, header.Channels)

	for i := 0; i+frameSize <= len(data); i += frameSize {
		for ch := range header.Channels {
			var sample float64

			if header.BitsPerSample == 32 {
				sample = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i+ch*4:])))
			} else {
				sample = math.Float64frombits(binary.LittleEndian.Uint64(data[i+ch*8:]))
			}

			channels[ch] = append(channels[ch], sample)
		}
	}

	return &types.Buffer{
		SampleRate: header.SampleRate,
		Channels:   channels,
	}, nil
}

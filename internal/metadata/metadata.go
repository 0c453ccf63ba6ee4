// Package metadata parses container headers without decoding audio.
// Headers are front-loaded, so a byte-range prefix of the file is enough
// for metadata-only inspection of uncompressed formats.
package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/farcloser/colloquy/fault"
	"github.com/farcloser/colloquy/internal/types"
)

// WAV format tags accepted in the fmt chunk.
const (
	FormatPCM        = 0x0001
	FormatIEEEFloat  = 0x0003
	FormatExtensible = 0xFFFE
)

// WavHeader is the parsed fmt/data layout of a RIFF/WAVE file. The decode
// path reuses it to locate and interpret the sample data.
type WavHeader struct {
	FormatTag     uint16 // FormatPCM or FormatIEEEFloat (extensible resolved)
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataOffset    int   // byte offset of sample data within the file
	DataSize      int64 // declared sample data size in bytes
}

// Read parses a WAV header from data (full file bytes or a prefix) and
// returns file metadata. fileSize is the reported size of the whole file,
// used when only a prefix is available. Errors wrap fault.ErrFormat and
// stay localized to the offending file.
func Read(data []byte, fileSize int64) (*types.Metadata, error) {
	header, err := ParseWav(data)
	if err != nil {
		return nil, err
	}

	dataSize := header.DataSize
	if dataSize <= 0 || int64(header.DataOffset)+dataSize > fileSize {
		// Streaming writers leave a bogus size; derive from the file.
		dataSize = fileSize - int64(header.DataOffset)
	}

	bytesPerFrame := int64(header.Channels) * int64(header.BitsPerSample) / 8

	var duration float64
	if bytesPerFrame > 0 && header.SampleRate > 0 {
		duration = float64(dataSize/bytesPerFrame) / float64(header.SampleRate)
	}

	return &types.Metadata{
		FileType:   "wav",
		SampleRate: header.SampleRate,
		BitDepth:   header.BitsPerSample,
		Channels:   header.Channels,
		Duration:   duration,
		FileSize:   fileSize,
	}, nil
}

// ParseWav walks the RIFF chunk list and returns the fmt/data layout.
func ParseWav(data []byte) (*WavHeader, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: truncated header (%d bytes)", fault.ErrFormat, len(data))
	}

	if string(data[0:4]) != "RIFF" {
		return nil, fmt.Errorf("%w: unrecognized container signature %q", fault.ErrFormat, data[0:4])
	}

	if string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: RIFF form is %q, not WAVE", fault.ErrFormat, data[8:12])
	}

	header := &WavHeader{}
	sawFmt := false

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int64(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if err := parseFmt(data, body, chunkSize, header); err != nil {
				return nil, err
			}

			sawFmt = true
		case "data":
			header.DataOffset = body
			header.DataSize = chunkSize

			if sawFmt {
				return header, nil
			}
		default:
			// LIST, bext, cue, etc. carry no format information.
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		offset = body + int(chunkSize)
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !sawFmt {
		return nil, fmt.Errorf("%w: no fmt chunk before end of data", fault.ErrFormat)
	}

	if header.DataOffset == 0 {
		return nil, fmt.Errorf("%w: no data chunk before end of data", fault.ErrFormat)
	}

	return header, nil
}

func parseFmt(data []byte, body int, chunkSize int64, header *WavHeader) error {
	if chunkSize < 16 || body+16 > len(data) {
		return fmt.Errorf("%w: truncated fmt chunk", fault.ErrFormat)
	}

	formatTag := binary.LittleEndian.Uint16(data[body : body+2])
	header.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
	header.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
	header.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))

	if formatTag == FormatExtensible {
		// The real tag lives in the first two bytes of the SubFormat GUID.
		if chunkSize < 40 || body+26 > len(data) {
			return fmt.Errorf("%w: truncated extensible fmt chunk", fault.ErrFormat)
		}

		formatTag = binary.LittleEndian.Uint16(data[body+24 : body+26])
	}

	if formatTag != FormatPCM && formatTag != FormatIEEEFloat {
		return fmt.Errorf("%w: unsupported codec tag 0x%04X", fault.ErrFormat, formatTag)
	}

	header.FormatTag = formatTag

	if header.Channels <= 0 || header.SampleRate <= 0 {
		return fmt.Errorf(
			"%w: implausible fmt values (channels=%d, rate=%d)",
			fault.ErrFormat, header.Channels, header.SampleRate,
		)
	}

	return nil
}

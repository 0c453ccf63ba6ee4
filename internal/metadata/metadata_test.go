package metadata

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/farcloser/colloquy/fault"
)

// wavBytes builds a minimal RIFF/WAVE file with a zeroed data chunk.
func wavBytes(formatTag uint16, channels, sampleRate, bits, frames int) []byte {
	dataSize := frames * channels * bits / 8

	var out []byte

	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+dataSize))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, formatTag)
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate*channels*bits/8))
	out = binary.LittleEndian.AppendUint16(out, uint16(channels*bits/8))
	out = binary.LittleEndian.AppendUint16(out, uint16(bits))

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(dataSize))
	out = append(out, make([]byte, dataSize)...)

	return out
}

func TestRead(t *testing.T) {
	data := wavBytes(FormatPCM, 2, 48000, 16, 48000)

	meta, err := Read(data, int64(len(data)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if meta.FileType != "wav" {
		t.Errorf("FileType = %q, want wav", meta.FileType)
	}

	if meta.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", meta.SampleRate)
	}

	if meta.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", meta.BitDepth)
	}

	if meta.Channels != 2 {
		t.Errorf("Channels = %d, want 2", meta.Channels)
	}

	if meta.Duration != 1.0 {
		t.Errorf("Duration = %v, want 1.0", meta.Duration)
	}
}

func TestReadFromPrefix(t *testing.T) {
	// Headers are front-loaded: the first kilobyte of a long recording is
	// enough, with duration derived from the declared data size.
	data := wavBytes(FormatPCM, 1, 48000, 16, 10*48000)

	meta, err := Read(data[:1024], int64(len(data)))
	if err != nil {
		t.Fatalf("Read on prefix: %v", err)
	}

	if meta.Duration != 10.0 {
		t.Errorf("Duration = %v, want 10.0", meta.Duration)
	}

	if meta.FileSize != int64(len(data)) {
		t.Errorf("FileSize = %d, want %d", meta.FileSize, len(data))
	}
}

func TestReadFormatErrors(t *testing.T) {
	valid := wavBytes(FormatPCM, 2, 48000, 16, 100)

	junk := make([]byte, len(valid))
	copy(junk, valid)
	copy(junk[0:4], "JUNK")

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated header", valid[:8]},
		{"unrecognized signature", junk},
		{"unsupported codec tag", wavBytes(0x0055 /* mp3 */, 2, 48000, 16, 100)},
		{"zero channels", wavBytes(FormatPCM, 0, 48000, 16, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(tc.data, int64(len(tc.data)))
			if err == nil {
				t.Fatal("Read succeeded, want error")
			}

			if !errors.Is(err, fault.ErrFormat) {
				t.Fatalf("error %v does not wrap the format sentinel", err)
			}
		})
	}
}

func TestParseWavExtensible(t *testing.T) {
	// WAVE_FORMAT_EXTENSIBLE: the real codec tag lives in the SubFormat
	// GUID.
	var out []byte

	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, 72)
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 40)
	out = binary.LittleEndian.AppendUint16(out, FormatExtensible)
	out = binary.LittleEndian.AppendUint16(out, 2)
	out = binary.LittleEndian.AppendUint32(out, 48000)
	out = binary.LittleEndian.AppendUint32(out, 48000*2*3)
	out = binary.LittleEndian.AppendUint16(out, 6)
	out = binary.LittleEndian.AppendUint16(out, 24)
	out = binary.LittleEndian.AppendUint16(out, 22)              // cbSize
	out = binary.LittleEndian.AppendUint16(out, 24)              // valid bits
	out = binary.LittleEndian.AppendUint32(out, 0x3)             // channel mask
	out = binary.LittleEndian.AppendUint16(out, FormatPCM)       // SubFormat tag
	out = append(out, make([]byte, 14)...)                       // rest of GUID

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, 0)

	header, err := ParseWav(out)
	if err != nil {
		t.Fatalf("ParseWav: %v", err)
	}

	if header.FormatTag != FormatPCM {
		t.Errorf("FormatTag = %#x, want PCM resolved from SubFormat", header.FormatTag)
	}

	if header.BitsPerSample != 24 {
		t.Errorf("BitsPerSample = %d, want 24", header.BitsPerSample)
	}
}

func TestParseWavSkipsUnknownChunks(t *testing.T) {
	data := wavBytes(FormatPCM, 1, 44100, 16, 10)

	// Splice a LIST chunk between the header and fmt.
	list := append([]byte("LIST"), 0x04, 0x00, 0x00, 0x00, 'I', 'N', 'F', 'O')
	spliced := append([]byte{}, data[:12]...)
	spliced = append(spliced, list...)
	spliced = append(spliced, data[12:]...)

	header, err := ParseWav(spliced)
	if err != nil {
		t.Fatalf("ParseWav: %v", err)
	}

	if header.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", header.SampleRate)
	}
}

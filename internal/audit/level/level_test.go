package level

import (
	"math"
	"testing"

	"github.com/farcloser/colloquy/internal/types"
)

func flatBuffer(value float64, frames int) *types.Buffer {
	samples := make([]float64, frames)
	for i := range samples {
		samples[i] = value
	}

	return &types.Buffer{SampleRate: 48000, Channels: [][]float64{samples}}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name         string
		peak         float64
		wantPeakDb   float64 // approximate, checked within 0.1 dB
		wantStatus   types.NormalizationStatus
		wantInfinite bool // expect -Inf peak and distance
	}{
		{
			name:         "all-zero buffer reports negative infinity, never NaN",
			peak:         0.0,
			wantStatus:   types.NormTooQuiet,
			wantInfinite: true,
		},
		{
			name:       "peak on target is normalized",
			peak:       0.501187, // -6.0 dBFS
			wantPeakDb: -6.0,
			wantStatus: types.NormNormalized,
		},
		{
			name:       "peak inside the tolerance band is normalized",
			peak:       0.45, // -6.9 dBFS, within the 1 dB band
			wantPeakDb: -6.9,
			wantStatus: types.NormNormalized,
		},
		{
			name:       "quiet recording",
			peak:       0.05, // -26 dBFS
			wantPeakDb: -26.0,
			wantStatus: types.NormTooQuiet,
		},
		{
			name:       "hot recording",
			peak:       1.0, // 0 dBFS
			wantPeakDb: 0.0,
			wantStatus: types.NormTooLoud,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Measure(flatBuffer(tc.peak, 48000), DefaultOptions())

			if tc.wantInfinite {
				if !math.IsInf(result.PeakDb, -1) {
					t.Fatalf("PeakDb = %v, want -Inf", result.PeakDb)
				}

				if !math.IsInf(result.DistanceDb, -1) {
					t.Fatalf("DistanceDb = %v, want -Inf", result.DistanceDb)
				}

				if math.IsNaN(result.DistanceDb) {
					t.Fatal("DistanceDb is NaN")
				}
			} else if math.Abs(result.PeakDb-tc.wantPeakDb) > 0.1 {
				t.Fatalf("PeakDb = %v, want %v", result.PeakDb, tc.wantPeakDb)
			}

			if result.Status != tc.wantStatus {
				t.Fatalf("Status = %v, want %v", result.Status, tc.wantStatus)
			}
		})
	}
}

func TestMeasureDistanceSigned(t *testing.T) {
	loud := Measure(flatBuffer(1.0, 48000), DefaultOptions())
	if loud.DistanceDb <= 0 {
		t.Fatalf("distance for a hot peak = %v, want positive", loud.DistanceDb)
	}

	quiet := Measure(flatBuffer(0.05, 48000), DefaultOptions())
	if quiet.DistanceDb >= 0 {
		t.Fatalf("distance for a quiet peak = %v, want negative", quiet.DistanceDb)
	}
}

func TestMeasurePicksLoudestChannel(t *testing.T) {
	left := make([]float64, 48000)
	right := make([]float64, 48000)
	left[100] = 0.1
	right[200] = -0.9 // negative peaks count by magnitude

	buf := &types.Buffer{SampleRate: 48000, Channels: [][]float64{left, right}}

	result := Measure(buf, DefaultOptions())

	wantDb := 20 * math.Log10(0.9)
	if math.Abs(result.PeakDb-wantDb) > 0.01 {
		t.Fatalf("PeakDb = %v, want %v", result.PeakDb, wantDb)
	}
}

package noisefloor

import (
	"math"
	"testing"

	"github.com/farcloser/colloquy/internal/types"
)

func TestEstimateAllZero(t *testing.T) {
	buf := &types.Buffer{
		SampleRate: 48000,
		Channels:   [][]float64{make([]float64, 48000)},
	}

	result := Estimate(buf)

	if !math.IsInf(result.OverallDb, -1) {
		t.Fatalf("OverallDb = %v, want -Inf", result.OverallDb)
	}

	if !result.HasDigitalSilence {
		t.Fatal("HasDigitalSilence = false, want true")
	}

	if result.DigitalSilencePct != 100 {
		t.Fatalf("DigitalSilencePct = %v, want 100", result.DigitalSilencePct)
	}
}

func TestEstimateSteadyFloor(t *testing.T) {
	// Constant 0.01 amplitude: every window has RMS -40 dB, so the
	// quietest-30% histogram mode must land there.
	samples := make([]float64, 96000)
	for i := range samples {
		samples[i] = 0.01
	}

	buf := &types.Buffer{SampleRate: 48000, Channels: [][]float64{samples}}

	result := Estimate(buf)

	if math.Abs(result.OverallDb-(-40)) > 1.0 {
		t.Fatalf("OverallDb = %v, want -40 +/- 1 (histogram bin width)", result.OverallDb)
	}

	if result.HasDigitalSilence {
		t.Fatal("HasDigitalSilence = true for a nonzero signal")
	}
}

func TestEstimateDigitalSilenceIsSeparate(t *testing.T) {
	// First half exactly zero, second half quiet noise: zero windows count
	// as digital silence and are excluded from the floor estimate.
	samples := make([]float64, 96000)
	for i := 48000; i < len(samples); i++ {
		samples[i] = 0.001 // -60 dB
	}

	buf := &types.Buffer{SampleRate: 48000, Channels: [][]float64{samples}}

	result := Estimate(buf)

	if !result.HasDigitalSilence {
		t.Fatal("HasDigitalSilence = false, want true")
	}

	if math.Abs(result.DigitalSilencePct-50) > 2 {
		t.Fatalf("DigitalSilencePct = %v, want ~50", result.DigitalSilencePct)
	}

	if math.IsInf(result.OverallDb, -1) {
		t.Fatal("OverallDb = -Inf, zero windows must not drag the floor down")
	}

	if math.Abs(result.OverallDb-(-60)) > 1.0 {
		t.Fatalf("OverallDb = %v, want -60 +/- 1", result.OverallDb)
	}
}

func TestEstimateOverallIsMinimumAcrossChannels(t *testing.T) {
	loud := make([]float64, 48000)
	quiet := make([]float64, 48000)

	for i := range loud {
		loud[i] = 0.1    // -20 dB
		quiet[i] = 0.001 // -60 dB
	}

	buf := &types.Buffer{SampleRate: 48000, Channels: [][]float64{loud, quiet}}

	result := Estimate(buf)

	if len(result.PerChannelDb) != 2 {
		t.Fatalf("PerChannelDb has %d entries, want 2", len(result.PerChannelDb))
	}

	if result.OverallDb > -55 {
		t.Fatalf("OverallDb = %v, want the quieter channel's floor (~-60)", result.OverallDb)
	}
}

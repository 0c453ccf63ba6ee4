package conversation

import (
	"math"
	"testing"

	"github.com/farcloser/colloquy/internal/audit/shared"
	"github.com/farcloser/colloquy/internal/types"
)

const rate = 48000

var quietFloors = []float64{-80, -80}

func analyze(left, right []float64) *types.ConversationResult {
	buf := &types.Buffer{SampleRate: rate, Channels: [][]float64{left, right}}

	return Analyze(buf, shared.ChannelBlockRMS(buf), quietFloors)
}

// span fills samples[startSec:endSec] with a constant level.
func span(samples []float64, startSec, endSec, level float64) {
	for i := int(startSec * rate); i < int(endSec*rate) && i < len(samples); i++ {
		samples[i] = level
	}
}

func TestAnalyzeRequiresTwoChannels(t *testing.T) {
	buf := &types.Buffer{SampleRate: rate, Channels: [][]float64{make([]float64, rate)}}

	if Analyze(buf, shared.ChannelBlockRMS(buf), quietFloors) != nil {
		t.Fatal("Analyze returned a result for a mono buffer")
	}
}

func TestOverlap(t *testing.T) {
	// Left talks 0-6 s, right talks 5-12 s: one second of overlap.
	total := 12 * rate
	left := make([]float64, total)
	right := make([]float64, total)

	span(left, 0, 6, 0.4)
	span(right, 5, 12, 0.4)

	result := analyze(left, right)

	overlap := result.Overlap
	if overlap == nil {
		t.Fatal("no overlap result")
	}

	if len(overlap.Segments) != 1 {
		t.Fatalf("overlap segments = %d, want 1", len(overlap.Segments))
	}

	if math.Abs(overlap.Segments[0].DurationSec-1.0) > 0.25 {
		t.Fatalf("overlap duration = %v, want ~1.0", overlap.Segments[0].DurationSec)
	}

	// 4 both-active blocks out of 48 active blocks.
	want := 100.0 * 4 / 48
	if math.Abs(overlap.OverlapPct-want) > 1 {
		t.Fatalf("OverlapPct = %v, want ~%v", overlap.OverlapPct, want)
	}
}

func TestOverlapBackchannelIgnored(t *testing.T) {
	// A single overlapping block (250 ms) is backchannel, not a segment.
	total := 8 * rate
	left := make([]float64, total)
	right := make([]float64, total)

	span(left, 0, 4.25, 0.4)
	span(right, 4.0, 8, 0.4)

	result := analyze(left, right)

	if len(result.Overlap.Segments) != 0 {
		t.Fatalf("overlap segments = %d, want 0 for a single-block overlap", len(result.Overlap.Segments))
	}

	if result.Overlap.BothActiveBlocks != 1 {
		t.Fatalf("both-active blocks = %d, want 1", result.Overlap.BothActiveBlocks)
	}
}

func TestConsistency(t *testing.T) {
	// Speaker swap mid-file: left dominates the first two 10 s segments,
	// right the third.
	total := 30 * rate
	left := make([]float64, total)
	right := make([]float64, total)

	span(left, 0, 20, 0.4)
	span(right, 20, 30, 0.4)

	result := analyze(left, right)

	consistency := result.Consistency
	if consistency.IsConsistent {
		t.Fatal("IsConsistent = true after a channel swap")
	}

	if consistency.TotalSegments != 3 {
		t.Fatalf("TotalSegments = %d, want 3", consistency.TotalSegments)
	}

	if consistency.InconsistentSegments != 1 {
		t.Fatalf("InconsistentSegments = %d, want 1", consistency.InconsistentSegments)
	}
}

func TestConsistencyStableSpeakers(t *testing.T) {
	// Alternating turns inside each segment still yield one plurality
	// label per segment; same label throughout = consistent.
	total := 20 * rate
	left := make([]float64, total)
	right := make([]float64, total)

	for s := range 20 {
		if s%3 == 0 {
			span(right, float64(s), float64(s+1), 0.4)
		} else {
			span(left, float64(s), float64(s+1), 0.4)
		}
	}

	result := analyze(left, right)

	if !result.Consistency.IsConsistent {
		t.Fatal("IsConsistent = false for stable channel assignment")
	}
}

func TestTimeSync(t *testing.T) {
	tests := []struct {
		name       string
		rightDelay float64 // seconds
		wantStatus types.SyncStatus
	}{
		{"aligned", 0.0, types.SyncInSync},
		{"slight offset", 0.1, types.SyncSlightOffset},
		{"out of sync", 0.5, types.SyncOutOfSync},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			total := 6 * rate
			left := make([]float64, total)
			right := make([]float64, total)

			span(left, 0, 6, 0.4)
			span(right, tc.rightDelay, 6, 0.4)

			result := analyze(left, right)

			if result.Sync.Status != tc.wantStatus {
				t.Fatalf(
					"status = %v (start diff %v ms), want %v",
					result.Sync.Status, result.Sync.StartDiffMs, tc.wantStatus,
				)
			}
		})
	}
}

func TestTimeSyncSilentChannel(t *testing.T) {
	total := 4 * rate
	left := make([]float64, total)
	right := make([]float64, total)

	span(left, 0, 4, 0.4)

	result := analyze(left, right)

	if result.Sync.Status != types.SyncInSync {
		t.Fatalf("status = %v, want in_sync when one channel never activates", result.Sync.Status)
	}

	if result.Sync.MaxDiffMs != 0 {
		t.Fatalf("MaxDiffMs = %v, want 0", result.Sync.MaxDiffMs)
	}
}

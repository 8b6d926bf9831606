package sgpio

import (
	"testing"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

func TestMaxChainDepthClockGenNeverGrows(t *testing.T) {
	f := &Function{Mode: ModeClockGen}
	if got := maxChainDepth(f); got != 1 {
		t.Errorf("maxChainDepth(clock-gen) = %d, want 1", got)
	}
}

func TestMaxChainDepthBidirectionalHalvedInHighHalf(t *testing.T) {
	f := &Function{Mode: ModeBidirectional, IOSlice: regs.SliceB}
	if got := maxChainDepth(f); got != regs.MaxSliceChainDepth/2 {
		t.Errorf("maxChainDepth(bidirectional, high half) = %d, want %d", got, regs.MaxSliceChainDepth/2)
	}
}

func TestMaxChainDepthStreamOutUsesFullSpan(t *testing.T) {
	f := &Function{Mode: ModeStreamOut, IOSlice: regs.SliceA}
	if got := maxChainDepth(f); got != regs.MaxSliceChainDepth {
		t.Errorf("maxChainDepth(stream-out) = %d, want %d", got, regs.MaxSliceChainDepth)
	}
}

func TestMaxUsefulBufferDepthLimitsToBufferSize(t *testing.T) {
	f := &Function{Mode: ModeStreamOut, IOSlice: regs.SliceA, BufferOrder: 3} // 8-byte buffer -> 2 slices
	if got := maxUsefulBufferDepth(f); got != 2 {
		t.Errorf("maxUsefulBufferDepth = %d, want 2", got)
	}
}

func TestMaxUsefulBufferDepthFixedOutHalvesSliceCount(t *testing.T) {
	f := &Function{Mode: ModeFixedOut, IOSlice: regs.SliceA, BufferOrder: 4} // 16-byte buffer -> 4 slices, halved to 2
	if got := maxUsefulBufferDepth(f); got != 2 {
		t.Errorf("maxUsefulBufferDepth(fixed-out) = %d, want 2", got)
	}
}

func TestMaxUsefulBufferDepthCappedByChainDepth(t *testing.T) {
	f := &Function{Mode: ModeStreamOut, IOSlice: regs.SliceA, BufferOrder: 10} // huge buffer, capped at 8
	if got := maxUsefulBufferDepth(f); got != regs.MaxSliceChainDepth {
		t.Errorf("maxUsefulBufferDepth(huge buffer) = %d, want %d", got, regs.MaxSliceChainDepth)
	}
}

func TestOutputModeForBusWidth(t *testing.T) {
	cases := map[uint8]uint32{
		1: regs.OutputMode1Bit,
		2: regs.OutputMode2BitA,
		4: regs.OutputMode4BitA,
		8: regs.OutputMode8BitA,
	}
	for width, want := range cases {
		if got := outputModeForBusWidth(width); got != want {
			t.Errorf("outputModeForBusWidth(%d) = %#x, want %#x", width, got, want)
		}
	}
}

func TestIsISRNecessaryClockGenNever(t *testing.T) {
	f := &Function{Mode: ModeClockGen}
	if isISRNecessary(f) {
		t.Error("isISRNecessary(clock-gen) = true, want false")
	}
}

func TestIsISRNecessaryFixedOutFitsInDoubleBuffer(t *testing.T) {
	f := &Function{Mode: ModeFixedOut, BufferDepthOrder: 1, BufferOrder: 3} // 2-slice chain = 8 bytes, buffer also 8 bytes
	if isISRNecessary(f) {
		t.Error("isISRNecessary(fixed-out, buffer fits) = true, want false")
	}
}

func TestIsISRNecessaryFixedOutLargerThanChain(t *testing.T) {
	f := &Function{Mode: ModeFixedOut, BufferDepthOrder: 0, BufferOrder: 6} // 1-slice chain, 64-byte buffer
	if !isISRNecessary(f) {
		t.Error("isISRNecessary(fixed-out, buffer exceeds chain) = false, want true")
	}
}

func TestIsISRNecessaryRespectsOverride(t *testing.T) {
	f := &Function{Mode: ModeStreamOut, NeverSynthesizeISR: true}
	if isISRNecessary(f) {
		t.Error("isISRNecessary with NeverSynthesizeISR = true, want false")
	}
}

package sgpio

import (
	"testing"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

func TestEncodeWordOffsetRejectsUnaligned(t *testing.T) {
	if _, err := encodeWordOffset(3); err != ErrInvalidArgument {
		t.Errorf("encodeWordOffset(3) error = %v, want ErrInvalidArgument", err)
	}
}

func TestEncodeWordOffsetRejectsOutOfRange(t *testing.T) {
	if _, err := encodeWordOffset(128); err != ErrUnsupported {
		t.Errorf("encodeWordOffset(128) error = %v, want ErrUnsupported", err)
	}
}

func TestEncodeWordOffsetMaxValidOffset(t *testing.T) {
	imm, err := encodeWordOffset(124) // 31 words, the largest 5-bit immediate
	if err != nil || imm != 0x1F {
		t.Errorf("encodeWordOffset(124) = %#x, %v; want 0x1F, nil", imm, err)
	}
}

func TestEncodeLdrImmBitLayout(t *testing.T) {
	// ldr r2, [r0, #8]
	got, err := encodeLdrImm(2, 0, 8)
	if err != nil {
		t.Fatalf("encodeLdrImm error: %v", err)
	}
	want := uint16(0x6800) | (2 << 6) | (0 << 3) | 2
	if got != want {
		t.Errorf("encodeLdrImm(2,0,8) = %#04x, want %#04x", got, want)
	}
}

func TestEncodeStrImmBitLayout(t *testing.T) {
	// str r2, [r1, #4]
	got, err := encodeStrImm(2, 1, 4)
	if err != nil {
		t.Fatalf("encodeStrImm error: %v", err)
	}
	want := uint16(0x6000) | (1 << 6) | (1 << 3) | 2
	if got != want {
		t.Errorf("encodeStrImm(2,1,4) = %#04x, want %#04x", got, want)
	}
}

func TestEncodeLdrImmRejectsOutOfRangeRegister(t *testing.T) {
	if _, err := encodeLdrImm(8, 0, 0); err != ErrInvalidArgument {
		t.Errorf("encodeLdrImm with rd=8 error = %v, want ErrInvalidArgument", err)
	}
}

func TestEncodeBranchToEpilogue(t *testing.T) {
	// Branching from slot 4 to slot 16 (12 slots * 2 bytes = 24 bytes
	// forward), PC+4-relative: offset = 24 - 4 = 20, imm = 10.
	got, err := encodeBranch(4, 16)
	if err != nil {
		t.Fatalf("encodeBranch error: %v", err)
	}
	want := uint16(0xE000) | 10
	if got != want {
		t.Errorf("encodeBranch(4,16) = %#04x, want %#04x", got, want)
	}
}

func TestEncodeBranchRejectsOutOfRange(t *testing.T) {
	if _, err := encodeBranch(0, 2000); err != ErrUnsupported {
		t.Errorf("encodeBranch with huge offset error = %v, want ErrUnsupported", err)
	}
}

// TestSynthesizeISRBodyStreamInMatchesScenarioS2 exercises spec.md's S2
// scenario: a 1-bit STREAM_IN function with a 16-byte buffer grows its
// chain to 4 slices, and its ISR body should be 4 ldr/str pairs loading
// from the shadow offsets of the chain's slices in concatenation order
// (A, I, E, J) and storing at caller-buffer offsets 0, 4, 8, 12.
func TestSynthesizeISRBodyStreamInMatchesScenarioS2(t *testing.T) {
	f := &Function{
		Mode:             ModeStreamIn,
		BusWidth:         1,
		IOSlice:          regs.SliceA,
		BufferDepthOrder: 2, // chain depth 4
		BufferOrder:      4, // 16-byte buffer
	}

	body, args, err := synthesizeISRBody(f)
	if err != nil {
		t.Fatalf("synthesizeISRBody error: %v", err)
	}

	if args.CopySize != 16 {
		t.Errorf("CopySize = %d, want 16", args.CopySize)
	}

	for i := 0; i < 4; i++ {
		ldr := body[i*2]
		str := body[i*2+1]

		if ldr&0xF800 != isrOpcodeLdrImm {
			t.Errorf("body[%d] = %#04x is not a load", i*2, ldr)
		}
		if str&0xF800 != isrOpcodeStrImm {
			t.Errorf("body[%d] = %#04x is not a store", i*2+1, str)
		}

		slice, _ := sliceInConcatenation(regs.SliceA, uint8(i))
		wantLdr, _ := encodeLdrImm(isrRegScratch, isrRegShadowBase, uint32(slice)*4)
		wantStr, _ := encodeStrImm(isrRegScratch, isrRegUserPtr, uint32(i)*4)
		if ldr != wantLdr {
			t.Errorf("body[%d] = %#04x, want %#04x", i*2, ldr, wantLdr)
		}
		if str != wantStr {
			t.Errorf("body[%d] = %#04x, want %#04x", i*2+1, str, wantStr)
		}
	}

	// The remaining 8 slots (16 total - 8 used) must be a branch
	// followed by NOPs, per spec.md §4.E's unused-slot policy.
	if body[8]&0xF800 != isrOpcodeBBase {
		t.Errorf("body[8] = %#04x, want an unconditional branch", body[8])
	}
	for i := 9; i < ISRBodySlots; i++ {
		if body[i] != isrOpcodeNOP {
			t.Errorf("body[%d] = %#04x, want NOP fill", i, body[i])
		}
	}
}

func TestSynthesizeISRBodyStreamOutLoadsFromUserPointer(t *testing.T) {
	f := &Function{
		Mode:             ModeStreamOut,
		BusWidth:         8,
		IOSlice:          regs.SliceA,
		BufferDepthOrder: 0,
	}

	body, _, err := synthesizeISRBody(f)
	if err != nil {
		t.Fatalf("synthesizeISRBody error: %v", err)
	}

	wantLdr, _ := encodeLdrImm(isrRegScratch, isrRegUserPtr, 0)
	wantStr, _ := encodeStrImm(isrRegScratch, isrRegShadowBase, uint32(regs.SliceA)*4)
	if body[0] != wantLdr {
		t.Errorf("body[0] = %#04x, want load from user pointer %#04x", body[0], wantLdr)
	}
	if body[1] != wantStr {
		t.Errorf("body[1] = %#04x, want store to shadow %#04x", body[1], wantStr)
	}
}

// synthesizeISRBody is exercised directly above rather than through
// generateAndInstallISR: that entry point also touches the live NVIC
// and SGPIO register blocks at their fixed physical addresses, which
// isn't safe to do from a hosted test binary.
func TestSynthesizeISRBodyRejectsUnsupportedMode(t *testing.T) {
	f := &Function{Mode: ModeClockGen, IOSlice: regs.SliceB, BufferDepthOrder: 0}
	if _, _, err := synthesizeISRBody(f); err != ErrUnsupported {
		t.Errorf("synthesizeISRBody(clock-gen) error = %v, want ErrUnsupported", err)
	}
}

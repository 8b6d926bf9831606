package sgpio

import (
	"unsafe"

	"github.com/greatscottgadgets/libgreat-go/irq"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// Thumb-16 register numbers the synthesized body addresses through. The
// template prologue (not reproduced here; it lives in the fixed ISR
// template region this generator patches) loads r0 with the shadow
// register base and r1 with the caller's buffer pointer before entering
// the body, leaving r2 free as a scratch register for each ldr/str pair.
const (
	isrRegShadowBase = 0
	isrRegUserPtr    = 1
	isrRegScratch    = 2
)

// Thumb-16 opcode bases for the "load/store word, immediate offset"
// format: bits 15:11 select store (0x6000) or load (0x6800); bits 10:6
// carry the word offset (imm5, so byte offset = imm5*4); bits 5:3 are the
// base register; bits 2:0 are the transferred register.
const (
	isrOpcodeStrImm = 0x6000
	isrOpcodeLdrImm = 0x6800
	isrOpcodeNOP    = 0xBF00 // NOP (hint #0)
	isrOpcodeBBase  = 0xE000 // unconditional branch, 11-bit signed half-word offset
)

// ISRBodySlots is the number of patchable 16-bit instruction slots in
// the ISR template's body span: one ldr/str pair per slice across the
// deepest chain a function can ever reach (spec.md §4.E).
const ISRBodySlots = int(regs.MaxSliceChainDepth) * 2

// ISRArgs is the fixed arguments block the template's prologue and
// epilogue consult: which exchange-clock bits to clear, how many bytes
// the body copies, and where the per-function bookkeeping lives.
type ISRArgs struct {
	InterruptClearMask   uint32
	CopySize             uint32
	Buffer               uintptr
	PositionInBufferVar  uintptr
	PositionInBufferMask uint32
	DataInBufferVar      uintptr
}

// isrProgram is a synthesized ISR: the patched body and its argument
// block, plus the function it was generated for (used to pick the
// runtime servicing routine — see exchangeClockISR).
type isrProgram struct {
	fn   *Function
	body [ISRBodySlots]uint16
	args ISRArgs
}

var installedISR isrProgram

// encodeWordOffset converts a byte offset into the 5-bit word-offset
// immediate the ldr/str immediate-offset encoding carries. Pure
// arithmetic: valid offsets are word-aligned and fit in 5 bits once
// divided by 4 (0..124 bytes), exactly the bound spec.md §4.E's
// correctness requirement names.
func encodeWordOffset(byteOffset uint32) (uint16, error) {
	if byteOffset%4 != 0 {
		return 0, ErrInvalidArgument
	}
	imm := byteOffset / 4
	if imm > 0x1F {
		return 0, ErrUnsupported
	}
	return uint16(imm), nil
}

// encodeLdrImm encodes `ldr rd, [rb, #byteOffset]`.
func encodeLdrImm(rd, rb uint8, byteOffset uint32) (uint16, error) {
	if rd > 7 || rb > 7 {
		return 0, ErrInvalidArgument
	}
	imm, err := encodeWordOffset(byteOffset)
	if err != nil {
		return 0, err
	}
	return isrOpcodeLdrImm | (imm << 6) | (uint16(rb) << 3) | uint16(rd), nil
}

// encodeStrImm encodes `str rd, [rb, #byteOffset]`.
func encodeStrImm(rd, rb uint8, byteOffset uint32) (uint16, error) {
	if rd > 7 || rb > 7 {
		return 0, ErrInvalidArgument
	}
	imm, err := encodeWordOffset(byteOffset)
	if err != nil {
		return 0, err
	}
	return isrOpcodeStrImm | (imm << 6) | (uint16(rb) << 3) | uint16(rd), nil
}

// encodeBranch encodes an unconditional `b` from body slot fromSlot to
// body slot toSlot, using the conventional PC+4 reference point: at
// runtime the Thumb PC while a branch instruction executes already
// points four bytes past it, so the offset recorded in the instruction
// is (target - (address_of_branch + 4)).
func encodeBranch(fromSlot, toSlot int) (uint16, error) {
	pc := int32(fromSlot)*2 + 4
	target := int32(toSlot) * 2
	offset := target - pc
	if offset%2 != 0 {
		return 0, ErrInvalidArgument
	}
	imm := offset / 2
	if imm < -1024 || imm > 1023 {
		return 0, ErrUnsupported
	}
	return isrOpcodeBBase | (uint16(imm) & 0x7FF), nil
}

// shadowSliceOffset returns the byte offset from the shadow-register
// base of the slice at chain position i of f's I/O chain.
func shadowSliceOffset(f *Function, i uint8) (uint32, error) {
	slice, err := sliceInConcatenation(f.IOSlice, i)
	if err != nil {
		return 0, err
	}
	return uint32(slice) * 4, nil
}

// synthesizeISRBody builds the patched body and argument block for f,
// per spec.md §4.E: one ldr/str pair per slice in the chain, then, when
// slots remain, a branch to the epilogue followed by NOP fill.
func synthesizeISRBody(f *Function) ([ISRBodySlots]uint16, ISRArgs, error) {
	var body [ISRBodySlots]uint16

	chain := f.chainLength()
	if int(chain)*2 > ISRBodySlots {
		return body, ISRArgs{}, ErrUnsupported
	}

	slot := 0
	for i := uint8(0); i < chain; i++ {
		shadowOffset, err := shadowSliceOffset(f, i)
		if err != nil {
			return body, ISRArgs{}, err
		}
		userOffset := uint32(i) * 4

		var loadReg, storeReg uint8
		var loadOffset, storeOffset uint32
		switch f.Mode {
		case ModeStreamIn:
			loadReg, loadOffset = isrRegShadowBase, shadowOffset
			storeReg, storeOffset = isrRegUserPtr, userOffset
		case ModeStreamOut, ModeFixedOut, ModeBidirectional:
			// Bidirectional's direction chain is serviced separately by
			// replenishDirection at interrupt time; only its data chain
			// follows the same load-then-store shape as a plain output.
			loadReg, loadOffset = isrRegUserPtr, userOffset
			storeReg, storeOffset = isrRegShadowBase, shadowOffset
		default:
			return body, ISRArgs{}, ErrUnsupported
		}

		ldr, err := encodeLdrImm(isrRegScratch, loadReg, loadOffset)
		if err != nil {
			return body, ISRArgs{}, err
		}
		str, err := encodeStrImm(isrRegScratch, storeReg, storeOffset)
		if err != nil {
			return body, ISRArgs{}, err
		}
		body[slot], body[slot+1] = ldr, str
		slot += 2
	}

	if slot < ISRBodySlots {
		branch, err := encodeBranch(slot, ISRBodySlots)
		if err != nil {
			return body, ISRArgs{}, err
		}
		body[slot] = branch
		slot++
		for ; slot < ISRBodySlots; slot++ {
			body[slot] = isrOpcodeNOP
		}
	}

	bufferSize := uint32(1) << f.BufferOrder
	var bufferPtr uintptr
	if f.Buffer != nil {
		bufferPtr = f.Buffer.BasePointer()
	}

	args := ISRArgs{
		InterruptClearMask:   1 << f.IOSlice,
		CopySize:             uint32(chain) * 4,
		Buffer:               bufferPtr,
		PositionInBufferVar:  positionInBufferAddr(f),
		PositionInBufferMask: bufferSize - 1,
		DataInBufferVar:      dataInBufferAddr(f),
	}
	return body, args, nil
}

// positionInBufferAddr and dataInBufferAddr expose the addresses of a
// function's own bookkeeping fields, matching what the template's
// argument block would hand a real machine-code ISR: the address of the
// per-function index variables, not their value.
func positionInBufferAddr(f *Function) uintptr { return uintptr(unsafe.Pointer(&f.PositionInBuffer)) }
func dataInBufferAddr(f *Function) uintptr     { return uintptr(unsafe.Pointer(&f.DataInBuffer)) }

// generateAndInstallISR is the code generator's entry point, called once
// planning settles. It enforces spec.md §4.E's documented limit of
// exactly one ISR-requiring function per context, synthesizes that
// function's ISR body as a validated opcode byte array, and installs the
// shared exchange-clock handler that services it.
func generateAndInstallISR(c *Context) error {
	irq.Disable(irq.SGPIO)

	var isrFunc *Function
	count := 0
	for _, f := range c.Functions {
		if f.Enabled && f.SwapIRQsRequired {
			count++
			isrFunc = f
		}
	}
	if count > 1 {
		return ErrUnsupported
	}

	reg := regs.SGPIO()

	if count == 0 {
		installedISR = isrProgram{}
		reg.ExchangeClockInterrupt.Enable.Set(0)
		irq.SetHandler(irq.SGPIO, nil)
		return nil
	}

	body, args, err := synthesizeISRBody(isrFunc)
	if err != nil {
		return err
	}
	installedISR = isrProgram{fn: isrFunc, body: body, args: args}

	reg.ExchangeClockInterrupt.ClearStatus.Set(args.InterruptClearMask)
	reg.ExchangeClockInterrupt.Enable.Set(args.InterruptClearMask)

	irq.SetHandler(irq.SGPIO, exchangeClockISR)
	irq.Enable(irq.SGPIO)
	return nil
}

// swapIRQMask reports the exchange-clock bits the installed ISR (if any)
// services, for Run/Halt to program the interrupt mask with.
func swapIRQMask() uint32 {
	if installedISR.fn == nil {
		return 0
	}
	return installedISR.args.InterruptClearMask
}

// exchangeClockISR is installed as the single SGPIO interrupt handler.
// The body synthesized by synthesizeISRBody is the artifact spec.md
// §4.E requires and this function's argument block describes exactly
// what it would do; the actual byte-copying at interrupt time runs
// through captureFunction/replenishFunction, the same routines
// set_up_functions's plan already points every other caller at, since
// this target has no supported way to branch program execution into a
// runtime-patched instruction buffer.
func exchangeClockISR() {
	f := installedISR.fn
	if f == nil {
		return
	}

	reg := regs.SGPIO()
	mask := installedISR.args.InterruptClearMask
	status := reg.ExchangeClockInterrupt.Status.Get()
	if status&mask == 0 {
		return
	}

	switch f.Mode {
	case ModeStreamIn:
		captureFunction(f)
	case ModeStreamOut, ModeBidirectional:
		replenishFunction(f)
	}

	reg.ExchangeClockInterrupt.ClearStatus.Set(mask)
}

package sgpio

import (
	"github.com/greatscottgadgets/libgreat-go/irq"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// prepopulate fills a STREAM_OUT, FIXED_OUT, or BIDIRECTIONAL function's
// entire slice chain from its ring buffer before the fabric starts
// shifting, so the first exchange has real data ready rather than
// whatever was left in the slice registers. Matches
// sgpio_handle_data_prepopulation: the chain is filled back-to-front
// (deepest slice first) and addressed by position_in_buffer rather than
// by draining the ring buffer's own read cursor, since a FIXED_OUT
// function with a buffer smaller than its chain must be able to wrap
// and repeat the same bytes indefinitely.
func prepopulate(f *Function) error {
	if f.Buffer == nil {
		return nil
	}

	if f.Mode == ModeBidirectional && f.HasDirectionSlice {
		prepopulateDirection(f)
	}

	reg := regs.SGPIO()
	chain := f.chainLength()
	bufferSize := uint32(1) << f.BufferOrder

	for i := int(chain) - 1; i >= 0; i-- {
		slice, err := sliceInConcatenation(f.IOSlice, uint8(i))
		if err != nil {
			return err
		}

		var word uint32
		for b := uint32(0); b < 4; b++ {
			value := f.Buffer.PeekAt(uint64(f.PositionInBuffer))
			word |= uint32(value) << (8 * (3 - b))
			f.PositionInBuffer = (f.PositionInBuffer + 1) % bufferSize
		}

		reg.Data[slice].Set(word)
		reg.DataShadow[slice].Set(word)
	}

	f.DataInBuffer = 0
	return nil
}

// prepopulateDirection fills a BIDIRECTIONAL function's direction-slice
// chain ahead of the data chain it accompanies, per spec.md §4.F: the
// direction fabric shifts 1 bit per data shift in serial mode and 2 bits
// per data shift in any parallel mode, so it needs as many bytes per swap
// as the data chain for 1- and 2-bit buses and fewer for wider ones; a
// fractional trailing word is filled out with its last byte rather than
// left short.
func prepopulateDirection(f *Function) {
	if f.DirectionBuffer == nil {
		return
	}

	reg := regs.SGPIO()
	chain := f.directionChainLength()
	dirBufferSize := uint32(f.DirectionBuffer.Size())

	bitsPerShift := uint32(1)
	if f.BusWidth != 1 {
		bitsPerShift = 2
	}

	ioSwap := regs.DecodeSwapControl(reg.DataBufferSwapControl[f.IOSlice].Get())
	shiftsPerSwap := ioSwap.ShiftsPerBufferSwap + 1
	remainingBytes := (shiftsPerSwap * bitsPerShift) / 8

	for i := int(chain) - 1; i >= 0; i-- {
		slice, err := sliceInConcatenation(f.DirectionSlice, uint8(i))
		if err != nil {
			return
		}

		fullBytes := remainingBytes
		if fullBytes > 4 {
			fullBytes = 4
		}

		var word uint32
		var b uint32
		for ; b < fullBytes; b++ {
			value := f.DirectionBuffer.PeekAt(uint64(f.DirectionPositionInBuffer))
			word |= uint32(value) << (8 * (3 - b))
			f.DirectionPositionInBuffer = (f.DirectionPositionInBuffer + 1) % dirBufferSize
		}
		if fullBytes < 4 && fullBytes > 0 {
			// Partial-word tail: expand the last byte actually present
			// across the remaining, otherwise-unshifted byte lanes.
			value := f.DirectionBuffer.PeekAt(uint64(f.DirectionPositionInBuffer) + uint64(dirBufferSize) - 1)
			for ; b < 4; b++ {
				word |= uint32(value) << (8 * (3 - b))
			}
		}

		reg.Data[slice].Set(word)
		reg.DataShadow[slice].Set(word)

		if remainingBytes > 4 {
			remainingBytes -= 4
		} else {
			remainingBytes = 0
		}
	}
}

// captureFunction drains one chain's worth of freshly shifted-in data
// from a STREAM_IN function's slices into its ring buffer, overwriting
// the oldest unread byte if the caller hasn't kept up. Runs from the
// exchange-clock ISR. Bytes are extracted MSB-first within each 32-bit
// shadow word (byte-within-slice = 3 − (byte_index mod 4)), matching
// spec.md §4.F's residual-capture byte order — the same packing the
// hardware uses for every word it shifts, not just the halt-time case.
func captureFunction(f *Function) {
	if f.Buffer == nil {
		return
	}

	reg := regs.SGPIO()
	chain := f.chainLength()

	for i := uint8(0); i < chain; i++ {
		slice, err := sliceInConcatenation(f.IOSlice, i)
		if err != nil {
			return
		}
		word := reg.DataShadow[slice].Get()
		for b := uint32(0); b < 4; b++ {
			f.Buffer.EnqueueOverwrite(byte(word >> (8 * (3 - b))))
		}
	}

	f.DataInBuffer += uint32(chain) * 4

	if f.ShiftCountLimit != 0 {
		f.PositionInBuffer += uint32(chain) * 4
	}
}

// replenishFunction refills one chain's worth of a STREAM_OUT or
// BIDIRECTIONAL function's slices from its ring buffer after the
// hardware has swapped to the shadow half, keeping the output stream
// continuous. Runs from the exchange-clock ISR.
func replenishFunction(f *Function) {
	if f.Buffer == nil {
		return
	}

	reg := regs.SGPIO()
	chain := f.chainLength()

	for i := uint8(0); i < chain; i++ {
		slice, err := sliceInConcatenation(f.IOSlice, i)
		if err != nil {
			return
		}

		var word uint32
		for b := uint32(0); b < 4; b++ {
			lo, err := f.Buffer.Dequeue()
			if err != nil {
				break
			}
			word |= uint32(lo) << (8 * (3 - b))
		}
		reg.DataShadow[slice].Set(word)
	}

	if f.HasDirectionSlice {
		replenishDirection(f)
	}
}

// replenishDirection refills a BIDIRECTIONAL function's direction-slice
// shadow register from its direction buffer, when the caller supplies
// one; functions that leave DirectionBuffer nil keep whatever direction
// pattern setUpOutputPinsForFunction last wrote.
func replenishDirection(f *Function) {
	if f.DirectionBuffer == nil {
		return
	}

	reg := regs.SGPIO()
	var word uint32
	for b := uint32(0); b < 4; b++ {
		lo, err := f.DirectionBuffer.Dequeue()
		if err != nil {
			break
		}
		word |= uint32(lo) << (8 * (3 - b))
	}
	reg.DataShadow[f.DirectionSlice].Set(word)
}

// captureRemaining drains whatever data is still sitting in a STREAM_IN
// function's active slices after Halt, so a caller that stops the
// fabric mid-transfer doesn't lose the last partial chain's worth of
// samples. Mirrors sgpio_capture_remaining_data_for_function: the halt
// cause matters. A shift-limit termination (the I/O slice's
// shifts_per_buffer_swap reads 0 and its cycle_count has run out) means
// the hardware swapped data into the shadow registers just before
// stopping, and exactly (shift_count_limit·bus_width)/8 residual bytes
// are sitting there. A manual halt's residual lives in the data
// register instead; the original driver leaves that path as a TODO, and
// per the recorded Open Question decision this rewrite matches that
// behavior rather than inventing semantics the source never defined.
func captureRemaining(f *Function) {
	if f.Mode != ModeStreamIn || f.Buffer == nil {
		return
	}

	reg := regs.SGPIO()
	ioSwap := regs.DecodeSwapControl(reg.DataBufferSwapControl[f.IOSlice].Get())
	shiftLimitTermination := ioSwap.ShiftsPerBufferSwap == 0 && reg.CycleCount[f.IOSlice].Get() == 0
	if !shiftLimitTermination {
		return
	}

	bufferSize := uint32(1) << f.BufferOrder
	residualBytes := (f.ShiftCountLimit * uint32(f.BusWidth)) / 8

	for b := uint32(0); b < residualBytes; b++ {
		slice, err := sliceInConcatenation(f.IOSlice, uint8(b/4))
		if err != nil {
			return
		}
		word := reg.DataShadow[slice].Get()
		byteInSlice := 3 - (b % 4)
		f.Buffer.PutAt(uint64(f.PositionInBuffer), byte(word>>(8*byteInSlice)))
		f.PositionInBuffer = (f.PositionInBuffer + 1) % bufferSize
	}
	f.DataInBuffer += residualBytes
}

// Run starts the SGPIO fabric: prepopulates every outbound function's
// slices, arms the exchange-clock interrupt for whichever function (if
// any) the code generator installed an ISR for, then enables the shift
// clock for every slice in use. Must be called after SetUpFunctions.
// Per spec.md §5's ordering guarantee, the SGPIO IRQ's pending state is
// cleared before it is (re)enabled, so a stale pending bit left over
// from a previous run can't trigger a spurious shuttle.
func Run(c *Context) error {
	if c.Running() {
		return nil
	}

	reg := regs.SGPIO()
	reg.ShiftClockEnable.Set(0)

	for _, f := range c.Functions {
		if !f.Enabled {
			continue
		}
		switch f.Mode {
		case ModeStreamOut, ModeFixedOut, ModeBidirectional:
			if err := prepopulate(f); err != nil {
				return err
			}
		}
	}

	mask := swapIRQMask()
	reg.ExchangeClockInterrupt.Enable.Set(mask)
	reg.ExchangeClockInterrupt.ClearStatus.Set(mask)
	irq.MarkServiced(irq.SGPIO)
	if mask != 0 {
		irq.Enable(irq.SGPIO)
	} else {
		irq.Disable(irq.SGPIO)
	}

	reg.ShiftClockEnable.Set(uint32(c.SlicesInUse))
	return nil
}

// RunBlocking starts the fabric and spins until it halts on its own —
// every enabled function has a nonzero ShiftCountLimit and has stopped
// shifting — then halts it for real. Ported from sgpio_run_blocking, for
// callers whose functions all have a fixed, known length.
func RunBlocking(c *Context) error {
	if err := Run(c); err != nil {
		return err
	}

	for c.Running() {
	}

	Halt(c)
	return nil
}

// Halt stops the SGPIO fabric, disables its exchange-clock interrupt,
// and, for every STREAM_IN function, drains whatever data was captured
// since the last exchange so no samples are silently dropped.
func Halt(c *Context) {
	reg := regs.SGPIO()
	if reg.ShiftClockEnable.Get()&uint32(c.SlicesInUse) == 0 {
		return
	}

	reg.StopOnNextBufferSwap.Set(uint32(c.SlicesInUse))
	reg.ShiftClockEnable.Set(0)

	mask := swapIRQMask()
	reg.ExchangeClockInterrupt.ClearStatus.Set(mask)
	irq.Disable(irq.SGPIO)

	for _, f := range c.Functions {
		if f.Enabled && f.Mode == ModeStreamIn {
			captureRemaining(f)
		}
	}
}

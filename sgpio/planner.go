package sgpio

import (
	"github.com/greatscottgadgets/libgreat-go/printk"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// maxChainDepth returns the deepest chain a function's mode may grow to,
// before any user-buffer-size limiting — clockgen never grows, ordinary
// unidirectional buses may use the whole 8-slice span, and bidirectional
// buses get the whole span only when their I/O slice is A; with any other
// I/O slice the span is halved (they must reserve D/H/O/P for direction).
func maxChainDepth(f *Function) uint8 {
	switch f.Mode {
	case ModeClockGen:
		return 1
	case ModeBidirectional:
		if f.IOSlice != regs.SliceA {
			return regs.MaxSliceChainDepth / 2
		}
		return regs.MaxSliceChainDepth
	default:
		return regs.MaxSliceChainDepth
	}
}

// maxUsefulBufferDepth caps maxChainDepth(f) by how many slices the
// caller's ring buffer can actually fill, per
// sgpio_limit_buffer_depth_to_user_buffer_size: FIXED_OUT functions can
// use both the data and shadow register to hold the same content, so
// they need half as many slices as other modes for the same byte count.
func maxUsefulBufferDepth(f *Function) uint8 {
	limit := maxChainDepth(f)

	bufferBytes := uint32(1) << f.BufferOrder
	if bufferBytes < 4 {
		return 1
	}
	bufferSlices := bufferBytes / 4

	if f.Mode == ModeFixedOut && bufferSlices > 1 {
		bufferSlices /= 2
	}

	if bufferSlices > uint32(limit) {
		return limit
	}
	return uint8(bufferSlices)
}

// setUpPin routes one SGPIO pin through the SCU to the SGPIO function
// select, applying the requested pull configuration, and marks it used.
func setUpPin(c *Context, pin PinConfiguration) error {
	function, err := scuFunctionFor(pin.SGPIOPin, pin.SCUGroup, pin.SCUPin)
	if err != nil {
		printk.Errorf("sgpio: no SCU mapping for SGPIO%d -> P%d_%d", pin.SGPIOPin, pin.SCUGroup, pin.SCUPin)
		return err
	}

	cfg := regs.FastIOPinConfig(uint32(function), pin.PullResistors)
	regs.SCU().ConfigurePin(pin.SCUGroup, pin.SCUPin, cfg)

	c.PinsInUse |= 1 << pin.SGPIOPin
	return nil
}

// setUpBusTopology selects the slice's parallel-shift width from the
// function's requested bus width (promoting 3/5/6/7 up to 4/8 with a
// warning, per spec.md's boundary behavior), resets its chain to depth
// one, and programs the initial single-slice double buffering.
func setUpBusTopology(f *Function, slice uint8) error {
	reg := regs.SGPIO()
	fc := regs.DecodeFeatureControl(reg.FeatureControl[slice].Get())

	switch f.BusWidth {
	case 1:
		fc.ParallelMode = regs.ParallelModeSerial
	case 2:
		fc.ParallelMode = regs.ParallelMode2Bit
	case 3:
		printk.Warnf("sgpio: cannot create a 3-bit bus; creating a 4-bit bus instead")
		f.BusWidth = 4
		fc.ParallelMode = regs.ParallelMode4Bit
	case 4:
		fc.ParallelMode = regs.ParallelMode4Bit
	case 5, 6, 7:
		printk.Warnf("sgpio: cannot create a %d-bit bus; creating an 8-bit bus instead", f.BusWidth)
		f.BusWidth = 8
		fc.ParallelMode = regs.ParallelMode8Bit
	case 8:
		fc.ParallelMode = regs.ParallelMode8Bit
	default:
		return ErrInvalidArgument
	}
	reg.FeatureControl[slice].Set(fc.Encode())

	sc := regs.DecodeShiftConfig(reg.ShiftConfig[slice].Get())
	sc.EnableConcatenation = false
	reg.ShiftConfig[slice].Set(sc.Encode())
	f.BufferDepthOrder = 0

	setUpDoubleBuffering(f.IOSlice, 1, f.BusWidth)
	return nil
}

// setUpFunction performs the initial, minimal-hardware placement of one
// function: pin muxing, I/O-slice selection, clock, qualifier, and bus
// topology. This is step 2 of spec.md §4.D's algorithm; buffer growth
// happens later, in the optimization pass.
func setUpFunction(c *Context, f *Function) error {
	if !f.Enabled {
		return nil
	}
	if len(f.PinConfigurations) == 0 || int(f.BusWidth) > len(f.PinConfigurations) {
		return ErrInvalidArgument
	}

	firstPin := f.PinConfigurations[0].SGPIOPin

	for i := uint8(0); i < f.BusWidth; i++ {
		if err := setUpPin(c, f.PinConfigurations[i]); err != nil {
			return err
		}
	}

	var err error
	switch f.Mode {
	case ModeStreamIn, ModeStreamOut, ModeFixedOut, ModeBidirectional:
		f.IOSlice, err = SliceForIO(firstPin)
	case ModeClockGen:
		f.IOSlice, err = SliceForClockgen(firstPin)
	default:
		return ErrUnsupported
	}
	if err != nil {
		return err
	}

	if c.SlicesInUse&(1<<f.IOSlice) != 0 {
		return ErrBusy
	}

	if f.Mode == ModeBidirectional {
		if err := setUpDirectionSlice(c, f); err != nil {
			return err
		}
	}

	if err := setUpClocking(c, f, f.IOSlice); err != nil {
		return err
	}
	setUpShiftCondition(f, f.IOSlice)
	if err := setUpBusTopology(f, f.IOSlice); err != nil {
		return err
	}

	c.SlicesInUse |= 1 << f.IOSlice
	if f.HasDirectionSlice {
		c.SlicesInUse |= 1 << f.DirectionSlice
	}
	return nil
}

// setUpDirectionSlice picks the direction slice for a BIDIRECTIONAL
// function, per the width-dependent tables in spec.md §4.D, and claims
// it, failing with ErrBusy if it's already in use by another function.
func setUpDirectionSlice(c *Context, f *Function) error {
	firstPin := f.PinConfigurations[0]

	var dirSlice uint8
	switch f.BusWidth {
	case 8, 4:
		dirSlice = directionSliceTableWide[firstPin.SCUGroup%4]
	case 2:
		dirSlice = directionSliceTable2Bit[firstPin.SGPIOPin%8]
	case 1:
		var err error
		dirSlice, err = SliceForIO((firstPin.SGPIOPin + 8) % regs.NumPins)
		if err != nil {
			return err
		}
	default:
		return ErrInvalidArgument
	}

	if c.SlicesInUse&(1<<dirSlice) != 0 {
		return ErrBusy
	}

	f.DirectionSlice = dirSlice
	f.HasDirectionSlice = true
	return nil
}

// slicesForBufferFree reports whether every slice the chain would need
// at depths [firstNewDepth, depth) is currently unclaimed.
func slicesForBufferFree(c *Context, ioSlice uint8, firstNewDepth, depth uint8) bool {
	for i := firstNewDepth; i < depth; i++ {
		target, err := sliceInConcatenation(ioSlice, i)
		if err != nil {
			return false
		}
		if c.SlicesInUse&(1<<target) != 0 {
			return false
		}
	}
	return true
}

// copySliceProperties copies one slice's shift-config, feature-control,
// and clock-timing registers onto another, the way the planner clones
// the I/O slice's configuration onto each newly chained slice.
func copySliceProperties(to, from uint8) {
	reg := regs.SGPIO()
	reg.ShiftConfig[to].Set(reg.ShiftConfig[from].Get())
	reg.FeatureControl[to].Set(reg.FeatureControl[from].Get())
	reg.CyclesPerShiftClock[to].Set(reg.CyclesPerShiftClock[from].Get())
	reg.CycleCount[to].Set(reg.CycleCount[from].Get())
	reg.DataBufferSwapControl[to].Set(reg.DataBufferSwapControl[from].Get())
}

// attemptToDoubleBufferSize tries to grow a unidirectional or
// bidirectional function's chain from its current depth to twice that
// depth, refusing if the larger chain would exceed the mode's maximum,
// the user's buffer size, or collide with a slice already in use.
func attemptToDoubleBufferSize(c *Context, f *Function) bool {
	order := f.BufferDepthOrder
	desiredOrder := order + 1

	currentDepth := uint8(1) << order
	desiredDepth := uint8(1) << desiredOrder

	if desiredDepth > maxUsefulBufferDepth(f) {
		return false
	}
	if !slicesForBufferFree(c, f.IOSlice, currentDepth, desiredDepth) {
		return false
	}
	if f.Mode == ModeBidirectional {
		if !attemptToGrowDirectionChain(c, f, desiredDepth) {
			return false
		}
	}

	f.BufferDepthOrder = desiredOrder
	setUpDoubleBuffering(f.IOSlice, desiredDepth, f.BusWidth)

	for i := uint8(0); i < desiredDepth; i++ {
		target, err := sliceInConcatenation(f.IOSlice, i)
		if err != nil {
			return false
		}

		if target != f.IOSlice {
			copySliceProperties(target, f.IOSlice)
		}

		reg := regs.SGPIO()
		sc := regs.DecodeShiftConfig(reg.ShiftConfig[target].Get())
		sc.EnableConcatenation = f.Mode != ModeStreamIn || target != f.IOSlice
		sc.ConcatenationOrder = uint32(desiredOrder)
		reg.ShiftConfig[target].Set(sc.Encode())

		c.SlicesInUse |= 1 << target
	}

	return true
}

// attemptToGrowDirectionChain extends a bidirectional function's
// direction-slice chain to cover the new data-chain depth. Per the
// Open Question decision in SPEC_FULL.md, this writes
// DirectionBufferDepthOrder (not BufferDepthOrder) — fixing the
// original driver's documented typo rather than reproducing it.
func attemptToGrowDirectionChain(c *Context, f *Function, newDataDepth uint8) bool {
	neededDirectionDepth := newDataDepth
	if f.BusWidth != 1 {
		// In any parallel mode the direction slice carries 2 bits per
		// shift rather than 1, so it needs half as many slices for the
		// same number of data shifts.
		neededDirectionDepth = (newDataDepth + 1) / 2
		if neededDirectionDepth == 0 {
			neededDirectionDepth = 1
		}
	}

	currentDepth := uint8(1) << f.DirectionBufferDepthOrder
	if neededDirectionDepth <= currentDepth {
		return true
	}

	desiredOrder := f.DirectionBufferDepthOrder + 1
	desiredDepth := uint8(1) << desiredOrder

	if !slicesForBufferFree(c, f.DirectionSlice, currentDepth, desiredDepth) {
		return false
	}

	f.DirectionBufferDepthOrder = desiredOrder
	setUpDoubleBuffering(f.DirectionSlice, desiredDepth, 2)

	for i := currentDepth; i < desiredDepth; i++ {
		target, err := sliceInConcatenation(f.DirectionSlice, i)
		if err != nil {
			return false
		}
		copySliceProperties(target, f.DirectionSlice)
		c.SlicesInUse |= 1 << target
	}

	return true
}

// attemptBufferOptimization runs one pass of the doubling optimizer over
// every enabled function and reports whether the configuration is
// already optimal (no function grew).
func attemptBufferOptimization(c *Context) bool {
	optimal := true
	for _, f := range c.Functions {
		if !f.Enabled {
			continue
		}
		switch f.Mode {
		case ModeStreamIn, ModeStreamOut, ModeFixedOut, ModeBidirectional:
			if attemptToDoubleBufferSize(c, f) {
				optimal = false
			}
		case ModeClockGen:
			// Clock generators never benefit from a longer chain.
		}
	}
	return optimal
}

// outputModeForBusWidth returns the Mode-A output-bus-mode constant for
// the given bus width, promoting widths the way setUpBusTopology does.
func outputModeForBusWidth(width uint8) uint32 {
	switch width {
	case 1:
		return regs.OutputMode1Bit
	case 2:
		return regs.OutputMode2BitA
	case 3, 4:
		return regs.OutputMode4BitA
	case 5, 6, 7, 8:
		return regs.OutputMode8BitA
	default:
		printk.Warnf("sgpio: invalid bus width %d", width)
		return regs.OutputModeGPIO
	}
}

func directionModeForBusWidth(width uint8) uint32 {
	switch width {
	case 1:
		return regs.DirectionMode1Bit
	case 2:
		return regs.DirectionMode2Bit
	case 4:
		return regs.DirectionMode4Bit
	default:
		return regs.DirectionMode8Bit
	}
}

// setUpOutputPinsForFunction programs every pin a function claims with
// the output-bus mode and direction-source policy spec.md §4.D step 4
// names for that mode.
func setUpOutputPinsForFunction(f *Function) {
	reg := regs.SGPIO()

	for i := uint8(0); i < f.BusWidth; i++ {
		pin := f.PinConfigurations[i].SGPIOPin

		switch f.Mode {
		case ModeStreamIn:
			reg.OutputConfig[pin].Set(regs.SetOutputConfig(regs.OutputModeGPIO, regs.UsePinDirectionRegister))
			reg.PinDirection.Set(reg.PinDirection.Get() &^ (1 << pin))

		case ModeStreamOut, ModeFixedOut:
			reg.OutputConfig[pin].Set(regs.SetOutputConfig(outputModeForBusWidth(f.BusWidth), regs.UsePinDirectionRegister))
			reg.PinDirection.Set(reg.PinDirection.Get() | (1 << pin))

		case ModeClockGen:
			reg.OutputConfig[pin].Set(regs.SetOutputConfig(regs.OutputModeClockOut, regs.UsePinDirectionRegister))
			reg.PinDirection.Set(reg.PinDirection.Get() | (1 << pin))

		case ModeBidirectional:
			reg.OutputConfig[pin].Set(regs.SetOutputConfig(outputModeForBusWidth(f.BusWidth), directionModeForBusWidth(f.BusWidth)))
			if f.HasDirectionSlice {
				reg.Data[f.DirectionSlice].Set(0)
			}
		}
	}

	if f.ClockOutputPin {
		setUpShiftClockOutput(f)
	}
}

// setUpShiftClockOutput wires a function's dedicated clock-output pin,
// either reusing an already-matching clock-gen slice or claiming a free
// one and copying the I/O slice's clock configuration onto it.
func setUpShiftClockOutput(f *Function) error {
	firstPin := f.PinConfigurations[0].SGPIOPin
	clockSlice, err := SliceForClockgen(firstPin)
	if err != nil {
		return err
	}

	reg := regs.SGPIO()
	existingDivisor := reg.CyclesPerShiftClock[clockSlice].Get()
	ioDivisor := reg.CyclesPerShiftClock[f.IOSlice].Get()

	if existingDivisor != ioDivisor {
		copySliceProperties(clockSlice, f.IOSlice)
	}

	pin, err := IOPinForSlice(clockSlice)
	if err == nil {
		reg.OutputConfig[pin].Set(regs.SetOutputConfig(regs.OutputModeClockOut, regs.UsePinDirectionRegister))
	}
	return nil
}

// applyShiftLimits programs every slice in every function's chain to
// stop after ShiftCountLimit shifts, failing if the limit can't fit in
// one full chain span (spec.md §4.D step 5).
func applyShiftLimits(f *Function) error {
	if f.ShiftCountLimit == 0 {
		return nil
	}

	reg := regs.SGPIO()
	chain := f.chainLength()
	shiftsPerSwap := (uint32(regs.BitsPerSlice) * uint32(chain)) / uint32(f.BusWidth)

	if f.ShiftCountLimit > shiftsPerSwap {
		return ErrCannotMeetShiftLimit
	}

	for i := uint8(0); i < chain; i++ {
		slice, err := sliceInConcatenation(f.IOSlice, i)
		if err != nil {
			return err
		}
		reg.DataBufferSwapControl[slice].Set(regs.SwapControl{
			ShiftsPerBufferSwap: 0,
			ShiftsRemaining:     f.ShiftCountLimit - 1,
		}.Encode())
		reg.StopOnNextBufferSwap.Set(reg.StopOnNextBufferSwap.Get() | (1 << slice))
	}

	return nil
}

// isISRNecessary implements the §4.E "ISR needed" predicate: clock
// generators never need one; fixed-output functions whose whole buffer
// fits in the data+shadow pair don't; stream-in functions whose shift
// limit captures no more than one chain span don't either.
func isISRNecessary(f *Function) bool {
	if f.NeverSynthesizeISR {
		return false
	}
	if f.Mode == ModeClockGen {
		return false
	}

	chain := f.chainLength()
	chainBytes := uint32(chain) * 4

	if f.Mode == ModeFixedOut {
		bufferBytes := uint32(1) << f.BufferOrder
		if bufferBytes <= chainBytes*2 {
			return false
		}
	}

	if f.Mode == ModeStreamIn && f.ShiftCountLimit != 0 {
		limitBytes := (f.ShiftCountLimit * uint32(f.BusWidth)) / 8
		if limitBytes <= chainBytes {
			return false
		}
	}

	return true
}

// SetUpFunctions is the planner's public entry point: disables every
// slice's shift clock and returns every pin to GPIO input, places and
// optimizes every enabled function, programs output pins and shift
// limits, and generates/installs an ISR if any function needs one. It
// does not assert the SGPIO peripheral's reset line; slice registers
// that no function claims keep their previous contents.
func SetUpFunctions(c *Context) error {
	reg := regs.SGPIO()

	ensureClockUp(c)
	c.stale = false

	reg.ShiftClockEnable.Set(0)
	c.SlicesInUse = 0
	c.PinsInUse = 0

	for i := 0; i < regs.NumPins; i++ {
		reg.OutputConfig[i].Set(regs.SetOutputConfig(regs.OutputModeGPIO, regs.UsePinDirectionRegister))
	}
	reg.PinDirection.Set(0)

	for _, f := range c.Functions {
		if err := setUpFunction(c, f); err != nil {
			printk.Errorf("sgpio: could not apply function: %v", err)
			return err
		}
	}

	for !attemptBufferOptimization(c) {
	}

	for _, f := range c.Functions {
		if !f.Enabled {
			continue
		}
		setUpOutputPinsForFunction(f)
		if err := applyShiftLimits(f); err != nil {
			return err
		}
		f.SwapIRQsRequired = isISRNecessary(f)
	}

	return generateAndInstallISR(c)
}

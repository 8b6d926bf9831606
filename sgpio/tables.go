package sgpio

import "github.com/greatscottgadgets/libgreat-go/regs"

// scuMapping is one row of the fixed SGPIO-pin-to-chip-pin table: which
// SCU (group, pin) combination, when muxed to the given function-select
// value, carries the given SGPIO signal.
type scuMapping struct {
	sgpioPin uint8
	group    uint8
	pin      uint8
	function uint8
}

// scuMappings reproduces the LPC43xx datasheet's SGPIO pin-mux table
// byte-for-byte (42 entries); grounded directly on sgpio.c's
// scu_mappings[].
var scuMappings = [...]scuMapping{
	{sgpioPin: 0, group: 0, pin: 0, function: 3},
	{sgpioPin: 1, group: 0, pin: 1, function: 3},
	{sgpioPin: 7, group: 1, pin: 0, function: 6},
	{sgpioPin: 8, group: 1, pin: 1, function: 3},
	{sgpioPin: 9, group: 1, pin: 2, function: 3},
	{sgpioPin: 10, group: 1, pin: 3, function: 2},
	{sgpioPin: 11, group: 1, pin: 4, function: 2},
	{sgpioPin: 15, group: 1, pin: 5, function: 6},
	{sgpioPin: 14, group: 1, pin: 6, function: 6},
	{sgpioPin: 8, group: 1, pin: 12, function: 6},
	{sgpioPin: 9, group: 1, pin: 13, function: 6},
	{sgpioPin: 10, group: 1, pin: 14, function: 6},
	{sgpioPin: 2, group: 1, pin: 15, function: 2},
	{sgpioPin: 3, group: 1, pin: 16, function: 2},
	{sgpioPin: 11, group: 1, pin: 17, function: 6},
	{sgpioPin: 12, group: 1, pin: 18, function: 6},
	{sgpioPin: 13, group: 1, pin: 20, function: 6},
	{sgpioPin: 4, group: 2, pin: 0, function: 1},
	{sgpioPin: 5, group: 2, pin: 1, function: 0},
	{sgpioPin: 6, group: 2, pin: 2, function: 0},
	{sgpioPin: 12, group: 2, pin: 3, function: 0},
	{sgpioPin: 13, group: 2, pin: 4, function: 0},
	{sgpioPin: 14, group: 2, pin: 5, function: 0},
	{sgpioPin: 7, group: 2, pin: 6, function: 0},
	{sgpioPin: 15, group: 2, pin: 8, function: 0},
	{sgpioPin: 8, group: 4, pin: 2, function: 7},
	{sgpioPin: 9, group: 4, pin: 3, function: 7},
	{sgpioPin: 10, group: 4, pin: 4, function: 7},
	{sgpioPin: 11, group: 4, pin: 5, function: 7},
	{sgpioPin: 12, group: 4, pin: 6, function: 7},
	{sgpioPin: 13, group: 4, pin: 8, function: 7},
	{sgpioPin: 14, group: 4, pin: 9, function: 7},
	{sgpioPin: 15, group: 4, pin: 10, function: 7},
	{sgpioPin: 4, group: 6, pin: 3, function: 2},
	{sgpioPin: 5, group: 6, pin: 6, function: 2},
	{sgpioPin: 6, group: 6, pin: 7, function: 2},
	{sgpioPin: 7, group: 6, pin: 8, function: 2},
	{sgpioPin: 4, group: 7, pin: 0, function: 7},
	{sgpioPin: 5, group: 7, pin: 1, function: 7},
	{sgpioPin: 6, group: 7, pin: 2, function: 7},
	{sgpioPin: 7, group: 7, pin: 7, function: 7},
	{sgpioPin: 3, group: 9, pin: 5, function: 6},
	{sgpioPin: 8, group: 9, pin: 6, function: 6},
}

// scuFunctionFor returns the SCU function-select value for routing the
// given SGPIO pin to the given chip (group, pin), or ErrInvalidPinMapping
// if no such mapping exists.
func scuFunctionFor(sgpioPin, group, pin uint8) (uint8, error) {
	for _, m := range scuMappings {
		if m.sgpioPin == sgpioPin && m.group == group && m.pin == pin {
			return m.function, nil
		}
	}
	return 0, ErrInvalidPinMapping
}

// ioSliceTable maps SGPIO pin index (0..15) to the slice that serves as
// its I/O boundary for STREAM_IN/STREAM_OUT/FIXED_OUT/BIDIRECTIONAL.
var ioSliceTable = [regs.NumPins]uint8{
	regs.SliceA, regs.SliceI, regs.SliceE, regs.SliceJ,
	regs.SliceC, regs.SliceK, regs.SliceF, regs.SliceL,
	regs.SliceB, regs.SliceM, regs.SliceG, regs.SliceN,
	regs.SliceD, regs.SliceO, regs.SliceH, regs.SliceP,
}

// clockgenSliceTable maps SGPIO pin index to the slice used when that
// pin serves as a CLOCK_GEN output.
var clockgenSliceTable = [regs.NumPins]uint8{
	regs.SliceB, regs.SliceD, regs.SliceE, regs.SliceH,
	regs.SliceC, regs.SliceF, regs.SliceO, regs.SliceP,
	regs.SliceA, regs.SliceM, regs.SliceG, regs.SliceN,
	regs.SliceI, regs.SliceJ, regs.SliceK, regs.SliceL,
}

// SliceForIO returns the I/O-boundary slice for the given SGPIO pin.
func SliceForIO(pin uint8) (uint8, error) {
	if int(pin) >= regs.NumPins {
		return 0, ErrInvalidArgument
	}
	return ioSliceTable[pin], nil
}

// IOPinForSlice returns the SGPIO pin whose I/O slice is the given
// slice, the inverse of SliceForIO.
func IOPinForSlice(slice uint8) (uint8, error) {
	for pin, s := range ioSliceTable {
		if s == slice {
			return uint8(pin), nil
		}
	}
	return 0, ErrInvalidArgument
}

// SliceForClockgen returns the CLOCK_GEN slice for the given pin.
func SliceForClockgen(pin uint8) (uint8, error) {
	if int(pin) >= regs.NumPins {
		return 0, ErrInvalidArgument
	}
	return clockgenSliceTable[pin], nil
}

// sliceInConcatenation returns the slice at depth `depth` in the I/O
// chain rooted at ioSlice. It works by mapping the I/O slice back to its
// pin, then stepping that pin index forward by depth and looking up the
// resulting slice — exactly the original driver's two-hop lookup, which
// assumes no wraparound (always true since chains only grow forward from
// the I/O slice).
func sliceInConcatenation(ioSlice uint8, depth uint8) (uint8, error) {
	pin, err := IOPinForSlice(ioSlice)
	if err != nil {
		return 0, err
	}
	return SliceForIO(pin + depth)
}

// Direction-slice tables for BIDIRECTIONAL mode, keyed by the first
// pin's SCU group (widths 8/4) or by pin index directly (width 2); width
// 1 uses the "mirror" I/O slice (pin+8) instead of a table.
var directionSliceTableWide = map[uint8]uint8{
	0: regs.SliceH, // pins 0-7 share one pin group in the datasheet's bidirectional layout
	1: regs.SliceO,
	2: regs.SliceP,
	3: regs.SliceN,
}

var directionSliceTable2Bit = [8]uint8{
	regs.SliceH, regs.SliceO, regs.SliceP, regs.SliceN,
	regs.SliceH, regs.SliceO, regs.SliceP, regs.SliceN,
}

// ClockSourceForPin exposes the pin→clock-source mapping the original
// driver uses when an external pin (SGPIO08-11) supplies the shift
// clock, ported from sgpio_clock_source_from_pin_configuration.
func ClockSourceForPin(pin uint8) (ShiftClockSource, error) {
	switch pin {
	case 8, 9, 10, 11:
		return ShiftClockSource{Type: ClockSourceTypePin, Selector: uint32(pin - 8)}, nil
	default:
		return ShiftClockSource{}, ErrInvalidArgument
	}
}

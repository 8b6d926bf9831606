package sgpio

import (
	"github.com/greatscottgadgets/libgreat-go/printk"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// sgpioBranchClock is the CCU branch clock that feeds the SGPIO fabric's
// local shift-clock dividers; wired to the periph.sgpio branch the
// default graph registers in clock/graph.go.
func sgpioBranchClock() *regs.BranchClock {
	return &regs.CCU1().Periph.SGPIO
}

// setUpClocking programs a slice's shift-clock source and, for a local
// clock, the divider that derives the requested frequency from the
// SGPIO branch clock. It writes the achieved frequency back into the
// function so the caller can observe rounding.
func setUpClocking(c *Context, f *Function, slice uint8) error {
	reg := regs.SGPIO()

	sc := regs.DecodeShiftConfig(reg.ShiftConfig[slice].Get())
	fc := regs.DecodeFeatureControl(reg.FeatureControl[slice].Get())

	sc.UseExternalClock = f.ShiftClockSource.Type == ClockSourceTypePin
	fc.UseNonlocalClock = f.ShiftClockSource.Type != ClockSourceTypeLocal
	fc.ShiftOnFallingEdge = bool(f.ShiftClockEdge)

	sc.ClockSourceSlice = f.ShiftClockSource.Selector & 0x3
	sc.ClockSourcePin = f.ShiftClockSource.Selector & 0x3

	reg.ShiftConfig[slice].Set(sc.Encode())
	reg.FeatureControl[slice].Set(fc.Encode())

	if f.ShiftClockSource.Type != ClockSourceTypeLocal {
		return nil
	}

	branchHz := c.graph.GetBranchFrequency(sgpioBranchClock())

	var divider uint32
	if f.ShiftClockFrequency == 0 {
		divider = 1
	} else {
		divider = branchHz / f.ShiftClockFrequency
		if divider == 0 {
			printk.Errorf("sgpio: slice %d: cannot produce a %d Hz clock from a %d Hz branch clock", slice, f.ShiftClockFrequency, branchHz)
			return ErrTimingInfeasible
		}
	}

	reg.CyclesPerShiftClock[slice].Set(divider - 1)
	reg.CycleCount[slice].Set(divider - 1)

	f.ShiftClockFrequency = branchHz / divider
	return nil
}

// setUpShiftCondition programs a slice's shift qualifier: what, besides
// the clock edge, must be true for a shift to occur.
func setUpShiftCondition(f *Function, slice uint8) {
	reg := regs.SGPIO()

	sc := regs.DecodeShiftConfig(reg.ShiftConfig[slice].Get())
	fc := regs.DecodeFeatureControl(reg.FeatureControl[slice].Get())

	sc.QualifierMode = uint32(f.ShiftQualifier.Type)
	sc.QualifierPin = f.ShiftQualifier.Selector & 0x3
	sc.QualifierSlice = f.ShiftQualifier.Selector & 0x3
	fc.InvertShiftQualifier = f.ShiftQualifier.ActiveLow

	reg.ShiftConfig[slice].Set(sc.Encode())
	reg.FeatureControl[slice].Set(fc.Encode())
}

// setUpDoubleBuffering programs a slice's swap-control register for a
// chain of the given length and bus width, and ensures double buffering
// (data/shadow swap) is active for that slice.
func setUpDoubleBuffering(slice uint8, chainLength uint8, busWidth uint8) {
	reg := regs.SGPIO()

	shiftsPerSwap := (regs.BitsPerSlice * uint32(chainLength)) / uint32(busWidth)
	reg.DataBufferSwapControl[slice].Set(regs.SwapControl{
		ShiftsPerBufferSwap: shiftsPerSwap - 1,
		ShiftsRemaining:     shiftsPerSwap - 1,
	}.Encode())
}

// ensureClockUp brings up the SGPIO branch clock (and its base/bus
// ancestors) the first time any function is planned; idempotent.
func ensureClockUp(c *Context) {
	c.graph.EnableBranch(sgpioBranchClock(), false)
}

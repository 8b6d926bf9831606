package sgpio

import (
	"fmt"
	"strings"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

func (m Mode) String() string {
	switch m {
	case ModeStreamIn:
		return "stream-in"
	case ModeStreamOut:
		return "stream-out"
	case ModeFixedOut:
		return "fixed-out"
	case ModeBidirectional:
		return "bidirectional"
	case ModeClockGen:
		return "clock-gen"
	default:
		return "unknown"
	}
}

func sliceLetter(slice uint8) byte { return 'A' + slice }

// DumpConfiguration renders every enabled function's resolved placement
// — slices, pins, clocking, and buffer depth — in the same kind of
// one-function-per-line report sgpio_dump_configuration prints over the
// debug console, for use from a command handler or test assertion.
func DumpConfiguration(c *Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "sgpio: %d function(s), slices in use %#06x, pins in use %#06x\n",
		len(c.Functions), c.SlicesInUse, c.PinsInUse)

	for i, f := range c.Functions {
		if !f.Enabled {
			fmt.Fprintf(&b, "  [%d] disabled\n", i)
			continue
		}

		fmt.Fprintf(&b, "  [%d] mode=%s width=%d slice=%c chain=%d clock=%dHz",
			i, f.Mode, f.BusWidth, sliceLetter(f.IOSlice), f.chainLength(), f.ShiftClockFrequency)

		if f.HasDirectionSlice {
			fmt.Fprintf(&b, " dir-slice=%c dir-chain=%d", sliceLetter(f.DirectionSlice), f.directionChainLength())
		}
		if f.ShiftCountLimit != 0 {
			fmt.Fprintf(&b, " shift-limit=%d", f.ShiftCountLimit)
		}
		if f.SwapIRQsRequired {
			fmt.Fprint(&b, " isr=yes")
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}

// DumpSliceRegisters renders the raw SGPIO_MUX_CFG / SLICE_MUX_CFG /
// swap-control words for one slice, for low-level debugging when a
// function isn't behaving as planned.
func DumpSliceRegisters(slice uint8) string {
	reg := regs.SGPIO()
	sc := regs.DecodeShiftConfig(reg.ShiftConfig[slice].Get())
	fc := regs.DecodeFeatureControl(reg.FeatureControl[slice].Get())
	swap := regs.DecodeSwapControl(reg.DataBufferSwapControl[slice].Get())

	return fmt.Sprintf(
		"slice %c: external_clock=%v nonlocal_clock=%v falling_edge=%v concat=%v/%d parallel_mode=%d shifts_per_swap=%d shifts_remaining=%d",
		sliceLetter(slice), sc.UseExternalClock, fc.UseNonlocalClock, fc.ShiftOnFallingEdge,
		sc.EnableConcatenation, sc.ConcatenationOrder, fc.ParallelMode,
		swap.ShiftsPerBufferSwap, swap.ShiftsRemaining,
	)
}

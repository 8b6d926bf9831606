// Package sgpio implements the planner, code generator, and data-shuttle
// for the LPC43xx's Serial General-Purpose I/O fabric: a 16-pin, 16-slice
// software-configured shift-register peripheral capable of bit-banging
// arbitrary synchronous serial or parallel protocols at line rate.
package sgpio

import (
	"errors"

	"github.com/greatscottgadgets/libgreat-go/clock"
	"github.com/greatscottgadgets/libgreat-go/regs"
	"github.com/greatscottgadgets/libgreat-go/ringbuffer"
)

// Errors returned by set up. Matches spec.md §7's error-kind taxonomy.
var (
	ErrInvalidArgument       = errors.New("sgpio: invalid argument")
	ErrInvalidPinMapping     = errors.New("sgpio: no SCU mapping for this pin")
	ErrBusy                  = errors.New("sgpio: slice or pin already in use")
	ErrCannotMeetShiftLimit  = errors.New("sgpio: cannot apply the requested shift-count limit")
	ErrTimingInfeasible      = errors.New("sgpio: cannot derive the requested shift-clock frequency")
	ErrUnsupported           = errors.New("sgpio: mode or feature not implemented")
)

// Mode is a function's role: which direction data moves and whether the
// slice chain drives pins or just a clock.
type Mode int

const (
	ModeStreamIn Mode = iota
	ModeStreamOut
	ModeFixedOut
	ModeBidirectional
	ModeClockGen
)

// ClockSourceType selects where a slice's shift clock comes from.
type ClockSourceType uint32

const (
	ClockSourceTypeLocal ClockSourceType = iota
	ClockSourceTypeSlice
	ClockSourceTypePin
)

// ClockEdge selects which shift-clock edge actually shifts data.
type ClockEdge bool

const (
	ClockEdgeRising  ClockEdge = false
	ClockEdgeFalling ClockEdge = true
)

// QualifierType selects what gates a shift beyond the clock edge itself.
type QualifierType uint32

const (
	QualifierAlways QualifierType = iota
	QualifierNever
	QualifierSlice
	QualifierPin
)

// PullResistor mirrors regs.Resistor for the SCU pin configuration this
// package drives; kept as its own type so callers don't need to import
// regs just to describe a function's pins.
type PullResistor = regs.Resistor

// PinConfiguration is one pin this function claims: the SGPIO pin number
// and the SCU (group, pin) it's wired to on the board, plus the pull
// configuration to apply.
type PinConfiguration struct {
	SGPIOPin      uint8
	SCUGroup      uint8
	SCUPin        uint8
	PullResistors PullResistor
}

// ShiftClockSource packs a clock source type with its slice/pin
// selector, mirroring the original driver's packed
// SGPIO_CLOCK_SOURCE_TYPE/SELECT fields.
type ShiftClockSource struct {
	Type     ClockSourceType
	Selector uint32 // slice index or external-pin index, per Type
}

// ShiftQualifier packs a qualifier type with its selector and polarity.
type ShiftQualifier struct {
	Type     QualifierType
	Selector uint32
	ActiveLow bool
}

// Function is a caller-declared logical bus: one or more pins, a mode, a
// shift clock, a qualifier, and the ring buffer(s) that feed or drain it.
type Function struct {
	Enabled  bool
	Mode     Mode
	BusWidth uint8

	PinConfigurations []PinConfiguration

	ShiftClockSource    ShiftClockSource
	ShiftClockEdge       ClockEdge
	ShiftClockFrequency  uint32 // requested in, achieved out; 0 = max

	ShiftQualifier ShiftQualifier

	ClockOutputPin bool

	Buffer          *ringbuffer.RingBuffer
	BufferOrder     uint8 // log2(buffer size in bytes)
	DirectionBuffer *ringbuffer.RingBuffer

	ShiftCountLimit uint32

	// NeverSynthesizeISR suppresses ISR generation even when the
	// planner would otherwise decide one is required.
	NeverSynthesizeISR bool

	// Written back by the planner.
	IOSlice                    uint8
	DirectionSlice             uint8
	HasDirectionSlice          bool
	BufferDepthOrder           uint8
	DirectionBufferDepthOrder  uint8
	PositionInBuffer           uint32
	DirectionPositionInBuffer  uint32
	DataInBuffer               uint32
	SwapIRQsRequired           bool
}

// chainLength returns the number of slices presently chained for this
// function's I/O buffer.
func (f *Function) chainLength() uint8 { return 1 << f.BufferDepthOrder }

func (f *Function) directionChainLength() uint8 { return 1 << f.DirectionBufferDepthOrder }

// Context holds a set of functions and the live allocation state the
// planner produces for them: which slices and pins are claimed, whether
// the plan is stale, and the clock graph it plans against. Whether the
// fabric is running is read from the hardware by Running.
type Context struct {
	Functions []*Function

	SlicesInUse uint16
	PinsInUse   uint16

	stale bool

	graph *clock.Graph
}

// NewContext returns an empty context wired to the default clock graph.
// It subscribes to the SGPIO branch clock's frequency-change
// notifications so that a change to the branch feeding every local
// shift clock marks the plan stale instead of silently drifting out of
// sync with the hardware — the gap the original driver's sgpio.c flags
// with a FIXME asking for exactly this notification.
func NewContext(functions []*Function) *Context {
	c := &Context{Functions: functions, graph: clock.DefaultGraph()}
	c.graph.Subscribe(sgpioBranchClock(), func(hz uint32) { c.stale = true })
	return c
}

// Running reports whether the fabric is actually shifting right now: at
// least one slice in use has its shift clock enabled and either does not
// terminate on its own or still has shifts left to run
// (spec.md §4.D, Testable Property #8). This is a hardware read, not a
// cached flag — set_up_functions can leave slices running across
// multiple Run/Halt cycles of a different context, so only the registers
// know for certain.
func (c *Context) Running() bool {
	reg := regs.SGPIO()
	enabled := reg.ShiftClockEnable.Get()

	for slice := uint8(0); slice < regs.NumSlices; slice++ {
		if c.SlicesInUse&(1<<slice) == 0 {
			continue
		}
		if enabled&(1<<slice) == 0 {
			continue
		}
		swap := regs.DecodeSwapControl(reg.DataBufferSwapControl[slice].Get())
		terminating := swap.ShiftsPerBufferSwap == 0
		if !terminating || reg.CycleCount[slice].Get() != 0 {
			return true
		}
	}
	return false
}

// Stale reports whether the SGPIO branch clock's frequency has changed
// since this context was last planned with SetUpFunctions, meaning every
// local-clock function's achieved ShiftClockFrequency may no longer be
// accurate and the caller should call SetUpFunctions again.
func (c *Context) Stale() bool { return c.stale }

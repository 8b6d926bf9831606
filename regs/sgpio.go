// Package regs is the bit-exact register façade for the LPC43xx blocks this
// driver stack touches: SGPIO, CGU, CCU, NVIC, SCU, and the thin collaborator
// peripherals (UART, timer, DAC, RGU, watchdog, SCB). Every struct here lays its
// fields out to match the physical offsets in the datasheet; accesses go
// through runtime/volatile so the compiler never reorders or coalesces a
// register write the way it could a plain memory store.
package regs

import (
	"unsafe"

	"runtime/volatile"
)

// SGPIOBase is the physical base address of the SGPIO peripheral.
const SGPIOBase = 0x40101000

// Slice indices, A through P.
const (
	SliceA = iota
	SliceB
	SliceC
	SliceD
	SliceE
	SliceF
	SliceG
	SliceH
	SliceI
	SliceJ
	SliceK
	SliceL
	SliceM
	SliceN
	SliceO
	SliceP
)

const (
	NumPins               = 16
	NumSlices             = 16
	BitsPerSlice          = 32
	MaxSliceChainDepth    = 8
)

// Output bus drive modes for OUT_CFG[n].
const (
	OutputMode1Bit     = 0x0
	OutputMode2BitA    = 0x1
	OutputMode2BitB    = 0x2
	OutputMode2BitC    = 0x3
	OutputModeGPIO     = 0x4
	OutputMode4BitA    = 0x5
	OutputMode4BitB    = 0x6
	OutputMode4BitC    = 0x7
	OutputModeClockOut = 0x8
	OutputMode8BitA    = 0x9
	OutputMode8BitB    = 0xA
	OutputMode8BitC    = 0xB
)

// Parallel shift widths for SLICE_MUX_CFG[n].parallel_mode.
const (
	ParallelModeSerial = 0
	ParallelMode2Bit   = 1
	ParallelMode4Bit   = 2
	ParallelMode8Bit   = 3
)

// Direction-source selectors for OUT_CFG[n].pin_direction_source.
const (
	UsePinDirectionRegister = 0x0
	DirectionMode1Bit       = 0x4
	DirectionMode2Bit       = 0x5
	DirectionMode4Bit       = 0x6
	DirectionMode8Bit       = 0x7
)

// InterruptRegisters is the clear/set/enable/status register cluster shared
// by the four SGPIO interrupt sources (shift clock, exchange clock, pattern
// match, input bit match).
type InterruptRegisters struct {
	Clear       volatile.Register32
	Set         volatile.Register32
	Enable      volatile.Register32
	Status      volatile.Register32
	ClearStatus volatile.Register32
	SetStatus   volatile.Register32
	_           [2]volatile.Register32 // reserved, matches the hardware pad
}

// Registers is the complete SGPIO register block, laid out to match the
// LPC43xx datasheet byte-for-byte. Field order and padding reproduce every
// offset named in spec.md §4.A.
type Registers struct {
	OutputConfig          [NumPins]volatile.Register32   // 0x000 GPIO_OUT_FUNC / output-bus mode + direction source
	ShiftConfig           [NumSlices]volatile.Register32 // 0x040 SGPIO_MUX_CFG
	FeatureControl        [NumSlices]volatile.Register32 // 0x080 SLICE_MUX_CFG
	Data                  [NumSlices]volatile.Register32 // 0x0c0 active data register per slice
	DataShadow            [NumSlices]volatile.Register32 // 0x100 shadow register per slice
	CyclesPerShiftClock   [NumSlices]volatile.Register32 // 0x140 local shift-clock divisor
	CycleCount            [NumSlices]volatile.Register32 // 0x180 local shift-clock counter
	DataBufferSwapControl [NumSlices]volatile.Register32 // 0x1c0 shifts_remaining / shifts_per_buffer_swap
	PatternMatchA         volatile.Register32             // 0x200
	PatternMatchH         volatile.Register32             // 0x204
	PatternMatchI         volatile.Register32             // 0x208
	PatternMatchP         volatile.Register32             // 0x20c
	PinState              volatile.Register32             // 0x210 GPIO_INREG
	PinOut                volatile.Register32             // 0x214 GPIO_OUT
	PinDirection          volatile.Register32             // 0x218 GPIO_OE
	ShiftClockEnable      volatile.Register32             // 0x21c CTRL_ENABLE
	StopOnNextBufferSwap  volatile.Register32             // 0x220 CTRL_DISABLE

	_ [823]volatile.Register32 // reserved, pads out to the interrupt cluster at 0xF00

	ShiftClockInterrupt    InterruptRegisters // 0xF00
	ExchangeClockInterrupt InterruptRegisters // 0xF20
	PatternMatchInterrupt  InterruptRegisters // 0xF40
	InputBitMatchInterrupt InterruptRegisters // 0xF60
}

// Compile-time offset assertions mirror the original driver's ASSERT_OFFSET
// macros. A field that sits below its expected offset fails the build (the
// array length underflows); a field that sits past its expected offset
// only yields a non-empty array and is not caught.
const (
	offShiftConfig             = 0x040
	offFeatureControl          = 0x080
	offData                    = 0x0c0
	offDataShadow              = 0x100
	offCyclesPerShiftClock     = 0x140
	offCycleCount              = 0x180
	offDataBufferSwapControl   = 0x1c0
	offPatternMatchA           = 0x200
	offStopOnNextBufferSwap    = 0x220
	offShiftClockInterrupt     = 0xF00
	offExchangeClockInterrupt  = 0xF20
	offInputBitMatchInterrupt  = 0xF60
)

var (
	_ [unsafe.Offsetof(Registers{}.ShiftConfig) - offShiftConfig]byte
	_ [unsafe.Offsetof(Registers{}.FeatureControl) - offFeatureControl]byte
	_ [unsafe.Offsetof(Registers{}.Data) - offData]byte
	_ [unsafe.Offsetof(Registers{}.DataShadow) - offDataShadow]byte
	_ [unsafe.Offsetof(Registers{}.CyclesPerShiftClock) - offCyclesPerShiftClock]byte
	_ [unsafe.Offsetof(Registers{}.CycleCount) - offCycleCount]byte
	_ [unsafe.Offsetof(Registers{}.DataBufferSwapControl) - offDataBufferSwapControl]byte
	_ [unsafe.Offsetof(Registers{}.PatternMatchA) - offPatternMatchA]byte
	_ [unsafe.Offsetof(Registers{}.StopOnNextBufferSwap) - offStopOnNextBufferSwap]byte
	_ [unsafe.Offsetof(Registers{}.ShiftClockInterrupt) - offShiftClockInterrupt]byte
	_ [unsafe.Offsetof(Registers{}.ExchangeClockInterrupt) - offExchangeClockInterrupt]byte
	_ [unsafe.Offsetof(Registers{}.InputBitMatchInterrupt) - offInputBitMatchInterrupt]byte
)

// SGPIO returns the live register block at its fixed physical address.
func SGPIO() *Registers {
	return (*Registers)(unsafe.Pointer(uintptr(SGPIOBase)))
}

// Output-config field accessors. OUT_CFG packs output_bus_mode (4 bits) and
// pin_direction_source (3 bits) into the low 7 bits of a 32-bit register;
// the remaining bits are reserved.
func OutputBusMode(v uint32) uint32         { return v & 0xF }
func PinDirectionSource(v uint32) uint32    { return (v >> 4) & 0x7 }
func SetOutputConfig(busMode, dirSource uint32) uint32 {
	return (busMode & 0xF) | ((dirSource & 0x7) << 4)
}

// Shift-config bit layout (SGPIO_MUX_CFG[n]).
const (
	shiftUseExternalClockBit  = 0
	shiftClockSourcePinShift  = 1
	shiftClockSourceSliceShift = 3
	shiftQualifierModeShift   = 5
	shiftQualifierPinShift    = 7
	shiftQualifierSliceShift  = 9
	shiftEnableConcatBit      = 11
	shiftConcatOrderShift     = 12
)

// ShiftConfig packs the SGPIO_MUX_CFG[n] fields used by the planner.
type ShiftConfig struct {
	UseExternalClock    bool
	ClockSourcePin      uint32 // 2 bits
	ClockSourceSlice    uint32 // 2 bits
	QualifierMode       uint32 // 2 bits
	QualifierPin        uint32 // 2 bits
	QualifierSlice      uint32 // 2 bits
	EnableConcatenation bool
	ConcatenationOrder  uint32 // 2 bits
}

// Encode packs a ShiftConfig into the raw register value.
func (c ShiftConfig) Encode() uint32 {
	var v uint32
	if c.UseExternalClock {
		v |= 1 << shiftUseExternalClockBit
	}
	v |= (c.ClockSourcePin & 0x3) << shiftClockSourcePinShift
	v |= (c.ClockSourceSlice & 0x3) << shiftClockSourceSliceShift
	v |= (c.QualifierMode & 0x3) << shiftQualifierModeShift
	v |= (c.QualifierPin & 0x3) << shiftQualifierPinShift
	v |= (c.QualifierSlice & 0x3) << shiftQualifierSliceShift
	if c.EnableConcatenation {
		v |= 1 << shiftEnableConcatBit
	}
	v |= (c.ConcatenationOrder & 0x3) << shiftConcatOrderShift
	return v
}

// DecodeShiftConfig unpacks a raw SGPIO_MUX_CFG[n] value.
func DecodeShiftConfig(v uint32) ShiftConfig {
	return ShiftConfig{
		UseExternalClock:    v&(1<<shiftUseExternalClockBit) != 0,
		ClockSourcePin:      (v >> shiftClockSourcePinShift) & 0x3,
		ClockSourceSlice:    (v >> shiftClockSourceSliceShift) & 0x3,
		QualifierMode:       (v >> shiftQualifierModeShift) & 0x3,
		QualifierPin:        (v >> shiftQualifierPinShift) & 0x3,
		QualifierSlice:      (v >> shiftQualifierSliceShift) & 0x3,
		EnableConcatenation: v&(1<<shiftEnableConcatBit) != 0,
		ConcatenationOrder:  (v >> shiftConcatOrderShift) & 0x3,
	}
}

// Feature-control bit layout (SLICE_MUX_CFG[n]).
const (
	featureUseAsMatchTriggerBit = 0
	featureShiftOnFallingEdgeBit = 1
	featureUseNonlocalClockBit  = 2
	featureInvertOutputClockBit = 3
	featureMatchInterruptShift  = 4
	featureParallelModeShift    = 6
	featureInvertQualifierBit   = 8
)

// FeatureControl packs the SLICE_MUX_CFG[n] fields used by the planner.
type FeatureControl struct {
	UseAsMatchTrigger    bool
	ShiftOnFallingEdge   bool
	UseNonlocalClock     bool
	InvertOutputClock    bool
	MatchInterruptMode   uint32 // 2 bits
	ParallelMode         uint32 // 2 bits
	InvertShiftQualifier bool
}

// Encode packs a FeatureControl into the raw register value.
func (f FeatureControl) Encode() uint32 {
	var v uint32
	if f.UseAsMatchTrigger {
		v |= 1 << featureUseAsMatchTriggerBit
	}
	if f.ShiftOnFallingEdge {
		v |= 1 << featureShiftOnFallingEdgeBit
	}
	if f.UseNonlocalClock {
		v |= 1 << featureUseNonlocalClockBit
	}
	if f.InvertOutputClock {
		v |= 1 << featureInvertOutputClockBit
	}
	v |= (f.MatchInterruptMode & 0x3) << featureMatchInterruptShift
	v |= (f.ParallelMode & 0x3) << featureParallelModeShift
	if f.InvertShiftQualifier {
		v |= 1 << featureInvertQualifierBit
	}
	return v
}

// DecodeFeatureControl unpacks a raw SLICE_MUX_CFG[n] value.
func DecodeFeatureControl(v uint32) FeatureControl {
	return FeatureControl{
		UseAsMatchTrigger:    v&(1<<featureUseAsMatchTriggerBit) != 0,
		ShiftOnFallingEdge:   v&(1<<featureShiftOnFallingEdgeBit) != 0,
		UseNonlocalClock:     v&(1<<featureUseNonlocalClockBit) != 0,
		InvertOutputClock:    v&(1<<featureInvertOutputClockBit) != 0,
		MatchInterruptMode:   (v >> featureMatchInterruptShift) & 0x3,
		ParallelMode:         (v >> featureParallelModeShift) & 0x3,
		InvertShiftQualifier: v&(1<<featureInvertQualifierBit) != 0,
	}
}

// SwapControl packs CTRL_POS[n]: shifts_remaining (low byte) and
// shifts_per_buffer_swap (next byte).
type SwapControl struct {
	ShiftsRemaining      uint32 // 8 bits
	ShiftsPerBufferSwap uint32 // 8 bits
}

func (s SwapControl) Encode() uint32 {
	return (s.ShiftsRemaining & 0xFF) | ((s.ShiftsPerBufferSwap & 0xFF) << 8)
}

func DecodeSwapControl(v uint32) SwapControl {
	return SwapControl{
		ShiftsRemaining:     v & 0xFF,
		ShiftsPerBufferSwap: (v >> 8) & 0xFF,
	}
}

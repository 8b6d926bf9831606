// Clock Generation Unit register block: oscillator control, the three
// PLLs, the five integer dividers, and the CGU-side base clocks. Field
// order and reserved padding reproduce the hardware layout word for word.
package regs

import (
	"unsafe"

	"runtime/volatile"
)

const CGUBase = 0x40050000

// FrequencyMonitor packs the CGU frequency-monitor register: a down
// counter of reference ticks, the observed clock ticks accumulated while
// it runs, a run flag, and the clock source under test.
type FrequencyMonitor struct {
	volatile.Register32
}

func (r *FrequencyMonitor) ReferenceTicksRemaining() uint32 { return r.Get() & 0x1FF }
func (r *FrequencyMonitor) ObservedClockTicks() uint32      { return (r.Get() >> 9) & 0x3FFF }
func (r *FrequencyMonitor) MeasurementActive() bool         { return r.Get()&(1<<23) != 0 }
func (r *FrequencyMonitor) SourceToMeasure() uint32          { return (r.Get() >> 24) & 0x1F }

func (r *FrequencyMonitor) SetReferenceTicksRemaining(v uint32) {
	r.Set((r.Get() &^ 0x1FF) | (v & 0x1FF))
}

func (r *FrequencyMonitor) SetObservedClockTicks(v uint32) {
	r.Set((r.Get() &^ (0x3FFF << 9)) | ((v & 0x3FFF) << 9))
}

func (r *FrequencyMonitor) SetSourceToMeasure(source uint32) {
	r.Set((r.Get() &^ (0x1F << 24)) | ((source & 0x1F) << 24))
}

// Start sets the measurement-active bit, triggering the measurement
// configured by the preceding SetReferenceTicksRemaining/
// SetObservedClockTicks/SetSourceToMeasure calls.
func (r *FrequencyMonitor) Start() {
	r.Set(r.Get() | (1 << 23))
}

// Abort clears the measurement-active bit, canceling a running
// measurement (used when a liveness check times out).
func (r *FrequencyMonitor) Abort() {
	r.Set(r.Get() &^ (1 << 23))
}

// XTALControl packs the crystal oscillator control register.
type XTALControl struct {
	volatile.Register32
}

func (r *XTALControl) Disabled() bool       { return r.Get()&1 != 0 }
func (r *XTALControl) Bypass() bool         { return r.Get()&2 != 0 }
func (r *XTALControl) IsHighFrequency() bool { return r.Get()&4 != 0 }

func (r *XTALControl) SetDisabled(v bool) { r.setBit(0, v) }
func (r *XTALControl) SetBypass(v bool)   { r.setBit(1, v) }
func (r *XTALControl) SetHighFrequency(v bool) { r.setBit(2, v) }

func (r *XTALControl) setBit(bit uint32, v bool) {
	cur := r.Get()
	if v {
		cur |= 1 << bit
	} else {
		cur &^= 1 << bit
	}
	r.Set(cur)
}

// PeripheralPLL is the USB and audio peripheral PLL layout: a status
// word, a control word, an M-divider word, and an NP-divider word.
type PeripheralPLL struct {
	Status   volatile.Register32
	Control  volatile.Register32
	MDivider volatile.Register32
	NPDivider volatile.Register32
}

func (p *PeripheralPLL) Locked() bool      { return p.Status.Get()&1 != 0 }
func (p *PeripheralPLL) FreeRunning() bool { return p.Status.Get()&2 != 0 }

func (p *PeripheralPLL) PoweredDown() bool { return p.Control.Get()&1 != 0 }
func (p *PeripheralPLL) Source() uint32    { return (p.Control.Get() >> 24) & 0x1F }

func (p *PeripheralPLL) SetControl(poweredDown, bypassed, directInput, directOutput, clockEnable, freeRunning bool, source uint32) {
	var v uint32
	if poweredDown {
		v |= 1 << 0
	}
	if bypassed {
		v |= 1 << 1
	}
	if directInput {
		v |= 1 << 2
	}
	if directOutput {
		v |= 1 << 3
	}
	if clockEnable {
		v |= 1 << 4
	}
	if freeRunning {
		v |= 1 << 6
	}
	v |= (source & 0x1F) << 24
	p.Control.Set(v)
}

// SetMDivider programs the M-divider coefficient and PLL loop filter
// bandwidth terms in one write, matching the datasheet's packed layout.
func (p *PeripheralPLL) SetMDivider(coefficient, bandwidthP, bandwidthI, bandwidthR uint32) {
	v := (coefficient & 0x1FFFF) | (bandwidthP&0x1F)<<17 | (bandwidthI&0x3F)<<22 | (bandwidthR&0xF)<<28
	p.MDivider.Set(v)
}

func (p *PeripheralPLL) SetNPDivider(pCoefficient, nCoefficient uint32) {
	v := (pCoefficient & 0x7F) | (nCoefficient&0x3FF)<<12
	p.NPDivider.Set(v)
}

// AudioPLL is the peripheral PLL plus the fractional divider add-on that
// only the audio PLL carries.
type AudioPLL struct {
	Core              PeripheralPLL
	FractionalDivider volatile.Register32
}

// MainPLL is PLL1, the system's primary clock multiplier.
type MainPLL struct {
	Status  volatile.Register32
	Control volatile.Register32
}

func (p *MainPLL) Locked() bool { return p.Status.Get()&1 != 0 }

// MainPLLControl is the decoded form of PLL1's control word.
type MainPLLControl struct {
	PowerDown                   bool
	BypassEntirely              bool
	UsePLLFeedback              bool
	BypassOutputDivider         bool
	OutputDivisorP              uint32 // 2 bits
	BlockDuringFrequencyChanges bool
	InputDivisorN               uint32 // 2 bits
	FeedbackDivisorM            uint32 // 8 bits
	Source                      uint32 // 5 bits
}

func (c MainPLLControl) Encode() uint32 {
	var v uint32
	if c.PowerDown {
		v |= 1 << 0
	}
	if c.BypassEntirely {
		v |= 1 << 1
	}
	if c.UsePLLFeedback {
		v |= 1 << 6
	}
	if c.BypassOutputDivider {
		v |= 1 << 7
	}
	v |= (c.OutputDivisorP & 0x3) << 8
	if c.BlockDuringFrequencyChanges {
		v |= 1 << 11
	}
	v |= (c.InputDivisorN & 0x3) << 12
	v |= (c.FeedbackDivisorM & 0xFF) << 16
	v |= (c.Source & 0x1F) << 24
	return v
}

func DecodeMainPLLControl(v uint32) MainPLLControl {
	return MainPLLControl{
		PowerDown:                   v&(1<<0) != 0,
		BypassEntirely:              v&(1<<1) != 0,
		UsePLLFeedback:              v&(1<<6) != 0,
		BypassOutputDivider:         v&(1<<7) != 0,
		OutputDivisorP:              (v >> 8) & 0x3,
		BlockDuringFrequencyChanges: v&(1<<11) != 0,
		InputDivisorN:               (v >> 12) & 0x3,
		FeedbackDivisorM:            (v >> 16) & 0xFF,
		Source:                      (v >> 24) & 0x1F,
	}
}

func (p *MainPLL) SetControl(c MainPLLControl) { p.Control.Set(c.Encode()) }
func (p *MainPLL) GetControl() MainPLLControl  { return DecodeMainPLLControl(p.Control.Get()) }

// CGURegisters is the complete Clock Generation Unit block. The byte
// layout matches the LPC43xx datasheet exactly: every RESERVED_WORDS gap
// from the original driver becomes a same-sized padding array here.
type CGURegisters struct {
	_ [5]volatile.Register32 // 0x00, unused control registers this driver does not touch

	FrequencyMonitor FrequencyMonitor // 0x14
	XTALControl      XTALControl      // 0x18
	PLLUSB           PeripheralPLL    // 0x1c
	PLLAudio         AudioPLL         // 0x2c
	PLL1             MainPLL          // 0x40

	IntegerDividerA volatile.Register32 // 0x48
	IntegerDividerB volatile.Register32
	IntegerDividerC volatile.Register32
	IntegerDividerD volatile.Register32
	IntegerDividerE volatile.Register32

	BaseSafe   volatile.Register32
	BaseUSB0   volatile.Register32
	BasePeriph volatile.Register32
	BaseUSB1   volatile.Register32
	BaseM4     volatile.Register32
	BaseSPIFI  volatile.Register32
	BaseSPI    volatile.Register32
	BasePHYRx  volatile.Register32
	BasePHYTx  volatile.Register32
	BaseAPB1   volatile.Register32
	BaseAPB3   volatile.Register32
	BaseLCD    volatile.Register32
	BaseADCHS  volatile.Register32
	BaseSDIO   volatile.Register32
	BaseSSP0   volatile.Register32
	BaseSSP1   volatile.Register32
	BaseUART0  volatile.Register32
	BaseUART1  volatile.Register32
	BaseUART2  volatile.Register32
	BaseUART3  volatile.Register32
	BaseOut    volatile.Register32

	_ [4]volatile.Register32 // 0xb0

	BaseAudio volatile.Register32 // 0xc0
	BaseOut0  volatile.Register32
	BaseOut1  volatile.Register32
}

const (
	offFrequencyMonitor = 0x14
	offXTALControl      = 0x18
	offPLLUSB           = 0x1c
	offPLLAudio         = 0x2c
	offPLL1             = 0x40
	offIntegerDividerA  = 0x48
	offBaseAudio        = 0xc0
)

var (
	_ [unsafe.Offsetof(CGURegisters{}.FrequencyMonitor) - offFrequencyMonitor]byte
	_ [unsafe.Offsetof(CGURegisters{}.XTALControl) - offXTALControl]byte
	_ [unsafe.Offsetof(CGURegisters{}.PLLUSB) - offPLLUSB]byte
	_ [unsafe.Offsetof(CGURegisters{}.PLLAudio) - offPLLAudio]byte
	_ [unsafe.Offsetof(CGURegisters{}.PLL1) - offPLL1]byte
	_ [unsafe.Offsetof(CGURegisters{}.IntegerDividerA) - offIntegerDividerA]byte
	_ [unsafe.Offsetof(CGURegisters{}.BaseAudio) - offBaseAudio]byte
)

// CGU returns the live Clock Generation Unit register block.
func CGU() *CGURegisters {
	return (*CGURegisters)(unsafe.Pointer(uintptr(CGUBase)))
}

// BaseClockField accessors for platform_base_clock_register_t: power_down
// (bit 0), divisor (bits 2-9), block_during_changes (bit 11), source
// (bits 24-28).
func BaseClockPowerDown(v uint32) bool        { return v&1 != 0 }
func BaseClockDivisor(v uint32) uint32        { return (v >> 2) & 0xFF }
func BaseClockBlockDuringChanges(v uint32) bool { return v&(1<<11) != 0 }
func BaseClockSource(v uint32) uint32         { return (v >> 24) & 0x1F }

func EncodeBaseClock(powerDown bool, divisor uint32, blockDuringChanges bool, source uint32) uint32 {
	var v uint32
	if powerDown {
		v |= 1
	}
	v |= (divisor & 0xFF) << 2
	if blockDuringChanges {
		v |= 1 << 11
	}
	v |= (source & 0x1F) << 24
	return v
}

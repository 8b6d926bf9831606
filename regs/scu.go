// System Control Unit: the pin-mux register bank. Every multiplexed pin
// gets one packed configuration word selecting its function, pull
// resistors, slew rate, input buffer, and glitch filter.
package regs

import (
	"unsafe"

	"runtime/volatile"
)

const SCUBase = 0x40086000

const (
	// NumSCUGroups is the number of pin groups (the "X" in the LPC PX_Y
	// pin-naming scheme).
	NumSCUGroups = 16
	// PinsPerSCUGroup is the number of pins per group (the "Y" in PX_Y).
	PinsPerSCUGroup = 32
)

// Resistor selects the pin's internal pull configuration.
type Resistor uint32

const (
	ResistorPullUp   Resistor = 0b00
	ResistorRepeater Resistor = 0b01
	ResistorNoPull   Resistor = 0b10
	ResistorPullDown Resistor = 0b11
)

// PinConfig packs one SCU pin configuration word: a 3-bit function
// select, a 2-bit pull-resistor select, and three feature bits.
type PinConfig struct {
	Function            uint32 // 3 bits
	Resistors           Resistor
	FastSlew            bool
	InputBufferEnabled  bool
	DisableGlitchFilter bool
}

func (c PinConfig) Encode() uint32 {
	v := c.Function & 0x7
	v |= (uint32(c.Resistors) & 0x3) << 3
	if c.FastSlew {
		v |= 1 << 5
	}
	if c.InputBufferEnabled {
		v |= 1 << 6
	}
	if c.DisableGlitchFilter {
		v |= 1 << 7
	}
	return v
}

func DecodePinConfig(v uint32) PinConfig {
	return PinConfig{
		Function:            v & 0x7,
		Resistors:           Resistor((v >> 3) & 0x3),
		FastSlew:            v&(1<<5) != 0,
		InputBufferEnabled:  v&(1<<6) != 0,
		DisableGlitchFilter: v&(1<<7) != 0,
	}
}

// GPIOPinConfig mirrors platform_scu_configure_pin_gpio's defaults: slow
// slew, input buffer on, glitch filter on, caller-chosen pull resistors.
func GPIOPinConfig(function uint32, resistors Resistor) PinConfig {
	return PinConfig{Function: function, Resistors: resistors, InputBufferEnabled: true}
}

// FastIOPinConfig mirrors platform_scu_configure_pin_fast_io's defaults:
// fast slew, input buffer on, glitch filter disabled — the configuration
// every SGPIO pin needs, since shift clocks run well above 30MHz.
func FastIOPinConfig(function uint32, resistors Resistor) PinConfig {
	return PinConfig{
		Function:            function,
		Resistors:           resistors,
		FastSlew:            true,
		InputBufferEnabled:  true,
		DisableGlitchFilter: true,
	}
}

type PinGroup struct {
	Pin [PinsPerSCUGroup]volatile.Register32
}

// SCURegisters is the System Control Unit register bank: 16 groups of 32
// pin-configuration words, then the four clock-pin SFS registers.
type SCURegisters struct {
	Group [NumSCUGroups]PinGroup // 0x0000

	_ [256]volatile.Register32

	Clk [4]volatile.Register32 // clock pin SFS registers
}

// SCU returns the live System Control Unit register bank.
func SCU() *SCURegisters {
	return (*SCURegisters)(unsafe.Pointer(uintptr(SCUBase)))
}

// ConfigurePin writes a pin's SCU configuration.
func (r *SCURegisters) ConfigurePin(group, pin uint8, cfg PinConfig) {
	r.Group[group].Pin[pin].Set(cfg.Encode())
}

// PinConfiguration reads a pin's current SCU configuration.
func (r *SCURegisters) PinConfiguration(group, pin uint8) PinConfig {
	return DecodePinConfig(r.Group[group].Pin[pin].Get())
}

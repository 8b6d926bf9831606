// Package irq is the interrupt controller: enable/disable/pending state
// and handler installation over the LPC43xx's fixed IRQ enumeration and
// single shared vector table.
package irq

import "github.com/greatscottgadgets/libgreat-go/regs"

// IRQ is one of the LPC43xx's fixed interrupt lines.
type IRQ uint32

const (
	DAC IRQ = 0
	M0Core IRQ = 1
	DMA IRQ = 2
	Ethernet IRQ = 5
	SDIO IRQ = 6
	LCD IRQ = 7
	USB0 IRQ = 8
	USB1 IRQ = 9
	SCT IRQ = 10
	RITimer IRQ = 11
	Timer0 IRQ = 12
	Timer1 IRQ = 13
	Timer2 IRQ = 14
	Timer3 IRQ = 15
	MCPWM IRQ = 16
	ADC0 IRQ = 17
	I2C0 IRQ = 18
	I2C1 IRQ = 19
	SPI IRQ = 20
	ADC1 IRQ = 21
	SSP0 IRQ = 22
	SSP1 IRQ = 23
	USART0 IRQ = 24
	UART1 IRQ = 25
	USART2 IRQ = 26
	USART3 IRQ = 27
	I2S0 IRQ = 28
	I2S1 IRQ = 29
	SPIFI IRQ = 30
	SGPIO IRQ = 31
	PinInt0 IRQ = 32
	PinInt1 IRQ = 33
	PinInt2 IRQ = 34
	PinInt3 IRQ = 35
	PinInt4 IRQ = 36
	PinInt5 IRQ = 37
	PinInt6 IRQ = 38
	PinInt7 IRQ = 39
	GInt0 IRQ = 40
	GInt1 IRQ = 41
	EventRouter IRQ = 42
	CCAN1 IRQ = 43
	ATimer IRQ = 46
	RTC IRQ = 47
	WWDT IRQ = 49
	CCAN0 IRQ = 51
	QEI IRQ = 52

	// TotalIRQs is the number of distinct interrupt lines the platform
	// defines. The NVIC register bank itself covers far more lines than
	// this (regs.NumIRQLines); only the lines below TotalIRQs correspond
	// to a real, wired LPC43xx interrupt source.
	TotalIRQs = 53
)

// Priority is a raw NVIC priority value: lower numbers run first.
type Priority uint8

// Enable sets the IRQ's enable bit.
func Enable(i IRQ) {
	regs.WriteMask(&regs.NVIC().Enable, uint32(i))
}

// Disable clears the IRQ's enable bit.
func Disable(i IRQ) {
	regs.WriteMask(&regs.NVIC().Disable, uint32(i))
}

// MarkPending forces the IRQ into the pending state without it having
// actually fired.
func MarkPending(i IRQ) {
	regs.WriteMask(&regs.NVIC().MarkPending, uint32(i))
}

// MarkServiced clears the IRQ's pending state.
func MarkServiced(i IRQ) {
	regs.WriteMask(&regs.NVIC().MarkServiced, uint32(i))
}

// IsPending reports whether the IRQ is currently pending. This mirrors
// the original driver's implementation, which reads the "serviced" mask
// register rather than a dedicated pending-status register — on this
// hardware the same bit position reflects pending state in both views.
func IsPending(i IRQ) bool {
	return regs.ReadMask(&regs.NVIC().MarkServiced, uint32(i))
}

// SetPriority writes the IRQ's priority byte.
func SetPriority(i IRQ, p Priority) {
	regs.NVIC().PriorityByte(uint32(i)).Set(uint8(p))
}

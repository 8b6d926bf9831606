// Clock Control Unit register blocks (CCU1 and CCU2): the branch-clock
// enable/disable pairs grouped by bus. Reserved gaps reproduce the
// datasheet's padding between groups exactly, the way the original
// driver's RESERVED_WORDS macro does.
package regs

import (
	"unsafe"

	"runtime/volatile"
)

const (
	CCU1Base = 0x40051000
	CCU2Base = 0x40052000
)

// BranchClock is a control/current register pair: software writes
// Control, hardware reflects the clock's actual state in Current once the
// change has propagated.
type BranchClock struct {
	Control volatile.Register32
	Current volatile.Register32
}

// BranchControl is the decoded control word: enable, auto-disable-on-idle,
// wake-after-powerdown, and a local divisor.
type BranchControl struct {
	Enable                       bool
	DisableWhenBusTransactionsComplete bool
	WakeAfterPowerdown           bool
	Divisor                      uint32 // 3 bits
}

func (c BranchControl) Encode() uint32 {
	var v uint32
	if c.Enable {
		v |= 1 << 0
	}
	if c.DisableWhenBusTransactionsComplete {
		v |= 1 << 1
	}
	if c.WakeAfterPowerdown {
		v |= 1 << 2
	}
	v |= (c.Divisor & 0x7) << 5
	return v
}

func DecodeBranchControl(v uint32) BranchControl {
	return BranchControl{
		Enable:                             v&(1<<0) != 0,
		DisableWhenBusTransactionsComplete: v&(1<<1) != 0,
		WakeAfterPowerdown:                 v&(1<<2) != 0,
		Divisor:                            (v >> 5) & 0x7,
	}
}

func (b *BranchClock) SetControl(c BranchControl) { b.Control.Set(c.Encode()) }
func (b *BranchClock) GetControl() BranchControl  { return DecodeBranchControl(b.Control.Get()) }

// Enabled reports the Current register's "enabled" bit — the value
// hardware has actually applied, which may lag a just-written Control.
func (b *BranchClock) Enabled() bool { return b.Current.Get()&1 != 0 }
func (b *BranchClock) Disabled() bool { return b.Current.Get()&(1<<4) != 0 }

// CCU1APB3 is the APB3 peripheral bus branch-clock cluster.
type CCU1APB3 struct {
	Bus  BranchClock
	I2C1 BranchClock
	DAC  BranchClock
	ADC0 BranchClock
	ADC1 BranchClock
	CAN0 BranchClock
}

// CCU1APB1 is the APB1 peripheral bus branch-clock cluster.
type CCU1APB1 struct {
	Bus        BranchClock
	MotoconPWM BranchClock
	I2C0       BranchClock
	I2S        BranchClock
	CAN1       BranchClock
}

// CCU1M4 is the M4 core's branch-clock cluster, the largest group and the
// one the SGPIO shift clock is not a member of (SGPIO's branch clock
// lives under Periph, below — its shift rate comes from the CGU base
// clock, not this bus gate).
type CCU1M4 struct {
	Bus      BranchClock
	SPIFI    BranchClock
	GPIO     BranchClock
	LCD      BranchClock
	Ethernet BranchClock
	USB0     BranchClock
	EMC      BranchClock
	SDIO     BranchClock
	DMA      BranchClock
	Core     BranchClock

	_ [6]volatile.Register32

	SCT     BranchClock
	USB1    BranchClock
	EMCDiv  BranchClock
	FlashA  BranchClock
	FlashB  BranchClock
	M0App   BranchClock
	ADCHS   BranchClock
	EEPROM  BranchClock

	_ [22]volatile.Register32

	WWDT   BranchClock
	USART0 BranchClock
	UART1  BranchClock
	SSP0   BranchClock
	Timer0 BranchClock
	Timer1 BranchClock
	SCU    BranchClock
	CREG   BranchClock

	_ [48]volatile.Register32

	RITimer BranchClock
	USART2  BranchClock
	USART3  BranchClock
	Timer2  BranchClock
	Timer3  BranchClock
	SSP1    BranchClock
	QEI     BranchClock
}

// CCU1Periph is the peripheral-bus branch-clock cluster that gates the
// SGPIO block itself.
type CCU1Periph struct {
	Bus   BranchClock
	Core  BranchClock
	SGPIO BranchClock
}

// CCU1Registers is the first Clock Control Unit register block.
type CCU1Registers struct {
	PowerDown  volatile.Register32 // 0x000
	BaseStatus volatile.Register32 // 0x004

	_ [62]volatile.Register32

	APB3 CCU1APB3 // 0x100

	_ [52]volatile.Register32

	APB1 CCU1APB1 // 0x200

	_ [54]volatile.Register32

	SPIFI BranchClock // 0x300

	_ [62]volatile.Register32

	M4 CCU1M4 // 0x400

	_ [50]volatile.Register32

	Periph CCU1Periph // 0x700

	_ [58]volatile.Register32

	USB0 BranchClock // 0x800

	_ [62]volatile.Register32

	USB1 BranchClock // 0x900

	_ [62]volatile.Register32

	SPI BranchClock // 0xa00

	_ [62]volatile.Register32

	ADCHS BranchClock

	_ [318]volatile.Register32 // space until CCU2
}

const (
	offAPB3   = 0x0100
	offAPB1   = 0x0200
	offSPIFI  = 0x0300
	offM4     = 0x0400
	offM4Core = 0x0448
	offM4SCT  = 0x0468
	offM4WWDT = 0x0500
	offM4RIT  = 0x0600
	offPeriph = 0x0700
	offUSB0   = 0x0800
	offUSB1   = 0x0900
	offSPI    = 0x0A00
)

var (
	_ [unsafe.Offsetof(CCU1Registers{}.APB3) - offAPB3]byte
	_ [unsafe.Offsetof(CCU1Registers{}.APB1) - offAPB1]byte
	_ [unsafe.Offsetof(CCU1Registers{}.SPIFI) - offSPIFI]byte
	_ [unsafe.Offsetof(CCU1Registers{}.M4) - offM4]byte
	_ [unsafe.Offsetof(CCU1Registers{}.M4) + unsafe.Offsetof(CCU1M4{}.Core) - offM4Core]byte
	_ [unsafe.Offsetof(CCU1Registers{}.M4) + unsafe.Offsetof(CCU1M4{}.SCT) - offM4SCT]byte
	_ [unsafe.Offsetof(CCU1Registers{}.M4) + unsafe.Offsetof(CCU1M4{}.WWDT) - offM4WWDT]byte
	_ [unsafe.Offsetof(CCU1Registers{}.M4) + unsafe.Offsetof(CCU1M4{}.RITimer) - offM4RIT]byte
	_ [unsafe.Offsetof(CCU1Registers{}.Periph) - offPeriph]byte
	_ [unsafe.Offsetof(CCU1Registers{}.USB0) - offUSB0]byte
	_ [unsafe.Offsetof(CCU1Registers{}.USB1) - offUSB1]byte
	_ [unsafe.Offsetof(CCU1Registers{}.SPI) - offSPI]byte
)

// CCU1 returns the live first Clock Control Unit register block.
func CCU1() *CCU1Registers {
	return (*CCU1Registers)(unsafe.Pointer(uintptr(CCU1Base)))
}

// CCU2Registers gates the UART/SSP/SDIO/audio branch clocks that run off
// the second, independently power-managed clock-control block.
type CCU2Registers struct {
	PowerDown  volatile.Register32
	BaseStatus volatile.Register32

	_ [62]volatile.Register32

	Audio BranchClock
	_     [62]volatile.Register32

	USART3 BranchClock
	_      [62]volatile.Register32

	USART2 BranchClock
	_      [62]volatile.Register32

	UART1 BranchClock
	_     [62]volatile.Register32

	USART0 BranchClock
	_      [62]volatile.Register32

	SSP1 BranchClock
	_    [62]volatile.Register32

	SSP0 BranchClock
	_    [62]volatile.Register32

	SDIO BranchClock
	_    [62]volatile.Register32
}

// CCU2 returns the live second Clock Control Unit register block.
func CCU2() *CCU2Registers {
	return (*CCU2Registers)(unsafe.Pointer(uintptr(CCU2Base)))
}

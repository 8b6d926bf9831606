package regs

import "device/arm"

// Barrier issues a data memory barrier, ensuring every memory access
// before the call is observed by the peripheral before any access after
// it. volatile.Register32 stops the compiler from reordering or
// coalescing a single access, but says nothing about the order of two
// accesses to two different registers — the handful of sequences the
// datasheet documents as order-dependent (XTAL bypass clear before
// disable clear, a branch clock's auto-disable-on-idle write before the
// write that clears its enable) call this between them.
//
//go:inline
func Barrier() { arm.Asm("dmb") }

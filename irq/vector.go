package irq

import "fmt"

// Handler is an interrupt service routine: a nullary function, matching
// the original's vector_table_entry_t.
type Handler func()

// table is the single statically-allocated handler table. Every IRQ that
// can be dispatched goes through this array; there is exactly one vector
// table on this platform, so this is a package-level singleton rather
// than a value callers construct.
var table [TotalIRQs]Handler

// SetHandler installs h as irq's handler. The caller must have the IRQ
// disabled; this matches the original driver's documented contract
// ("should only be called while a given interrupt is disabled") and
// avoids a window where the NVIC could dispatch through a half-written
// function value.
func SetHandler(i IRQ, h Handler) error {
	if uint32(i) >= TotalIRQs {
		return fmt.Errorf("irq: handler index %d out of range (max %d)", i, TotalIRQs-1)
	}
	table[i] = h
	return nil
}

// Dispatch invokes the installed handler for irq, if any. The real
// hardware vector table branches directly into the handler; this
// function is what the actual exception entry for a given IRQ line
// calls on this platform, and what tests call to simulate an interrupt
// firing without real hardware.
func Dispatch(i IRQ) {
	if uint32(i) >= TotalIRQs {
		return
	}
	if h := table[i]; h != nil {
		h()
	}
}

// HandlerFor reports the currently installed handler for irq, or nil.
func HandlerFor(i IRQ) Handler {
	if uint32(i) >= TotalIRQs {
		return nil
	}
	return table[i]
}

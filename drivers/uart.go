// Package drivers holds the thin external collaborators spec.md treats
// as out of scope beyond their interfaces: UART, timer, DAC, Ethernet,
// and the reset/watchdog driver. None of the clock, irq, or sgpio
// packages import this package — they are the collaborators' clients,
// never the reverse.
package drivers

import (
	"errors"

	"github.com/greatscottgadgets/libgreat-go/clock"
	"github.com/greatscottgadgets/libgreat-go/regs"
	"github.com/greatscottgadgets/libgreat-go/ringbuffer"
)

// ErrOutOfMemory is returned by collaborators that allocate, per
// spec.md §7 — the SGPIO core itself never allocates and never returns
// this.
var ErrOutOfMemory = errors.New("drivers: out of memory")

// UART is the interface-level contract for the LPC43xx USART/UART
// collaborator: construct with a caller-supplied RX ring buffer, enable
// its receive interrupt only after that buffer exists (the ordering
// spec.md §9 calls out as the original's init-ordering hazard), and
// read/write bytes through it.
type UART struct {
	branch *regs.BranchClock
	graph  *clock.Graph

	rx *ringbuffer.RingBuffer
	tx *ringbuffer.RingBuffer

	baud uint32
}

// NewUART constructs a UART collaborator bound to the given branch clock
// and RX/TX ring buffers. Per the documented hazard, the caller must
// have both buffers ready before calling Open — there is no path to
// construct a UART with a nil RX buffer and fill it in later.
func NewUART(branch *regs.BranchClock, rx, tx *ringbuffer.RingBuffer) (*UART, error) {
	if rx == nil || tx == nil {
		return nil, ErrOutOfMemory
	}
	return &UART{branch: branch, graph: clock.DefaultGraph(), rx: rx, tx: tx}, nil
}

// Open brings the UART's branch clock up, records the baud rate, and
// subscribes recomputeDivisor to the branch's frequency changes. It
// programs no baud-rate divisor and does not enable the RX-data
// interrupt.
func (u *UART) Open(baud uint32) error {
	u.graph.EnableBranch(u.branch, false)
	u.baud = baud
	u.graph.Subscribe(u.branch, func(hz uint32) { u.recomputeDivisor(hz) })
	// Enabling the RX-data interrupt itself is left to the concrete
	// register-level UART implementation this interface wraps; it is
	// out of scope here per spec.md §1/§6.6.
	return nil
}

func (u *UART) recomputeDivisor(hz uint32) {
	// A fractional divisor search belongs to the concrete UART register
	// driver, not this interface-level collaborator; see SPEC_FULL.md's
	// Open Question decision #3.
}

// Write enqueues data for transmission, failing with ErrOutOfMemory if
// the TX ring can't hold it.
func (u *UART) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := u.tx.Enqueue(b); err != nil {
			return i, ErrOutOfMemory
		}
	}
	return len(p), nil
}

// Read drains as much received data as is available into p, without
// blocking.
func (u *UART) Read(p []byte) int {
	n := 0
	for n < len(p) {
		b, err := u.rx.Dequeue()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n
}

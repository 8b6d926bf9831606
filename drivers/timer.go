package drivers

import (
	"github.com/greatscottgadgets/libgreat-go/clock"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// Timer is the interface-level contract for the platform microsecond
// timer the clock graph's bounded busy-waits (PLL lock poll, crystal
// settle, frequency-monitor measurement) depend on. The concrete
// register-level driver behind it is out of scope per spec.md §1.
type Timer struct {
	branch *regs.BranchClock
	graph  *clock.Graph
}

// NewTimer constructs a Timer collaborator bound to the given branch
// clock.
func NewTimer(branch *regs.BranchClock) *Timer {
	return &Timer{branch: branch, graph: clock.DefaultGraph()}
}

// Open brings the timer's branch clock up. It does not subscribe to
// frequency changes; MicrosecondsToTicks reads the branch frequency
// afresh on every call instead.
func (t *Timer) Open() {
	t.graph.EnableBranch(t.branch, false)
}

// MicrosecondsToTicks converts a microsecond duration to a raw tick
// count at the timer's current branch frequency, for callers that need
// to program a hardware compare register directly.
func (t *Timer) MicrosecondsToTicks(us uint32) uint32 {
	hz := t.graph.GetBranchFrequency(t.branch)
	if hz == 0 {
		return 0
	}
	return uint32((uint64(us) * uint64(hz)) / 1_000_000)
}

package drivers

import (
	"github.com/greatscottgadgets/libgreat-go/clock"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// Ethernet is the interface-level contract for the EMAC collaborator:
// bring its branch clock up. The MAC/PHY configuration, descriptor
// rings, and register block itself are out of scope per spec.md §1 —
// this repo has no Ethernet register struct, only the branch-clock
// dependency the clock graph already models.
type Ethernet struct {
	branch *regs.BranchClock
	graph  *clock.Graph
}

// NewEthernet constructs an Ethernet collaborator bound to its M4 branch
// clock.
func NewEthernet(branch *regs.BranchClock) *Ethernet {
	return &Ethernet{branch: branch, graph: clock.DefaultGraph()}
}

// Open brings the Ethernet branch clock up.
func (e *Ethernet) Open() {
	e.graph.EnableBranch(e.branch, false)
}

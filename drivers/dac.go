package drivers

import (
	"github.com/greatscottgadgets/libgreat-go/clock"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// DAC is the interface-level contract for the on-chip DAC collaborator:
// bring its branch clock up and write samples. The concrete conversion-
// rate/DMA-feed logic is out of scope per spec.md §1.
type DAC struct {
	branch *regs.BranchClock
	graph  *clock.Graph
}

// NewDAC constructs a DAC collaborator bound to its APB3 branch clock.
func NewDAC(branch *regs.BranchClock) *DAC {
	return &DAC{branch: branch, graph: clock.DefaultGraph()}
}

// Open brings the DAC's branch clock up.
func (d *DAC) Open() {
	d.graph.EnableBranch(d.branch, false)
}

// WriteSample is a placeholder for the concrete register write; the DAC
// output register itself is not modeled in regs since nothing in
// SPEC_FULL.md's SGPIO core exercises it directly.
func (d *DAC) WriteSample(value uint16) {}

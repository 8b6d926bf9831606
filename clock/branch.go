package clock

import (
	"github.com/greatscottgadgets/libgreat-go/printk"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// branchConfig is the static description of one peripheral branch
// clock: which base clock feeds it, which bus branch must be on for it
// to function, and whether it supports a divide-by-two and must never be
// disabled.
type branchConfig struct {
	name         string
	base         *BaseClock
	bus          *regs.BranchClock
	divideable   bool
	mustRemainOn bool
}

var changeCallbacks = map[*regs.BranchClock][]func(hz uint32){}

// RegisterBranch associates a CCU branch-clock register with its static
// configuration, the Go analogue of populating one row of the original
// driver's platform_base_clock_configurations table.
func (g *Graph) RegisterBranch(reg *regs.BranchClock, name string, base *BaseClock, bus *regs.BranchClock, divideable, mustRemainOn bool) {
	g.branchConfigs[reg] = &branchConfig{
		name:         name,
		base:         base,
		bus:          bus,
		divideable:   divideable,
		mustRemainOn: mustRemainOn,
	}
}

func (g *Graph) branchConfigFor(reg *regs.BranchClock) *branchConfig {
	if c, ok := g.branchConfigs[reg]; ok {
		return c
	}
	return &branchConfig{name: "unknown branch clock"}
}

// EnableBranch brings up the branch's base clock and bus clock (if any),
// then enables the branch itself. Idempotent: enabling an already-enabled
// branch just re-applies the same configuration.
func (g *Graph) EnableBranch(reg *regs.BranchClock, divideByTwo bool) {
	cfg := g.branchConfigFor(reg)

	if cfg.base != nil {
		if err := g.EnableBase(cfg.base); err != nil {
			printk.Warnf("clock: failed to bring up base clock for branch %s", cfg.name)
		}
	}
	if cfg.bus != nil {
		g.EnableBranch(cfg.bus, false)
	}

	ctrl := regs.BranchControl{Enable: true}
	if cfg.divideable && divideByTwo {
		ctrl.Divisor = 1
	}
	reg.SetControl(ctrl)

	g.branchEnabled[reg] = true
}

// DisableBranch disables a branch clock unless it is marked critical,
// then releases its base clock if nothing else still needs it.
//
// Per the datasheet, disabling must happen in two separate writes — set
// auto-disable-on-idle first, then clear enable as its own write — with a
// barrier between them so the compiler or hardware doesn't coalesce the
// two into one observable transition.
func (g *Graph) DisableBranch(reg *regs.BranchClock) {
	cfg := g.branchConfigFor(reg)
	if cfg.mustRemainOn {
		return
	}

	reg.SetControl(regs.BranchControl{Enable: true, DisableWhenBusTransactionsComplete: true, WakeAfterPowerdown: true})
	regs.Barrier()
	reg.SetControl(regs.BranchControl{})

	g.branchEnabled[reg] = false

	if cfg.base != nil {
		g.DisableBaseIfUnused(cfg.base)
	}
}

// GetBranchFrequency returns a branch clock's frequency: its base's
// frequency divided by the branch's own divisor, if it has one.
func (g *Graph) GetBranchFrequency(reg *regs.BranchClock) uint32 {
	cfg := g.branchConfigFor(reg)
	if cfg.base == nil {
		return 0
	}

	divisor := uint32(1)
	if cfg.divideable {
		divisor = reg.Control.Get()>>5&0x7 + 1
	}

	return g.GetBaseFrequency(cfg.base) / divisor
}

// Subscribe registers a callback invoked with the branch's new frequency
// whenever a frequency-change notification reaches it. The original
// driver flags SGPIO's branch as needing exactly this (a FIXME in
// sgpio.c asking for clock-change notification); this closes that gap —
// sgpio.Context uses it to mark its plan stale rather than silently
// drifting out of sync with the hardware.
func (g *Graph) Subscribe(reg *regs.BranchClock, cb func(hz uint32)) {
	changeCallbacks[reg] = append(changeCallbacks[reg], cb)
}

func (g *Graph) notifyBranch(reg *regs.BranchClock) {
	hz := g.GetBranchFrequency(reg)
	for _, cb := range changeCallbacks[reg] {
		cb(hz)
	}
}

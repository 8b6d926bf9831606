package clock

import (
	"runtime/volatile"

	"github.com/greatscottgadgets/libgreat-go/printk"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

// BaseClock is a CGU base-clock register. A base clock is identified by
// the pointer to its own register, the same way the original driver
// finds a base clock's configuration by comparing register pointers.
type BaseClock = volatile.Register32

// baseConfig is the static, board-independent description of one base
// clock: its default source, whether it is allowed to fall back to the
// internal oscillator on a dependency failure, and whether this register
// is actually configurable (the fixed-frequency "safe" base clock isn't).
type baseConfig struct {
	name               string
	source             Source
	noFallback         bool
	cannotBeConfigured bool
	hasDivisor         bool
}

var baseConfigs = map[*BaseClock]*baseConfig{}

// RegisterBase associates a CGU base-clock register with its static
// configuration. Call once per base clock during graph setup (see
// DefaultGraph in graph.go), the way the original driver's
// platform_base_clock_configurations table is populated at compile time.
func RegisterBase(reg *BaseClock, name string, source Source, noFallback, cannotBeConfigured, hasDivisor bool) {
	baseConfigs[reg] = &baseConfig{
		name:               name,
		source:             source,
		noFallback:         noFallback,
		cannotBeConfigured: cannotBeConfigured,
		hasDivisor:         hasDivisor,
	}
}

func configFor(reg *BaseClock) *baseConfig {
	if c, ok := baseConfigs[reg]; ok {
		return c
	}
	return &baseConfig{name: "unknown base clock", source: SourceNone}
}

// EnableBase brings up a base clock's configured source and powers the
// base clock on. If the source fails to come up, it falls back to the
// internal RC oscillator unless the config forbids that.
func (g *Graph) EnableBase(reg *BaseClock) error {
	cfg := configFor(reg)
	if cfg.cannotBeConfigured {
		return nil
	}

	source := cfg.source
	if err := g.bringUpSource(source); err != nil {
		if cfg.noFallback {
			printk.Warnf("clock: failed to bring up source %s for base %s; continuing anyway", source, cfg.name)
		} else {
			printk.Warnf("clock: failed to bring up source %s for base %s; falling back to internal oscillator", source, cfg.name)
			source = SourceInternalOscillator
		}
	}

	reg.Set(regs.EncodeBaseClock(false, 0, false, uint32(source)))
	return nil
}

// DisableBase powers a base clock down unconditionally.
func (g *Graph) DisableBase(reg *BaseClock) {
	cfg := configFor(reg)
	if cfg.cannotBeConfigured {
		return
	}
	cur := reg.Get()
	reg.Set(regs.EncodeBaseClock(true, regs.BaseClockDivisor(cur), regs.BaseClockBlockDuringChanges(cur), regs.BaseClockSource(cur)))
}

// DisableBaseIfUnused disables a base clock only if no enabled branch
// registered in the graph is rooted on it. PLLs and integer dividers are
// not checked: a base that only a PLL or a divider still uses is
// disabled.
func (g *Graph) DisableBaseIfUnused(reg *BaseClock) {
	if g.baseInUse(reg) {
		return
	}
	g.DisableBase(reg)
}

func (g *Graph) baseInUse(reg *BaseClock) bool {
	for branch, cfg := range g.branchConfigs {
		if cfg.base == reg && g.branchEnabled[branch] {
			return true
		}
	}
	return false
}

// SelectBaseSource resolves a (possibly virtual) source, brings up its
// dependencies, programs the base clock, and notifies downstream
// consumers of the frequency change.
func (g *Graph) SelectBaseSource(reg *BaseClock, source Source) error {
	physical := ResolvePhysicalSource(source)

	err := g.bringUpSource(physical)
	if err != nil {
		printk.Errorf("clock: failed to bring up source %s; falling back to internal oscillator", physical)
		physical = SourceInternalOscillator
	}

	cur := reg.Get()
	reg.Set(regs.EncodeBaseClock(regs.BaseClockPowerDown(cur), regs.BaseClockDivisor(cur), true, uint32(physical)))
	g.notifyBaseFrequencyChange(reg)
	return err
}

// GetBaseFrequency returns the base clock's current output frequency:
// its source's frequency divided by its own divisor (1 for bases that
// have none).
func (g *Graph) GetBaseFrequency(reg *BaseClock) uint32 {
	cur := reg.Get()
	sourceHz := g.GetSourceFrequency(Source(regs.BaseClockSource(cur)))

	cfg := configFor(reg)
	divisor := uint32(1)
	if cfg.hasDivisor {
		divisor = regs.BaseClockDivisor(cur) + 1
	}
	if divisor == 0 {
		divisor = 1
	}
	return sourceHz / divisor
}

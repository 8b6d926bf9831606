package clock

import (
	"testing"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

func TestResolvePhysicalSourceOverride(t *testing.T) {
	g := NewGraph()
	g.SetPrimarySource(func() Source { return SourcePLL0Audio })
	g.SetPrimaryInput(func() Source { return Source32kHzOscillator })

	if got := g.resolvePhysicalSource(SourcePrimary); got != SourcePLL0Audio {
		t.Errorf("resolvePhysicalSource(SourcePrimary) = %v, want %v", got, SourcePLL0Audio)
	}
	if got := g.resolvePhysicalSource(SourcePrimaryInput); got != Source32kHzOscillator {
		t.Errorf("resolvePhysicalSource(SourcePrimaryInput) = %v, want %v", got, Source32kHzOscillator)
	}
	if got := g.resolvePhysicalSource(SourceXTALOscillator); got != SourceXTALOscillator {
		t.Errorf("resolvePhysicalSource(physical source) = %v, want unchanged", got)
	}
}

func TestResolvePhysicalSourceDefaults(t *testing.T) {
	g := NewGraph()
	if got := g.resolvePhysicalSource(SourcePrimary); got != SourcePLL1 {
		t.Errorf("default primary source = %v, want %v", got, SourcePLL1)
	}
	if got := g.resolvePhysicalSource(SourcePrimaryInput); got != SourceXTALOscillator {
		t.Errorf("default primary input = %v, want %v", got, SourceXTALOscillator)
	}
}

func TestTargetMainPLLFrequencyDefault(t *testing.T) {
	g := NewGraph()
	if got := g.targetMainPLLFrequency(); got != 204_000_000 {
		t.Errorf("default target frequency = %d, want 204000000", got)
	}
	g.SetMainPLLTarget(96_000_000)
	if got := g.targetMainPLLFrequency(); got != 96_000_000 {
		t.Errorf("overridden target frequency = %d, want 96000000", got)
	}
}

func TestRegisterBranchAndConfigFor(t *testing.T) {
	g := NewGraph()
	reg := &regs.BranchClock{}
	g.RegisterBranch(reg, "test.branch", nil, nil, true, false)

	cfg := g.branchConfigFor(reg)
	if cfg.name != "test.branch" || !cfg.divideable {
		t.Errorf("branchConfigFor returned unexpected config: %+v", cfg)
	}
}

func TestBranchConfigForUnknownIsSafe(t *testing.T) {
	g := NewGraph()
	cfg := g.branchConfigFor(&regs.BranchClock{})
	if cfg.name != "unknown branch clock" {
		t.Errorf("branchConfigFor(unregistered) = %+v, want unknown placeholder", cfg)
	}
}

package clock

import (
	"errors"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

// ErrBringUpFailed is returned when a clock source's dependencies could
// not be brought up within MaxBringupAttempts.
var ErrBringUpFailed = errors.New("clock: bring-up failed")

// MaxBringupAttempts bounds retrying a PLL or oscillator bring-up before
// the graph gives up and refuses, rather than retrying forever.
const MaxBringupAttempts = 5

// Graph is the live clock graph: which branches are currently enabled,
// the static base/branch configuration tables, and the hooks used to
// resolve the two virtual sources (SourcePrimary, SourcePrimaryInput).
type Graph struct {
	branchConfigs map[*regs.BranchClock]*branchConfig
	branchEnabled map[*regs.BranchClock]bool

	primarySource func() Source
	primaryInput  func() Source

	bringupFailures map[Source]int
	mainPLLTargetHz uint32
}

// NewGraph returns an empty clock graph. Use DefaultGraph to get one
// pre-populated with the LPC43xx's static base/branch configuration.
func NewGraph() *Graph {
	return &Graph{
		branchConfigs:   map[*regs.BranchClock]*branchConfig{},
		branchEnabled:   map[*regs.BranchClock]bool{},
		primarySource:   func() Source { return SourcePLL1 },
		primaryInput:    func() Source { return SourceXTALOscillator },
		bringupFailures: map[Source]int{},
	}
}

// SetPrimarySource overrides which physical source SourcePrimary
// resolves to. Downstream software calls this the way the original
// driver's ATTR_WEAK platform_determine_primary_clock_source is
// overridden.
func (g *Graph) SetPrimarySource(f func() Source) { g.primarySource = f }

// SetPrimaryInput overrides which physical source SourcePrimaryInput
// resolves to.
func (g *Graph) SetPrimaryInput(f func() Source) { g.primaryInput = f }

// ResolvePhysicalSource replaces a virtual source (SourcePrimary,
// SourcePrimaryInput) with the physical source it currently resolves to.
// Any other source passes through unchanged.
func ResolvePhysicalSource(s Source) Source {
	switch s {
	case SourcePrimary:
		return defaultGraph.primarySource()
	case SourcePrimaryInput:
		return defaultGraph.primaryInput()
	default:
		return s
	}
}

func (g *Graph) resolvePhysicalSource(s Source) Source {
	switch s {
	case SourcePrimary:
		return g.primarySource()
	case SourcePrimaryInput:
		return g.primaryInput()
	default:
		return s
	}
}

// bringUpSource ensures a physical clock source is actually running,
// bringing up whatever PLL or oscillator backs it. Non-PLL sources
// (external inputs, the internal RC, the dividers) are assumed to be
// already either always-on or brought up by their own base clock.
func (g *Graph) bringUpSource(s Source) error {
	s = g.resolvePhysicalSource(s)

	if g.bringupFailures[s] >= MaxBringupAttempts {
		return ErrBringUpFailed
	}

	var err error
	switch s {
	case SourceXTALOscillator:
		err = EnsureMainXTALIsUp()
	case SourcePLL1:
		err = g.ensureMainPLLUp()
	case SourcePLL0USB:
		err = BringUpUSBPLL()
	case SourcePLL0Audio:
		err = BringUpAudioPLL()
	default:
		// Oscillators, external inputs, and dividers need no bring-up
		// procedure of their own.
		return nil
	}

	if err != nil {
		g.bringupFailures[s]++
		return err
	}
	g.bringupFailures[s] = 0
	return nil
}

func (g *Graph) ensureMainPLLUp() error {
	if regs.CGU().PLL1.Locked() {
		return nil
	}
	return BringUpMainPLL(g.targetMainPLLFrequency())
}

// targetMainPLLFrequency returns the frequency the graph should bring
// PLL1 up to. Firmware overrides this via SetMainPLLTarget; absent an
// override it defaults to 204 MHz, the LPC43xx's typical M4 core rate.
func (g *Graph) targetMainPLLFrequency() uint32 {
	if g.mainPLLTargetHz != 0 {
		return g.mainPLLTargetHz
	}
	return 204_000_000
}

// SetMainPLLTarget configures the frequency EnableBase/SelectBaseSource
// bring PLL1 up to when it isn't already locked.
func (g *Graph) SetMainPLLTarget(hz uint32) { g.mainPLLTargetHz = hz }

// GetSourceFrequency returns a clock source's frequency in Hz. If it
// hasn't been measured and a configured frequency is known, that is
// returned; otherwise the frequency monitor is used to measure it.
func (g *Graph) GetSourceFrequency(s Source) uint32 {
	s = g.resolvePhysicalSource(s)
	if int(s) >= len(sources) {
		return 0
	}

	st := &sources[s]
	if st.measured {
		return st.measuredHz
	}
	if st.configuredHz != 0 {
		return st.configuredHz
	}

	hz, err := DetectSourceFrequency(s)
	if err != nil {
		return 0
	}
	st.measuredHz = hz
	st.measured = true
	return hz
}

// notifyBaseFrequencyChange propagates a base clock's frequency change
// to every branch rooted on it.
func (g *Graph) notifyBaseFrequencyChange(reg *BaseClock) {
	for branch, cfg := range g.branchConfigs {
		if cfg.base == reg {
			g.notifyBranch(branch)
		}
	}
}

var defaultGraph = NewGraph()

// DefaultGraph returns the package-level clock graph pre-populated with
// the LPC43xx's static base and branch configuration — the single graph
// instance real firmware uses, analogous to the original driver's global
// register-pointer tables.
func DefaultGraph() *Graph {
	return defaultGraph
}

func init() {
	populateDefaultGraph(defaultGraph)
}

// populateDefaultGraph wires every base and branch clock this repo
// models into the graph with the configuration the original driver's
// static tables assign them. Only a representative subset of peripheral
// branches is registered — every one the SGPIO driver and the thin UART/
// timer/DAC/Ethernet collaborators actually touch — rather than the full peripheral set the real firmware drives.
func populateDefaultGraph(g *Graph) {
	cgu := regs.CGU()
	ccu1 := regs.CCU1()

	RegisterBase(&cgu.BaseSafe, "safe", SourceInternalOscillator, true, false, false)
	RegisterBase(&cgu.BaseUSB0, "usb0", SourcePLL0USB, false, false, false)
	RegisterBase(&cgu.BasePeriph, "periph", SourcePrimary, false, false, false)
	RegisterBase(&cgu.BaseM4, "m4", SourcePrimary, false, false, false)
	RegisterBase(&cgu.BaseAPB1, "apb1", SourcePrimary, false, false, false)
	RegisterBase(&cgu.BaseAPB3, "apb3", SourcePrimary, false, false, false)
	RegisterBase(&cgu.IntegerDividerA, "idiva", SourcePrimary, false, false, true)
	RegisterBase(&cgu.IntegerDividerB, "idivb", SourcePrimary, false, false, true)
	RegisterBase(&cgu.BaseAudio, "audio", SourcePLL0Audio, false, false, false)

	g.RegisterBranch(&ccu1.M4.Bus, "m4.bus", &cgu.BaseM4, nil, false, true)
	g.RegisterBranch(&ccu1.M4.Core, "m4.core", &cgu.BaseM4, &ccu1.M4.Bus, false, true)
	g.RegisterBranch(&ccu1.Periph.Bus, "periph.bus", &cgu.BasePeriph, nil, false, false)
	g.RegisterBranch(&ccu1.Periph.Core, "periph.core", &cgu.BasePeriph, &ccu1.Periph.Bus, false, false)
	g.RegisterBranch(&ccu1.Periph.SGPIO, "periph.sgpio", &cgu.BasePeriph, &ccu1.Periph.Bus, false, false)
	g.RegisterBranch(&ccu1.APB3.Bus, "apb3.bus", &cgu.BaseAPB3, nil, false, false)
	g.RegisterBranch(&ccu1.APB3.DAC, "apb3.dac", &cgu.BaseAPB3, &ccu1.APB3.Bus, false, false)
	g.RegisterBranch(&ccu1.APB1.Bus, "apb1.bus", &cgu.BaseAPB1, nil, false, false)
	g.RegisterBranch(&ccu1.M4.Timer0, "m4.timer0", &cgu.BaseM4, &ccu1.M4.Bus, false, false)
	g.RegisterBranch(&ccu1.M4.Timer1, "m4.timer1", &cgu.BaseM4, &ccu1.M4.Bus, false, false)
	g.RegisterBranch(&ccu1.M4.USART0, "m4.usart0", &cgu.BaseM4, &ccu1.M4.Bus, false, false)
	g.RegisterBranch(&ccu1.M4.UART1, "m4.uart1", &cgu.BaseM4, &ccu1.M4.Bus, false, false)
	g.RegisterBranch(&ccu1.M4.Ethernet, "m4.ethernet", &cgu.BaseM4, &ccu1.M4.Bus, false, false)
	g.RegisterBranch(&ccu1.M4.EMCDiv, "m4.emcdiv", &cgu.BaseM4, &ccu1.M4.Bus, true, false)
}

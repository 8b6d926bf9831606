// Package clock models the LPC43xx clock graph: selectable-source base
// clocks in the CGU, peripheral branch clocks in the CCU, the three
// on-chip PLLs, and the frequency-monitor-driven measurement path that
// lets software discover an undocumented or externally-supplied clock's
// actual rate.
package clock

// Source is one of the clock sources a base clock (or a PLL) can be
// configured to run from.
type Source uint32

const (
	Source32kHzOscillator    Source = 0x00
	SourceInternalOscillator Source = 0x01
	SourceEnetRxClock        Source = 0x02
	SourceEnetTxClock        Source = 0x03
	SourceGPClockInput       Source = 0x04
	SourceXTALOscillator     Source = 0x06
	SourcePLL0USB            Source = 0x07
	SourcePLL0Audio          Source = 0x08
	SourcePLL1               Source = 0x09
	SourceDividerAOut        Source = 0x0c
	SourceDividerBOut        Source = 0x0d
	SourceDividerCOut        Source = 0x0e
	SourceDividerDOut        Source = 0x0f
	SourceDividerEOut        Source = 0x10

	SourceCount Source = 0x11

	// SourceNone represents an unused or invalid clock.
	SourceNone Source = 0x1D

	// SourcePrimaryInput is the virtual source resolved to the system's
	// primary clock input — by default the external crystal.
	SourcePrimaryInput Source = 0x1E

	// SourcePrimary is the virtual source resolved to the system's
	// primary clock — by default PLL1.
	SourcePrimary Source = 0x1F
)

func (s Source) String() string {
	switch s {
	case Source32kHzOscillator:
		return "32kHz oscillator"
	case SourceInternalOscillator:
		return "internal RC oscillator"
	case SourceEnetRxClock:
		return "Ethernet RX clock"
	case SourceEnetTxClock:
		return "Ethernet TX clock"
	case SourceGPClockInput:
		return "GP clock input"
	case SourceXTALOscillator:
		return "crystal oscillator"
	case SourcePLL0USB:
		return "USB PLL"
	case SourcePLL0Audio:
		return "audio PLL"
	case SourcePLL1:
		return "main PLL"
	case SourceDividerAOut, SourceDividerBOut, SourceDividerCOut, SourceDividerDOut, SourceDividerEOut:
		return "integer divider output"
	case SourceNone:
		return "none"
	case SourcePrimaryInput:
		return "primary input"
	case SourcePrimary:
		return "primary"
	default:
		return "unknown source"
	}
}

// sourceState tracks what the graph knows about a physical clock source:
// its configured (nominal) frequency and, once measured, the frequency
// the monitor hardware actually observed.
type sourceState struct {
	configuredHz uint32
	measuredHz   uint32
	measured     bool
	ticking      bool
}

var sources [SourceCount]sourceState

// SetConfiguredFrequency records the nominal frequency for a source —
// e.g. the crystal's rated frequency, known at board-design time rather
// than measured.
func SetConfiguredFrequency(s Source, hz uint32) {
	if int(s) < len(sources) {
		sources[s].configuredHz = hz
	}
}

func configuredFrequency(s Source) uint32 {
	if int(s) < len(sources) {
		return sources[s].configuredHz
	}
	return 0
}

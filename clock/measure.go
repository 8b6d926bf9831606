package clock

import (
	"errors"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

// ErrSourceNotTicking is returned when a clock source fails the
// frequency monitor's liveness check.
var ErrSourceNotTicking = errors.New("clock: source is not ticking")

// ErrSourceTooSlow is returned when a clock source is alive but too slow
// for the frequency monitor to resolve (below roughly 24 kHz).
var ErrSourceTooSlow = errors.New("clock: source too slow to measure")

const (
	observedTickRegisterSaturationPoint = 0x3FFF
	observedTicksMax                    = 0x3FFF
	measurementPeriodMax                = 0x1FF
	measurementTimeoutIterations        = 1_000_000
)

// validateSourceIsTicking runs a one-reference-tick measurement against a
// source; if the measurement never completes within the timeout, the
// source isn't running at all.
func validateSourceIsTicking(source Source) bool {
	fm := &regs.CGU().FrequencyMonitor

	fm.SetSourceToMeasure(uint32(source))
	fm.SetReferenceTicksRemaining(1)
	fm.Start()

	for i := 0; i < measurementTimeoutIterations; i++ {
		if !fm.MeasurementActive() {
			return true
		}
	}

	fm.Abort()
	return false
}

// runMeasurementIteration drives one pass of the frequency-monitor
// hardware and returns the number of observed-clock ticks counted (or,
// with useReferenceTimeframe, the number of reference-clock ticks spent
// getting there).
func runMeasurementIteration(observedTicksLimit, measurementPeriod uint32, useReferenceTimeframe bool) uint32 {
	fm := &regs.CGU().FrequencyMonitor

	initialObservedTicks := observedTickRegisterSaturationPoint - observedTicksLimit

	fm.SetReferenceTicksRemaining(measurementPeriod)
	fm.SetObservedClockTicks(initialObservedTicks)
	fm.Start()
	for fm.MeasurementActive() {
	}

	if useReferenceTimeframe {
		return measurementPeriod - fm.ReferenceTicksRemaining()
	}
	return fm.ObservedClockTicks() - initialObservedTicks
}

func lastMeasurementPeriodCompleted() bool {
	return regs.CGU().FrequencyMonitor.ReferenceTicksRemaining() == 0
}

// DetectSourceFrequency measures a clock source's frequency directly
// against the internal oscillator (or, when measuring the internal
// oscillator itself, against the crystal). It never consumes an integer
// divider, so high clocks (above a few hundred MHz) lose precision — a
// limitation inherited directly from the frequency-monitor hardware.
func DetectSourceFrequency(source Source) (uint32, error) {
	source = ResolvePhysicalSource(source)

	measureAgainst := source
	if source == SourceInternalOscillator {
		measureAgainst = SourceXTALOscillator
	} else if hz, err := DetectSourceFrequency(SourceInternalOscillator); err == nil && hz != 0 {
		sources[SourceInternalOscillator].measuredHz = hz
		sources[SourceInternalOscillator].measured = true
	}

	if !validateSourceIsTicking(measureAgainst) {
		return 0, ErrSourceNotTicking
	}

	regs.CGU().FrequencyMonitor.SetSourceToMeasure(uint32(measureAgainst))

	measurementPeriod := uint32(measurementPeriodMax)
	observedTicks := runMeasurementIteration(observedTicksMax, measurementPeriodMax, false)

	if observedTicks == 0 {
		return 0, ErrSourceTooSlow
	}

	if lastMeasurementPeriodCompleted() {
		for measurementPeriod > 0 && runMeasurementIteration(observedTicks, measurementPeriod-1, false) == observedTicks {
			measurementPeriod--
		}
	} else {
		observedTicks++
	}

	var resultHz float64
	if source != measureAgainst {
		ratio := float64(measurementPeriod) / float64(observedTicks)
		resultHz = float64(configuredFrequency(measureAgainst)) * ratio
	} else {
		ratio := float64(observedTicks) / float64(measurementPeriod)
		resultHz = float64(irkFrequency()) * ratio
	}

	return uint32(resultHz), nil
}

func irkFrequency() uint32 {
	return sources[SourceInternalOscillator].measuredHz
}

// FindFreeIntegerDivider returns an unused integer-divider output source,
// preferring later-numbered dividers (they're less likely to already be
// claimed), or SourceNone if all five are in use.
func (g *Graph) FindFreeIntegerDivider() Source {
	candidates := []Source{SourceDividerEOut, SourceDividerDOut, SourceDividerCOut, SourceDividerBOut, SourceDividerAOut}
	for _, c := range candidates {
		if !g.integerDividerInUse(c) {
			return c
		}
	}
	return SourceNone
}

func (g *Graph) integerDividerInUse(divider Source) bool {
	cgu := regs.CGU()
	check := func(reg *BaseClock) bool {
		cur := reg.Get()
		return Source(regs.BaseClockSource(cur)) == divider && !regs.BaseClockPowerDown(cur)
	}
	switch divider {
	case SourceDividerAOut:
		return check(&cgu.IntegerDividerA)
	case SourceDividerBOut:
		return check(&cgu.IntegerDividerB)
	case SourceDividerCOut:
		return check(&cgu.IntegerDividerC)
	case SourceDividerDOut:
		return check(&cgu.IntegerDividerD)
	case SourceDividerEOut:
		return check(&cgu.IntegerDividerE)
	default:
		return true
	}
}

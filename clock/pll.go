package clock

import (
	"errors"

	"github.com/greatscottgadgets/libgreat-go/printk"
	"github.com/greatscottgadgets/libgreat-go/regs"
)

var (
	ErrFrequencyTooHigh  = errors.New("clock: requested frequency too high for this PLL")
	ErrFrequencyTooLow   = errors.New("clock: requested frequency too low for this PLL")
	ErrInputTooFast      = errors.New("clock: input clock too fast to drive this PLL")
	ErrInputTooSlow      = errors.New("clock: input clock too slow to drive this PLL")
	ErrPLLLockTimeout    = errors.New("clock: PLL failed to lock")
	ErrUnsupportedUSBPLL = errors.New("clock: USB PLL frequency not supported by this driver")
	ErrAudioPLLUnimplemented = errors.New("clock: audio PLL bring-up not implemented")
)

const (
	mainPLLInputDivisorMax = 3
	mainPLLInputHighBound  = 25_000_000
	mainPLLCCOLowBound     = 156_000_000
	mainPLLCCOHighBound    = 320_000_000
	mainPLLOutputLowBound  = 9_750_000
	mainPLLInputLowBound   = 10_000_000

	pllLockTimeoutIterations = 1_000_000
)

// configureMainPLLParameters computes and programs PLL1's N/M/P dividers
// for a target output frequency given the clock actually driving it,
// dividing the input down first if it exceeds the PLL's input ceiling
// and doubling the target (compensating with the output divider) if it
// falls below the CCO's minimum.
func configureMainPLLParameters(targetFrequency, inputFrequency uint32) error {
	pll1 := &regs.CGU().PLL1

	inputDivisor := uint32(1)
	undividedInput := inputFrequency
	for inputFrequency > mainPLLInputHighBound {
		inputDivisor++
		inputFrequency = undividedInput / inputDivisor
	}
	if inputDivisor > mainPLLInputDivisorMax {
		return ErrInputTooFast
	}

	outputDivisor := uint32(0)
	for targetFrequency < mainPLLCCOLowBound {
		outputDivisor++
		targetFrequency *= 2
	}

	roundingOffset := inputFrequency / 2
	multiplier := (targetFrequency + roundingOffset) / inputFrequency

	ctrl := pll1.GetControl()
	ctrl.UsePLLFeedback = false
	ctrl.FeedbackDivisorM = multiplier - 1
	ctrl.InputDivisorN = inputDivisor - 1
	if outputDivisor != 0 {
		ctrl.OutputDivisorP = outputDivisor - 1
		ctrl.BypassOutputDivider = false
	} else {
		ctrl.BypassOutputDivider = true
	}
	pll1.SetControl(ctrl)

	return nil
}

// EnsureMainXTALIsUp enables the external crystal oscillator if it's
// currently disabled: it clears bypass first and, after a barrier, clears
// disable. The crystal has no lock indicator and no settle wait is made;
// "up" here just means "the bypass/disable bits are clear" — software
// brings it up once at boot and leaves it running.
func EnsureMainXTALIsUp() error {
	x := &regs.CGU().XTALControl
	if !x.Disabled() {
		return nil
	}
	x.SetBypass(false)
	regs.Barrier()
	x.SetDisabled(false)
	return nil
}

// BringUpMainPLL configures PLL1 to produce the requested frequency and
// waits for it to lock. It refuses targets above the CCO's 320 MHz
// ceiling or below 9.75 MHz. It keeps no failure count of its own; the
// MaxBringupAttempts gate is applied by Graph.bringUpSource before it
// calls a source's bring-up function.
func BringUpMainPLL(targetHz uint32) error {
	cgu := regs.CGU()

	if targetHz > mainPLLCCOHighBound {
		return ErrFrequencyTooHigh
	}
	if targetHz < mainPLLOutputLowBound {
		return ErrFrequencyTooLow
	}

	ctrl := cgu.PLL1.GetControl()
	ctrl.BlockDuringFrequencyChanges = false
	cgu.PLL1.SetControl(ctrl)

	inputSource := ResolvePhysicalSource(SourcePrimaryInput)
	inputHz := DefaultGraph().GetSourceFrequency(inputSource)
	if inputHz < mainPLLInputLowBound {
		printk.Errorf("clock: cannot drive PLL1 from a %d Hz clock; must be at least %d Hz", inputHz, mainPLLInputLowBound)
		return ErrInputTooSlow
	}

	ctrl = cgu.PLL1.GetControl()
	ctrl.Source = uint32(inputSource)
	cgu.PLL1.SetControl(ctrl)

	if err := configureMainPLLParameters(targetHz, inputHz); err != nil {
		return err
	}

	for i := 0; i < pllLockTimeoutIterations; i++ {
		if cgu.PLL1.Locked() {
			SetConfiguredFrequency(SourcePLL1, targetHz)
			return nil
		}
	}

	printk.Errorf("clock: PLL1 lock timed out")
	return ErrPLLLockTimeout
}

// usbPLLMDividerConstants are the pre-computed M-divider encodings from
// the LPC43xx datasheet's USB PLL table, indexed by input frequency in
// whole MHz. A zero entry means that input frequency can't drive the
// USB PLL to 480 MHz with this driver's supported configurations.
var usbPLLMDividerConstants = [25]uint32{
	0x00000000, 0x073e56c9, 0x073e2dad, 0x0b3e34b1,
	0x0e3e7777, 0x0d326667, 0x0b2a2a66, 0x00000000,
	0x08206aaa, 0x00000000, 0x071a7faa, 0x00000000,
	0x06167ffa, 0x00000000, 0x00000000, 0x05123fff,
	0x04101fff, 0x00000000, 0x00000000, 0x00000000,
	0x040e03ff, 0x00000000, 0x00000000, 0x00000000,
	0x030c00ff,
}

const usbPLLNPDividerConstant = 0x00302062

// BringUpUSBPLL configures PLL0USB to produce 480 MHz from the primary
// clock input, using the datasheet's pre-computed divider table rather
// than deriving dividers algebraically (the USB PLL's constraints don't
// reduce to the simple N/M/P search the main PLL uses).
func BringUpUSBPLL() error {
	cgu := regs.CGU()
	pll := &cgu.PLLUSB

	sourceHz := DefaultGraph().GetSourceFrequency(ResolvePhysicalSource(SourcePrimaryInput))
	sourceMHz := (sourceHz + 500_000) / 1_000_000

	if sourceMHz > 24 || usbPLLMDividerConstants[sourceMHz] == 0 {
		printk.Errorf("clock: cannot generate a USB PLL clock from a %d MHz input", sourceMHz)
		return ErrUnsupportedUSBPLL
	}

	pll.SetControl(true, false, false, false, false, false, uint32(ResolvePhysicalSource(SourcePrimaryInput)))
	pll.MDivider.Set(usbPLLMDividerConstants[sourceMHz])
	pll.NPDivider.Set(usbPLLNPDividerConstant)
	pll.SetControl(true, false, true, true, true, false, uint32(ResolvePhysicalSource(SourcePrimaryInput)))
	pll.SetControl(false, false, true, true, true, false, uint32(ResolvePhysicalSource(SourcePrimaryInput)))

	for i := 0; i < pllLockTimeoutIterations; i++ {
		if pll.Locked() {
			SetConfiguredFrequency(SourcePLL0USB, 480_000_000)
			return nil
		}
	}

	printk.Errorf("clock: USB PLL lock timed out")
	return ErrPLLLockTimeout
}

// BringUpAudioPLL is unimplemented, matching the original driver, which
// carries this exact stub and TODO.
func BringUpAudioPLL() error {
	printk.Errorf("clock: audio PLL support not yet implemented")
	return ErrAudioPLLUnimplemented
}

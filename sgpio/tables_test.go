package sgpio

import (
	"testing"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

func TestSliceForIOKnownPins(t *testing.T) {
	slice, err := SliceForIO(0)
	if err != nil || slice != regs.SliceA {
		t.Errorf("SliceForIO(0) = %d, %v; want SliceA, nil", slice, err)
	}
	slice, err = SliceForIO(15)
	if err != nil || slice != regs.SliceP {
		t.Errorf("SliceForIO(15) = %d, %v; want SliceP, nil", slice, err)
	}
}

func TestSliceForIOOutOfRange(t *testing.T) {
	if _, err := SliceForIO(16); err != ErrInvalidArgument {
		t.Errorf("SliceForIO(16) error = %v, want ErrInvalidArgument", err)
	}
}

func TestIOPinForSliceInverse(t *testing.T) {
	for pin := uint8(0); pin < regs.NumPins; pin++ {
		slice, err := SliceForIO(pin)
		if err != nil {
			t.Fatalf("SliceForIO(%d) unexpected error: %v", pin, err)
		}
		back, err := IOPinForSlice(slice)
		if err != nil || back != pin {
			t.Errorf("IOPinForSlice(SliceForIO(%d)=%d) = %d, %v; want %d, nil", pin, slice, back, err, pin)
		}
	}
}

func TestSliceForClockgenKnownPins(t *testing.T) {
	slice, err := SliceForClockgen(0)
	if err != nil || slice != regs.SliceB {
		t.Errorf("SliceForClockgen(0) = %d, %v; want SliceB, nil", slice, err)
	}
}

func TestSliceInConcatenationStepsForward(t *testing.T) {
	slice, err := sliceInConcatenation(regs.SliceA, 0)
	if err != nil || slice != regs.SliceA {
		t.Errorf("sliceInConcatenation(SliceA, 0) = %d, %v; want SliceA, nil", slice, err)
	}

	next, err := sliceInConcatenation(regs.SliceA, 1)
	if err != nil {
		t.Fatalf("sliceInConcatenation(SliceA, 1) unexpected error: %v", err)
	}
	want, _ := SliceForIO(1)
	if next != want {
		t.Errorf("sliceInConcatenation(SliceA, 1) = %d, want %d", next, want)
	}
}

func TestScuFunctionForKnownMapping(t *testing.T) {
	fn, err := scuFunctionFor(0, 0, 0)
	if err != nil || fn != 3 {
		t.Errorf("scuFunctionFor(0,0,0) = %d, %v; want 3, nil", fn, err)
	}
}

func TestScuFunctionForUnknownMapping(t *testing.T) {
	if _, err := scuFunctionFor(0, 0, 31); err != ErrInvalidPinMapping {
		t.Errorf("scuFunctionFor unknown mapping error = %v, want ErrInvalidPinMapping", err)
	}
}

func TestClockSourceForPinSupportedRange(t *testing.T) {
	src, err := ClockSourceForPin(8)
	if err != nil {
		t.Fatalf("ClockSourceForPin(8) unexpected error: %v", err)
	}
	if src.Type != ClockSourceTypePin || src.Selector != 0 {
		t.Errorf("ClockSourceForPin(8) = %+v, want Type=Pin Selector=0", src)
	}
}

func TestClockSourceForPinUnsupported(t *testing.T) {
	if _, err := ClockSourceForPin(0); err != ErrInvalidArgument {
		t.Errorf("ClockSourceForPin(0) error = %v, want ErrInvalidArgument", err)
	}
}

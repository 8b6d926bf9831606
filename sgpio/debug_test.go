package sgpio

import (
	"strings"
	"testing"

	"github.com/greatscottgadgets/libgreat-go/regs"
)

func TestModeString(t *testing.T) {
	cases := map[Mode]string{
		ModeStreamIn:      "stream-in",
		ModeStreamOut:     "stream-out",
		ModeFixedOut:      "fixed-out",
		ModeBidirectional: "bidirectional",
		ModeClockGen:      "clock-gen",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}

func TestDumpConfigurationReportsDisabledFunctions(t *testing.T) {
	c := &Context{Functions: []*Function{{Enabled: false}}}
	out := DumpConfiguration(c)
	if !strings.Contains(out, "disabled") {
		t.Errorf("DumpConfiguration output missing disabled marker: %q", out)
	}
}

func TestDumpConfigurationReportsEnabledFunctionFields(t *testing.T) {
	c := &Context{
		Functions: []*Function{{
			Enabled:             true,
			Mode:                ModeStreamOut,
			BusWidth:            8,
			IOSlice:             regs.SliceC,
			ShiftClockFrequency: 1_000_000,
			ShiftCountLimit:     64,
			SwapIRQsRequired:    true,
		}},
	}
	out := DumpConfiguration(c)
	for _, want := range []string{"stream-out", "width=8", "slice=C", "1000000Hz", "shift-limit=64", "isr=yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("DumpConfiguration output missing %q: %q", want, out)
		}
	}
}

package clock

import "testing"

func TestSourceString(t *testing.T) {
	cases := map[Source]string{
		SourceXTALOscillator: "crystal oscillator",
		SourcePLL1:           "main PLL",
		SourceNone:           "none",
		SourcePrimary:        "primary",
		Source(0xff):         "unknown source",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Source(%#x).String() = %q, want %q", uint32(s), got, want)
		}
	}
}

func TestConfiguredFrequencyRoundTrip(t *testing.T) {
	SetConfiguredFrequency(SourceXTALOscillator, 12_000_000)
	defer SetConfiguredFrequency(SourceXTALOscillator, 0)

	if got := configuredFrequency(SourceXTALOscillator); got != 12_000_000 {
		t.Errorf("configuredFrequency = %d, want 12000000", got)
	}
}

func TestConfiguredFrequencyOutOfRangeIsZero(t *testing.T) {
	if got := configuredFrequency(Source(1000)); got != 0 {
		t.Errorf("configuredFrequency(out of range) = %d, want 0", got)
	}
}

package printk

import "testing"

type captureSink struct {
	lines []string
}

func (c *captureSink) WriteString(s string) { c.lines = append(c.lines, s) }

func TestLevelGating(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		emit    func()
		wantLen int
	}{
		{"error only, error emitted", LevelError, func() { Errorf("x") }, 1},
		{"error only, debug suppressed", LevelError, func() { Debugf("x") }, 0},
		{"all enabled, debug emitted", LevelAll, func() { Debugf("x") }, 1},
		{"none enabled, nothing emitted", LevelNone, func() { Errorf("x") }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &captureSink{}
			SetSink(c)
			SetLevel(tt.level)
			tt.emit()
			if len(c.lines) != tt.wantLen {
				t.Errorf("got %d lines, want %d", len(c.lines), tt.wantLen)
			}
		})
	}

	SetSink(nil)
	SetLevel(LevelError | LevelWarning)
}

func TestPrefixAndNewline(t *testing.T) {
	c := &captureSink{}
	SetSink(c)
	SetLevel(LevelAll)
	defer func() { SetSink(nil); SetLevel(LevelError | LevelWarning) }()

	Errorf("boom %d", 42)
	if len(c.lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(c.lines))
	}
	want := "ERROR: boom 42\n"
	if c.lines[0] != want {
		t.Errorf("got %q, want %q", c.lines[0], want)
	}
}

func TestNilSinkDiscards(t *testing.T) {
	SetSink(nil)
	SetLevel(LevelAll)
	Errorf("should not panic")
}

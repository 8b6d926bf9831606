// Package printk is a leveled diagnostic logger for code that has no
// stdout. It exists purely for diagnostics: nothing in regs, clock, irq,
// or sgpio calls into it for control flow, only to report what they did
// or why an operation failed.
package printk

import "fmt"

// Level is a bitmask of enabled message classes.
type Level uint8

const (
	LevelNone Level = 0
	LevelError Level = 1 << iota
	LevelWarning
	LevelInfo
	LevelDebug

	LevelAll = LevelError | LevelWarning | LevelInfo | LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "mixed"
	}
}

// Sink receives formatted log lines. Implementations are expected not to
// block for long: the UART driver this is typically wired to should be
// interrupt-driven or accept drops under load.
type Sink interface {
	WriteString(s string)
}

var (
	level Level = LevelError | LevelWarning
	sink  Sink
)

// SetLevel changes which message classes reach the sink.
func SetLevel(l Level) { level = l }

// CurrentLevel reports the active mask.
func CurrentLevel() Level { return level }

// SetSink installs the destination for log output. A nil sink discards
// everything, which is also the default until firmware installs one.
func SetSink(s Sink) { sink = s }

func logf(class Level, prefix, format string, args ...interface{}) {
	if level&class == 0 || sink == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	sink.WriteString(prefix + msg)
}

func Errorf(format string, args ...interface{}) { logf(LevelError, "ERROR: ", format, args...) }
func Warnf(format string, args ...interface{})  { logf(LevelWarning, " WARN: ", format, args...) }
func Infof(format string, args ...interface{})  { logf(LevelInfo, " INFO: ", format, args...) }
func Debugf(format string, args ...interface{}) { logf(LevelDebug, "DEBUG: ", format, args...) }

package core

import "time"

// Operation characters
const (
	OpHigh         = 'H'
	OpLow          = 'L'
	OpPulseLowHigh = 't' // low, 100 ms, high
	OpPulseHighLow = 'T' // high, 100 ms, low
	OpLongLowHigh  = 'u' // low, 1000 ms, high
	OpLongHighLow  = 'U' // high, 1000 ms, low
	OpHelp         = '?'
)

// EchoUnknown is sent back in place of an unrecognized byte
const EchoUnknown byte = '?'

// Pulse durations
const (
	ShortPulse = 100 * time.Millisecond
	LongPulse  = 1000 * time.Millisecond
)

// Kind tags a classified command
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSelect
	KindSetHigh
	KindSetLow
	KindPulseLowHigh
	KindPulseHighLow
	KindHelp
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindSelect:       "select",
	KindSetHigh:      "high",
	KindSetLow:       "low",
	KindPulseLowHigh: "pulse-low-high",
	KindPulseHighLow: "pulse-high-low",
	KindHelp:         "help",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + itoa(int(k)) + ")"
}

// Command is one classified input byte. It lives for a single step.
type Command struct {
	Kind     Kind
	Raw      byte          // the received byte
	Pin      PinRef        // KindSelect only
	Duration time.Duration // pulse kinds only
}

// Classify maps one input byte to a command. Selectors take priority over
// operations; anything unmatched is KindUnknown.
func Classify(table *PinTable, c byte) Command {
	if table != nil {
		if pin, ok := table.Lookup(c); ok {
			return Command{Kind: KindSelect, Raw: c, Pin: pin}
		}
	}

	switch c {
	case OpHigh:
		return Command{Kind: KindSetHigh, Raw: c}
	case OpLow:
		return Command{Kind: KindSetLow, Raw: c}
	case OpPulseLowHigh:
		return Command{Kind: KindPulseLowHigh, Raw: c, Duration: ShortPulse}
	case OpPulseHighLow:
		return Command{Kind: KindPulseHighLow, Raw: c, Duration: ShortPulse}
	case OpLongLowHigh:
		return Command{Kind: KindPulseLowHigh, Raw: c, Duration: LongPulse}
	case OpLongHighLow:
		return Command{Kind: KindPulseHighLow, Raw: c, Duration: LongPulse}
	case OpHelp:
		return Command{Kind: KindHelp, Raw: c}
	}
	return Command{Kind: KindUnknown, Raw: c}
}

// Echo returns the acknowledgment byte for the command. Help has none: the
// help text is its response.
func (c Command) Echo() (byte, bool) {
	switch c.Kind {
	case KindHelp:
		return 0, false
	case KindUnknown:
		return EchoUnknown, true
	}
	return c.Raw, true
}

// IsPulse reports whether the command is a timed pulse
func (c Command) IsPulse() bool {
	return c.Kind == KindPulseLowHigh || c.Kind == KindPulseHighLow
}

// Levels returns the levels a pulse drives before and after its delay
func (c Command) Levels() (first, second Level) {
	if c.Kind == KindPulseHighLow {
		return High, Low
	}
	return Low, High
}

// isOperation reports whether c is reserved by an operation
func isOperation(c byte) bool {
	switch c {
	case OpHigh, OpLow, OpPulseLowHigh, OpPulseHighLow, OpLongLowHigh, OpLongHighLow, OpHelp:
		return true
	}
	return false
}

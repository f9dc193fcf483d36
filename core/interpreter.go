// Command interpreter
// Consumes one received byte per step, keeps the single pin selection, drives
// pins and answers the host with an echo byte or the help text.
package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// PulseMode selects how timed pulses wait between their two levels
type PulseMode uint8

const (
	// PulseBlocking sleeps through the pulse; nothing else runs meanwhile
	PulseBlocking PulseMode = iota

	// PulseScheduled arms a timer for the second level. Input is not read
	// until the pulse ends, but the transport keeps being serviced.
	PulseScheduled
)

// Config holds everything an interpreter needs
type Config struct {
	Layout Layout
	Pins   PinDriver
	Clock  Clock         // nil selects a SystemClock
	Pulse  PulseMode     // default PulseBlocking
	Idle   time.Duration // Run sleeps this long after an idle iteration
	Debug  DebugWriter   // nil disables debug output
}

// Stats counts what the interpreter has done since creation
type Stats struct {
	Received    uint32 // bytes stepped
	Selects     uint32
	Operations  uint32 // H, L and pulses
	Unknown     uint32
	Echoed      uint32
	EchoDropped uint32 // transmit path not ready or write failed
	HelpSent    uint32
	HelpDropped uint32
	PinErrors   uint32
}

var ErrNoPinDriver = errors.New("interpreter needs a pin driver")
var ErrNoPinTable = errors.New("interpreter needs a layout with a pin table")

// Interpreter is the remote-GPIO command interpreter. The selection register
// is a field, so independent interpreters never interfere. It is safe to
// read Stats, Selected and Trace from other goroutines while Run is active.
type Interpreter struct {
	mu sync.Mutex

	layout Layout
	pins   PinDriver
	clock  Clock
	mode   PulseMode
	idle   time.Duration
	debug  DebugWriter

	selected PinRef
	sched    Scheduler
	pulse    pendingPulse
	stats    Stats
	trace    Trace
}

// pendingPulse is the second half of a scheduled pulse
type pendingPulse struct {
	Timer
	active bool
	cmd    Command
	pin    PinRef
	level  Level
	tx     Transport
}

// NewInterpreter creates an interpreter with the default selection
func NewInterpreter(cfg Config) (*Interpreter, error) {
	if cfg.Pins == nil {
		return nil, ErrNoPinDriver
	}
	if cfg.Layout.Pins == nil {
		return nil, ErrNoPinTable
	}
	if cfg.Clock == nil {
		cfg.Clock = NewSystemClock()
	}

	in := &Interpreter{
		layout:   cfg.Layout,
		pins:     cfg.Pins,
		clock:    cfg.Clock,
		mode:     cfg.Pulse,
		idle:     cfg.Idle,
		debug:    cfg.Debug,
		selected: DefaultPin,
	}
	in.pulse.Handler = in.pulseDone
	return in, nil
}

// Init configures every pin of the layout as an output driven low, the
// power-on state of the board
func (in *Interpreter) Init() {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, pin := range in.layout.Pins.Pins() {
		if err := in.pins.ConfigureOutput(pin); err != nil {
			in.pinError(pin, err)
			continue
		}
		in.setPin(pin, Low)
	}
}

// Layout returns the layout the interpreter was built with
func (in *Interpreter) Layout() Layout {
	return in.layout
}

// Selected returns the currently selected pin
func (in *Interpreter) Selected() PinRef {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.selected
}

// Stats returns a copy of the counters
func (in *Interpreter) Stats() Stats {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.stats
}

// Trace returns the most recent steps, oldest first
func (in *Interpreter) Trace() []TraceEvent {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.trace.Events()
}

// DumpTrace writes the step trace to the debug writer
func (in *Interpreter) DumpTrace() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.trace.Dump(in.debug)
}

// SetDebug replaces the debug writer; nil disables debug output
func (in *Interpreter) SetDebug(w DebugWriter) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.debug = w
}

// Busy reports whether a scheduled pulse is still waiting for its second level
func (in *Interpreter) Busy() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pulse.active
}

// Step processes one received byte and returns how it was classified.
// Nothing is reported to the caller as an error: unknown bytes are echoed
// as '?' and output that cannot be sent is dropped.
func (in *Interpreter) Step(c byte, tx Transport) Command {
	in.mu.Lock()
	defer in.mu.Unlock()

	// Pulses never overlap: a pending one runs its full length before the
	// next byte
	if in.pulse.active {
		if left := int32(in.pulse.WakeTime - in.clock.Millis()); left > 0 {
			in.clock.Sleep(time.Duration(left) * time.Millisecond)
		}
		in.sched.Cancel(&in.pulse.Timer)
		in.completePulse()
	}

	return in.step(c, tx)
}

func (in *Interpreter) step(c byte, tx Transport) Command {
	cmd := Classify(in.layout.Pins, c)
	in.stats.Received++

	switch cmd.Kind {
	case KindSelect:
		in.selected = cmd.Pin
		in.stats.Selects++
	case KindSetHigh:
		in.stats.Operations++
		in.setPin(in.selected, High)
	case KindSetLow:
		in.stats.Operations++
		in.setPin(in.selected, Low)
	case KindPulseLowHigh, KindPulseHighLow:
		in.stats.Operations++
		if in.startPulse(cmd, tx) {
			// echo follows when the timer fires
			return cmd
		}
	case KindHelp:
		in.sendHelp(tx)
		in.record(cmd, 0)
		return cmd
	case KindUnknown:
		in.stats.Unknown++
		in.debugPrintln("unknown command " + charString(c))
	}

	in.finish(cmd, tx)
	return cmd
}

// Poll runs one iteration of the main loop: at most one byte is stepped,
// due timers fire, and the transport is serviced. It returns whether a byte
// was processed.
func (in *Interpreter) Poll(tx Transport) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	stepped := false
	if !in.pulse.active {
		if c, ok := tx.TryReadByte(); ok {
			in.step(c, tx)
			stepped = true
		}
	}

	in.sched.Dispatch(in.clock.Millis())
	tx.Task()
	return stepped
}

// Run polls until ctx is done. On the device ctx is never cancelled.
func (in *Interpreter) Run(ctx context.Context, tx Transport) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !in.Poll(tx) && in.idle > 0 {
			in.clock.Sleep(in.idle)
		}
	}
}

// startPulse drives the first level and either waits out the pulse or arms
// the timer for the second level. It returns true when the pulse is pending.
func (in *Interpreter) startPulse(cmd Command, tx Transport) bool {
	first, second := cmd.Levels()
	pin := in.selected

	in.setPin(pin, first)

	if in.mode != PulseScheduled {
		in.clock.Sleep(cmd.Duration)
		in.setPin(pin, second)
		return false
	}

	in.pulse.active = true
	in.pulse.cmd = cmd
	in.pulse.pin = pin
	in.pulse.level = second
	in.pulse.tx = tx
	in.pulse.WakeTime = in.clock.Millis() + durationMillis(cmd.Duration)
	in.sched.Schedule(&in.pulse.Timer)
	return true
}

// pulseDone is the timer handler ending a scheduled pulse
func (in *Interpreter) pulseDone(t *Timer) uint8 {
	in.completePulse()
	return SF_DONE
}

func (in *Interpreter) completePulse() {
	p := &in.pulse
	p.active = false
	in.setPin(p.pin, p.level)
	in.finish(p.cmd, p.tx)
	p.tx = nil
}

// finish sends the command's echo and records the step
func (in *Interpreter) finish(cmd Command, tx Transport) {
	echo, _ := cmd.Echo()
	if !in.sendEcho(tx, echo) {
		echo = 0
	}
	in.record(cmd, echo)
}

func (in *Interpreter) record(cmd Command, echo byte) {
	in.trace.Record(TraceEvent{
		Kind:  cmd.Kind,
		Raw:   cmd.Raw,
		Pin:   in.selected,
		Clock: in.clock.Millis(),
		Echo:  echo,
	})
}

func (in *Interpreter) setPin(pin PinRef, level Level) {
	if err := in.pins.Set(pin, level); err != nil {
		in.pinError(pin, err)
	}
}

func (in *Interpreter) pinError(pin PinRef, err error) {
	in.stats.PinErrors++
	in.debugPrintln("pin " + pin.String() + ": " + err.Error())
}

// sendEcho transmits one byte if the transmit path is ready. A busy path
// drops the byte; there is no queue and no retry.
func (in *Interpreter) sendEcho(tx Transport, b byte) bool {
	if !tx.Ready() {
		in.stats.EchoDropped++
		in.debugPrintln("echo " + charString(b) + " dropped: transmit not ready")
		return false
	}
	if err := tx.WriteByte(b); err != nil {
		in.stats.EchoDropped++
		in.debugPrintln("echo " + charString(b) + " dropped: " + err.Error())
		return false
	}
	in.stats.Echoed++
	return true
}

// sendHelp transmits the whole help text or nothing
func (in *Interpreter) sendHelp(tx Transport) {
	if !tx.Ready() {
		in.stats.HelpDropped++
		in.debugPrintln("help dropped: transmit not ready")
		return
	}
	if err := tx.WriteString(in.layout.Help); err != nil {
		in.stats.HelpDropped++
		in.debugPrintln("help dropped: " + err.Error())
		return
	}
	in.stats.HelpSent++
}

func (in *Interpreter) debugPrintln(msg string) {
	if in.debug != nil {
		in.debug(msg)
	}
}

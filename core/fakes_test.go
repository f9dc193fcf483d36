package core

import (
	"errors"
	"time"
)

// fakeClock advances only when slept on
type fakeClock struct {
	now    uint32
	sleeps []time.Duration
}

func (c *fakeClock) Millis() uint32 { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now += uint32(d / time.Millisecond)
}

func (c *fakeClock) advance(ms uint32) { c.now += ms }

// fakeTransport feeds scripted input and captures output
type fakeTransport struct {
	in       []byte
	out      []byte
	strings  []string
	notReady bool
	writeErr error
	tasks    int
}

func (f *fakeTransport) TryReadByte() (byte, bool) {
	if len(f.in) == 0 {
		return 0, false
	}
	c := f.in[0]
	f.in = f.in[1:]
	return c, true
}

func (f *fakeTransport) Ready() bool { return !f.notReady }

func (f *fakeTransport) WriteByte(c byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.out = append(f.out, c)
	return nil
}

func (f *fakeTransport) WriteString(s string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.strings = append(f.strings, s)
	f.out = append(f.out, s...)
	return nil
}

func (f *fakeTransport) Task() { f.tasks++ }

// failingPins rejects every pin on a given port
type failingPins struct {
	*MemoryPins
	bad Port
}

var errNoSuchPin = errors.New("no such pin")

func (f *failingPins) Set(pin PinRef, level Level) error {
	if pin.Port == f.bad {
		return errNoSuchPin
	}
	return f.MemoryPins.Set(pin, level)
}

func newTestInterpreter(t interface{ Fatalf(string, ...any) }, layout Layout, mode PulseMode) (*Interpreter, *MemoryPins, *fakeClock) {
	clock := &fakeClock{}
	pins := NewMemoryPins(clock)
	in, err := NewInterpreter(Config{Layout: layout, Pins: pins, Clock: clock, Pulse: mode})
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	return in, pins, clock
}

// feed steps every byte of s through the interpreter
func feed(in *Interpreter, tx Transport, s string) {
	for i := 0; i < len(s); i++ {
		in.Step(s[i], tx)
	}
}

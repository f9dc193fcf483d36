package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSelectThenHighDrivesOnlySelectedPin(t *testing.T) {
	for _, sel := range ArduinoMicro.Pins.Selectors() {
		in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
		tx := &fakeTransport{}

		feed(in, tx, string([]byte{sel, 'H'}))

		want, _ := ArduinoMicro.Pins.Lookup(sel)
		events := pins.Events()
		if len(events) != 1 {
			t.Fatalf("selector %q: expected 1 pin write, got %d", sel, len(events))
		}
		if events[0].Pin != want || events[0].Level != High {
			t.Errorf("selector %q: expected %v HIGH, got %v %v", sel, want, events[0].Pin, events[0].Level)
		}
		if string(tx.out) != string([]byte{sel, 'H'}) {
			t.Errorf("selector %q: expected echoes %q, got %q", sel, []byte{sel, 'H'}, tx.out)
		}
	}
}

func TestSelectionPersistsAcrossOperations(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	feed(in, tx, "0HLH")

	pin := Pin(PortB, 2)
	wantLevels := []Level{High, Low, High}
	events := pins.Events()
	if len(events) != len(wantLevels) {
		t.Fatalf("expected %d writes, got %d", len(wantLevels), len(events))
	}
	for i, ev := range events {
		if ev.Pin != pin {
			t.Errorf("write %d touched %v, expected %v", i, ev.Pin, pin)
		}
		if ev.Level != wantLevels[i] {
			t.Errorf("write %d: expected %v, got %v", i, wantLevels[i], ev.Level)
		}
	}
	if string(tx.out) != "0HLH" {
		t.Errorf("expected echoes %q, got %q", "0HLH", tx.out)
	}
	if in.Selected() != pin {
		t.Errorf("expected selection %v, got %v", pin, in.Selected())
	}
}

func TestUnknownBytesEchoQuestionMark(t *testing.T) {
	unknown := 0
	for b := 0; b < 256; b++ {
		c := byte(b)
		if _, ok := ArduinoMicro.Pins.Lookup(c); ok || isOperation(c) {
			continue
		}
		unknown++

		in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
		tx := &fakeTransport{}
		cmd := in.Step(c, tx)

		if cmd.Kind != KindUnknown {
			t.Errorf("byte 0x%02x: expected unknown, got %v", c, cmd.Kind)
		}
		if string(tx.out) != "?" {
			t.Errorf("byte 0x%02x: expected echo '?', got %q", c, tx.out)
		}
		if len(pins.Events()) != 0 {
			t.Errorf("byte 0x%02x: unexpected pin writes", c)
		}
		if in.Stats().Unknown != 1 {
			t.Errorf("byte 0x%02x: expected Unknown=1, got %d", c, in.Stats().Unknown)
		}
	}
	if unknown != 256-25-7 {
		t.Errorf("expected %d unknown bytes, checked %d", 256-25-7, unknown)
	}
}

func TestPulseForcesInitialLevel(t *testing.T) {
	in, pins, clock := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	feed(in, tx, "3H")
	pins.ClearEvents()
	clock.now = 1000

	in.Step('t', tx)

	pin := Pin(PortD, 2)
	events := pins.Events()
	want := []PinEvent{
		{Pin: pin, Level: Low, At: 1000},
		{Pin: pin, Level: High, At: 1100},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d writes, got %d: %v", len(want), len(events), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("write %d: expected %+v, got %+v", i, want[i], events[i])
		}
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != ShortPulse {
		t.Errorf("expected one %v sleep, got %v", ShortPulse, clock.sleeps)
	}
	if string(tx.out) != "3Ht" {
		t.Errorf("expected echoes %q, got %q", "3Ht", tx.out)
	}
}

func TestPulseDirectionsAndDurations(t *testing.T) {
	tests := []struct {
		op            byte
		first, second Level
		duration      time.Duration
	}{
		{'t', Low, High, ShortPulse},
		{'T', High, Low, ShortPulse},
		{'u', Low, High, LongPulse},
		{'U', High, Low, LongPulse},
	}

	for _, tt := range tests {
		in, pins, clock := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
		tx := &fakeTransport{}

		feed(in, tx, string([]byte{'a', tt.op}))

		events := pins.Events()
		if len(events) != 2 {
			t.Fatalf("%q: expected 2 writes, got %d", tt.op, len(events))
		}
		if events[0].Level != tt.first || events[1].Level != tt.second {
			t.Errorf("%q: expected %v then %v, got %v then %v",
				tt.op, tt.first, tt.second, events[0].Level, events[1].Level)
		}
		if got := time.Duration(events[1].At-events[0].At) * time.Millisecond; got != tt.duration {
			t.Errorf("%q: expected %v between levels, got %v", tt.op, tt.duration, got)
		}
		if len(clock.sleeps) != 1 || clock.sleeps[0] != tt.duration {
			t.Errorf("%q: expected a single %v sleep, got %v", tt.op, tt.duration, clock.sleeps)
		}
		if string(tx.out) != string([]byte{'a', tt.op}) {
			t.Errorf("%q: unexpected echoes %q", tt.op, tx.out)
		}
	}
}

func TestHelpWhenReady(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	cmd := in.Step('?', tx)

	if cmd.Kind != KindHelp {
		t.Fatalf("expected help, got %v", cmd.Kind)
	}
	if string(tx.out) != HelpArduinoMicro {
		t.Errorf("help text mismatch:\n%q", tx.out)
	}
	if len(tx.strings) != 1 {
		t.Errorf("expected help as a single write, got %d writes", len(tx.strings))
	}
	if len(pins.Events()) != 0 {
		t.Error("help must not touch pins")
	}
	if s := in.Stats(); s.HelpSent != 1 || s.Echoed != 0 {
		t.Errorf("expected HelpSent=1 Echoed=0, got %+v", s)
	}
}

func TestHelpWhenNotReadyIsDropped(t *testing.T) {
	in, _, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{notReady: true}

	in.Step('?', tx)

	if len(tx.out) != 0 {
		t.Errorf("expected no output, got %q", tx.out)
	}
	if s := in.Stats(); s.HelpDropped != 1 || s.EchoDropped != 0 {
		t.Errorf("expected HelpDropped=1 EchoDropped=0, got %+v", s)
	}

	// Nothing is queued: a later ready cycle sends only the new echo
	tx.notReady = false
	in.Step('H', tx)
	if string(tx.out) != "H" {
		t.Errorf("expected only %q after recovery, got %q", "H", tx.out)
	}
}

func TestEchoDroppedWhenNotReady(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{notReady: true}

	feed(in, tx, "5H")

	if len(tx.out) != 0 {
		t.Errorf("expected no output, got %q", tx.out)
	}
	if l, ok := pins.Level(Pin(PortD, 0)); !ok || l != High {
		t.Error("pin must still be driven when the echo is dropped")
	}
	if s := in.Stats(); s.EchoDropped != 2 || s.Echoed != 0 {
		t.Errorf("expected EchoDropped=2, got %+v", s)
	}
}

func TestEchoWriteErrorIsSwallowed(t *testing.T) {
	in, _, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{writeErr: errors.New("endpoint stalled")}

	cmd := in.Step('L', tx)

	if cmd.Kind != KindSetLow {
		t.Errorf("expected low, got %v", cmd.Kind)
	}
	if in.Stats().EchoDropped != 1 {
		t.Errorf("expected EchoDropped=1, got %d", in.Stats().EchoDropped)
	}
}

func TestRepeatedHighIsIdempotent(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	feed(in, tx, "nH")
	if l, _ := pins.Level(Pin(PortC, 7)); l != High {
		t.Fatal("expected pin high after first H")
	}
	in.Step('H', tx)
	if l, _ := pins.Level(Pin(PortC, 7)); l != High {
		t.Fatal("expected pin high after second H")
	}
	if string(tx.out) != "nHH" {
		t.Errorf("expected two separate echoes, got %q", tx.out)
	}
}

func TestDefaultSelection(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	if in.Selected() != DefaultPin {
		t.Fatalf("expected default selection %v, got %v", DefaultPin, in.Selected())
	}

	in.Step('H', tx)

	events := pins.Events()
	if len(events) != 1 || events[0].Pin != (PinRef{Port: 0, Bit: 0}) || events[0].Level != High {
		t.Errorf("expected port 0 bit 0 driven high, got %v", events)
	}
}

func TestEndToEndSelectAndPulse(t *testing.T) {
	in, pins, clock := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{in: []byte("3T")}

	for in.Poll(tx) {
	}

	pin := Pin(PortD, 2)
	want := []PinEvent{
		{Pin: pin, Level: High, At: 0},
		{Pin: pin, Level: Low, At: 100},
	}
	events := pins.Events()
	if len(events) != 2 || events[0] != want[0] || events[1] != want[1] {
		t.Errorf("expected %v, got %v", want, events)
	}
	if string(tx.out) != "3T" {
		t.Errorf("expected echoes %q, got %q", "3T", tx.out)
	}
	if clock.now != 100 {
		t.Errorf("expected 100 ms to elapse, got %d", clock.now)
	}
	// one Task per Poll, including the final idle one
	if tx.tasks != 3 {
		t.Errorf("expected 3 transport tasks, got %d", tx.tasks)
	}
}

func TestScheduledPulseKeepsServicingTransport(t *testing.T) {
	in, pins, clock := newTestInterpreter(t, ArduinoMicro, PulseScheduled)
	tx := &fakeTransport{in: []byte("3T5H")}

	in.Poll(tx) // '3'
	in.Poll(tx) // 'T' starts

	if !in.Busy() {
		t.Fatal("expected pulse pending")
	}
	if l, _ := pins.Level(Pin(PortD, 2)); l != High {
		t.Fatal("expected first level applied immediately")
	}
	if string(tx.out) != "3" {
		t.Fatalf("echo must wait for the pulse to end, got %q", tx.out)
	}

	clock.advance(99)
	in.Poll(tx)
	if !in.Busy() || len(tx.in) != 2 {
		t.Fatal("input must not be read during the pulse")
	}

	clock.advance(1)
	in.Poll(tx) // timer fires
	if in.Busy() {
		t.Fatal("expected pulse complete")
	}
	if l, _ := pins.Level(Pin(PortD, 2)); l != Low {
		t.Error("expected second level applied")
	}

	in.Poll(tx) // '5'
	in.Poll(tx) // 'H'

	if string(tx.out) != "3T5H" {
		t.Errorf("expected echoes %q, got %q", "3T5H", tx.out)
	}
	if l, _ := pins.Level(Pin(PortD, 0)); l != High {
		t.Error("expected D0 high")
	}
	if tx.tasks != 6 {
		t.Errorf("expected transport serviced on every poll, got %d", tx.tasks)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("scheduled pulses must not sleep, got %v", clock.sleeps)
	}
}

func TestStepWaitsOutPendingPulse(t *testing.T) {
	in, pins, clock := newTestInterpreter(t, ArduinoMicro, PulseScheduled)
	tx := &fakeTransport{}
	d2 := Pin(PortD, 2)

	in.Step('3', tx)
	start := clock.Millis()
	in.Step('U', tx)
	clock.advance(5)
	in.Step('H', tx)

	events := pins.Events()
	var got []PinEvent
	for _, ev := range events {
		if ev.Pin == d2 {
			got = append(got, ev)
		}
	}
	if len(got) != 3 || got[0].Level != High || got[1].Level != Low || got[2].Level != High {
		t.Fatalf("expected HIGH LOW HIGH on D2, got %v", got)
	}
	if got[0].At != start {
		t.Errorf("first level at %d, expected %d", got[0].At, start)
	}
	if got[1].At < start+1000 {
		t.Errorf("U pulse lasted %d ms, want 1000", got[1].At-start)
	}
	if got[2].At < got[1].At {
		t.Errorf("H applied at %d, before the pulse ended at %d", got[2].At, got[1].At)
	}
	if string(tx.out) != "3UH" {
		t.Errorf("expected echoes %q, got %q", "3UH", tx.out)
	}
	if in.Busy() {
		t.Error("no pulse should remain pending")
	}
}

func TestStepAfterPulseDeadlineDoesNotSleep(t *testing.T) {
	in, _, clock := newTestInterpreter(t, ArduinoMicro, PulseScheduled)
	tx := &fakeTransport{}

	in.Step('T', tx)
	clock.advance(150)
	in.Step('H', tx)

	if len(clock.sleeps) != 0 {
		t.Errorf("expired pulse must not sleep, got %v", clock.sleeps)
	}
	if string(tx.out) != "TH" {
		t.Errorf("expected echoes %q, got %q", "TH", tx.out)
	}
}

func TestPinErrorsAreCounted(t *testing.T) {
	clock := &fakeClock{}
	var lines []string
	pins := &failingPins{MemoryPins: NewMemoryPins(clock), bad: PortA}
	in, err := NewInterpreter(Config{
		Layout: ArduinoMicro,
		Pins:   pins,
		Clock:  clock,
		Debug:  func(s string) { lines = append(lines, s) },
	})
	if err != nil {
		t.Fatal(err)
	}
	tx := &fakeTransport{}

	in.Step('H', tx)

	if string(tx.out) != "H" {
		t.Errorf("echo must still be sent, got %q", tx.out)
	}
	if in.Stats().PinErrors != 1 {
		t.Errorf("expected PinErrors=1, got %d", in.Stats().PinErrors)
	}
	if len(lines) != 1 || lines[0] != "pin A0: no such pin" {
		t.Errorf("unexpected debug output %q", lines)
	}
}

func TestInitDrivesLayoutLow(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)

	in.Init()

	for _, sel := range ArduinoMicro.Pins.Selectors() {
		pin, _ := ArduinoMicro.Pins.Lookup(sel)
		if !pins.Configured(pin) {
			t.Errorf("%v not configured", pin)
		}
		if l, ok := pins.Level(pin); !ok || l != Low {
			t.Errorf("%v not driven low", pin)
		}
	}
	if n := len(pins.Events()); n != 25 {
		t.Errorf("expected 25 writes, got %d", n)
	}
}

func TestNewInterpreterValidation(t *testing.T) {
	if _, err := NewInterpreter(Config{Layout: ArduinoMicro}); !errors.Is(err, ErrNoPinDriver) {
		t.Errorf("expected ErrNoPinDriver, got %v", err)
	}
	if _, err := NewInterpreter(Config{Pins: NewMemoryPins(nil)}); !errors.Is(err, ErrNoPinTable) {
		t.Errorf("expected ErrNoPinTable, got %v", err)
	}
}

func TestInterpretersAreIndependent(t *testing.T) {
	a, _, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	b, _, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	a.Step('9', tx)

	if a.Selected() != Pin(PortE, 6) {
		t.Errorf("expected E6, got %v", a.Selected())
	}
	if b.Selected() != DefaultPin {
		t.Errorf("second interpreter changed selection: %v", b.Selected())
	}
}

// cancelTransport cancels the run once its input is drained
type cancelTransport struct {
	fakeTransport
	cancel context.CancelFunc
}

func (c *cancelTransport) Task() {
	c.fakeTransport.Task()
	if len(c.in) == 0 {
		c.cancel()
	}
}

func TestRunStopsOnContext(t *testing.T) {
	in, pins, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	ctx, cancel := context.WithCancel(context.Background())
	tx := &cancelTransport{fakeTransport: fakeTransport{in: []byte("fH")}, cancel: cancel}

	err := in.Run(ctx, tx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if l, _ := pins.Level(Pin(PortB, 1)); l != High {
		t.Error("expected B1 high")
	}
	if string(tx.out) != "fH" {
		t.Errorf("expected echoes %q, got %q", "fH", tx.out)
	}
}

func TestTraceRecordsSteps(t *testing.T) {
	in, _, _ := newTestInterpreter(t, ArduinoMicro, PulseBlocking)
	tx := &fakeTransport{}

	feed(in, tx, "3H?x")

	events := in.Trace()
	wantKinds := []Kind{KindSelect, KindSetHigh, KindHelp, KindUnknown}
	wantEcho := []byte{'3', 'H', 0, '?'}
	if len(events) != len(wantKinds) {
		t.Fatalf("expected %d trace events, got %d", len(wantKinds), len(events))
	}
	for i, ev := range events {
		if ev.Kind != wantKinds[i] || ev.Echo != wantEcho[i] {
			t.Errorf("event %d: expected %v/%q, got %v/%q", i, wantKinds[i], wantEcho[i], ev.Kind, ev.Echo)
		}
		if ev.Pin != Pin(PortD, 2) {
			t.Errorf("event %d: expected selection D2, got %v", i, ev.Pin)
		}
	}
}

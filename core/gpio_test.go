package core

import "testing"

func TestMemoryPinsRecordsWrites(t *testing.T) {
	clock := &fakeClock{now: 7}
	pins := NewMemoryPins(clock)

	if err := pins.ConfigureOutput(Pin(PortB, 2)); err != nil {
		t.Fatalf("ConfigureOutput: %v", err)
	}
	pins.Set(Pin(PortB, 2), High)
	clock.advance(5)
	pins.Set(Pin(PortB, 2), Low)

	events := pins.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0] != (PinEvent{Pin(PortB, 2), High, 7}) || events[1] != (PinEvent{Pin(PortB, 2), Low, 12}) {
		t.Errorf("unexpected events %v", events)
	}
	if !pins.Configured(Pin(PortB, 2)) || pins.Configured(Pin(PortB, 3)) {
		t.Error("configured state wrong")
	}
}

func TestMemoryPinsLevels(t *testing.T) {
	pins := NewMemoryPins(nil)

	if _, ok := pins.Level(Pin(PortD, 1)); ok {
		t.Error("unwritten pin reported a level")
	}
	if l, err := pins.Get(Pin(PortD, 1)); err != nil || l != Low {
		t.Errorf("expected LOW default, got %v %v", l, err)
	}

	pins.Set(Pin(PortD, 1), High)
	snap := pins.Snapshot()
	pins.Set(Pin(PortD, 1), Low)

	if snap[Pin(PortD, 1)] != High {
		t.Error("snapshot must not follow later writes")
	}

	pins.ClearEvents()
	if len(pins.Events()) != 0 {
		t.Error("events not cleared")
	}
	if l, _ := pins.Level(Pin(PortD, 1)); l != Low {
		t.Error("ClearEvents must keep levels")
	}
}

func TestMemoryPinsOnSet(t *testing.T) {
	pins := NewMemoryPins(nil)
	var seen []PinEvent
	pins.OnSet(func(ev PinEvent) {
		// callback runs outside the lock
		pins.Level(ev.Pin)
		seen = append(seen, ev)
	})

	pins.Set(Pin(PortF, 7), High)

	if len(seen) != 1 || seen[0].Pin != Pin(PortF, 7) || seen[0].Level != High {
		t.Errorf("unexpected callbacks %v", seen)
	}
}

func TestPinRef(t *testing.T) {
	p := Pin(PortB, 2)
	if p.String() != "B2" {
		t.Errorf("expected B2, got %s", p)
	}
	if p.Mask() != 0x04 {
		t.Errorf("expected mask 0x04, got 0x%02x", p.Mask())
	}
	if p.Index() != 10 {
		t.Errorf("expected index 10, got %d", p.Index())
	}
	if Pin(Port(9), 0).String() != "P90" {
		t.Errorf("unexpected name %s", Pin(Port(9), 0))
	}
	if High.Invert() != Low || Low.String() != "LOW" {
		t.Error("level helpers wrong")
	}
}

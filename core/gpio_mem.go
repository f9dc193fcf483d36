package core

import "sync"

// PinEvent records one level change made through MemoryPins
type PinEvent struct {
	Pin   PinRef
	Level Level
	At    uint32 // clock milliseconds, 0 without a clock
}

// MemoryPins is a PinDriver that keeps pin levels in memory and records
// every write. It backs the simulator and the tests.
type MemoryPins struct {
	mu         sync.Mutex
	clock      Clock
	configured map[PinRef]bool
	levels     map[PinRef]Level
	events     []PinEvent
	onSet      func(PinEvent)
}

// NewMemoryPins creates an empty driver; clock may be nil
func NewMemoryPins(clock Clock) *MemoryPins {
	return &MemoryPins{
		clock:      clock,
		configured: make(map[PinRef]bool),
		levels:     make(map[PinRef]Level),
	}
}

// OnSet registers a callback invoked after every Set, outside the lock
func (m *MemoryPins) OnSet(fn func(PinEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSet = fn
}

func (m *MemoryPins) ConfigureOutput(pin PinRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured[pin] = true
	return nil
}

func (m *MemoryPins) Set(pin PinRef, level Level) error {
	m.mu.Lock()
	ev := PinEvent{Pin: pin, Level: level}
	if m.clock != nil {
		ev.At = m.clock.Millis()
	}
	m.levels[pin] = level
	m.events = append(m.events, ev)
	fn := m.onSet
	m.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
	return nil
}

// Get returns the last level written to pin (Low if never written)
func (m *MemoryPins) Get(pin PinRef) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin], nil
}

// Level returns the last level written to pin and whether it was written
func (m *MemoryPins) Level(pin PinRef) (Level, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.levels[pin]
	return l, ok
}

// Configured reports whether ConfigureOutput was called for pin
func (m *MemoryPins) Configured(pin PinRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configured[pin]
}

// Events returns a copy of the write log
func (m *MemoryPins) Events() []PinEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PinEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Snapshot returns a copy of the current levels
func (m *MemoryPins) Snapshot() map[PinRef]Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[PinRef]Level, len(m.levels))
	for p, l := range m.levels {
		out[p] = l
	}
	return out
}

// ClearEvents drops the write log but keeps the levels
func (m *MemoryPins) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

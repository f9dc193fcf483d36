package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one interpreter step for post-mortem analysis
type TraceEvent struct {
	Kind  Kind
	Raw   byte
	Pin   PinRef // selection in effect after the step
	Clock uint32
	Echo  byte // 0 when nothing was sent
}

// TraceRingSize is the number of steps kept in the trace
const TraceRingSize = 32

// Trace is a fixed ring of the most recent steps. Recording never blocks
// and never allocates.
type Trace struct {
	ring [TraceRingSize]TraceEvent
	head uint8
	n    uint8
}

// Record appends an event, overwriting the oldest when full
func (t *Trace) Record(ev TraceEvent) {
	t.ring[t.head] = ev
	t.head = (t.head + 1) % TraceRingSize
	if t.n < TraceRingSize {
		t.n++
	}
}

// Events returns the recorded events, oldest first
func (t *Trace) Events() []TraceEvent {
	out := make([]TraceEvent, 0, t.n)
	start := (t.head + TraceRingSize - t.n) % TraceRingSize
	for i := uint8(0); i < t.n; i++ {
		out = append(out, t.ring[(start+i)%TraceRingSize])
	}
	return out
}

// Dump writes the trace through w, oldest first
func (t *Trace) Dump(w DebugWriter) {
	if w == nil {
		return
	}
	w("[TRACE] === Step Trace ===")
	for _, ev := range t.Events() {
		line := "[TRACE] " + ev.Kind.String() +
			" raw=" + charString(ev.Raw) +
			" pin=" + ev.Pin.String() +
			" clock=" + itoa(int(ev.Clock))
		if ev.Echo != 0 {
			line += " echo=" + charString(ev.Echo)
		}
		w(line)
	}
	w("[TRACE] === End Trace ===")
}

// Clear empties the trace
func (t *Trace) Clear() {
	*t = Trace{}
}

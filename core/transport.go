package core

// Transport is the byte channel to the host (a USB CDC virtual serial port
// on real hardware). All methods are non-blocking.
type Transport interface {
	// TryReadByte returns the next pending byte, if any
	TryReadByte() (byte, bool)

	// Ready reports whether the transmit path can accept output now
	Ready() bool

	// WriteByte sends one byte; only valid when Ready is true
	WriteByte(c byte) error

	// WriteString sends s as one unit; only valid when Ready is true
	WriteString(s string) error

	// Task advances the transport's own state machine. It is called once
	// per loop iteration whether or not a byte was processed.
	Task()
}

// Pin identity and levels
// A pin is addressed the way an 8-bit port register addresses it: a port
// plus a bit index inside that port.
package core

// Port identifies an 8-bit I/O port
type Port uint8

// Ports known to the built-in layouts. Boards without a port A still use
// PortA as the zero value of the default selection.
const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
)

// NumPorts is the number of addressable ports
const NumPorts = 6

// String returns the port letter ("A".."F")
func (p Port) String() string {
	if p < NumPorts {
		return string(rune('A' + p))
	}
	return "P" + itoa(int(p))
}

// PinRef identifies a physical pin as (port, bit)
type PinRef struct {
	Port Port
	Bit  uint8 // 0-7
}

// Pin builds a PinRef
func Pin(port Port, bit uint8) PinRef {
	return PinRef{Port: port, Bit: bit}
}

// DefaultPin is the selection in effect before any selector command
var DefaultPin = PinRef{}

// Mask returns the bit mask of the pin inside its port register
func (p PinRef) Mask() uint8 {
	return 1 << (p.Bit & 7)
}

// Valid reports whether the bit index fits an 8-bit port
func (p PinRef) Valid() bool {
	return p.Bit < 8
}

// Index returns the pin's linear number when ports are laid out as
// consecutive banks of eight (port*8 + bit)
func (p PinRef) Index() int {
	return int(p.Port)*8 + int(p.Bit)
}

// String returns the conventional register name, e.g. "B2"
func (p PinRef) String() string {
	return p.Port.String() + itoa(int(p.Bit))
}

// Level is a digital output level
type Level bool

const (
	Low  Level = false
	High Level = true
)

// String returns "HIGH" or "LOW"
func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// Invert returns the opposite level
func (l Level) Invert() Level {
	return !l
}

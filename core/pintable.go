package core

import "errors"

var (
	ErrDuplicateSelector = errors.New("duplicate pin selector")
	ErrReservedSelector  = errors.New("pin selector collides with an operation character")
	ErrInvalidBit        = errors.New("pin bit index out of range")
)

// TableError reports which selector made a table invalid
type TableError struct {
	Selector byte
	Err      error
}

func (e *TableError) Error() string {
	return e.Err.Error() + ": " + charString(e.Selector)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// PinEntry binds one selector character to a pin
type PinEntry struct {
	Selector byte
	Pin      PinRef
	Label    string // board silkscreen name, e.g. "D4" or "GP10"
}

// PinTable maps selector characters to pins. It is built once and never
// mutated; lookups outside the defined alphabet always miss.
type PinTable struct {
	pins    [256]PinRef
	labels  [256]string
	defined [256]bool
	order   []byte
}

// NewPinTable builds a table from entries, rejecting duplicate selectors,
// selectors that would shadow an operation, and bit indexes above 7
func NewPinTable(entries ...PinEntry) (*PinTable, error) {
	t := &PinTable{order: make([]byte, 0, len(entries))}
	for _, e := range entries {
		if isOperation(e.Selector) {
			return nil, &TableError{Selector: e.Selector, Err: ErrReservedSelector}
		}
		if !e.Pin.Valid() {
			return nil, &TableError{Selector: e.Selector, Err: ErrInvalidBit}
		}
		if t.defined[e.Selector] {
			return nil, &TableError{Selector: e.Selector, Err: ErrDuplicateSelector}
		}
		t.pins[e.Selector] = e.Pin
		t.labels[e.Selector] = e.Label
		t.defined[e.Selector] = true
		t.order = append(t.order, e.Selector)
	}
	return t, nil
}

// MustPinTable is NewPinTable for static tables; it panics on error
func MustPinTable(entries ...PinEntry) *PinTable {
	t, err := NewPinTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the pin bound to selector c
func (t *PinTable) Lookup(c byte) (PinRef, bool) {
	if !t.defined[c] {
		return PinRef{}, false
	}
	return t.pins[c], true
}

// Label returns the board label of selector c, or "" if undefined
func (t *PinTable) Label(c byte) string {
	return t.labels[c]
}

// Selectors returns the defined selectors in declaration order
func (t *PinTable) Selectors() []byte {
	out := make([]byte, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of defined selectors
func (t *PinTable) Len() int {
	return len(t.order)
}

// Pins returns the distinct pins of the table in declaration order
func (t *PinTable) Pins() []PinRef {
	seen := make(map[PinRef]bool, len(t.order))
	out := make([]PinRef, 0, len(t.order))
	for _, c := range t.order {
		p := t.pins[c]
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

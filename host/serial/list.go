//go:build !wasm

package serial

import (
	"log"

	bugst "go.bug.st/serial.v1"
)

// List returns the serial ports present on the system
func List() ([]string, error) {
	return bugst.GetPortsList()
}

// enumeratedPort adapts a port opened during discovery
type enumeratedPort struct {
	bugst.Port
}

func (enumeratedPort) Flush() error { return nil }

// Find tries every serial port in turn and returns the device of the first
// one probe accepts. The probe gets the open port and must not close it.
func Find(baud int, probe func(Port) error) (string, error) {
	ports, err := List()
	if err != nil {
		return "", err
	}

	mode := &bugst.Mode{
		BaudRate: baud,
		Parity:   bugst.NoParity,
		DataBits: 8,
		StopBits: bugst.OneStopBit,
	}

	for _, name := range ports {
		p, err := bugst.Open(name, mode)
		if err != nil {
			continue
		}
		log.Printf("trying %q...", name)
		err = probe(enumeratedPort{p})
		p.Close()
		if err == nil {
			log.Printf("found board on %q", name)
			return name, nil
		}
	}
	return "", ErrNoPortFound
}

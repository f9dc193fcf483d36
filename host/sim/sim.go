// Package sim runs a gpiocdc board in-process. The interpreter is the
// firmware's, the pins live in memory, and the USB link is any byte stream.
package sim

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"gpiocdc/core"
	"gpiocdc/protocol"
)

// idleSleep keeps an idle device loop from spinning
const idleSleep = time.Millisecond

// Device is a simulated board. Serve one connection at a time.
type Device struct {
	layout core.Layout
	pins   *core.MemoryPins
	interp *core.Interpreter

	mu   sync.Mutex
	link *protocol.StreamTransport // current connection
}

// New builds a device with layout's pins driven low
func New(layout core.Layout, mode core.PulseMode) (*Device, error) {
	clock := core.NewSystemClock()
	pins := core.NewMemoryPins(clock)

	interp, err := core.NewInterpreter(core.Config{
		Layout: layout,
		Pins:   pins,
		Clock:  clock,
		Pulse:  mode,
		Idle:   idleSleep,
	})
	if err != nil {
		return nil, err
	}
	interp.Init()
	pins.ClearEvents()

	return &Device{layout: layout, pins: pins, interp: interp}, nil
}

// Layout returns the simulated board's layout
func (d *Device) Layout() core.Layout { return d.layout }

// Pins returns the in-memory pin state
func (d *Device) Pins() *core.MemoryPins { return d.pins }

// Interpreter returns the device's interpreter
func (d *Device) Interpreter() *core.Interpreter { return d.interp }

// Stats returns the interpreter counters
func (d *Device) Stats() core.Stats { return d.interp.Stats() }

// Link returns the counters of the current or last connection
func (d *Device) Link() protocol.LinkStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.link == nil {
		return protocol.LinkStats{}
	}
	return d.link.Stats()
}

// SetDebug routes the interpreter's debug lines to the standard logger
func (d *Device) SetDebug(enabled bool) {
	if enabled {
		d.interp.SetDebug(func(s string) { log.Println("sim:", s) })
		return
	}
	d.interp.SetDebug(nil)
}

// Serve runs the device on rw until ctx is done or the stream ends
func (d *Device) Serve(ctx context.Context, rw io.ReadWriter) error {
	tr := protocol.NewStreamTransport(rw)
	defer tr.Close()

	d.mu.Lock()
	d.link = tr
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-tr.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	err := d.interp.Run(ctx, tr)
	if terr := tr.Err(); terr != nil {
		if errors.Is(terr, protocol.ErrClosed) {
			return nil
		}
		return terr
	}
	return err
}

// Dial connects to the device over an in-memory pipe. Closing the
// returned conn ends the device side.
func (d *Device) Dial(ctx context.Context) net.Conn {
	host, dev := net.Pipe()
	go d.Serve(ctx, dev)
	return host
}

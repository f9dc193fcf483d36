//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"gpiocdc/protocol"
)

var errNoProgress = errors.New("usb write made no progress")

// maxWriteFailures is how many failed writes mark the host as gone
const maxWriteFailures = 10

// usbTransport is the interpreter's transport over USB CDC-ACM.
// TinyGo sets up the CDC descriptors; machine.Serial is the USB endpoint
// pair on RP2040.
type usbTransport struct {
	rx *protocol.FifoBuffer

	disconnected             bool
	consecutiveWriteFailures uint32
	overruns                 uint32
}

// InitUSB initializes USB serial communication
func InitUSB() *usbTransport {
	machine.Serial.Configure(machine.UARTConfig{})
	return &usbTransport{rx: protocol.NewFifoBuffer(protocol.RxBufferSize)}
}

// Task moves received bytes into the FIFO
func (u *usbTransport) Task() {
	for machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return
		}

		// Receiving again after a disconnect means the host is back
		if u.disconnected {
			u.disconnected = false
			u.consecutiveWriteFailures = 0
			u.rx.Reset()
		}

		if u.rx.Write([]byte{b}) == 0 {
			u.overruns++
			return
		}
	}
}

func (u *usbTransport) TryReadByte() (byte, bool) {
	return u.rx.PopByte()
}

// Ready reports whether the IN endpoint is believed to reach a host.
// There is no reliable connection signal, so repeated write failures are
// taken as a disconnect.
func (u *usbTransport) Ready() bool {
	return !u.disconnected
}

func (u *usbTransport) WriteByte(c byte) error {
	err := machine.Serial.WriteByte(c)
	u.writeResult(err == nil)
	return err
}

// WriteString writes s, handling partial writes
func (u *usbTransport) WriteString(s string) error {
	data := []byte(s)
	written := 0
	for written < len(data) {
		n, err := machine.Serial.Write(data[written:])
		if err != nil {
			u.writeResult(false)
			return err
		}
		if n == 0 {
			// No progress - likely disconnect
			u.writeResult(false)
			return errNoProgress
		}
		written += n
	}
	u.writeResult(true)
	return nil
}

func (u *usbTransport) writeResult(ok bool) {
	if ok {
		u.consecutiveWriteFailures = 0
		return
	}
	u.consecutiveWriteFailures++
	if u.consecutiveWriteFailures > maxWriteFailures {
		u.disconnected = true
		u.consecutiveWriteFailures = 0
		// Drop input for a clean state on reconnect
		u.rx.Reset()
		DebugPrintln("usb: host gone")
	}
}

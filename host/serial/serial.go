// Package serial opens the USB CDC port the board enumerates as
package serial

import (
	"errors"
	"io"
)

var ErrNoPortFound = errors.New("no responding serial port found")

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Enumerated ports opened during discovery (go.bug.st/serial.v1)
// - In-process pipes to the simulator (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores it, but the OS still wants one)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the default configuration for a gpiocdc board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// Package client talks to a gpiocdc board from the host. Each command byte
// is answered by one echo byte, so calls are strictly one at a time.
package client

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gpiocdc/core"
)

var (
	ErrNoEcho         = errors.New("no echo from device")
	ErrUnknownCommand = errors.New("device did not recognize the command")
	ErrUnexpectedEcho = errors.New("echo does not match the command")
	ErrClosed         = errors.New("client closed")
	ErrNotPulse       = errors.New("not a pulse operation")
)

// Options tunes the client's timeouts
type Options struct {
	// EchoTimeout bounds the wait for an echo. Pulses add their duration.
	EchoTimeout time.Duration

	// HelpIdle is the quiet gap that ends the help text
	HelpIdle time.Duration

	// HelpTimeout bounds the wait for the first help byte
	HelpTimeout time.Duration
}

// DefaultOptions returns the timeouts used when Options fields are zero
func DefaultOptions() Options {
	return Options{
		EchoTimeout: 500 * time.Millisecond,
		HelpIdle:    150 * time.Millisecond,
		HelpTimeout: 2 * time.Second,
	}
}

// Client drives one board over a byte stream
type Client struct {
	rw   io.ReadWriteCloser
	opts Options

	mu sync.Mutex // one command in flight

	rx      chan byte
	done    chan struct{}
	readErr error

	closeOnce sync.Once
	closed    chan struct{}
}

// New starts a client on rw. The client owns rw and closes it on Close.
func New(rw io.ReadWriteCloser, opts Options) *Client {
	def := DefaultOptions()
	if opts.EchoTimeout <= 0 {
		opts.EchoTimeout = def.EchoTimeout
	}
	if opts.HelpIdle <= 0 {
		opts.HelpIdle = def.HelpIdle
	}
	if opts.HelpTimeout <= 0 {
		opts.HelpTimeout = def.HelpTimeout
	}

	c := &Client{
		rw:     rw,
		opts:   opts,
		rx:     make(chan byte, 4096),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	defer close(c.done)

	buf := make([]byte, 64)
	for {
		n, err := c.rw.Read(buf)
		for _, b := range buf[:n] {
			select {
			case c.rx <- b:
			case <-c.closed:
				return
			}
		}
		if err != nil {
			c.readErr = err
			return
		}
	}
}

// Close stops the reader and closes the stream
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.rw.Close()
		<-c.done
	})
	return err
}

// Send writes one command byte and waits for its echo. A '?' echo for
// anything but '?' is ErrUnknownCommand; any other mismatch is
// ErrUnexpectedEcho. '?' has no echo: its help text is read and dropped,
// use Help to keep it.
func (c *Client) Send(cmd byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(cmd)
}

func (c *Client) send(cmd byte) (byte, error) {
	if cmd == core.OpHelp {
		_, err := c.help()
		return 0, err
	}
	if err := c.write(cmd); err != nil {
		return 0, err
	}

	timeout := c.opts.EchoTimeout
	if d := pulseDuration(cmd); d > 0 {
		timeout += d
	}

	echo, err := c.next(timeout)
	if err != nil {
		return 0, fmt.Errorf("send %q: %w", cmd, err)
	}
	switch {
	case echo == cmd:
		return echo, nil
	case echo == core.EchoUnknown:
		return echo, fmt.Errorf("send %q: %w", cmd, ErrUnknownCommand)
	default:
		return echo, fmt.Errorf("send %q: got %q: %w", cmd, echo, ErrUnexpectedEcho)
	}
}

// Select makes sel the target of the following operations
func (c *Client) Select(sel byte) error {
	_, err := c.Send(sel)
	return err
}

// High drives the selected pin high
func (c *Client) High() error {
	_, err := c.Send(core.OpHigh)
	return err
}

// Low drives the selected pin low
func (c *Client) Low() error {
	_, err := c.Send(core.OpLow)
	return err
}

// Pulse runs one of the pulse operations t, T, u or U on the selected pin.
// It returns once the device echoes, which is after the pulse ends.
func (c *Client) Pulse(op byte) error {
	if pulseDuration(op) == 0 {
		return fmt.Errorf("pulse %q: %w", op, ErrNotPulse)
	}
	_, err := c.Send(op)
	return err
}

// Exec sends every byte of seq in order and returns the echoes received.
// A '?' in seq adds no echo. It stops at the first error.
func (c *Client) Exec(seq string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	echoes := make([]byte, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		echo, err := c.send(seq[i])
		if err != nil {
			return echoes, err
		}
		if seq[i] != core.OpHelp {
			echoes = append(echoes, echo)
		}
	}
	return echoes, nil
}

// Help requests the help text. The text has no terminator, so it ends at
// the first quiet gap of HelpIdle.
func (c *Client) Help() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.help()
}

func (c *Client) help() (string, error) {
	if err := c.write(core.OpHelp); err != nil {
		return "", err
	}

	first, err := c.next(c.opts.HelpTimeout)
	if err != nil {
		return "", fmt.Errorf("help: %w", err)
	}

	text := []byte{first}
	for {
		b, err := c.next(c.opts.HelpIdle)
		if errors.Is(err, ErrNoEcho) {
			return string(text), nil
		}
		if err != nil {
			return string(text), fmt.Errorf("help: %w", err)
		}
		text = append(text, b)
	}
}

// Drain discards bytes already received, such as output of a command sent
// by another program
func (c *Client) Drain() int {
	n := 0
	for {
		select {
		case <-c.rx:
			n++
		default:
			return n
		}
	}
}

func (c *Client) write(cmd byte) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	if _, err := c.rw.Write([]byte{cmd}); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	return nil
}

// next returns the next received byte, waiting at most timeout
func (c *Client) next(timeout time.Duration) (byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case b := <-c.rx:
		return b, nil
	case <-timer.C:
		return 0, ErrNoEcho
	case <-c.done:
		// Bytes received before the stream ended are still delivered
		select {
		case b := <-c.rx:
			return b, nil
		default:
		}
		select {
		case <-c.closed:
			return 0, ErrClosed
		default:
		}
		if c.readErr != nil && !errors.Is(c.readErr, io.EOF) {
			return 0, c.readErr
		}
		return 0, ErrClosed
	}
}

// pulseDuration returns how long op holds its first level, 0 for non-pulses
func pulseDuration(op byte) time.Duration {
	cmd := core.Classify(nil, op)
	if !cmd.IsPulse() {
		return 0
	}
	return cmd.Duration
}

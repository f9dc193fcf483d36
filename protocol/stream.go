package protocol

import (
	"errors"
	"io"
	"sync"
)

var (
	ErrNotReady = errors.New("transmit queue full")
	ErrClosed   = errors.New("transport closed")
)

// StreamTransport adapts an io.ReadWriter (a serial port, a pipe, a socket)
// to the interpreter's Transport contract. A reader goroutine fills the
// receive FIFO and a writer goroutine drains a bounded queue, so neither
// TryReadByte nor the write calls ever block.
type StreamTransport struct {
	rw io.ReadWriter

	mu       sync.Mutex
	rx       *FifoBuffer
	overruns uint32
	peak     int
	written  uint32
	err      error
	closed   bool

	tx        chan []byte
	stop      chan struct{}
	writeDone chan struct{}
	readDone  chan struct{}
}

// NewStreamTransport starts a transport with the default buffer sizes
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	return NewStreamTransportSize(rw, RxBufferSize, TxQueueDepth)
}

// NewStreamTransportSize starts a transport with explicit buffer sizes
func NewStreamTransportSize(rw io.ReadWriter, rxSize, queueDepth int) *StreamTransport {
	if rxSize < 2 {
		rxSize = 2
	}
	if queueDepth < 1 {
		queueDepth = 1
	}

	t := &StreamTransport{
		rw:        rw,
		rx:        NewFifoBuffer(rxSize),
		tx:        make(chan []byte, queueDepth),
		stop:      make(chan struct{}),
		writeDone: make(chan struct{}),
		readDone:  make(chan struct{}),
	}

	go t.readLoop()
	go t.writeLoop()

	return t
}

// TryReadByte returns the oldest received byte, if any
func (t *StreamTransport) TryReadByte() (byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rx.PopByte()
}

// Ready reports whether a write would be queued
func (t *StreamTransport) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.err == nil && len(t.tx) < cap(t.tx)
}

func (t *StreamTransport) WriteByte(c byte) error {
	return t.enqueue([]byte{c})
}

// WriteString queues s as a single write; it is sent whole or not at all
func (t *StreamTransport) WriteString(s string) error {
	return t.enqueue([]byte(s))
}

// Task is a no-op: the stream is serviced by the transport's goroutines
func (t *StreamTransport) Task() {}

func (t *StreamTransport) enqueue(b []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.err != nil {
		return t.err
	}

	select {
	case t.tx <- b:
		return nil
	default:
		return ErrNotReady
	}
}

// Err returns the error that stopped the stream, if any
func (t *StreamTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Overruns returns the number of received bytes lost to a full FIFO
func (t *StreamTransport) Overruns() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overruns
}

// LinkStats describes receive pressure and write progress of a transport
type LinkStats struct {
	Pending  int    // received bytes not yet stepped
	Free     int    // receive FIFO room left
	Peak     int    // most bytes ever pending at once
	Overruns uint32 // received bytes lost to a full FIFO
	Written  uint32 // writes that reached the stream
}

// Stats returns a snapshot of the link counters
func (t *StreamTransport) Stats() LinkStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return LinkStats{
		Pending:  t.rx.Available(),
		Free:     t.rx.Free(),
		Peak:     t.peak,
		Overruns: t.overruns,
		Written:  t.written,
	}
}

// Written returns the number of writes that reached the stream
func (t *StreamTransport) Written() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

// Done is closed when the receive side of the stream has ended
func (t *StreamTransport) Done() <-chan struct{} {
	return t.readDone
}

// Close stops the goroutines and closes the stream if it is an io.Closer.
// Writes still queued are discarded.
func (t *StreamTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.stop)

	// Closing the stream unblocks a pending Read or Write
	var err error
	if c, ok := t.rw.(io.Closer); ok {
		err = c.Close()
		<-t.readDone
	}
	<-t.writeDone
	return err
}

func (t *StreamTransport) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil && !t.closed {
		if errors.Is(err, io.EOF) {
			err = ErrClosed
		}
		t.err = err
	}
}

// readLoop moves received bytes into the FIFO until the stream fails
func (t *StreamTransport) readLoop() {
	defer close(t.readDone)

	buf := make([]byte, ReadChunk)
	for {
		n, err := t.rw.Read(buf)
		if n > 0 {
			t.mu.Lock()
			if w := t.rx.Write(buf[:n]); w < n {
				t.overruns += uint32(n - w)
			}
			if a := t.rx.Available(); a > t.peak {
				t.peak = a
			}
			t.mu.Unlock()
		}
		if err != nil {
			t.fail(err)
			return
		}
	}
}

// writeLoop sends queued writes in order until stopped or the stream fails
func (t *StreamTransport) writeLoop() {
	defer close(t.writeDone)

	for {
		select {
		case b := <-t.tx:
			if _, err := t.rw.Write(b); err != nil {
				t.fail(err)
				return
			}
			t.mu.Lock()
			t.written++
			t.mu.Unlock()
		case <-t.stop:
			return
		}
	}
}

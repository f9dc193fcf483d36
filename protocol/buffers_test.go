package protocol

import "testing"

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}
	if fifo.Free() != 9 {
		t.Errorf("Empty size-10 FIFO should have 9 free, got %d", fifo.Free())
	}

	// Write some data
	written := fifo.Write([]byte{1, 2, 3, 4, 5})
	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}
	if fifo.Available() != 5 || fifo.Free() != 4 {
		t.Errorf("Expected 5 available and 4 free, got %d and %d", fifo.Available(), fifo.Free())
	}

	// Pop some data
	for _, want := range []byte{1, 2, 3} {
		if c, ok := fifo.PopByte(); !ok || c != want {
			t.Errorf("expected %d, got %d (%v)", want, c, ok)
		}
	}
	if fifo.Available() != 2 {
		t.Errorf("After popping 3, expected 2 available, got %d", fifo.Available())
	}

	// Test capacity
	fifo.Reset()
	bigData := make([]byte, 12)
	for i := range bigData {
		bigData[i] = byte(i)
	}
	written = fifo.Write(bigData)
	if written != 9 { // Buffer size is 10, can only store 9 (one slot reserved)
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
	if fifo.Free() != 0 {
		t.Errorf("expected full FIFO, %d free", fifo.Free())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	// Fill buffer, drain some, then write past the end
	fifo.Write([]byte{1, 2, 3, 4})
	fifo.PopByte()
	fifo.PopByte()

	written := fifo.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}
	if fifo.Available() != 4 || fifo.Free() != 0 {
		t.Errorf("expected 4 available and 0 free after wrapping, got %d and %d",
			fifo.Available(), fifo.Free())
	}

	// Verify order
	for _, want := range []byte{3, 4, 5, 6} {
		if c, ok := fifo.PopByte(); !ok || c != want {
			t.Errorf("Wrap-around: expected %d, got %d (%v)", want, c, ok)
		}
	}
}

func TestFifoBufferPopByte(t *testing.T) {
	fifo := NewFifoBuffer(4)

	if _, ok := fifo.PopByte(); ok {
		t.Error("PopByte on empty FIFO should fail")
	}

	fifo.Write([]byte("3T"))
	for _, want := range []byte("3T") {
		c, ok := fifo.PopByte()
		if !ok || c != want {
			t.Errorf("expected %q, got %q (%v)", want, c, ok)
		}
	}
	if fifo.Available() != 0 {
		t.Error("FIFO should be empty after reading everything")
	}
}

package core

import "time"

// Clock supplies time to the interpreter
type Clock interface {
	// Millis returns a free-running millisecond counter (wraps at 2^32)
	Millis() uint32

	// Sleep blocks the calling context for d
	Sleep(d time.Duration)
}

// SystemClock is a Clock backed by the runtime's monotonic time
type SystemClock struct {
	boot time.Time
}

// NewSystemClock starts a clock at zero
func NewSystemClock() *SystemClock {
	return &SystemClock{boot: time.Now()}
}

func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.boot) / time.Millisecond)
}

func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// durationMillis converts a duration to clock ticks
func durationMillis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}

// timeReached reports whether now is at or past wake, tolerating wraparound
func timeReached(now, wake uint32) bool {
	return int32(now-wake) >= 0
}

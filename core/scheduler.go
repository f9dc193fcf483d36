package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers sorted by wake time. Each interpreter owns one,
// so independent instances never share a timer list.
type Scheduler struct {
	list *Timer
}

// Schedule adds a timer to the schedule
func (s *Scheduler) Schedule(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.insert(t)
}

// insert places a timer in sorted order by WakeTime
func (s *Scheduler) insert(t *Timer) {
	if s.list == nil || int32(t.WakeTime-s.list.WakeTime) < 0 {
		t.Next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.Next != nil && int32(current.Next.WakeTime-t.WakeTime) <= 0 {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Cancel removes a timer if it is scheduled
func (s *Scheduler) Cancel(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for p := &s.list; *p != nil; p = &(*p).Next {
		if *p == t {
			*p = t.Next
			t.Next = nil
			return true
		}
	}
	return false
}

// Pending returns the number of scheduled timers
func (s *Scheduler) Pending() int {
	n := 0
	for t := s.list; t != nil; t = t.Next {
		n++
	}
	return n
}

// Dispatch runs every timer due at now
func (s *Scheduler) Dispatch(now uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for s.list != nil && timeReached(now, s.list.WakeTime) {
		timer := s.list
		s.list = timer.Next
		timer.Next = nil

		if timer.Handler(timer) == SF_RESCHEDULE {
			s.insert(timer)
		}
	}
}

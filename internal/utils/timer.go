package utils

import "time"

// Timer measures the wall-clock time of a single operation. It starts when
// created by [NewTimer]; [Timer.Stop] freezes the measurement.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Stop captures the time elapsed since the timer was created and returns it.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.startTime)
	return t.duration
}

// GetDuration returns the duration captured by the last [Timer.Stop], or zero
// if the timer is still running.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}

package deletion

import "time"

// Timer is a scheduled callback that can be stopped before it runs
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// wallScheduler schedules on the runtime timer heap
type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallScheduler returns the default Scheduler backed by time.AfterFunc
func WallScheduler() Scheduler {
	return wallScheduler{}
}

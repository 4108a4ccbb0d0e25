package sonyflake

import "time"

// Clock is the time source a Generator reads ticks from and sleeps on.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock reads time.Now, whose monotonic component makes tick
// arithmetic immune to wall clock steps for generators anchored at
// construction.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

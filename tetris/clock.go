package tetris

import "time"

// Clock is the wall clock used for gravity and frame timing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

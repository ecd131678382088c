package tetris

import "time"

// MsPerUpdate is the fixed logical time step. Update runs at 60Hz
// regardless of how often frames are rendered.
const MsPerUpdate = time.Second / 60

// Loop is a fixed timestep accumulator. Each frame adds the elapsed
// wall time to the lag and drains it in MsPerUpdate steps.
// The zero value is ready to use.
type Loop struct {
	previous time.Time
	lag      time.Duration
	started  bool
}

// Step advances the loop to now and calls update once for every full
// MsPerUpdate accumulated. It returns the number of updates run.
// The first call only records the time.
func (l *Loop) Step(now time.Time, update func()) int {
	if !l.started {
		l.previous = now
		l.started = true
		return 0
	}

	if elapsed := now.Sub(l.previous); elapsed > 0 {
		l.lag += elapsed
	}
	l.previous = now

	var n int
	for l.lag >= MsPerUpdate {
		update()
		l.lag -= MsPerUpdate
		n++
	}
	return n
}

// Lag returns the time carried over to the next frame.
func (l *Loop) Lag() time.Duration { return l.lag }

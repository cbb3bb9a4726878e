package main

import "time"

// idleFPS caps the frame rate while the window is minimized.
const idleFPS = 15

// frameLimiter paces the loop when vsync is off.
type frameLimiter struct {
	limit int // frames per second, 0 = unlimited
	next  time.Time
}

// Wait blocks until the next frame is due. idle switches to idleFPS.
func (f *frameLimiter) Wait(idle bool) {
	limit := f.limit
	if idle && (limit <= 0 || limit > idleFPS) {
		limit = idleFPS
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// spin out the last few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of rushing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}

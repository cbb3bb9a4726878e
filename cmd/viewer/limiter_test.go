package main

import (
	"testing"
	"time"
)

func TestFrameLimiterUnlimited(t *testing.T) {
	var f frameLimiter
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait(false)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited limiter slept %v", elapsed)
	}
}

func TestFrameLimiterPacesFrames(t *testing.T) {
	f := frameLimiter{limit: 200}
	start := time.Now()
	for i := 0; i < 10; i++ {
		f.Wait(false)
	}
	// ten frames at 5ms each
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Errorf("10 frames at 200 fps took %v", elapsed)
	}
}

func TestFrameLimiterIdle(t *testing.T) {
	var f frameLimiter
	start := time.Now()
	f.Wait(true)
	f.Wait(true)
	if elapsed := time.Since(start); elapsed < time.Second/idleFPS {
		t.Errorf("idle frames took %v", elapsed)
	}
}

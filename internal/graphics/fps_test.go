package graphics

import (
	"testing"
	"time"
)

func TestFPSCounter(t *testing.T) {
	c := NewFPSCounter(time.Second)
	start := time.Unix(100, 0)
	for i := 0; i < 60; i++ {
		if c.Frame(start.Add(time.Duration(i) * time.Second / 60)) {
			t.Fatalf("average reported before the window elapsed (frame %d)", i)
		}
	}
	if !c.Frame(start.Add(time.Second)) {
		t.Fatalf("no average after one second")
	}
	if fps := c.FPS(); fps < 60.9 || fps > 61.1 {
		t.Errorf("FPS() = %v, want 61", fps)
	}
}

func TestFPSLimiterDisabled(t *testing.T) {
	l := NewFPSLimiter(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		l.Wait()
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("disabled limiter slept")
	}
}

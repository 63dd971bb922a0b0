package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-frame CPU profiler for tick-level insights.

// Sample is the accumulated time and call count of one tracked operation.
type Sample struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	frame  = make(map[string]*Sample)
	totals = make(map[string]*Sample)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		add(frame, name, d)
		add(totals, name, d)
		mu.Unlock()
	}
}

func add(m map[string]*Sample, name string, d time.Duration) {
	s, ok := m[name]
	if !ok {
		s = &Sample{Name: name}
		m[name] = s
	}
	s.Total += d
	s.Calls++
}

// ResetFrame clears current per-frame samples. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frame)
	mu.Unlock()
}

// Frame returns the current frame's samples, slowest first.
func Frame() []Sample {
	mu.Lock()
	defer mu.Unlock()
	return sorted(frame)
}

// Totals returns samples accumulated since process start, slowest first.
func Totals() []Sample {
	mu.Lock()
	defer mu.Unlock()
	return sorted(totals)
}

func sorted(m map[string]*Sample) []Sample {
	out := make([]Sample, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Name < out[j].Name
		}
		return out[i].Total > out[j].Total
	})
	return out
}

// TopN formats the n slowest operations of the current frame.
// Example: "world.Generate:4.2ms(3), meshing.Build:2.1ms(3)"
func TopN(n int) string {
	list := Frame()
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, s := range list[:n] {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", s.Name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}

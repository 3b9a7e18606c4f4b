package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU accounting. Buckets accumulate between ResetFrame calls, so
// a bucket hit several times in one frame (chunk builds, cache fills) reports
// its frame total, not its last duration.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Track records elapsed time under name when the returned stop function runs.
// Usage: defer profiling.Track("world.Update")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears the totals. Call once at the top of each frame.
func ResetFrame() {
	mu.Lock()
	for k := range frameTotals {
		delete(frameTotals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of the current frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every bucket whose name starts with prefix, e.g.
// SumWithPrefix("world.") for all chunk work in the frame.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n largest buckets of the current frame, largest first:
// "renderer.Draw:4.2ms, world.Update:2.1ms".
func TopN(n int) string {
	ss := Snapshot()
	type bucket struct {
		name string
		dur  time.Duration
	}
	list := make([]bucket, 0, len(ss))
	for k, v := range ss {
		list = append(list, bucket{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	return strconv.FormatFloat(ms, 'f', 1, 64) + "ms"
}

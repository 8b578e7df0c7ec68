package birch

import (
	"fmt"
	"log"
	"os"
	"time"
)

// FrameStats holds the counters of one built batch. Items and Slices are
// always filled by Build; BuildTime only in debug mode.
type FrameStats struct {
	Items     int
	Slices    int
	BuildTime time.Duration
}

// ItemsPerSlice returns the average slice length, the effective batching
// ratio of the frame. 0 when the batch was empty.
func (s FrameStats) ItemsPerSlice() float64 {
	if s.Slices == 0 {
		return 0
	}
	return float64(s.Items) / float64(s.Slices)
}

// globalDebug mirrors the most recently set batch debug flag so that code
// without a batch handle (atlas lookups, font glyph misses) can warn.
var globalDebug bool

// debugLog prints the stats of the batch just built to stderr.
func (b *SpriteBatch[T]) debugLog(mode SortMode) {
	s := b.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[birch] build(%v): %v | items: %d | slices: %d | items/slice: %.1f | cap: %d\n",
		mode, s.BuildTime, s.Items, s.Slices, s.ItemsPerSlice(), b.batcher.Cap())
}

// debugf logs a warning when debug mode is on.
func debugf(format string, args ...any) {
	if globalDebug {
		log.Printf("birch: "+format, args...)
	}
}

package utils

import (
	"math/rand"
	"time"
)

// DelayRange produces randomised pauses between simulated interactions.
// Randomised pacing mimics human input on the scraped portal.
type DelayRange struct {
	MinMs int
	MaxMs int
}

// Sleep blocks for a random duration within the range.
func (d DelayRange) Sleep() {
	time.Sleep(d.Duration())
}

// Duration returns a random duration within the range.
func (d DelayRange) Duration() time.Duration {
	if d.MaxMs <= d.MinMs {
		return time.Duration(d.MinMs) * time.Millisecond
	}
	ms := d.MinMs + rand.Intn(d.MaxMs-d.MinMs)
	return time.Duration(ms) * time.Millisecond
}

// Pause sleeps for a fixed number of milliseconds.
func Pause(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

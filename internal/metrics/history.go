package metrics

import (
	"time"
)

// History defaults.
const (
	DefaultMinInterval   = 500 * time.Millisecond
	DefaultMaxWindow     = 60 * time.Second
	DefaultValidityFloor = -20.0
)

// HistoryPoint is one trend sample.
type HistoryPoint struct {
	Time    time.Time
	Min     float32
	Max     float32
	Average float32
	Center  float32
}

// History is a rate-limited, time-windowed log of frame statistics.
// Mutated only by the processing goroutine; consumers get copies.
type History struct {
	minInterval   time.Duration
	maxWindow     time.Duration
	validityFloor float32
	points        []HistoryPoint
}

// NewHistory returns a history with the given gates. Non-positive
// arguments fall back to the defaults.
func NewHistory(minInterval, maxWindow time.Duration) *History {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if maxWindow <= 0 {
		maxWindow = DefaultMaxWindow
	}
	return &History{
		minInterval:   minInterval,
		maxWindow:     maxWindow,
		validityFloor: DefaultValidityFloor,
	}
}

// Record appends a point when the interval gate allows it and the frame
// minimum clears the validity floor, which keeps warm-up garbage frames
// out of the trend. It then trims from the head until the span between
// oldest and newest fits the window. Returns whether a point was added.
func (h *History) Record(min, max, avg, center float32, now time.Time) bool {
	if min <= h.validityFloor {
		return false
	}
	if n := len(h.points); n > 0 && now.Sub(h.points[n-1].Time) < h.minInterval {
		return false
	}

	h.points = append(h.points, HistoryPoint{Time: now, Min: min, Max: max, Average: avg, Center: center})
	newest := h.points[len(h.points)-1].Time
	for len(h.points) > 1 && newest.Sub(h.points[0].Time) > h.maxWindow {
		h.points = h.points[1:]
	}
	return true
}

// Points returns a read-only snapshot of the log.
func (h *History) Points() []HistoryPoint {
	out := make([]HistoryPoint, len(h.points))
	copy(out, h.points)
	return out
}

// Clear empties the log.
func (h *History) Clear() {
	h.points = h.points[:0]
}

package thermal

// Averager keeps a bounded FIFO of recent fields and can replace each
// incoming field with the elementwise mean of the buffered ones. It is
// owned by the processing goroutine; no internal locking.
type Averager struct {
	enabled bool
	window  int
	ring    []*Field
}

// NewAverager returns a disabled averager with the given window size.
// Windows below 1 are clamped to 1.
func NewAverager(window int) *Averager {
	if window < 1 {
		window = 1
	}
	return &Averager{window: window}
}

// Enabled reports whether averaging is applied to pushed fields.
func (a *Averager) Enabled() bool { return a.enabled }

// Window returns the configured ring capacity.
func (a *Averager) Window() int { return a.window }

// Len returns the number of buffered fields.
func (a *Averager) Len() int { return len(a.ring) }

// SetEnabled toggles averaging. The ring is always cleared so frames
// from before the toggle never blend with frames after it.
func (a *Averager) SetEnabled(on bool) {
	a.enabled = on
	a.ring = a.ring[:0]
}

// SetWindow resizes the ring, evicting oldest entries until the new
// capacity is satisfied.
func (a *Averager) SetWindow(n int) {
	if n < 1 {
		n = 1
	}
	a.window = n
	for len(a.ring) > a.window {
		a.ring = a.ring[1:]
	}
}

// Push appends f, evicts from the head past the window, and returns the
// smoothed field. With averaging disabled, a window of 1, or a single
// buffered frame the input is returned unchanged. The mean is recomputed
// from the current ring on every call so it cannot drift from the true
// mean the way an incremental running sum would.
func (a *Averager) Push(f *Field) *Field {
	a.ring = append(a.ring, f)
	for len(a.ring) > a.window {
		a.ring = a.ring[1:]
	}
	if !a.enabled || len(a.ring) < 2 {
		return f
	}

	out := NewField(f.Width, f.Height)
	sums := make([]float64, len(out.Pix))
	for _, buf := range a.ring {
		for i, v := range buf.Pix {
			sums[i] += float64(v)
		}
	}
	n := float64(len(a.ring))
	for i := range out.Pix {
		out.Pix[i] = float32(sums[i] / n)
	}
	return out
}

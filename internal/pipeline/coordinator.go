// Pipeline coordination: single-flight frame processing and snapshot
// publication.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"thermal-viewer/internal/capture"
	"thermal-viewer/internal/config"
	"thermal-viewer/internal/imageio"
	"thermal-viewer/internal/metrics"
	"thermal-viewer/internal/render"
	"thermal-viewer/internal/thermal"
	"thermal-viewer/internal/video"
)

// Result is the immutable outcome of one pipeline run: the finished
// visual frame plus the statistics and trend snapshot that produced it.
// Published by value to consumers; nothing in it is ever mutated.
type Result struct {
	Image     image.Image
	Width     int
	Height    int
	Stats     *metrics.Statistics
	History   []metrics.HistoryPoint
	Sequence  uint64
	Timestamp time.Time
}

// Coordinator owns the full chain decode -> average -> statistics ->
// history -> colorize -> overlay -> encode. A frame arriving while the
// previous one is mid-pipeline is dropped outright; that atomic guard is
// the system's only backpressure. The averaging ring and history are
// touched exclusively inside the guarded section, so they need no locks.
type Coordinator struct {
	logger    *logrus.Logger
	decoder   *thermal.Decoder
	averager  *thermal.Averager
	calc      *metrics.Calculator
	history   *metrics.History
	colorizer *render.Colorizer
	overlay   *render.Overlay
	recorder  *video.Recorder
	snapshots *imageio.SnapshotWriter

	// Live settings, swapped atomically by UpdateSettings; applied is
	// the processing goroutine's private copy used to detect toggles.
	settings atomic.Pointer[config.Settings]
	applied  config.Settings

	busy      atomic.Bool
	processed atomic.Uint64
	dropped   atomic.Uint64
	seq       atomic.Uint64

	latest  atomic.Pointer[Result]
	results chan *Result

	cbMu     sync.RWMutex
	onResult func(*Result)

	done      chan struct{}
	closeOnce sync.Once
}

// New builds a coordinator from resolved settings.
func New(logger *logrus.Logger, s config.Settings) *Coordinator {
	s.Normalize()

	averager := thermal.NewAverager(s.Averaging.Window)
	averager.SetEnabled(s.Averaging.Enabled)

	c := &Coordinator{
		logger:    logger,
		decoder:   thermal.NewDecoder(),
		averager:  averager,
		calc:      metrics.NewCalculator(),
		history:   metrics.NewHistory(metrics.DefaultMinInterval, metrics.DefaultMaxWindow),
		colorizer: render.NewColorizer(logger),
		overlay:   render.NewOverlay(),
		recorder:  video.NewRecorder(logger, s.Video.FPS),
		snapshots: imageio.NewSnapshotWriter(logger),
		applied:   s,
		results:   make(chan *Result, 1),
		done:      make(chan struct{}),
	}
	c.settings.Store(&s)
	go c.publishLoop()
	return c
}

// UpdateSettings swaps in new configuration. Averaging changes take
// effect at the next frame, inside the processing path, so the ring is
// never touched from a foreign goroutine.
func (c *Coordinator) UpdateSettings(s config.Settings) {
	s.Normalize()
	c.settings.Store(&s)
	c.logger.WithFields(logrus.Fields{
		"color_map":   s.ColorMap,
		"orientation": s.Orientation,
		"overlay":     s.OverlayMode,
		"grid":        s.GridDensity,
	}).Info("settings updated")
}

// Settings returns the currently configured settings.
func (c *Coordinator) Settings() config.Settings {
	return *c.settings.Load()
}

// OnResult registers the consumer callback. It is invoked from a single
// publisher goroutine, one immutable Result at a time; a slow consumer
// only ever misses intermediate results, never blocks processing.
func (c *Coordinator) OnResult(fn func(*Result)) {
	c.cbMu.Lock()
	c.onResult = fn
	c.cbMu.Unlock()
}

// Latest returns the most recently published result, or nil before the
// first frame completes.
func (c *Coordinator) Latest() *Result {
	return c.latest.Load()
}

// Counts reports processed and dropped frame totals.
func (c *Coordinator) Counts() (processed, dropped uint64) {
	return c.processed.Load(), c.dropped.Load()
}

// Ingest accepts one raw buffer from the capture source. It is the
// capture.FrameFunc for this pipeline: if a frame is still mid-pipeline
// the new one is dropped, otherwise processing runs synchronously to
// completion on the caller's goroutine.
func (c *Coordinator) Ingest(data []byte, bytesPerRow int) {
	if !c.busy.CompareAndSwap(false, true) {
		c.dropped.Add(1)
		return
	}
	defer c.busy.Store(false)
	c.process(thermal.RawFrame{Data: data, BytesPerRow: bytesPerRow})
}

func (c *Coordinator) process(raw thermal.RawFrame) {
	s := *c.settings.Load()
	c.applyAveraging(s)

	field, err := c.decoder.Decode(raw)
	if err != nil {
		// Short buffer: drop this frame and keep going. No state
		// changed, nothing user-visible.
		c.dropped.Add(1)
		c.logger.WithError(err).Debug("dropping undecodable frame")
		return
	}
	field = c.averager.Push(field)

	stats := c.calc.Compute(field, s.GridDensity)
	c.history.Record(stats.Min, stats.Max, stats.Average, stats.Center, time.Now())

	orient := s.ResolvedOrientation()
	raster, err := c.colorizer.Render(field, stats.Min, stats.Max, render.MapOrDefault(s.ColorMap), orient, s.Upscale)
	if err != nil {
		c.dropped.Add(1)
		c.logger.WithError(err).Error("colorize failed")
		return
	}
	defer raster.Close()

	if err := c.overlay.Draw(&raster, s.ResolvedOverlayMode(), stats, orient, s.ResolvedUnit()); err != nil {
		c.dropped.Add(1)
		c.logger.WithError(err).Error("overlay failed")
		return
	}

	if c.recorder.Recording() {
		switch err := c.recorder.Append(raster); {
		case err == nil:
		case errors.Is(err, video.ErrEncoderBusy):
			// Dropped from the recording only; the live result below
			// is unaffected.
			c.logger.WithError(err).Debug("recording skipped frame")
		case errors.Is(err, video.ErrNotRecording):
		default:
			c.logger.WithError(err).Warn("recording append failed")
		}
	}

	img, err := raster.ToImage()
	if err != nil {
		c.dropped.Add(1)
		c.logger.WithError(err).Error("raster conversion failed")
		return
	}

	res := &Result{
		Image:     img,
		Width:     raster.Cols(),
		Height:    raster.Rows(),
		Stats:     stats,
		History:   c.history.Points(),
		Sequence:  c.seq.Add(1),
		Timestamp: time.Now(),
	}
	c.latest.Store(res)
	c.processed.Add(1)
	c.publish(res)
}

// applyAveraging forwards averaging toggles into the processing-owned
// ring. Only actual changes are applied; SetEnabled clears the ring and
// must not run every frame.
func (c *Coordinator) applyAveraging(s config.Settings) {
	if s.Averaging.Enabled != c.applied.Averaging.Enabled {
		c.averager.SetEnabled(s.Averaging.Enabled)
	}
	if s.Averaging.Window != c.applied.Averaging.Window {
		c.averager.SetWindow(s.Averaging.Window)
	}
	c.applied = s
}

// publish hands the result to the publisher goroutine through a one-slot
// channel, replacing any unconsumed older result.
func (c *Coordinator) publish(res *Result) {
	for {
		select {
		case c.results <- res:
			return
		default:
			select {
			case <-c.results:
			default:
			}
		}
	}
}

func (c *Coordinator) publishLoop() {
	for {
		select {
		case <-c.done:
			return
		case res := <-c.results:
			c.cbMu.RLock()
			fn := c.onResult
			c.cbMu.RUnlock()
			if fn != nil {
				fn(res)
			}
		}
	}
}

// StartRecording opens the video container at the orientation-adjusted
// raster dimensions. Fails fast with a typed error; never half-starts.
func (c *Coordinator) StartRecording(path string) error {
	s := *c.settings.Load()
	w, h := s.ResolvedOrientation().Size(thermal.FrameWidth, thermal.FrameHeight)
	return c.recorder.Start(path, w*s.Upscale, h*s.Upscale)
}

// StopRecording finalizes the recording asynchronously. onComplete is
// the only signal that the file is safe to read.
func (c *Coordinator) StopRecording(onComplete func(path string, err error)) {
	c.recorder.Stop(onComplete)
}

// Recording reports whether a recording is active.
func (c *Coordinator) Recording() bool {
	return c.recorder.Recording()
}

// RecordingCounts reports frames written to and dropped from the
// current or last recording.
func (c *Coordinator) RecordingCounts() (written, dropped int64) {
	return c.recorder.Counts()
}

// SaveSnapshot writes the latest published frame as a still image.
func (c *Coordinator) SaveSnapshot(path string) error {
	res := c.latest.Load()
	if res == nil {
		return fmt.Errorf("pipeline: no frame published yet")
	}
	return c.snapshots.Save(res.Image, path)
}

// Close stops the publisher and any active recording.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.recorder.Stop(nil)
		close(c.done)
	})
}

// Ingest satisfies the capture boundary's push contract.
var _ capture.FrameFunc = (*Coordinator)(nil).Ingest

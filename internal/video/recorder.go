// Video encoder adapter: appends finished rasters to an H.264 container.
package video

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// DefaultFPS is the container frame rate when configuration is silent.
const DefaultFPS = 25

var (
	// ErrEncoderSetup means the backing writer could not be created or
	// attached; StartRecording fails up front, never half-starts.
	ErrEncoderSetup = errors.New("video: encoder setup failed")
	// ErrEncoderBusy means the encoder cannot take more data right now;
	// the frame is dropped from the recording and nothing else.
	ErrEncoderBusy = errors.New("video: encoder not ready for frame")
	// ErrNotRecording is returned by Append outside a recording.
	ErrNotRecording = errors.New("video: no active recording")
)

// Recorder writes oriented BGR rasters into an H.264 video file. The
// container has a fixed frame rate, so each appended frame is assigned
// the next fps slot; a frame arriving before its slot is due is the
// "encoder not ready" case and is silently dropped, keeping presentation
// timestamps strictly non-decreasing. Stop finalizes asynchronously; the
// completion callback is the only signal that the file is readable.
type Recorder struct {
	logger *logrus.Logger
	fps    int

	mu       sync.Mutex
	writer   *gocv.VideoWriter
	path     string
	started  time.Time
	written  int64
	dropped  int64
	lastPTS  time.Duration
	scratch  gocv.Mat
	stopping bool
}

// NewRecorder returns an idle recorder.
func NewRecorder(logger *logrus.Logger, fps int) *Recorder {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Recorder{logger: logger, fps: fps}
}

// Recording reports whether frames are currently being accepted.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer != nil && !r.stopping
}

// LastPTS returns the presentation timestamp of the most recently
// written frame.
func (r *Recorder) LastPTS() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPTS
}

// Counts returns frames written to and dropped from the recording.
func (r *Recorder) Counts() (written, dropped int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written, r.dropped
}

// Start opens the container at the orientation-adjusted dimensions with
// a fixed H.264 profile. Starting while already recording is a no-op.
func (r *Recorder) Start(path string, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writer != nil {
		if r.stopping {
			// The previous recording is still finalizing; reporting
			// "already recording" here would be a lie, since the
			// finalizer is about to tear the writer down.
			return fmt.Errorf("%w: previous recording still finalizing", ErrEncoderSetup)
		}
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrEncoderSetup, width, height)
	}

	writer, err := gocv.VideoWriterFile(path, "avc1", float64(r.fps), width, height, true)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderSetup, err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return fmt.Errorf("%w: writer did not open for %s", ErrEncoderSetup, path)
	}

	r.writer = writer
	r.path = path
	r.started = time.Now()
	r.written = 0
	r.dropped = 0
	r.lastPTS = 0
	r.stopping = false
	r.scratch = gocv.NewMat()

	r.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  width,
		"height": height,
		"fps":    r.fps,
	}).Info("recording started")
	return nil
}

// Append copies the raster into the pooled scratch buffer and writes it
// with a presentation timestamp of the wall-clock time since Start. An
// early frame returns ErrEncoderBusy; the caller drops it from the
// recording without retrying or queuing.
func (r *Recorder) Append(frame gocv.Mat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writer == nil || r.stopping {
		return ErrNotRecording
	}

	pts := time.Since(r.started)
	due := time.Duration(r.written) * time.Second / time.Duration(r.fps)
	if pts < due {
		r.dropped++
		return ErrEncoderBusy
	}

	frame.CopyTo(&r.scratch)
	if err := r.writer.Write(r.scratch); err != nil {
		r.dropped++
		return fmt.Errorf("%w: %v", ErrEncoderBusy, err)
	}
	r.written++
	r.lastPTS = pts
	return nil
}

// Stop marks input finished and finalizes the container off the
// processing path. onComplete fires exactly once, after the file is safe
// to read; a Stop while idle or already stopping is a no-op.
func (r *Recorder) Stop(onComplete func(path string, err error)) {
	r.mu.Lock()
	if r.writer == nil || r.stopping {
		r.mu.Unlock()
		return
	}
	r.stopping = true
	writer := r.writer
	scratch := r.scratch
	path := r.path
	written, dropped := r.written, r.dropped
	r.mu.Unlock()

	go func() {
		err := writer.Close()
		scratch.Close()

		r.mu.Lock()
		r.writer = nil
		r.stopping = false
		r.mu.Unlock()

		r.logger.WithFields(logrus.Fields{
			"path":    path,
			"written": written,
			"dropped": dropped,
		}).Info("recording finalized")
		if onComplete != nil {
			onComplete(path, err)
		}
	}()
}

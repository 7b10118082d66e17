package capture

import (
	"context"
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"thermal-viewer/internal/thermal"
)

// SyntheticSource fakes the sensor: it emits raw buffers with the real
// layout (preview half above the data half) containing a slowly drifting
// hot spot over an ambient background, plus per-pixel noise. Useful for
// demos and for exercising the pipeline without hardware.
type SyntheticSource struct {
	logger   *logrus.Logger
	interval time.Duration
	rng      *rand.Rand

	ambientC float32
	hotC     float32
}

// NewSyntheticSource returns a source emitting at the given frame rate.
func NewSyntheticSource(logger *logrus.Logger, fps int) *SyntheticSource {
	if fps <= 0 {
		fps = 25
	}
	return &SyntheticSource{
		logger:   logger,
		interval: time.Second / time.Duration(fps),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		ambientC: 22.0,
		hotC:     68.0,
	}
}

// Run emits frames until ctx is done.
func (s *SyntheticSource) Run(ctx context.Context, emit FrameFunc) error {
	stride := 2 * thermal.FrameWidth
	buf := make([]byte, (thermal.DataStartRow+thermal.FrameHeight)*stride)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.WithFields(logrus.Fields{
		"interval": s.interval,
		"width":    thermal.FrameWidth,
		"height":   thermal.FrameHeight,
	}).Info("synthetic capture started")

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("synthetic capture stopped")
			return ctx.Err()
		case <-ticker.C:
			s.fill(buf, stride, time.Since(start))
			emit(buf, stride)
		}
	}
}

// fill renders the data half: ambient background, drifting Gaussian hot
// spot, and a little sensor noise.
func (s *SyntheticSource) fill(buf []byte, stride int, elapsed time.Duration) {
	t := elapsed.Seconds()
	cx := float64(thermal.FrameWidth) * (0.5 + 0.3*math.Sin(t/3))
	cy := float64(thermal.FrameHeight) * (0.5 + 0.3*math.Cos(t/4))
	const sigma = 18.0

	for y := 0; y < thermal.FrameHeight; y++ {
		row := buf[(thermal.DataStartRow+y)*stride:]
		for x := 0; x < thermal.FrameWidth; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			blob := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			c := float64(s.ambientC) + blob*float64(s.hotC-s.ambientC)
			c += s.rng.Float64()*0.4 - 0.2

			raw := uint16(math.Round((c + 273.2) * 64))
			binary.BigEndian.PutUint16(row[2*x:], raw)
		}
	}
}

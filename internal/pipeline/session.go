package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"thermal-viewer/internal/capture"
)

// Session ties a capture source to a coordinator. Start and Stop are
// synchronous and idempotent: starting while running and stopping while
// stopped are no-ops that report success.
type Session struct {
	logger *logrus.Logger
	source capture.Source
	coord  *Coordinator

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession wires source frames into coord.Ingest.
func NewSession(logger *logrus.Logger, source capture.Source, coord *Coordinator) *Session {
	return &Session{logger: logger, source: source, coord: coord}
}

// Start begins capture on a background goroutine.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		if err := s.source.Run(ctx, s.coord.Ingest); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Error("capture source failed")
		}
	}()

	s.logger.Info("capture session started")
	return nil
}

// Stop cancels capture and waits for the source to return.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("capture session stopped")
}

// Running reports whether capture is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

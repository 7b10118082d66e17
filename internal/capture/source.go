// Capture boundary: the pipeline sees frame sources only through this
// push-callback contract.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoDevice means the named capture source does not exist.
	ErrNoDevice = errors.New("capture: no such capture source")
	// ErrDeviceAttach means the source exists but could not be opened.
	ErrDeviceAttach = errors.New("capture: attaching capture source failed")
)

// FrameFunc receives one raw sensor buffer and its row stride. The
// buffer is untrusted; receivers validate its extent before decoding and
// must not retain it past the call.
type FrameFunc func(data []byte, bytesPerRow int)

// Source delivers raw frames at sensor rate until the context is
// cancelled. Implementations block inside Run.
type Source interface {
	Run(ctx context.Context, emit FrameFunc) error
}

// Open resolves a source by name. Hardware transports register here as
// they are ported; "synthetic" is always available.
func Open(logger *logrus.Logger, name string, fps int) (Source, error) {
	switch name {
	case "synthetic":
		return NewSyntheticSource(logger, fps), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoDevice, name)
	}
}

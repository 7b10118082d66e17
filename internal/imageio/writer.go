// Still-image export for published visual frames.
package imageio

import (
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// SnapshotWriter saves published frames as still images, overwriting any
// existing file at the target path.
type SnapshotWriter struct {
	logger *logrus.Logger
}

func NewSnapshotWriter(logger *logrus.Logger) *SnapshotWriter {
	return &SnapshotWriter{logger: logger}
}

// Save writes img to path. The format follows the extension; PNG is the
// default recommendation for lossless thermal snapshots.
func (sw *SnapshotWriter) Save(img image.Image, path string) error {
	if img == nil {
		return fmt.Errorf("imageio: cannot save nil image")
	}
	if !isSupportedFormat(path) {
		return fmt.Errorf("imageio: unsupported image format: %s", path)
	}

	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return fmt.Errorf("imageio: converting image: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	if err := gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR); err != nil {
		return fmt.Errorf("imageio: converting color space: %w", err)
	}

	if ok := gocv.IMWrite(path, bgr); !ok {
		return fmt.Errorf("imageio: failed to save image: %s", path)
	}

	sw.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  bgr.Cols(),
		"height": bgr.Rows(),
	}).Info("snapshot saved")
	return nil
}

func isSupportedFormat(path string) bool {
	ext := strings.ToLower(path)
	for _, format := range []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif"} {
		if strings.HasSuffix(ext, format) {
			return true
		}
	}
	return false
}

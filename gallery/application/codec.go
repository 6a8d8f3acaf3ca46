package application

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	MinQuality     = 0
	MaxQuality     = 100
	DefaultQuality = MaxQuality

	// MaxImagePixels bounds the declared width*height of a payload
	MaxImagePixels = 100_000_000
)

var (
	errEmptyImage    = errors.New("empty image data")
	errImageTooLarge = errors.New("image too large")
)

// decodeImage sniffs and decodes an encoded image
func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &domain.DecodeError{Err: errEmptyImage}
	}

	detected := mimetype.Detect(data).String()
	if !strings.HasPrefix(detected, "image/") {
		return nil, &domain.DecodeError{Detected: detected}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.DecodeError{Detected: detected, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, &domain.DecodeError{
			Detected: detected,
			Err:      fmt.Errorf("%w: %dx%d", errImageTooLarge, cfg.Width, cfg.Height),
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.DecodeError{Detected: detected, Err: err}
	}
	return img, nil
}

func clampQuality(quality int) int {
	return max(MinQuality, min(MaxQuality, quality))
}

// encodeJPEG compresses img into w at quality, clamped to [0,100]
func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
}

package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/rs/zerolog/log"
)

var errNoBackend = errors.New("no storage backend available")

// GallerySaver saves images and files into the shared media collections.
// It holds no state between calls, so one instance may serve concurrent callers.
type GallerySaver struct {
	platform Platform
	now      func() time.Time
}

func NewGallerySaver(platform Platform) *GallerySaver {
	return &GallerySaver{
		platform: platform,
		now:      time.Now,
	}
}

// SaveImage stores the decoded payload as a JPEG in the pictures collection.
// Without a name the current time in milliseconds is used.
func (s *GallerySaver) SaveImage(ctx context.Context, payload domain.ImagePayload) domain.SaveResult {
	location, err := s.saveImage(ctx, payload)
	return s.result(ctx, "saveImage", location, err)
}

// SaveFile copies the source file into the downloads collection.
// Without a name the source's base name is used.
func (s *GallerySaver) SaveFile(ctx context.Context, payload domain.FilePayload) domain.SaveResult {
	location, err := s.saveFile(ctx, payload)
	return s.result(ctx, "saveFile", location, err)
}

func (s *GallerySaver) saveImage(ctx context.Context, payload domain.ImagePayload) (string, error) {
	img, err := decodeImage(payload.Bytes)
	if err != nil {
		return "", err
	}

	name := payload.Name
	if name == "" {
		name = strconv.FormatInt(s.now().UnixMilli(), 10)
	}

	target := domain.MediaTarget{
		Collection:  domain.CollectionPictures,
		DisplayName: name,
		MimeType:    "image/jpeg",
	}

	return s.write(ctx, target, func(w io.Writer) error {
		return encodeJPEG(w, img, payload.Quality)
	})
}

func (s *GallerySaver) saveFile(ctx context.Context, payload domain.FilePayload) (string, error) {
	src, err := os.Open(payload.SourcePath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := payload.Name
	if name == "" {
		name = filepath.Base(payload.SourcePath)
	}

	target := domain.MediaTarget{
		Collection:  domain.CollectionDownloads,
		DisplayName: name,
		MimeType:    domain.MimeTypeFor(payload.SourcePath),
	}

	return s.write(ctx, target, func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
}

// write creates target on the selected backend and fills it. The sink is
// released on every path: Close on success, Abort otherwise.
func (s *GallerySaver) write(ctx context.Context, target domain.MediaTarget, fill func(io.Writer) error) (string, error) {
	backend := s.platform.Backend()
	if backend == nil {
		return "", errNoBackend
	}

	sink, location, err := backend.Create(ctx, target)
	if err != nil {
		return "", err
	}
	// no-op once the sink is closed
	defer func() {
		if err := sink.Abort(); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("location", location).Msg("failed to discard partial save")
		}
	}()

	if err := fill(sink); err != nil {
		return "", fmt.Errorf("write %s: %w", location, err)
	}

	if err := sink.Close(); err != nil {
		return "", err
	}

	return location, nil
}

func (s *GallerySaver) result(ctx context.Context, op, location string, err error) domain.SaveResult {
	logger := log.Ctx(ctx)

	if err != nil {
		failure := domain.FailureFromError(err)
		logger.Error().Err(err).
			Str("operation", op).
			Stringer("kind", failure.Kind).
			Bool("scoped_storage", s.platform.SupportsScopedStorage()).
			Msg("Gallery save failed")
		return failure
	}

	logger.Info().
		Str("operation", op).
		Str("file_path", location).
		Bool("scoped_storage", s.platform.SupportsScopedStorage()).
		Msg("Saved to gallery")
	return domain.Saved{FilePath: location}
}

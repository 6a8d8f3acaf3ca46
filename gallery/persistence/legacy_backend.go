package persistence

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
)

var _ domain.StorageBackend = (*LegacyBackend)(nil)

// LegacyBackend writes straight into the public pictures and downloads
// directories, replacing any file of the same name.
type LegacyBackend struct {
	picturesDir  string
	downloadsDir string
}

func NewLegacyBackend(picturesDir, downloadsDir string) *LegacyBackend {
	return &LegacyBackend{
		picturesDir:  picturesDir,
		downloadsDir: downloadsDir,
	}
}

// Destination resolves the absolute path target is written to. Pictures are
// always stored as <name>.jpg.
func (b *LegacyBackend) Destination(target domain.MediaTarget) (string, error) {
	if target.DisplayName == "" {
		return "", fmt.Errorf("display name cannot be empty")
	}

	var dest string
	switch target.Collection {
	case domain.CollectionPictures:
		dest = filepath.Join(b.picturesDir, target.DisplayName+".jpg")
	case domain.CollectionDownloads:
		dest = filepath.Join(b.downloadsDir, target.DisplayName)
	default:
		return "", fmt.Errorf("unknown collection %q", target.Collection)
	}

	return filepath.Abs(dest)
}

// Create opens a temp file next to the destination. Close renames it over the
// destination, Abort removes it.
func (b *LegacyBackend) Create(_ context.Context, target domain.MediaTarget) (domain.Sink, string, error) {
	dest, err := b.Destination(target)
	if err != nil {
		return nil, "", err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pending-*")
	if err != nil {
		return nil, "", fmt.Errorf("create %s: %w", dest, err)
	}
	_ = os.Chmod(tmp.Name(), 0644)

	return &fileSink{
		tmp:  tmp,
		buf:  bufio.NewWriterSize(tmp, 64*1024),
		dest: dest,
	}, dest, nil
}

type fileSink struct {
	tmp  *os.File
	buf  *bufio.Writer
	dest string
	done bool
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *fileSink) Close() error {
	if s.done {
		return os.ErrClosed
	}
	s.done = true

	tmpPath := s.tmp.Name()
	fail := func(err error) error {
		_ = s.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", s.dest, err)
	}

	if err := s.buf.Flush(); err != nil {
		return fail(err)
	}
	if err := s.tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := s.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", s.dest, err)
	}
	if err := os.Rename(tmpPath, s.dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", s.dest, err)
	}
	return nil
}

func (s *fileSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true

	_ = s.tmp.Close()
	if err := os.Remove(s.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove partial %s: %w", s.dest, err)
	}
	return nil
}

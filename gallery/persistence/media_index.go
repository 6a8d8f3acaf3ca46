package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/AriAlanPR/image-gallery-saver/shared/db"
	"github.com/rs/zerolog/log"
)

var _ domain.MediaIndex = (*SQLiteMediaIndex)(nil)

const (
	imagesURIPrefix    = "content://media/external/images/media/"
	downloadsURIPrefix = "content://media/external/downloads/"

	// maxNameCollisions bounds the " (n)" suffixes tried for one display name
	maxNameCollisions = 1000
)

// SQLiteMediaIndex implements domain.MediaIndex with a SQLite catalog and
// content files under a storage root, one directory per collection.
type SQLiteMediaIndex struct {
	db   *sql.DB
	root string
	now  func() time.Time
}

// NewMediaIndex creates a SQLiteMediaIndex storing content under root
func NewMediaIndex(sqlDB *sql.DB, root string) *SQLiteMediaIndex {
	return &SQLiteMediaIndex{
		db:   sqlDB,
		root: root,
		now:  time.Now,
	}
}

// URIFor builds the content URI of entry id in collection
func URIFor(collection domain.Collection, id int64) string {
	if collection == domain.CollectionPictures {
		return imagesURIPrefix + strconv.FormatInt(id, 10)
	}
	return downloadsURIPrefix + strconv.FormatInt(id, 10)
}

func parseURI(uri string) (domain.Collection, int64, error) {
	var collection domain.Collection
	var rest string
	switch {
	case strings.HasPrefix(uri, imagesURIPrefix):
		collection, rest = domain.CollectionPictures, strings.TrimPrefix(uri, imagesURIPrefix)
	case strings.HasPrefix(uri, downloadsURIPrefix):
		collection, rest = domain.CollectionDownloads, strings.TrimPrefix(uri, downloadsURIPrefix)
	default:
		return "", 0, fmt.Errorf("%w: unsupported uri %q", domain.ErrEntryNotFound, uri)
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: malformed uri %q", domain.ErrEntryNotFound, uri)
	}
	return collection, id, nil
}

const insertMediaQuery = `
	INSERT INTO media (collection, display_name, mime_type, relative_path, data_path, is_pending, date_added)
	VALUES (?, ?, ?, ?, ?, 1, ?)
`

// Insert registers a pending entry. The display name gets the MIME type's
// extension when it has none, and a " (n)" suffix when the name is taken.
func (r *SQLiteMediaIndex) Insert(ctx context.Context, target domain.MediaTarget) (string, error) {
	displayName, err := sanitizeDisplayName(target.DisplayName)
	if err != nil {
		return "", err
	}

	switch target.Collection {
	case domain.CollectionPictures, domain.CollectionDownloads:
	default:
		return "", fmt.Errorf("unknown collection %q", target.Collection)
	}

	dir := filepath.Join(r.root, string(target.Collection))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create collection directory: %w", err)
	}

	var uri, reserved string
	err = db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		name, dataPath, err := reserveFile(dir, withExtension(displayName, target.MimeType))
		if err != nil {
			return err
		}
		reserved = dataPath

		executor := db.GetExecutor(txCtx, r.db)
		res, err := executor.ExecContext(txCtx, insertMediaQuery,
			string(target.Collection),
			name,
			target.MimeType,
			string(target.Collection),
			dataPath,
			r.now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert media record: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read media id: %w", err)
		}

		uri = URIFor(target.Collection, id)
		return nil
	})
	if err != nil {
		if reserved != "" {
			_ = os.Remove(reserved)
		}
		return "", err
	}

	return uri, nil
}

// sanitizeDisplayName keeps a display name to a single path element
func sanitizeDisplayName(name string) (string, error) {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))

	switch name {
	case "":
		return "", errors.New("display name cannot be empty")
	case ".", "..":
		return "", fmt.Errorf("invalid display name %q", name)
	}
	return name, nil
}

// reserveFile creates an empty file for name in dir, trying suffixed names
// until one does not exist yet
func reserveFile(dir, name string) (string, string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for n := 0; n < maxNameCollisions; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}

		dataPath := filepath.Join(dir, candidate)
		if filepath.Dir(dataPath) != filepath.Clean(dir) {
			return "", "", fmt.Errorf("media file %q escapes %s", candidate, dir)
		}
		f, err := os.OpenFile(dataPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to reserve media file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(dataPath)
			return "", "", fmt.Errorf("failed to reserve media file: %w", err)
		}
		return candidate, dataPath, nil
	}

	return "", "", fmt.Errorf("too many media entries named %q", name)
}

func withExtension(name, mimeType string) string {
	ext := domain.ExtensionFor(mimeType)
	if ext == "" || domain.MimeTypeFor(name) == mimeType {
		return name
	}
	return name + ext
}

const getMediaQuery = `
	SELECT id, collection, display_name, mime_type, relative_path, data_path, size, is_pending, date_added, date_modified
	FROM media
	WHERE id = ? AND collection = ?
`

// GetEntry retrieves the entry behind uri
func (r *SQLiteMediaIndex) GetEntry(ctx context.Context, uri string) (*domain.MediaEntry, error) {
	collection, id, err := parseURI(uri)
	if err != nil {
		return nil, err
	}

	var row mediaRow
	err = db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getMediaQuery, id, string(collection)).Scan(
		&row.ID,
		&row.Collection,
		&row.DisplayName,
		&row.MimeType,
		&row.RelativePath,
		&row.DataPath,
		&row.Size,
		&row.Pending,
		&row.DateAdded,
		&row.DateModified,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, uri)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get media entry: %w", err)
	}

	return row.toDomain(), nil
}

// OpenWriter truncates the entry's content and returns a sink over it.
// Closing the sink publishes the entry, aborting it deletes the entry.
func (r *SQLiteMediaIndex) OpenWriter(ctx context.Context, uri string) (domain.Sink, error) {
	entry, err := r.GetEntry(ctx, uri)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(entry.DataPath, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}

	return &indexSink{
		ctx:   context.WithoutCancel(ctx),
		index: r,
		entry: entry,
		file:  f,
	}, nil
}

// OpenReader opens the content of a published entry
func (r *SQLiteMediaIndex) OpenReader(ctx context.Context, uri string) (io.ReadCloser, error) {
	entry, err := r.GetEntry(ctx, uri)
	if err != nil {
		return nil, err
	}

	if entry.Pending {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryPending, uri)
	}

	f, err := os.Open(entry.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}
	return f, nil
}

const deleteMediaQuery = `
	DELETE FROM media WHERE id = ?
`

// Delete removes the entry and its content within a transaction
func (r *SQLiteMediaIndex) Delete(ctx context.Context, uri string) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		entry, err := r.GetEntry(txCtx, uri)
		if err != nil {
			return err
		}

		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, deleteMediaQuery, entry.ID); err != nil {
			return fmt.Errorf("failed to delete media record: %w", err)
		}

		// if this fails, the record delete rolls back
		if err := os.Remove(entry.DataPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove media file: %w", err)
		}

		return nil
	})
}

const publishMediaQuery = `
	UPDATE media SET size = ?, is_pending = 0, date_modified = ? WHERE id = ?
`

func (r *SQLiteMediaIndex) publish(ctx context.Context, id, size int64) error {
	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, publishMediaQuery, size, r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to publish media record: %w", err)
	}
	return nil
}

// indexSink writes an entry's content. It outlives the request that opened
// it only for the duration of one save, so it keeps a non-cancellable ctx.
type indexSink struct {
	ctx     context.Context
	index   *SQLiteMediaIndex
	entry   *domain.MediaEntry
	file    *os.File
	written int64
	done    bool
}

func (s *indexSink) Write(p []byte) (int, error) {
	n, err := s.file.Write(p)
	s.written += int64(n)
	return n, err
}

func (s *indexSink) Close() error {
	if s.done {
		return os.ErrClosed
	}
	s.done = true

	if err := s.file.Close(); err != nil {
		s.discard()
		return fmt.Errorf("failed to close media file: %w", err)
	}

	if err := s.index.publish(s.ctx, s.entry.ID, s.written); err != nil {
		s.discard()
		return err
	}
	return nil
}

// discard drops an entry that can no longer be published
func (s *indexSink) discard() {
	if err := s.index.Delete(s.ctx, s.entry.URI); err != nil {
		log.Ctx(s.ctx).Warn().Err(err).Str("uri", s.entry.URI).Msg("failed to remove unpublished media entry")
	}
}

func (s *indexSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true

	_ = s.file.Close()
	return s.index.Delete(s.ctx, s.entry.URI)
}

// mediaRow is a private struct used to scan database rows
type mediaRow struct {
	ID           int64        `db:"id"`
	Collection   string       `db:"collection"`
	DisplayName  string       `db:"display_name"`
	MimeType     string       `db:"mime_type"`
	RelativePath string       `db:"relative_path"`
	DataPath     string       `db:"data_path"`
	Size         int64        `db:"size"`
	Pending      bool         `db:"is_pending"`
	DateAdded    sql.NullTime `db:"date_added"`
	DateModified sql.NullTime `db:"date_modified"`
}

func (mr *mediaRow) toDomain() *domain.MediaEntry {
	collection := domain.Collection(mr.Collection)
	entry := &domain.MediaEntry{
		ID:           mr.ID,
		URI:          URIFor(collection, mr.ID),
		Collection:   collection,
		DisplayName:  mr.DisplayName,
		MimeType:     mr.MimeType,
		RelativePath: mr.RelativePath,
		DataPath:     mr.DataPath,
		Size:         mr.Size,
		Pending:      mr.Pending,
	}

	if mr.DateAdded.Valid {
		entry.DateAdded = mr.DateAdded.Time
	}
	if mr.DateModified.Valid {
		entry.DateModified = mr.DateModified.Time
	}

	return entry
}

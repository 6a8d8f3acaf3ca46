package domain

import (
	"context"
	"io"
	"time"
)

// Collection is a shared media collection exposed by the platform.
type Collection string

const (
	CollectionPictures  Collection = "Pictures"
	CollectionDownloads Collection = "Download"
)

// MediaTarget describes a destination to create in a collection.
type MediaTarget struct {
	Collection  Collection
	DisplayName string
	MimeType    string
}

// MediaEntry is a record registered with the media index
type MediaEntry struct {
	ID           int64
	URI          string
	Collection   Collection
	DisplayName  string
	MimeType     string
	RelativePath string
	DataPath     string
	Size         int64
	Pending      bool
	DateAdded    time.Time
	DateModified time.Time
}

// Sink is a writable stream for a newly created destination.
// Close commits the written content, Abort discards it. Exactly one of the two
// must be called.
type Sink interface {
	io.WriteCloser
	Abort() error
}

// MediaIndex catalogs shared media so that it becomes visible to gallery and
// file manager applications.
type MediaIndex interface {
	// Insert registers a new pending entry and returns its URI
	Insert(ctx context.Context, target MediaTarget) (string, error)

	// OpenWriter returns a sink over the entry's content
	OpenWriter(ctx context.Context, uri string) (Sink, error)

	// OpenReader opens committed content for reading
	OpenReader(ctx context.Context, uri string) (io.ReadCloser, error)

	GetEntry(ctx context.Context, uri string) (*MediaEntry, error)

	// Delete removes the entry and its content
	Delete(ctx context.Context, uri string) error
}

// StorageBackend creates destinations for saved media. The returned location is
// the index URI or an absolute filesystem path, depending on the backend.
type StorageBackend interface {
	Create(ctx context.Context, target MediaTarget) (sink Sink, location string, err error)
}

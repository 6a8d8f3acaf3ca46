package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/rs/zerolog/log"
)

var _ domain.StorageBackend = (*ScopedBackend)(nil)

var errNoOutputStream = errors.New("media index returned no output stream")

// ScopedBackend saves through the media index: register a new entry, then
// write its content through the sink the index hands out.
type ScopedBackend struct {
	index domain.MediaIndex
}

func NewScopedBackend(index domain.MediaIndex) *ScopedBackend {
	return &ScopedBackend{index: index}
}

// Create registers target with the index. A refused registration is reported
// as domain.ErrIndexCreation.
func (b *ScopedBackend) Create(ctx context.Context, target domain.MediaTarget) (domain.Sink, string, error) {
	uri, err := b.index.Insert(ctx, target)
	if err != nil || uri == "" {
		log.Ctx(ctx).Warn().Err(err).
			Str("collection", string(target.Collection)).
			Str("display_name", target.DisplayName).
			Msg("media index refused new entry")
		return nil, "", domain.ErrIndexCreation
	}

	sink, err := b.index.OpenWriter(ctx, uri)
	if err == nil && sink == nil {
		err = errNoOutputStream
	}
	if err != nil {
		if delErr := b.index.Delete(ctx, uri); delErr != nil {
			log.Ctx(ctx).Warn().Err(delErr).Str("uri", uri).Msg("failed to remove media entry without output stream")
		}
		return nil, "", fmt.Errorf("open output stream for %s: %w", uri, err)
	}

	return sink, uri, nil
}

package rest

import (
	"errors"
	"mime"
	"net/http"

	"github.com/AriAlanPR/image-gallery-saver/api"
	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type MediaHandler struct {
	index domain.MediaIndex
}

func NewMediaHandler(index domain.MediaIndex) *MediaHandler {
	return &MediaHandler{index: index}
}

func (h *MediaHandler) GetEntry(c *gin.Context) {
	entry, err := h.index.GetEntry(c.Request.Context(), c.Query("uri"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEntryProto(entry))
}

// GetContent streams the committed content of an entry
func (h *MediaHandler) GetContent(c *gin.Context) {
	ctx := c.Request.Context()
	uri := c.Query("uri")

	entry, err := h.index.GetEntry(ctx, uri)
	if err != nil {
		h.respondError(c, err)
		return
	}

	rc, err := h.index.OpenReader(ctx, uri)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer rc.Close()

	contentType := entry.MimeType
	if contentType == domain.AnyMimeType {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, entry.Size, contentType, rc, map[string]string{
		"Content-Disposition": contentDisposition(entry.DisplayName),
	})
}

func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}

func (h *MediaHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrEntryNotFound) || errors.Is(err, domain.ErrEntryPending) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}

	log.Ctx(c.Request.Context()).Error().Err(err).Msg("media lookup failed")
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
}

func toEntryProto(entry *domain.MediaEntry) api.MediaEntry {
	proto := api.MediaEntry{
		URI:          entry.URI,
		Collection:   string(entry.Collection),
		DisplayName:  entry.DisplayName,
		MimeType:     entry.MimeType,
		RelativePath: entry.RelativePath,
		Size:         entry.Size,
		Pending:      entry.Pending,
		DateAdded:    entry.DateAdded,
	}
	if !entry.DateModified.IsZero() {
		modified := entry.DateModified
		proto.DateModified = &modified
	}
	return proto
}

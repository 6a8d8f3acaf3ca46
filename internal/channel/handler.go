package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AriAlanPR/image-gallery-saver/api"
	"github.com/AriAlanPR/image-gallery-saver/gallery/application"
	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/rs/zerolog/log"
)

const (
	Name = "image_gallery_saver"

	MethodSaveImage = "saveImageToGallery"
	MethodSaveFile  = "saveFileToGallery"

	CodeInvalidArguments = "INVALID_ARGUMENTS"
)

// Saver is the gallery surface the channel dispatches to
type Saver interface {
	SaveImage(ctx context.Context, payload domain.ImagePayload) domain.SaveResult
	SaveFile(ctx context.Context, payload domain.FilePayload) domain.SaveResult
}

type ReplyKind int

const (
	ReplySuccess ReplyKind = iota
	ReplyError
	ReplyNotImplemented
)

// Reply answers a method call. Result is set for ReplySuccess, Code and
// Message for ReplyError.
type Reply struct {
	Kind    ReplyKind
	Result  domain.SaveResult
	Code    string
	Message string
}

func success(result domain.SaveResult) Reply {
	return Reply{Kind: ReplySuccess, Result: result}
}

func invalidArguments(format string, args ...any) Reply {
	return Reply{Kind: ReplyError, Code: CodeInvalidArguments, Message: fmt.Sprintf(format, args...)}
}

// MethodHandler dispatches method calls to a Saver
type MethodHandler struct {
	saver Saver
}

func NewMethodHandler(saver Saver) *MethodHandler {
	return &MethodHandler{saver: saver}
}

// Handle runs call. Unknown methods are answered with ReplyNotImplemented.
func (h *MethodHandler) Handle(ctx context.Context, call api.MethodCall) Reply {
	switch call.Method {
	case MethodSaveImage:
		return h.saveImage(ctx, call.Arguments)
	case MethodSaveFile:
		return h.saveFile(ctx, call.Arguments)
	default:
		log.Ctx(ctx).Debug().Str("method", call.Method).Msg("method not implemented")
		return Reply{Kind: ReplyNotImplemented}
	}
}

func (h *MethodHandler) saveImage(ctx context.Context, raw json.RawMessage) Reply {
	var args api.SaveImageArguments
	if err := decodeArguments(raw, &args); err != nil {
		return invalidArguments("%s: %v", MethodSaveImage, err)
	}
	if args.ImageBytes == nil {
		return invalidArguments("%s: imageBytes is required", MethodSaveImage)
	}

	quality := application.DefaultQuality
	if args.Quality != nil {
		quality = *args.Quality
	}

	return success(h.saver.SaveImage(ctx, domain.ImagePayload{
		Bytes:   args.ImageBytes,
		Quality: quality,
		Name:    deref(args.Name),
	}))
}

func (h *MethodHandler) saveFile(ctx context.Context, raw json.RawMessage) Reply {
	var args api.SaveFileArguments
	if err := decodeArguments(raw, &args); err != nil {
		return invalidArguments("%s: %v", MethodSaveFile, err)
	}
	if args.File == nil || *args.File == "" {
		return invalidArguments("%s: file is required", MethodSaveFile)
	}

	return success(h.saver.SaveFile(ctx, domain.FilePayload{
		SourcePath: *args.File,
		Name:       deref(args.Name),
	}))
}

var errNotAnObject = errors.New("arguments must be an object")

func decodeArguments(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return errNotAnObject
		}
		return err
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

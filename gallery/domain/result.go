package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// IndexCreationMessage is reported when the media index declines a new entry.
const IndexCreationMessage = "Failed to create new MediaStore record"

// ErrIndexCreation is returned by backends when no entry could be registered.
var ErrIndexCreation = errors.New(IndexCreationMessage)

// DecodeError reports image bytes that could not be decoded.
type DecodeError struct {
	Detected string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Failed to decode image: unsupported content %s", e.Detected)
	}
	return fmt.Sprintf("Failed to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FailureKind classifies a failed save.
type FailureKind int

const (
	FailureIO FailureKind = iota
	FailureIndexCreation
	FailureDecode
)

func (k FailureKind) String() string {
	switch k {
	case FailureIndexCreation:
		return "index_creation"
	case FailureDecode:
		return "decode"
	default:
		return "io"
	}
}

// SaveResult is either Saved or SaveFailed.
type SaveResult interface {
	IsSuccess() bool
	// Map renders the result in the channel's wire shape
	Map() map[string]any
	json.Marshaler
	saveResult()
}

// Saved is the successful outcome of a save.
type Saved struct {
	FilePath string
}

func (Saved) saveResult()     {}
func (Saved) IsSuccess() bool { return true }
func (s Saved) Map() map[string]any {
	return map[string]any{"isSuccess": true, "filePath": s.FilePath}
}

func (s Saved) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// SaveFailed is the failed outcome of a save.
type SaveFailed struct {
	Kind    FailureKind
	Message string
}

func (SaveFailed) saveResult()     {}
func (SaveFailed) IsSuccess() bool { return false }
func (f SaveFailed) Map() map[string]any {
	return map[string]any{"isSuccess": false, "errorMessage": f.Message}
}

func (f SaveFailed) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Map())
}

// FailureFromError converts err into a SaveFailed of the matching kind.
func FailureFromError(err error) SaveFailed {
	var decodeErr *DecodeError
	switch {
	case errors.Is(err, ErrIndexCreation):
		return SaveFailed{Kind: FailureIndexCreation, Message: IndexCreationMessage}
	case errors.As(err, &decodeErr):
		return SaveFailed{Kind: FailureDecode, Message: decodeErr.Error()}
	default:
		return SaveFailed{Kind: FailureIO, Message: err.Error()}
	}
}

var (
	// ErrEntryNotFound is returned for URIs the media index does not know
	ErrEntryNotFound = errors.New("media entry not found")
	// ErrEntryPending is returned when reading an entry that is still being written
	ErrEntryPending = errors.New("media entry is pending")
)

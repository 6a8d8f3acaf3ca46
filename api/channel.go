package api

import (
	"encoding/json"
	"time"
)

// MethodCall is one invocation sent over a method channel
type MethodCall struct {
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// SaveImageArguments are the arguments of saveImageToGallery.
// ImageBytes travels as base64 in JSON.
type SaveImageArguments struct {
	ImageBytes []byte  `json:"imageBytes"`
	Quality    *int    `json:"quality,omitempty"`
	Name       *string `json:"name,omitempty"`
}

// SaveFileArguments are the arguments of saveFileToGallery
type SaveFileArguments struct {
	File *string `json:"file"`
	Name *string `json:"name,omitempty"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Method string `json:"method,omitempty"`
}

// MediaEntry is the public view of an index entry
type MediaEntry struct {
	URI          string     `json:"uri"`
	Collection   string     `json:"collection"`
	DisplayName  string     `json:"display_name"`
	MimeType     string     `json:"mime_type"`
	RelativePath string     `json:"relative_path"`
	Size         int64      `json:"size"`
	Pending      bool       `json:"pending"`
	DateAdded    time.Time  `json:"date_added"`
	DateModified *time.Time `json:"date_modified,omitempty"`
}

package domain

// ImagePayload is an in-memory encoded image to be stored as a JPEG picture.
type ImagePayload struct {
	Bytes   []byte
	Quality int
	// Name is the display name without extension. Empty means generate one.
	Name string
}

// FilePayload is an existing file to be copied into the downloads collection.
type FilePayload struct {
	SourcePath string
	Name       string
}

package domain

import "testing"

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"a.PNG", "image/png"},
		{"anim.gif", "image/gif"},
		{"/sdcard/DCIM/clip.mp4", "video/mp4"},
		{"clip.MoV", "video/quicktime"},
		{"a.unknown", "*/*"},
		{"README", "*/*"},
		{"archive.tar.gz", "*/*"},
		{".png", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MimeTypeFor(tt.name); got != tt.want {
				t.Errorf("MimeTypeFor(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	if got := ExtensionFor("image/jpeg"); got != ".jpg" {
		t.Errorf("ExtensionFor(image/jpeg) = %q, want .jpg", got)
	}
	if got := ExtensionFor(AnyMimeType); got != "" {
		t.Errorf("ExtensionFor(*/*) = %q, want empty", got)
	}
}

package channel

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/AriAlanPR/image-gallery-saver/api"
	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
)

type recordingSaver struct {
	images []domain.ImagePayload
	files  []domain.FilePayload
}

func (r *recordingSaver) SaveImage(_ context.Context, payload domain.ImagePayload) domain.SaveResult {
	r.images = append(r.images, payload)
	return domain.Saved{FilePath: "content://media/external/images/media/1"}
}

func (r *recordingSaver) SaveFile(_ context.Context, payload domain.FilePayload) domain.SaveResult {
	r.files = append(r.files, payload)
	return domain.SaveFailed{Kind: domain.FailureIndexCreation, Message: domain.IndexCreationMessage}
}

func call(method, arguments string) api.MethodCall {
	return api.MethodCall{Method: method, Arguments: json.RawMessage(arguments)}
}

func TestMethodHandler_SaveImage(t *testing.T) {
	tests := []struct {
		name        string
		arguments   string
		wantQuality int
		wantName    string
	}{
		{
			name:        "defaults",
			arguments:   `{"imageBytes":"AQID"}`,
			wantQuality: 100,
		},
		{
			name:        "explicit quality and name",
			arguments:   `{"imageBytes":"AQID","quality":60,"name":"sunset"}`,
			wantQuality: 60,
			wantName:    "sunset",
		},
		{
			name:        "null name",
			arguments:   `{"imageBytes":"AQID","name":null}`,
			wantQuality: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &recordingSaver{}
			reply := NewMethodHandler(saver).Handle(context.Background(), call(MethodSaveImage, tt.arguments))

			if reply.Kind != ReplySuccess {
				t.Fatalf("Kind = %v, want success (%s)", reply.Kind, reply.Message)
			}
			if !reply.Result.IsSuccess() {
				t.Errorf("Result = %#v, want success", reply.Result)
			}
			if len(saver.images) != 1 {
				t.Fatalf("SaveImage called %d times, want 1", len(saver.images))
			}

			got := saver.images[0]
			if string(got.Bytes) != "\x01\x02\x03" {
				t.Errorf("Bytes = %v, want [1 2 3]", got.Bytes)
			}
			if got.Quality != tt.wantQuality {
				t.Errorf("Quality = %d, want %d", got.Quality, tt.wantQuality)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestMethodHandler_SaveFile(t *testing.T) {
	saver := &recordingSaver{}
	reply := NewMethodHandler(saver).Handle(context.Background(),
		call(MethodSaveFile, `{"file":"/sdcard/clip.mov","name":"holiday.mov"}`))

	if reply.Kind != ReplySuccess {
		t.Fatalf("Kind = %v, want success (%s)", reply.Kind, reply.Message)
	}

	want := map[string]any{"isSuccess": false, "errorMessage": "Failed to create new MediaStore record"}
	got := reply.Result.Map()
	if got["isSuccess"] != want["isSuccess"] || got["errorMessage"] != want["errorMessage"] {
		t.Errorf("Result.Map() = %v, want %v", got, want)
	}

	if len(saver.files) != 1 || saver.files[0] != (domain.FilePayload{SourcePath: "/sdcard/clip.mov", Name: "holiday.mov"}) {
		t.Errorf("SaveFile payloads = %+v", saver.files)
	}
}

func TestMethodHandler_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		call api.MethodCall
	}{
		{"image without arguments", call(MethodSaveImage, "")},
		{"image without bytes", call(MethodSaveImage, `{"quality":10}`)},
		{"image bytes not base64", call(MethodSaveImage, `{"imageBytes":"***"}`)},
		{"image quality wrong type", call(MethodSaveImage, `{"imageBytes":"AQID","quality":"high"}`)},
		{"file without path", call(MethodSaveFile, `{"name":"x"}`)},
		{"file empty path", call(MethodSaveFile, `{"file":""}`)},
		{"arguments not an object", call(MethodSaveFile, `["a"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &recordingSaver{}
			reply := NewMethodHandler(saver).Handle(context.Background(), tt.call)

			if reply.Kind != ReplyError {
				t.Fatalf("Kind = %v, want error", reply.Kind)
			}
			if reply.Code != CodeInvalidArguments {
				t.Errorf("Code = %q, want %q", reply.Code, CodeInvalidArguments)
			}
			if !strings.HasPrefix(reply.Message, tt.call.Method) {
				t.Errorf("Message = %q, want it to name the method", reply.Message)
			}
			if len(saver.images)+len(saver.files) != 0 {
				t.Error("saver must not be called with invalid arguments")
			}
		})
	}
}

func TestMethodHandler_NotImplemented(t *testing.T) {
	for _, method := range []string{"", "getPlatformVersion", "saveimagetogallery"} {
		reply := NewMethodHandler(&recordingSaver{}).Handle(context.Background(), call(method, `{}`))
		if reply.Kind != ReplyNotImplemented {
			t.Errorf("Handle(%q) Kind = %v, want not implemented", method, reply.Kind)
		}
	}
}

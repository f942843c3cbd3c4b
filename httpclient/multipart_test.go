package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

func readParts(t *testing.T, body *MultipartBody) map[string]*partInfo {
	t.Helper()
	reader, contentType, err := body.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("content type %q: %v", contentType, err)
	}
	parts := map[string]*partInfo{}
	mr := multipart.NewReader(reader, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts[part.FormName()] = &partInfo{
			fileName:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        data,
		}
	}
	return parts
}

type partInfo struct {
	fileName    string
	contentType string
	data        []byte
}

func TestMultipartFieldsAndData(t *testing.T) {
	parts := readParts(t, &MultipartBody{
		Fields: map[string]string{"language": "yue", "model": "large-v3"},
		Files: []FileField{
			{FieldName: "audio", FileName: "chunk_0.wav", ContentType: "audio/wav", Data: []byte("RIFF")},
		},
	})
	if string(parts["language"].data) != "yue" || string(parts["model"].data) != "large-v3" {
		t.Errorf("unexpected fields %q %q", parts["language"].data, parts["model"].data)
	}
	audio := parts["audio"]
	if audio == nil {
		t.Fatal("audio part missing")
	}
	if audio.fileName != "chunk_0.wav" || audio.contentType != "audio/wav" || string(audio.data) != "RIFF" {
		t.Errorf("unexpected audio part %+v", audio)
	}
}

func TestMultipartReaderDefaultsContentType(t *testing.T) {
	parts := readParts(t, &MultipartBody{
		Files: []FileField{{FieldName: "file", FileName: "frame.webm", Reader: bytes.NewReader([]byte("webm"))}},
	})
	if parts["file"].contentType != "application/octet-stream" {
		t.Errorf("content type = %q", parts["file"].contentType)
	}
}

func TestMultipartPathStreamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("wav bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	parts := readParts(t, &MultipartBody{Files: []FileField{{FieldName: "files", Path: path}}})
	if parts["files"].fileName != "audio.wav" {
		t.Errorf("file name = %q", parts["files"].fileName)
	}
	if string(parts["files"].data) != "wav bytes" {
		t.Errorf("data = %q", parts["files"].data)
	}
}

func TestMultipartErrors(t *testing.T) {
	if _, _, err := (&MultipartBody{Files: []FileField{{FieldName: "file"}}}).encode(); err == nil {
		t.Error("expected error for file without content")
	}
	missing := &MultipartBody{Files: []FileField{{FieldName: "file", Path: "/nonexistent/audio.wav"}}}
	if _, _, err := missing.encode(); err == nil {
		t.Error("expected error for missing path")
	}
}

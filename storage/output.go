package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/subtitler/util"
)

// Output file extensions and the content types they are served with.
const (
	ExtSRT     = ".srt"
	ExtMinutes = ".txt"
)

var contentTypes = map[string]string{
	ExtSRT:     "application/x-subrip",
	ExtMinutes: "text/plain; charset=utf-8",
}

// Output writes rendered subtitle and minutes files under random names and
// serves them back by name. Files live flat at the storage root.
type Output struct {
	storage Storage
}

// NewOutput wraps s.
func NewOutput(s Storage) *Output {
	return &Output{storage: s}
}

// Save stores content as <uuid><ext> and returns the file name.
func (o *Output) Save(ctx context.Context, ext, content string) (string, error) {
	if _, ok := contentTypes[ext]; !ok {
		return "", fmt.Errorf("storage: unsupported output extension %q", ext)
	}
	name := uuid.NewString() + ext
	if err := o.storage.Upload(ctx, name, strings.NewReader(content)); err != nil {
		return "", err
	}
	return name, nil
}

// Load reads a previously saved file. Names with path separators or ".."
// return ErrInvalidPath; unknown names return ErrNotFound.
func (o *Output) Load(ctx context.Context, name string) ([]byte, string, error) {
	if !util.IsPlainFilename(name) {
		return nil, "", ErrInvalidPath
	}
	rc, err := o.storage.Download(ctx, name)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, "", fmt.Errorf("storage: read %s: %w", name, err)
	}
	return buf.Bytes(), ContentType(name), nil
}

// ContentType returns the served content type for an output file name.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "text/plain; charset=utf-8"
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

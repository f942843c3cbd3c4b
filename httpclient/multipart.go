package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MultipartBody is a multipart/form-data request body. Set it as
// Request.Body; the boundary content type is filled in automatically.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one file part. Exactly one of Data, Reader or Path
// supplies the content; Path is opened at encode time.
type FileField struct {
	FieldName string
	// FileName defaults to the base name of Path.
	FileName    string
	ContentType string
	Data        []byte
	Reader      io.Reader
	Path        string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode renders the body. Fields are written in key order.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		if err := writeFile(w, f); err != nil {
			return nil, "", fmt.Errorf("multipart field %s: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, f FileField) error {
	src := f.Reader
	if f.Data != nil {
		src = bytes.NewReader(f.Data)
	}
	if src == nil && f.Path != "" {
		file, err := os.Open(f.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		src = file
	}
	if src == nil {
		return fmt.Errorf("no content")
	}

	name := f.FileName
	if name == "" && f.Path != "" {
		name = filepath.Base(f.Path)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}

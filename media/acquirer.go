package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/observability"
)

// SourceKind says where audio comes from.
type SourceKind string

const (
	SourceURL    SourceKind = "url"
	SourceUpload SourceKind = "upload"
	SourceFrame  SourceKind = "frame"
)

// Source describes one audio input. URL sources set URL; uploads and
// frames set Data or Body plus the original file extension.
type Source struct {
	Kind SourceKind
	URL  string
	Data []byte
	// Body streams upload content; it takes precedence over Data.
	Body io.Reader
	Ext  string
}

// URLPattern is the allow-list for remote sources.
var URLPattern = regexp.MustCompile(`^https?://(www\.)?(youtube\.com/watch\?|youtu\.be/|youtube\.com/shorts/)`)

// UploadExtensions lists the accepted upload file extensions.
var UploadExtensions = []string{".mp3", ".wav", ".m4a", ".mp4", ".webm", ".ogg", ".flac", ".aac", ".mkv", ".mov"}

// Acquirer resolves a Source to a local wav file.
type Acquirer struct {
	tool     Tool
	cfg      Config
	maxBytes int64
	log      *logger.Logger
}

// NewAcquirer creates an Acquirer over tool.
func NewAcquirer(tool Tool, cfg Config) *Acquirer {
	cfg.ApplyDefaults()
	return &Acquirer{
		tool:     tool,
		cfg:      cfg,
		maxBytes: cfg.MaxUploadBytes(),
		log:      logger.WithComponent("media"),
	}
}

// ValidateURL checks url against URLPattern.
func ValidateURL(url string) error {
	if !URLPattern.MatchString(strings.TrimSpace(url)) {
		return errors.InvalidInput("youtube_url", "not a supported YouTube URL")
	}
	return nil
}

// ValidateExtension checks an upload file extension.
func ValidateExtension(ext string) error {
	if !slices.Contains(UploadExtensions, strings.ToLower(ext)) {
		return errors.InvalidInput("file", fmt.Sprintf("unsupported file type %q, expected one of %s",
			ext, strings.Join(UploadExtensions, " ")))
	}
	return nil
}

// Validate checks what can be checked without touching the network or
// the disk: the URL allow-list and the upload extension.
func (s Source) Validate() error {
	switch s.Kind {
	case SourceURL:
		return ValidateURL(s.URL)
	case SourceUpload:
		return ValidateExtension(s.Ext)
	case SourceFrame:
		return nil
	default:
		return errors.InvalidInput("source", fmt.Sprintf("unknown source kind %q", s.Kind))
	}
}

// Acquire produces exactly one audio file for src. The caller owns it.
func (a *Acquirer) Acquire(ctx context.Context, src Source) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineAcquire)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrOperation, string(src.Kind))

	path, err := a.acquire(ctx, src)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return "", err
	}
	a.log.WithContext(ctx).Debug("audio acquired", logger.Fields("kind", string(src.Kind), logger.FieldPath, path))
	return path, nil
}

func (a *Acquirer) acquire(ctx context.Context, src Source) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	switch src.Kind {
	case SourceURL:
		return a.tool.Download(ctx, strings.TrimSpace(src.URL), uuid.NewString())
	case SourceUpload:
		return a.fromBytes(ctx, src, src.Ext)
	default:
		ext := src.Ext
		if ext == "" {
			ext = ".webm"
		}
		return a.fromBytes(ctx, src, ext)
	}
}

// fromBytes writes the content to a scratch file, transcodes it, and
// removes the scratch input whatever the outcome.
func (a *Acquirer) fromBytes(ctx context.Context, src Source, ext string) (string, error) {
	if err := os.MkdirAll(a.cfg.WorkDir, 0o755); err != nil {
		return "", errors.Internal(err)
	}
	in := filepath.Join(a.cfg.WorkDir, "input_"+uuid.NewString()+strings.ToLower(ext))
	defer func() { _ = os.Remove(in) }()

	if err := a.writeCapped(in, src); err != nil {
		return "", err
	}
	return a.tool.Transcode(ctx, in, a.cfg.SampleRate, a.cfg.Channels)
}

func (a *Acquirer) writeCapped(path string, src Source) error {
	body := src.Body
	if body == nil {
		body = bytes.NewReader(src.Data)
	}
	if src.Body == nil && len(src.Data) == 0 {
		return errors.InvalidInput("file", "empty upload")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Internal(err)
	}
	n, err := io.Copy(f, io.LimitReader(body, a.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	switch {
	case err != nil:
		return errors.Internal(fmt.Errorf("write upload: %w", err))
	case n > a.maxBytes:
		return errors.InvalidInput("file", "file exceeds the "+a.cfg.MaxUploadSize+" upload limit")
	case n == 0:
		return errors.InvalidInput("file", "empty upload")
	}
	return nil
}

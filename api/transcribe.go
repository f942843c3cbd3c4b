package api

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/server"
	"github.com/kbukum/subtitler/transcriber"
	"github.com/kbukum/subtitler/validation"
)

// TranscribeRequest is the body of POST /api/transcribe.
type TranscribeRequest struct {
	YoutubeURL string `json:"youtube_url" validate:"required"`
	Language   string `json:"language" validate:"omitempty,language"`
}

// TranscribeResponse carries the rendered subtitles.
type TranscribeResponse struct {
	SRTContent string `json:"srt_content"`
	Preview    string `json:"preview"`
	Filename   string `json:"filename"`
}

// MinutesRequest is the JSON form of POST /api/minutes.
type MinutesRequest struct {
	YoutubeURL string `json:"youtube_url" validate:"required"`
	Language   string `json:"language" validate:"omitempty,language"`
	Timestamps bool   `json:"timestamps"`
}

// MinutesResponse carries the rendered minutes.
type MinutesResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// Transcribe handles POST /api/transcribe.
func (h *Handler) Transcribe(c *gin.Context) {
	var req TranscribeRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.runSRT(c, transcriber.Request{
		Source:   media.Source{Kind: media.SourceURL, URL: req.YoutubeURL},
		Language: req.Language,
	})
}

// TranscribeUpload handles POST /api/transcribe/upload.
func (h *Handler) TranscribeUpload(c *gin.Context) {
	src, cleanup, err := h.uploadSource(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer cleanup()

	lang, err := formLanguage(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.runSRT(c, transcriber.Request{Source: src, Language: lang})
}

func (h *Handler) runSRT(c *gin.Context, req transcriber.Request) {
	req.Format = transcriber.FormatSRT
	res, err := h.deps.Pipeline.Run(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, TranscribeResponse{
		SRTContent: res.Content,
		Preview:    h.deps.Pipeline.Preview(res.Content),
		Filename:   res.Filename,
	})
}

// Minutes handles POST /api/minutes with either a multipart upload or a
// JSON body naming a URL.
func (h *Handler) Minutes(c *gin.Context) {
	req := transcriber.Request{Format: transcriber.FormatMinutes}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		src, cleanup, err := h.uploadSource(c)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		defer cleanup()
		if req.Language, err = formLanguage(c); err != nil {
			server.RespondWithError(c, err)
			return
		}
		if req.Timestamps, err = formBool(c, "timestamps"); err != nil {
			server.RespondWithError(c, err)
			return
		}
		req.Source = src
	} else {
		var body MinutesRequest
		if err := bindJSON(c, &body); err != nil {
			server.RespondWithError(c, err)
			return
		}
		req.Source = media.Source{Kind: media.SourceURL, URL: body.YoutubeURL}
		req.Language = body.Language
		req.Timestamps = body.Timestamps
	}

	res, err := h.deps.Pipeline.Run(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, MinutesResponse{Text: res.Content, Filename: res.Filename})
}

// uploadSource opens the "file" form field. The returned cleanup closes
// it.
func (h *Handler) uploadSource(c *gin.Context) (media.Source, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		return media.Source{}, nil, errors.InvalidInput("file", "a file upload is required")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if err := media.ValidateExtension(ext); err != nil {
		return media.Source{}, nil, err
	}
	if err := validation.New().MaxBytes("file", header.Size, h.maxUpload).Err(); err != nil {
		return media.Source{}, nil, err
	}
	f, err := header.Open()
	if err != nil {
		return media.Source{}, nil, errors.Internal(fmt.Errorf("open upload: %w", err))
	}
	return media.Source{Kind: media.SourceUpload, Body: f, Ext: ext}, func() { _ = f.Close() }, nil
}

func formLanguage(c *gin.Context) (string, error) {
	lang := strings.TrimSpace(c.PostForm("language"))
	if lang != "" && !validation.ValidLanguage(lang) {
		return "", errors.InvalidInput("language", "must be a language code such as yue, zh or en")
	}
	return lang, nil
}

func formBool(c *gin.Context, field string) (bool, error) {
	v := strings.TrimSpace(c.PostForm(field))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.InvalidInput(field, "must be true or false")
	}
	return b, nil
}

// bindJSON decodes the body into v and validates its tags.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errors.InvalidInput("body", "request body must be valid JSON")
	}
	return validation.Validate(v)
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kbukum/subtitler/live"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/summarize"
	"github.com/kbukum/subtitler/transcriber"
	"github.com/kbukum/subtitler/util"
)

// Pipeline runs transcriptions; *transcriber.Transcriber implements it.
type Pipeline interface {
	Run(ctx context.Context, req transcriber.Request) (*transcriber.Result, error)
	Preview(content string) string
}

// Summarizer rewrites text; *summarize.Service implements it.
type Summarizer interface {
	Summarize(ctx context.Context, text string, mode summarize.Mode) (string, error)
}

// LiveServer runs live sessions; *live.Service implements it.
type LiveServer interface {
	Serve(ctx context.Context, conn live.Conn) live.State
}

// Files serves saved outputs; *storage.Output implements it.
type Files interface {
	Load(ctx context.Context, name string) ([]byte, string, error)
}

// Deps are the services behind the handlers.
type Deps struct {
	Pipeline   Pipeline
	Summarizer Summarizer
	Live       LiveServer
	Files      Files
	// CheckOrigin decides websocket origins. Nil accepts all.
	CheckOrigin func(*http.Request) bool
	// MaxUploadSize rejects larger multipart files before reading them.
	MaxUploadSize string
	// MaxLiveMessageBytes caps one inbound live message.
	MaxLiveMessageBytes int64
}

// Handler holds the route handlers.
type Handler struct {
	deps      Deps
	maxUpload int64
	upgrader  websocket.Upgrader
	log       *logger.Logger
}

// New creates a Handler.
func New(deps Deps) *Handler {
	check := deps.CheckOrigin
	if check == nil {
		check = func(*http.Request) bool { return true }
	}
	return &Handler{
		deps:      deps,
		maxUpload: util.ParseSize(deps.MaxUploadSize, 200<<20),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      check,
		},
		log: logger.WithComponent("api"),
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api")
	g.POST("/transcribe", h.Transcribe)
	g.POST("/transcribe/upload", h.TranscribeUpload)
	g.POST("/minutes", h.Minutes)
	g.POST("/summarize", h.Summarize)
	g.GET("/download/:filename", h.Download)
	g.GET("/live-stt", h.LiveSTT)
}

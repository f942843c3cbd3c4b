package api

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/server"
	"github.com/kbukum/subtitler/storage"
	"github.com/kbukum/subtitler/summarize"
)

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	Text string `json:"text" validate:"required"`
	Mode string `json:"mode" validate:"required"`
}

// SummarizeResponse carries the rewritten text.
type SummarizeResponse struct {
	Result string `json:"result"`
}

// Summarize handles POST /api/summarize.
func (h *Handler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	mode, err := summarize.ParseMode(req.Mode)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out, err := h.deps.Summarizer.Summarize(c.Request.Context(), req.Text, mode)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, SummarizeResponse{Result: out})
}

// Download handles GET /api/download/:filename.
func (h *Handler) Download(c *gin.Context) {
	name := c.Param("filename")
	data, contentType, err := h.deps.Files.Load(c.Request.Context(), name)
	switch {
	case stderrors.Is(err, storage.ErrInvalidPath):
		server.RespondWithError(c, errors.InvalidInput("filename", "invalid filename"))
		return
	case storage.IsNotFound(err):
		server.RespondWithError(c, errors.NotFound("file", name))
		return
	case err != nil:
		server.RespondWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}

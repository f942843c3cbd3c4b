package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/subtitler/logger"
)

// LiveSTT upgrades GET /api/live-stt to a websocket and runs one live
// session on it until the client goes away.
func (h *Handler) LiveSTT(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered with an HTTP error
		h.log.WithContext(c.Request.Context()).Debug("websocket upgrade failed", logger.ErrorFields("upgrade", err))
		return
	}
	if h.deps.MaxLiveMessageBytes > 0 {
		conn.SetReadLimit(h.deps.MaxLiveMessageBytes)
	}
	state := h.deps.Live.Serve(c.Request.Context(), conn)
	h.log.WithContext(c.Request.Context()).Debug("websocket closed", logger.Fields(
		logger.FieldSessionID, state.ConnectionID, logger.FieldLanguage, state.Language))
}

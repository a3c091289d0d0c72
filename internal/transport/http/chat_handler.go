package http

import (
	"net/http"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

// ChatHandler serves the etiquette chat assistant.
type ChatHandler struct {
	chat *app.ChatService
	log  *logger.Logger
}

func NewChatHandler(chat *app.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// chatRequest carries the country the client is currently viewing; a country
// named in the message takes precedence.
type chatRequest struct {
	Message string `json:"message" binding:"required"`
	Country string `json:"country"`
}

// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reply, err := h.chat.Reply(c.Request.Context(), req.Message, req.Country)
	if err != nil {
		h.log.Error("chat reply failed", "country", req.Country, "error", err)
		respondError(c, http.StatusInternalServerError, "catalog_unavailable", err)
		return
	}
	respondOK(c, reply)
}

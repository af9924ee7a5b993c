package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stayhaven/models"
	ai "stayhaven/services/assistant"
	"stayhaven/utils"
)

// AssistantHandler exposes the conversational booking assistant.
type AssistantHandler struct {
	svc ai.AssistantService
}

func NewAssistantHandler(svc ai.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Chat streams the assistant's response as server-sent events: text deltas,
// tool state transitions, and a terminal done or error event. If the client
// disconnects mid-stream, in-flight tool writes still complete; only the
// streaming stops.
func (h *AssistantHandler) Chat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if len(req.Messages) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "at least one message is required")
		return
	}

	caller := ai.CallerContext{}
	if uid, exists := c.Get("userID"); exists {
		if s, ok := uid.(string); ok {
			caller.UserID = s
		}
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	emit := func(event models.ChatEvent) {
		c.SSEvent("message", event)
		c.Writer.Flush()
	}

	if err := h.svc.Chat(c.Request.Context(), req, caller, emit); err != nil {
		logger.Error("assistant chat failed",
			zap.String("userID", caller.UserID),
			zap.Error(err))
		emit(models.ChatEvent{
			Type: models.ChatEventError,
			Text: "The assistant is unavailable right now. Please try again in a moment.",
		})
	}
}

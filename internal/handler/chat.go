package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"homematch/internal/model"
	"homematch/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles conversation HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !h.chatService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	resp, err := h.chatService.HandleTurn(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		status, msg := chatErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !h.chatService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Transfer-Encoding", "chunked")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"user_id": req.UserID})
	flusher.Flush()

	resp, err := h.chatService.HandleTurnStream(c.Request.Context(), req.UserID, req.Message, func(event service.ChatEvent) error {
		sendSSE(c, event.Type, event)
		flusher.Flush()
		return nil
	})
	if err != nil {
		_, msg := chatErrorStatus(err)
		sendSSE(c, "error", map[string]any{"error": msg})
		flusher.Flush()
		return
	}

	sendSSE(c, "result", resp)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// Reset handles POST /api/v1/chat/reset
func (h *ChatHandler) Reset(c *gin.Context) {
	var req model.ChatResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.chatService.Reset(c.Request.Context(), req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// History handles GET /api/v1/chat/history?user_id=N&limit=M
func (h *ChatHandler) History(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
	}

	messages, err := h.chatService.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// chatErrorStatus maps mediator errors to HTTP statuses
func chatErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTurnInFlight):
		return http.StatusConflict, "Please wait for the previous message to finish"
	case errors.Is(err, service.ErrTurnLimit):
		return http.StatusTooManyRequests, "Conversation limit reached; reset the chat to continue"
	case errors.Is(err, service.ErrAssistantOverloaded):
		return http.StatusServiceUnavailable, "Assistant is overloaded, please try again shortly"
	default:
		return http.StatusInternalServerError, "Chat failed: " + err.Error()
	}
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}

package model

import "time"

// ChatSender identifies who produced a transcript message
type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "assistant"
)

// ChatMessage is one persisted transcript entry, keyed by user
type ChatMessage struct {
	MessageID int64      `json:"message_id" db:"message_id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Sender    ChatSender `json:"sender" db:"sender"`
	Text      string     `json:"text" db:"text"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ChatRequest represents an incoming chat turn
type ChatRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the user-visible outcome of one turn
type ChatResponse struct {
	Reply    string           `json:"reply"`
	Property *PropertyPayload `json:"property,omitempty"`
	HasMore  *bool            `json:"has_more,omitempty"`
}

// ChatResetRequest asks for a fresh conversation
type ChatResetRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

// ToolInvocation is a tool call proposed by the assistant
type ToolInvocation struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult is the structured outcome returned to the assistant after a
// tool invocation. CurrentPropertyID is the explicit identifier of the
// surfaced property so the assistant never has to reason by position.
type ToolResult struct {
	Success           bool             `json:"success"`
	Count             *int             `json:"count,omitempty"`
	HasMore           *bool            `json:"hasMore,omitempty"`
	Property          *PropertyPayload `json:"property,omitempty"`
	CurrentPropertyID *int64           `json:"current_property_id,omitempty"`
	Message           string           `json:"message,omitempty"`
}

// RecommendRequest asks the ranker directly, outside the chat flow
type RecommendRequest struct {
	UserID   int64             `json:"user_id" binding:"required"`
	Priority RecommendPriority `json:"priority" binding:"required"`
}

// RecommendResponse carries a ranked recommendation list
type RecommendResponse struct {
	Results []ScoredProperty `json:"results"`
	Count   int              `json:"count"`
	Took    int64            `json:"took_ms"`
}

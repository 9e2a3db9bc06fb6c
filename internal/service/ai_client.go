package service

import (
	"context"
	"errors"
)

// ErrAssistantOverloaded signals a transient upstream failure (rate limit
// or overload). The mediator retries these with backoff; everything else
// fails the turn immediately.
var ErrAssistantOverloaded = errors.New("assistant temporarily overloaded")

// AIClient is the interface for the external assistant provider
type AIClient interface {
	// ChatCompletion performs one request/response exchange
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)

	// ChatCompletionStream performs one exchange with chunked delivery.
	// The callback receives each parsed chunk in order.
	ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content delta
	Content string

	// Thinking/reasoning content (provider-specific, e.g., DeepSeek)
	ThinkingContent string

	// Role (assistant, user, system, tool)
	Role string

	// Tool call fragments carried by this chunk; arguments arrive spread
	// across chunks and are reassembled with AccumulateToolCalls
	ToolCallDeltas []ToolCallDelta

	// Whether this is the final chunk
	Done bool
}

// ToolCallDelta is one streamed fragment of a tool call
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// AccumulateToolCalls folds streamed tool call fragments into complete
// tool calls, keyed by index
func AccumulateToolCalls(chunks []ToolCallDelta) []ToolCall {
	byIndex := make(map[int]*ToolCall)
	maxIndex := -1

	for _, d := range chunks {
		tc, ok := byIndex[d.Index]
		if !ok {
			tc = &ToolCall{Type: "function"}
			byIndex[d.Index] = tc
			if d.Index > maxIndex {
				maxIndex = d.Index
			}
		}
		if d.ID != "" {
			tc.ID = d.ID
		}
		if d.Name != "" {
			tc.Function.Name = d.Name
		}
		tc.Function.Arguments += d.Arguments
	}

	calls := make([]ToolCall, 0, len(byIndex))
	for i := 0; i <= maxIndex; i++ {
		if tc, ok := byIndex[i]; ok {
			calls = append(calls, *tc)
		}
	}
	return calls
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)

package service

import (
	"encoding/json"
	"strings"
)

// streamDelta is the shared delta shape in streamed chunks
type streamDelta struct {
	Role      string `json:"role,omitempty"`
	Content   string `json:"content,omitempty"`
	ToolCalls []struct {
		Index    int    `json:"index"`
		ID       string `json:"id,omitempty"`
		Function struct {
			Name      string `json:"name,omitempty"`
			Arguments string `json:"arguments,omitempty"`
		} `json:"function"`
	} `json:"tool_calls,omitempty"`
}

func (d *streamDelta) toolCallDeltas() []ToolCallDelta {
	if len(d.ToolCalls) == 0 {
		return nil
	}
	deltas := make([]ToolCallDelta, 0, len(d.ToolCalls))
	for _, tc := range d.ToolCalls {
		deltas = append(deltas, ToolCallDelta{
			Index:     tc.Index,
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return deltas
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk converts a standard OpenAI chunk to a generic StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var rawChunk struct {
		Choices []struct {
			Delta        streamDelta `json:"delta"`
			FinishReason string      `json:"finish_reason,omitempty"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(data, &rawChunk); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}

	if len(rawChunk.Choices) > 0 {
		delta := rawChunk.Choices[0].Delta
		chunk.Role = delta.Role
		chunk.Content = delta.Content
		chunk.ToolCallDeltas = delta.toolCallDeltas()
		chunk.Done = rawChunk.Choices[0].FinishReason != ""
	}

	return chunk, nil
}

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

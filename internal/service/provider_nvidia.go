package service

import (
	"encoding/json"
)

// NVIDIAStreamChunkParser parses NVIDIA-specific streaming chunks
type NVIDIAStreamChunkParser struct{}

// ParseChunk converts an NVIDIA/DeepSeek-specific chunk to a generic StreamChunk
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	// NVIDIA/DeepSeek adds reasoning_content to the delta
	var rawChunk struct {
		Choices []struct {
			Delta struct {
				streamDelta
				ReasoningContent *string `json:"reasoning_content,omitempty"`
			} `json:"delta"`
			FinishReason string `json:"finish_reason,omitempty"`
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

		if delta.ReasoningContent != nil {
			chunk.ThinkingContent = *delta.ReasoningContent
		}

		chunk.Done = rawChunk.Choices[0].FinishReason != ""
	}

	return chunk, nil
}

// IsNVIDIAProvider checks if the base URL is NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return baseURL == "https://integrate.api.nvidia.com/v1"
}

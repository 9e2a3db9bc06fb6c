package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseAIJSON parses JSON produced by a language model. Tool arguments and
// structured replies usually arrive as clean JSON, but models occasionally
// wrap them in markdown fences, surround them with prose, or emit trailing
// commas and unquoted keys. Each fallback is tried in turn.
func ParseAIJSON(input string, target interface{}) error {
	if input == "" {
		return fmt.Errorf("empty input")
	}

	// Clean JSON is the common case
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if cleaned := cleanAndFixJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

// extractFromMarkdown extracts JSON from markdown code blocks
func extractFromMarkdown(input string) string {
	re1 := regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	if matches := re1.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	re2 := regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	if matches := re2.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractJSONFromText finds a JSON object or array inside surrounding prose
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}

	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}

	return ""
}

// extractBalancedBraces extracts content with balanced braces, string-aware
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanAndFixJSON repairs the JSON defects models most often produce
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\uFEFF")

	// Trailing commas before closing braces/brackets
	s = regexp.MustCompile(`,\s*([}\]])`).ReplaceAllString(s, "$1")

	// Unquoted keys: {word: "value"} -> {"word": "value"}
	s = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`).ReplaceAllString(s, `$1"$2"$3`)

	// Control characters
	s = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`).ReplaceAllString(s, "")

	return s
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

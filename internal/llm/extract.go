package llm

import "strings"

// ExtractJSON pulls the JSON payload out of a completion. Models frequently
// wrap structured answers in markdown code fences; the fence variants and the
// bare-object case are all accepted.
func ExtractJSON(content string) (string, error) {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), nil
		}
		return "", ErrNoJSONPayload
	}

	if idx := strings.Index(content, "```"); idx >= 0 {
		rest := content[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), nil
		}
		return "", ErrNoJSONPayload
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed, nil
	}

	return "", ErrNoJSONPayload
}

package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// trailingCommaPattern matches a comma directly before a closing bracket or
// brace, the most common defect in model-emitted JSON.
var trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)

// CleanResponse strips markdown code fences and stray backticks around a model
// response, returning the inner text.
func CleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}
	cleaned = strings.Trim(cleaned, "`")
	return strings.TrimSpace(cleaned)
}

// ExtractArray locates the outermost JSON array in a model response, tolerating
// fences, commentary before or after the array, and trailing commas. The
// repair scope is deliberately narrow: boundary trimming and trailing-comma
// removal only. Anything worse must fall through to the caller's fallback.
func ExtractArray(raw string) (string, error) {
	cleaned := CleanResponse(raw)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON array in response")
	}

	return StripTrailingCommas(cleaned[start : end+1]), nil
}

// ExtractObject trims a model response down to the outermost JSON object.
func ExtractObject(raw string) (string, error) {
	cleaned := CleanResponse(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}

	return StripTrailingCommas(cleaned[start : end+1]), nil
}

// StripTrailingCommas removes commas that directly precede a closing bracket.
func StripTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

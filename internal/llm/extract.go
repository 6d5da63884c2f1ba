package llm

import (
	"encoding/json"
	"strings"
)

// Keys that mark a JSON object as the honeypot response envelope.
var knownKeys = []string{"platform_reply", "internal_logic"}

// CleanResponse strips markdown code fences from raw model output and tries
// to isolate the JSON object inside it. When a JSON object containing a
// known envelope key is found it is returned; otherwise the first valid
// object wins; otherwise the defenced text is returned as-is and the caller
// deals with it.
func CleanResponse(raw string) string {
	text := stripFences(strings.TrimSpace(raw))

	objects := jsonObjects(text)
	var firstValid string
	for _, obj := range objects {
		if !json.Valid([]byte(obj)) {
			continue
		}
		if firstValid == "" {
			firstValid = obj
		}
		for _, key := range knownKeys {
			if strings.Contains(obj, `"`+key+`"`) {
				return obj
			}
		}
	}
	if firstValid != "" {
		return firstValid
	}
	return text
}

// stripFences removes a ```...``` wrapper, with or without a language tag.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", ...).
		text = text[idx+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// jsonObjects returns every top-level brace-balanced substring of s, in
// order of appearance. Quoted strings and escapes are honored so braces
// inside string values do not confuse the scan.
func jsonObjects(s string) []string {
	var objects []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					objects = append(objects, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return objects
}

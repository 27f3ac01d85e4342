package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Repairs for the usual model output mistakes. They are heuristics: nested
// quoting inside single-quoted strings is not handled.
var (
	// "value"\n"key": -> "value", "key":
	missingCommaBeforeKeyRegex = regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`)

	// 85\n"key": -> 85, "key":
	missingCommaAfterValueRegex = regexp.MustCompile(`(\d|true|false|null)\s*\n\s*("[\w][^"]*"\s*:)`)

	// ] "key" -> ], "key"
	missingCommaAfterBraceRegex = regexp.MustCompile(`([}\]])\s*\n?\s*("[\w])`)

	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// {'intent': -> {"intent":
	singleQuoteKeyRegex = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)

	// : 'medium' -> : "medium"
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)

	// "complexity": medium -> "complexity": "medium"
	unquotedValueRegex = regexp.MustCompile(`(:\s*)([a-zA-Z][a-zA-Z0-9_-]*)(\s*[,}\]])`)
)

// ExtractAndParseJSON finds the first JSON value in an LLM response and
// decodes it into T. Markdown fences, leading prose and trailing text are
// ignored. Common syntax errors are repaired before giving up.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := cleanLLMResponse(response)
	if cleaned == "" {
		return result, fmt.Errorf("no JSON found in response")
	}

	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		// A JSON document that was itself returned as a quoted string.
		var asString string
		if err := json.Unmarshal([]byte(cleaned), &asString); err == nil && asString != cleaned {
			return ExtractAndParseJSON[T](asString)
		}
		return result, fmt.Errorf("no JSON start ({ or [) found")
	}

	jsonPart := cleaned[idx:]
	err := decodeFirst(jsonPart, &result)
	if err == nil {
		return result, nil
	}

	if repaired := repairJSON(jsonPart); repaired != jsonPart {
		var again T
		if decodeFirst(repaired, &again) == nil {
			return again, nil
		}
	}

	// Double-escaped payloads: {\"intent\": \"x\"}
	if strings.Contains(jsonPart, `\"`) {
		unescaped := strings.ReplaceAll(jsonPart, `\"`, `"`)
		unescaped = strings.ReplaceAll(unescaped, `\n`, "\n")
		var again T
		if decodeFirst(repairJSON(unescaped), &again) == nil {
			return again, nil
		}
	}
	return result, fmt.Errorf("parse JSON: %w", err)
}

// decodeFirst decodes one JSON value and ignores whatever follows it.
func decodeFirst(s string, v any) error {
	return json.NewDecoder(strings.NewReader(s)).Decode(v)
}

func repairJSON(input string) string {
	result := sanitizeStrings(input)
	result = missingCommaBeforeKeyRegex.ReplaceAllString(result, `$1, $2`)
	result = missingCommaAfterValueRegex.ReplaceAllString(result, `$1, $2`)
	result = missingCommaAfterBraceRegex.ReplaceAllString(result, `$1, $2`)
	result = trailingCommaRegex.ReplaceAllString(result, `$1`)
	result = singleQuoteKeyRegex.ReplaceAllString(result, `$1"$2"$3`)

	result = singleQuoteValueRegex.ReplaceAllStringFunc(result, func(match string) string {
		parts := singleQuoteValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		value := strings.ReplaceAll(parts[2], `\'`, `'`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return parts[1] + `"` + value + `"` + parts[3]
	})

	result = unquotedValueRegex.ReplaceAllStringFunc(result, func(match string) string {
		parts := unquotedValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		switch parts[2] {
		case "true", "false", "null":
			return match
		}
		return parts[1] + `"` + parts[2] + `"` + parts[3]
	})

	return closeTruncated(result)
}

// sanitizeStrings escapes raw control characters and invalid backslash
// escapes (\s, \d, C:\code) inside JSON strings.
func sanitizeStrings(input string) string {
	var b strings.Builder
	b.Grow(len(input) + 16)

	inString := false
	for i := 0; i < len(input); i++ {
		c := input[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '\\':
			if i+1 < len(input) && strings.IndexByte(`"\/bfnrtu`, input[i+1]) >= 0 {
				b.WriteByte(c)
				b.WriteByte(input[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closeTruncated closes a dangling string and any unbalanced brackets left
// when the model ran out of tokens.
func closeTruncated(input string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			stack = append(stack, c)
		case (c == '}' || c == ']') && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}
	}

	if inString {
		input += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			input += "}"
		} else {
			input += "]"
		}
	}
	return input
}

func cleanLLMResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

package util

import (
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// ExtractJsonFromText pulls the first JSON object or array out of free text.
// LLM responses often wrap the payload in markdown fences or surround it with
// prose, so try the fenced block first, then a balanced brace scan.
func ExtractJsonFromText(text string) string {
	if matches := codeBlockRe.FindStringSubmatch(text); len(matches) > 1 {
		text = strings.TrimSpace(matches[1])
	}

	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			open = text[i]
			close = '}'
			if open == '[' {
				close = ']'
			}
			break
		}
	}
	if start == -1 {
		return text
	}

	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	// Unbalanced; fall back to everything from the first opener.
	return text[start:]
}

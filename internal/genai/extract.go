package genai

// Model responses are free text that usually, but not always, embeds a JSON
// fragment. These helpers locate the first balanced bracket or brace span,
// skipping over string literals so quoted brackets do not break the count.
// Callers decode the span strictly and fall back to a default on failure.

// FirstJSONArray returns the first balanced [...] span in s.
func FirstJSONArray(s string) (string, bool) {
	return firstSpan(s, '[', ']')
}

// FirstJSONObject returns the first balanced {...} span in s.
func FirstJSONObject(s string) (string, bool) {
	return firstSpan(s, '{', '}')
}

func firstSpan(s string, opener, closer byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case opener:
			if start < 0 {
				start = i
			}
			depth++
		case closer:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

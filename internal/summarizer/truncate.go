package summarizer

// DefaultTruncationLimit is the maximum number of characters of page
// content sent to a provider.
const DefaultTruncationLimit = 15000

// TruncationMarker is appended to content that was cut.
const TruncationMarker = "..."

// Truncate returns content unchanged when it has at most limit characters,
// otherwise its first limit characters followed by "...". Characters are
// runes, never bytes. A non-positive limit means DefaultTruncationLimit.
func Truncate(content string, limit int) string {
	out, _ := truncate(content, limit)
	return out
}

func truncate(content string, limit int) (string, bool) {
	if limit <= 0 {
		limit = DefaultTruncationLimit
	}
	// a string of at most limit bytes has at most limit runes
	if len(content) <= limit {
		return content, false
	}

	n := 0
	for i := range content {
		if n == limit {
			return content[:i] + TruncationMarker, true
		}
		n++
	}
	return content, false
}

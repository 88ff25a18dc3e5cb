package util

import "strings"

// WordCount counts whitespace separated words, the way the popup reports
// the length of a summary.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

package summarizer

import "strings"

// encodingFixer repairs UTF-8 punctuation that was decoded as Latin-1 or
// Windows-1252. strings.Replacer tries patterns in argument order at each
// position, so the three-character forms come before the bare "â€" prefix.
var encodingFixer = strings.NewReplacer(
	"â€™", "'",
	"â€œ", "\"",
	"â€\"", "—",
	"â€¦", "…",
	"â€¢", "•",
	"â€", "\"",
	"Â\u00a0", " ",
	"Â ", " ",
)

// FixEncoding replaces known mojibake sequences in provider output.
func FixEncoding(text string) string {
	if text == "" {
		return ""
	}
	return encodingFixer.Replace(text)
}

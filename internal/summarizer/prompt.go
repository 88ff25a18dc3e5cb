package summarizer

import "fmt"

// Style selects one of the instruction templates.
type Style string

const (
	StyleConcise  Style = "concise"
	StyleDetailed Style = "detailed"
	StyleBullets  Style = "bullets"
	StyleInvestor Style = "investor"
	StyleDefault  Style = "default"
)

// Styles lists the named styles; any other value gets the default template.
var Styles = []Style{StyleConcise, StyleDetailed, StyleBullets, StyleInvestor}

// BuildPrompt returns the instruction text for style, naming sourceURL.
// Unknown styles, including the empty one, use the default template.
func BuildPrompt(style Style, sourceURL string) string {
	switch style {
	case StyleConcise:
		return fmt.Sprintf("Summarize this article from %s in a concise way (3-4 sentences), focusing only on the most important facts.", sourceURL)
	case StyleDetailed:
		return fmt.Sprintf("Provide a comprehensive summary of this article from %s covering:\n"+
			"1. Main topic and key arguments\n"+
			"2. Supporting evidence presented\n"+
			"3. Conclusions or implications", sourceURL)
	case StyleBullets:
		return fmt.Sprintf("Extract key points from this article from %s as bullet points.\n"+
			"For each point, include:\n"+
			"- The core idea in bold\n"+
			"- A brief 1-sentence explanation", sourceURL)
	case StyleInvestor:
		return fmt.Sprintf("Summarize this article from %s for an investor+power owner (think Kenneth C. Griffin or Ray Dalio). "+
			"Use serious economics, finance, and social science knowledge to analyze the content of the news and provide an objective outlook "+
			"for the impacts created by this event and how it will impact the world politically, economically, etc. "+
			"Then, provide a detailed investment strategy (covering all markets, primary & secondary markets, buy-side, PE, etc.) for this event.", sourceURL)
	default:
		return fmt.Sprintf("Summarize this article from %s:", sourceURL)
	}
}

package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// Labeler assigns a binary sentiment label to comment text: 1 positive,
// 0 negative. Implementations must be pure and total: same text always yields
// the same label, no I/O, no failure mode.
type Labeler interface {
	Label(text string) int
}

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders any markdown in input and strips the
// resulting tags and entities, so only the human-visible words reach the
// analyzer. A short comment like "Terrible!" must come out as exactly
// "Terrible!", not wrapped in markup the lexicon cannot see through.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := RemoveLinks(html.UnescapeString(tagPattern.ReplaceAllString(string(output), " ")))

	return strings.Join(strings.Fields(stripped), " ")
}

// The lexicon is read-only after construction and safe to share across
// requests.
var analyzer = govader.NewSentimentIntensityAnalyzer()

// VADERLabeler classifies text with the VADER lexicon.
type VADERLabeler struct{}

func NewVADERLabeler() *VADERLabeler {
	return &VADERLabeler{}
}

// Label returns 1 when the VADER compound score is >= 0 and 0 otherwise.
// Neutral, unrecognized, and empty text scores exactly 0 and therefore labels
// positive; only text that scores strictly negative labels 0.
func (l *VADERLabeler) Label(text string) int {
	plainText := ConvertMarkdownToText(text)

	if analyzer.PolarityScores(plainText).Compound >= 0 {
		return 1
	}
	return 0
}

package outfmt

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicy = bluemonday.StrictPolicy()

	lineBreakTag  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseTag = regexp.MustCompile(`(?i)</(p|div|h[1-6]|blockquote|pre|tr|table|ul|ol)\s*>`)
	blockOpenTag  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|blockquote|pre|table|ul|ol)(\s[^>]*)?>`)
	listItemTag   = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	imageTag      = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	spaceAroundNL = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	manyNewlines  = regexp.MustCompile(`\n{3,}`)
	horizontalWS  = regexp.MustCompile(`[ \t]+`)
)

// HTMLToPlainText renders an HTML fragment as readable text. Images are
// dropped and links keep only their label.
func HTMLToPlainText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = imageTag.ReplaceAllString(s, "")
	s = lineBreakTag.ReplaceAllString(s, "\n")
	s = blockOpenTag.ReplaceAllString(s, "\n\n")
	s = blockCloseTag.ReplaceAllString(s, "\n\n")
	s = listItemTag.ReplaceAllString(s, "\n * ")

	s = plainPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")

	s = spaceAroundNL.ReplaceAllString(s, "\n")
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	s = horizontalWS.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Package normalize cleans generated answers into the plain-text layout shown
// to users: no markup, corrected place names, section titles on their own
// block, uniform bullets and blank-line paragraph separation.
//
// Normalize is idempotent.
package normalize

import (
	"regexp"
	"strings"
)

// correction replaces a whole word with its corrected spelling.
type correction struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	markupPattern = regexp.MustCompile("[`_>#]+")

	corrections = []correction{
		{regexp.MustCompile(`\bShanusha\b`), "Sunsari"},
		{regexp.MustCompile(`\bDhanushadham\b`), "Dhanusha"},
		{regexp.MustCompile(`\bBharman\b`), "Brahman"},
	}

	// SectionTitles always start a new block.
	SectionTitles = []string{
		"Admission Process",
		"Application Process",
		"Testing Process",
		"Personal Interview",
		"Selection and Offer Letter",
	}
	titlePatterns = compileTitles(SectionTitles)

	// lineIndent is every character strings.TrimSpace strips except '\n'.
	lineIndent            = `(?m)^[\t\v\f\r\x{85}\p{Z}]*`
	glyphBulletPattern    = regexp.MustCompile(lineIndent + `[•◦▪●‣][ \t]+`)
	numberedBulletPattern = regexp.MustCompile(lineIndent + `(\d+)\.[ \t]+`)
	dashBulletPattern     = regexp.MustCompile(lineIndent + `-[ \t]+`)

	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

func compileTitles(titles []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(titles))
	for i, title := range titles {
		out[i] = regexp.MustCompile(`\s*` + regexp.QuoteMeta(title))
	}
	return out
}

// Normalize applies the cleanup pipeline to generated text.
func Normalize(text string) string {
	text = StripMarkup(text)
	text = ApplyCorrections(text)
	text = BreakBeforeTitles(text)
	// splitting at a title can expose a new word boundary
	text = ApplyCorrections(text)
	text = NormalizeBullets(text)
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = doubleSingleNewlines(text)
	return strings.TrimSpace(text)
}

// StripMarkup removes bold and italic markers and stray markup characters.
func StripMarkup(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	return markupPattern.ReplaceAllString(text, "")
}

// ApplyCorrections fixes known misspellings of place and caste names.
func ApplyCorrections(text string) string {
	for _, c := range corrections {
		text = c.pattern.ReplaceAllLiteralString(text, c.replacement)
	}
	return text
}

// BreakBeforeTitles replaces the whitespace before every section title with a
// single blank line.
func BreakBeforeTitles(text string) string {
	for i, p := range titlePatterns {
		text = p.ReplaceAllLiteralString(text, "\n\n"+SectionTitles[i])
	}
	return text
}

// NormalizeBullets rewrites line-leading list markers: glyphs and dashes become
// "- " and "3. " becomes "3 ".
func NormalizeBullets(text string) string {
	text = glyphBulletPattern.ReplaceAllLiteralString(text, "- ")
	text = numberedBulletPattern.ReplaceAllString(text, "${1} ")
	return dashBulletPattern.ReplaceAllLiteralString(text, "- ")
}

// doubleSingleNewlines turns every lone newline between two non-newline
// characters into a blank line.
func doubleSingleNewlines(text string) string {
	if !strings.Contains(text, "\n") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + strings.Count(text, "\n"))
	for i := 0; i < len(text); i++ {
		c := text[i]
		b.WriteByte(c)
		if c != '\n' || i == 0 || i == len(text)-1 {
			continue
		}
		if text[i-1] != '\n' && text[i+1] != '\n' {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

package retrieval

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinKeywordLength is the shortest token kept as a keyword, exclusive.
const MinKeywordLength = 2

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "shall": true,
	"i": true, "you": true, "he": true, "she": true, "it": true,
	"we": true, "they": true, "me": true, "him": true, "her": true,
	"us": true, "them": true, "this": true, "that": true, "these": true,
	"those": true, "what": true, "who": true, "where": true, "when": true,
	"why": true, "how": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "for": true, "to": true,
	"from": true, "in": true, "on": true, "at": true, "by": true,
	"with": true, "about": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true, "between": true,
	"among": true, "of": true, "off": true, "out": true, "over": true,
	"under": true, "again": true, "further": true, "once": true,
}

// IsStopWord reports whether word is excluded from keyword search.
func IsStopWord(word string) bool {
	return stopWords[word]
}

// KeywordSet is a deduplicated list of lowercase search terms in first-seen order.
type KeywordSet []string

// ExtractKeywords tokenizes message into lowercase search terms, dropping stop
// words and tokens of MinKeywordLength runes or fewer.
func ExtractKeywords(message string) KeywordSet {
	words := wordPattern.FindAllString(strings.ToLower(message), -1)
	keywords := make(KeywordSet, 0, len(words))
	seen := make(map[string]bool, len(words))

	for _, word := range words {
		if stopWords[word] || utf8.RuneCountInString(word) <= MinKeywordLength {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	return keywords
}

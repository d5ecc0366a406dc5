package retrieval

import "strings"

// MaxMatches bounds every MatchResult.
const MaxMatches = 5

// MatchPhase identifies which matching stage produced a result.
type MatchPhase string

const (
	PhaseNone    MatchPhase = "none"
	PhaseName    MatchPhase = "name"
	PhaseKeyword MatchPhase = "keyword"
)

// MatchResult holds at most MaxMatches records from a single phase, in
// collection order.
type MatchResult struct {
	Phase   MatchPhase
	Records []Record
}

// Empty reports whether no records matched.
func (m MatchResult) Empty() bool { return len(m.Records) == 0 }

// Match selects records for a query. Name-span matches win outright; the
// keyword phase only runs when no record matched by name.
func Match(records []Record, keywords KeywordSet, rawQuery string) MatchResult {
	if len(records) == 0 {
		return MatchResult{Phase: PhaseNone}
	}

	if named := matchNames(records, NameCandidates(rawQuery)); len(named) > 0 {
		return MatchResult{Phase: PhaseName, Records: named}
	}

	if hits := matchKeywords(records, keywords); len(hits) > 0 {
		return MatchResult{Phase: PhaseKeyword, Records: hits}
	}

	return MatchResult{Phase: PhaseNone}
}

// NameCandidates returns every contiguous span of two or three lowercased
// whitespace tokens of query. Queries with fewer than two tokens yield none.
func NameCandidates(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) < 2 {
		return nil
	}

	candidates := make([]string, 0, 2*len(words))
	for i := range words {
		for n := 2; n <= 3 && i+n <= len(words); n++ {
			candidates = append(candidates, strings.Join(words[i:i+n], " "))
		}
	}
	return candidates
}

func matchNames(records []Record, candidates []string) []Record {
	if len(candidates) == 0 {
		return nil
	}

	var matches []Record
	for _, rec := range records {
		name, ok := rec.nameValue()
		if !ok {
			continue
		}
		for _, cand := range candidates {
			// TODO: bidirectional containment lets short names match
			// unrelated spans; tune once real query logs are available.
			if strings.Contains(cand, name) || strings.Contains(name, cand) {
				matches = append(matches, rec)
				break
			}
		}
		if len(matches) == MaxMatches {
			break
		}
	}
	return matches
}

func matchKeywords(records []Record, keywords KeywordSet) []Record {
	if len(keywords) == 0 {
		return nil
	}

	var matches []Record
	for _, rec := range records {
		text := rec.searchText()
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				matches = append(matches, rec)
				break
			}
		}
		if len(matches) == MaxMatches {
			break
		}
	}
	return matches
}

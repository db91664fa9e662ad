package research

import "strings"

// Classify determines a query's type from its text and context. It is a
// pure function of (query, context, keyword config): identical inputs
// always classify identically.
//
// Precedence, first match wins:
//  1. technical-feasibility stage -> technical
//  2. market-research stage -> market
//  3. competitive focus -> competitive
//  4. keyword counts over query + serialized context; a tie with matches
//     on both sides is hybrid, no matches at all is general.
func Classify(query string, qctx QueryContext, keywords KeywordConfig) QueryType {
	if qt, ok := stageQueryType(qctx.Stage); ok {
		return qt
	}
	if qctx.Focus == "competitive" || qctx.Focus == "competitors" {
		return QueryCompetitive
	}

	haystack := strings.ToLower(query) + " " + qctx.serialized()
	technical := countMatches(haystack, keywords.Technical)
	market := countMatches(haystack, keywords.Market)

	switch {
	case technical > market:
		return QueryTechnical
	case market > technical:
		return QueryMarket
	case technical > 0:
		// Equal positive counts. Hybrid routing later prefers the
		// market-side provider unless focus says otherwise.
		return QueryHybrid
	default:
		return QueryGeneral
	}
}

// countMatches counts how many keywords occur as case-insensitive
// substrings of the haystack.
func countMatches(haystack string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(strings.ToLower(haystack), strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

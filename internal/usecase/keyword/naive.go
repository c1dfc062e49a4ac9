package keyword

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

// DefaultMinTokenLength drops single-character tokens.
const DefaultMinTokenLength = 2

// stopWords are common English words that never narrow a search.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "best": {}, "but": {}, "by": {}, "can": {}, "could": {}, "do": {}, "does": {},
	"for": {}, "from": {}, "get": {}, "good": {}, "has": {}, "have": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "like": {},
	"looking": {}, "me": {}, "my": {}, "need": {}, "of": {}, "on": {}, "or": {},
	"recommend": {}, "recommendation": {}, "recommendations": {}, "should": {},
	"some": {}, "something": {}, "that": {}, "the": {}, "them": {}, "there": {},
	"these": {}, "this": {}, "to": {}, "want": {}, "was": {}, "what": {}, "where": {},
	"which": {}, "who": {}, "why": {}, "will": {}, "with": {}, "would": {}, "you": {},
	"your": {},
}

// Naive tokenizes the query locally. It never fails.
type Naive struct {
	minLen int
}

// NewNaive creates a naive extractor. minLen <= 0 selects DefaultMinTokenLength.
func NewNaive(minLen int) *Naive {
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}
	return &Naive{minLen: minLen}
}

// Extract splits on anything that is not a letter or digit, lowercases, and drops
// short tokens and stop words. Apostrophes inside a word are removed, so "joe's" is "joes".
func (n *Naive) Extract(_ context.Context, query string) ([]string, mode.Mode) {
	return n.Tokens(query), mode.Naive
}

// Tokens is Extract without the context.
func (n *Naive) Tokens(query string) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
		cur  strings.Builder
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := cur.String()
		cur.Reset()
		if utf8.RuneCountInString(tok) < n.minLen {
			return
		}
		if _, stop := stopWords[tok]; stop {
			return
		}
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	for _, r := range query {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur.WriteRune(unicode.ToLower(r))
		case isApostrophe(r):
			// joined: "joe's" -> "joes"
		default:
			flush()
		}
	}
	flush()

	if out == nil {
		return []string{}
	}
	return out
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

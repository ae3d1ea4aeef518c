// Package analyze turns raw document or query text into a stream of
// searchable terms.
//
// ═══════════════════════════════════════════════════════════════════════════════
// ANALYSIS PIPELINE
// ═══════════════════════════════════════════════════════════════════════════════
//  1. NFC normalization → collapse Unicode forms that the ASCII tokenizer
//     below cannot tell apart ("café" and "café" composed vs decomposed)
//  2. Lowercasing       → normalize case ("Quick" → "quick")
//  3. Tokenization      → split into maximal runs of [A-Za-z0-9_]
//  4. Stopword removal  → discard tokens in the caller-supplied stopword set
//  5. Stemming          → reduce to root form ("running" → "run")
//
// NFC normalization reduces, but does not eliminate, the surprises an
// ASCII-only tokenizer produces on non-ASCII input: two equivalent
// renderings of the same accented letter normalize to the same codepoint
// sequence, but a letter outside ASCII is still not itself a word
// character and still breaks a token in two. Callers indexing
// predominantly non-ASCII corpora should treat this as a known boundary,
// not a bug this package can fully close.
// ═══════════════════════════════════════════════════════════════════════════════
package analyze

import (
	"golang.org/x/text/unicode/norm"
)

// Stemmer reduces a token to its root form. Pass a no-op func(s string)
// string { return s } to disable stemming.
type Stemmer func(string) string

// Stopwords reports whether a token should be discarded before stemming.
type Stopwords interface {
	Contains(token string) bool
}

// StopwordSet is a plain set-backed Stopwords implementation.
type StopwordSet map[string]struct{}

func (s StopwordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// NewStopwordSet builds a StopwordSet from a slice of words.
func NewStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Analyzer runs the full pipeline with a pluggable stemmer and stopword set.
// Both collaborators are supplied by the caller: unlike a fixed
// English-only word list baked into the package, the stopword set and
// stemmer are data the BSBI builder and query parser agree to share.
type Analyzer struct {
	Stopwords Stopwords
	Stem      Stemmer
}

// New constructs an Analyzer. A nil Stopwords disables stopword filtering; a
// nil Stemmer disables stemming.
func New(stopwords Stopwords, stem Stemmer) *Analyzer {
	return &Analyzer{Stopwords: stopwords, Stem: stem}
}

// Analyze runs text through the full pipeline and returns the resulting
// terms in order of occurrence.
func (a *Analyzer) Analyze(text string) []string {
	text = norm.NFC.String(text)
	tokens := tokenize(text)

	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = lowercaseASCII(tok)
		if a.Stopwords != nil && a.Stopwords.Contains(tok) {
			continue
		}
		if a.Stem != nil {
			tok = a.Stem(tok)
		}
		terms = append(terms, tok)
	}
	return terms
}

// tokenize splits text into maximal runs of [A-Za-z0-9_]. Bytes that are
// not part of a valid UTF-8 encoding are dropped rather than copied
// through, matching a best-effort read of possibly-malformed input.
func tokenize(text string) []string {
	var tokens []string
	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isWordByte(c) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			tokens = append(tokens, text[start:i])
			start = -1
		}
	}
	if start != -1 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_':
		return true
	default:
		return false
	}
}

// lowercaseASCII lowercases only the ASCII range, matching the tokenizer's
// own ASCII-only word-character definition.
func lowercaseASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

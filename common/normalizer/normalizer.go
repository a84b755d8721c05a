// Package normalizer turns raw review text into the cleaned form the vectorizer expects.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var tagPattern = regexp.MustCompile(`<.*?>`)

// contractions are the single-token splits the treebank word tokenizer applies
// once punctuation is gone
var contractions = map[string][]string{
	"cannot": {"can", "not"},
	"gimme":  {"gim", "me"},
	"gonna":  {"gon", "na"},
	"gotta":  {"got", "ta"},
	"lemme":  {"lem", "me"},
	"wanna":  {"wan", "na"},
}

// Options controls the normalization steps
type Options struct {
	// StopWords replaces EnglishStopWords when non-nil
	StopWords []string
	// Stem reduces surviving tokens to their snowball stem
	Stem bool
}

// Normalizer is safe for concurrent use
type Normalizer struct {
	stopWords map[string]struct{}
	stem      bool
}

// New creates a normalizer from options
func New(options Options) *Normalizer {
	words := options.StopWords
	if words == nil {
		words = EnglishStopWords
	}
	stopWords := make(map[string]struct{}, len(words))
	for _, word := range words {
		stopWords[strings.ToLower(word)] = struct{}{}
	}
	return &Normalizer{stopWords: stopWords, stem: options.Stem}
}

var defaultNormalizer = New(Options{})

// Normalize cleans text with the default english normalizer
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

// Normalize lowercases text, strips tags and punctuation and drops stopwords.
// It never fails; degenerate input yields the empty string.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	// a Caser keeps state and cannot be shared between goroutines
	text = cases.Lower(language.Und).String(text)
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.Map(clean, text)

	fields := strings.FieldsFunc(text, isSpace)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		parts, ok := contractions[field]
		if !ok {
			parts = []string{field}
		}
		for _, token := range parts {
			if n.IsStopWord(token) {
				continue
			}
			if n.stem {
				token = stem(token)
				if token == "" || n.IsStopWord(token) {
					continue
				}
			}
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " ")
}

// clean drops every rune that is neither a word character nor whitespace
func clean(r rune) rune {
	if isWord(r) || isSpace(r) {
		return r
	}
	return -1
}

// isWord matches letters, numbers and underscore. Combining marks are not word characters.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpace also treats the information separators U+001C..U+001F as whitespace
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// IsStopWord reports whether token is dropped by the normalizer
func (n *Normalizer) IsStopWord(token string) bool {
	_, ok := n.stopWords[token]
	return ok
}

// stem a word using the Snowball algorithm
func stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err == nil {
		return stemmed
	}
	return word
}

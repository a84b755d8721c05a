package vectorizer

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultMaxFeatures caps the vocabulary to the most frequent corpus terms
	DefaultMaxFeatures = 5000
	minTokenLength     = 2
)

var (
	ErrEmptyVocabulary = errors.New("empty vocabulary; the corpus only contains stop words or short tokens")
	ErrNotFitted       = errors.New("vectorizer is not fitted")
)

// Norm selects the per-row normalization applied after idf weighting
type Norm string

const (
	NormL2   Norm = "l2"
	NormNone Norm = "none"
)

// IsValid reports whether n is a supported normalization
func (n Norm) IsValid() bool {
	switch n {
	case NormL2, NormNone:
		return true
	default:
		return false
	}
}

// TextVectorizer learns a vocabulary from cleaned documents and maps new documents
// to fixed-dimension vectors over it.
type TextVectorizer interface {
	Fit(documents []string) error
	Transform(document string) SparseVector
}

// Tfidf weights in-document term counts by smoothed inverse document frequency.
// It is safe for concurrent Transform calls once Fit has returned.
type Tfidf struct {
	MaxFeatures int
	Norm        Norm

	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// NewTfidf creates an unfitted vectorizer. maxFeatures <= 0 keeps every term.
func NewTfidf(maxFeatures int, norm Norm) *Tfidf {
	if !norm.IsValid() {
		norm = NormL2
	}
	return &Tfidf{MaxFeatures: maxFeatures, Norm: norm}
}

type termStat struct {
	term  string
	count int
	df    int
}

// Fit learns the vocabulary and idf weights. Calling Fit again replaces the previous fit.
func (t *Tfidf) Fit(documents []string) error {
	stats := make(map[string]*termStat)
	for _, doc := range documents {
		seen := make(map[string]struct{})
		for _, token := range analyze(doc) {
			stat, ok := stats[token]
			if !ok {
				stat = &termStat{term: token}
				stats[token] = stat
			}
			stat.count++
			if _, ok := seen[token]; !ok {
				seen[token] = struct{}{}
				stat.df++
			}
		}
	}
	if len(stats) == 0 {
		return ErrEmptyVocabulary
	}

	kept := make([]*termStat, 0, len(stats))
	for _, stat := range stats {
		kept = append(kept, stat)
	}
	if t.MaxFeatures > 0 && len(kept) > t.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if kept[i].count != kept[j].count {
				return kept[i].count > kept[j].count
			}
			return kept[i].term < kept[j].term
		})
		kept = kept[:t.MaxFeatures]
	}
	// column order is alphabetical regardless of frequency rank
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].term < kept[j].term
	})

	n := float64(len(documents))
	t.vocabulary = make(map[string]int, len(kept))
	t.terms = make([]string, len(kept))
	t.idf = make([]float64, len(kept))
	for i, stat := range kept {
		t.vocabulary[stat.term] = i
		t.terms[i] = stat.term
		t.idf[i] = math.Log((1+n)/(1+float64(stat.df))) + 1
	}
	return nil
}

// FitTransform fits the corpus and returns its vectors
func (t *Tfidf) FitTransform(documents []string) ([]SparseVector, error) {
	if err := t.Fit(documents); err != nil {
		return nil, err
	}
	vectors := make([]SparseVector, len(documents))
	for i, doc := range documents {
		vectors[i] = t.Transform(doc)
	}
	return vectors, nil
}

// Transform maps a cleaned document onto the fitted vocabulary. Out of vocabulary
// terms are ignored; a document with no known terms yields the all-zero vector.
func (t *Tfidf) Transform(document string) SparseVector {
	sv := SparseVector{Dim: len(t.terms)}
	if len(t.vocabulary) == 0 {
		return sv
	}

	counts := make(map[int]int)
	for _, token := range analyze(document) {
		if idx, ok := t.vocabulary[token]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return sv
	}

	sv.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		sv.Indices = append(sv.Indices, idx)
	}
	sort.Ints(sv.Indices)
	sv.Values = make([]float64, len(sv.Indices))
	for k, idx := range sv.Indices {
		sv.Values[k] = float64(counts[idx]) * t.idf[idx]
	}

	if t.Norm == NormL2 {
		if norm := floats.Norm(sv.Values, 2); norm > 0 {
			floats.Scale(1/norm, sv.Values)
		}
	}
	return sv
}

// Dim returns the vocabulary size
func (t *Tfidf) Dim() int {
	return len(t.terms)
}

// Terms returns the vocabulary in column order
func (t *Tfidf) Terms() []string {
	terms := make([]string, len(t.terms))
	copy(terms, t.terms)
	return terms
}

// Index returns the column of term
func (t *Tfidf) Index(term string) (int, bool) {
	idx, ok := t.vocabulary[term]
	return idx, ok
}

// IDF returns the learned weight of term
func (t *Tfidf) IDF(term string) (float64, error) {
	if len(t.terms) == 0 {
		return 0, ErrNotFitted
	}
	idx, ok := t.vocabulary[term]
	if !ok {
		return 0, nil
	}
	return t.idf[idx], nil
}

func analyze(document string) []string {
	fields := strings.Fields(document)
	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= minTokenLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

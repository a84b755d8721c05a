package classifier

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/projectdiscovery/sentix/common/vectorizer"
)

// DefaultAlpha is the additive (Laplace) smoothing applied to feature counts
const DefaultAlpha = 1.0

var (
	ErrEmptyTrainingSet   = errors.New("empty training set")
	ErrDimensionMismatch  = errors.New("feature dimension mismatch")
	ErrNegativeFeature    = errors.New("negative feature value")
	ErrLabelCountMismatch = errors.New("features and labels differ in length")
)

// Classifier maps a feature vector to a Label. Implementations are only
// obtained from a training function, so every Classifier is already fitted.
type Classifier interface {
	Predict(features vectorizer.SparseVector) Label
}

// Trainer fits a Classifier from labeled vectors
type Trainer interface {
	Fit(features []vectorizer.SparseVector, labels []Label) (Classifier, error)
}

// MultinomialNBTrainer fits MultinomialNB models with the given smoothing
type MultinomialNBTrainer struct {
	Alpha float64
}

// Fit implements Trainer
func (t MultinomialNBTrainer) Fit(features []vectorizer.SparseVector, labels []Label) (Classifier, error) {
	m, err := FitMultinomialNB(features, labels, t.Alpha)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MultinomialNB is a multinomial Naive Bayes model over non-negative feature weights.
// It is built by FitMultinomialNB and is read-only afterwards.
type MultinomialNB struct {
	alpha          float64
	dim            int
	classCount     []int
	classLogPrior  []float64
	featureLogProb [][]float64
}

// FitMultinomialNB estimates class priors and smoothed per-feature class likelihoods.
// alpha <= 0 falls back to DefaultAlpha.
func FitMultinomialNB(features []vectorizer.SparseVector, labels []Label, alpha float64) (*MultinomialNB, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	if len(features) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(features) != len(labels) {
		return nil, errors.Wrapf(ErrLabelCountMismatch, "%d features, %d labels", len(features), len(labels))
	}

	dim := features[0].Dim
	featureCount := make([][]float64, len(Labels))
	for c := range featureCount {
		featureCount[c] = make([]float64, dim)
	}
	classCount := make([]int, len(Labels))

	for i, row := range features {
		if row.Dim != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "row %d has %d columns, expected %d", i, row.Dim, dim)
		}
		c := labelIndex(labels[i])
		if c < 0 {
			return nil, fmt.Errorf("row %d: invalid label %q", i, labels[i])
		}
		classCount[c]++
		for k, idx := range row.Indices {
			value := row.Values[k]
			if value < 0 {
				return nil, errors.Wrapf(ErrNegativeFeature, "row %d column %d", i, idx)
			}
			featureCount[c][idx] += value
		}
	}

	total := float64(len(features))
	m := &MultinomialNB{
		alpha:          alpha,
		dim:            dim,
		classCount:     classCount,
		classLogPrior:  make([]float64, len(Labels)),
		featureLogProb: make([][]float64, len(Labels)),
	}
	for c := range Labels {
		if classCount[c] == 0 {
			m.classLogPrior[c] = math.Inf(-1)
		} else {
			m.classLogPrior[c] = math.Log(float64(classCount[c]) / total)
		}

		denominator := math.Log(floats.Sum(featureCount[c]) + alpha*float64(dim))
		logProb := make([]float64, dim)
		for j, count := range featureCount[c] {
			logProb[j] = math.Log(count+alpha) - denominator
		}
		m.featureLogProb[c] = logProb
	}
	return m, nil
}

// Alpha returns the smoothing the model was fitted with
func (m *MultinomialNB) Alpha() float64 {
	return m.alpha
}

// Predict returns the class with the highest joint log likelihood. Ties resolve
// to the first class in Labels.
func (m *MultinomialNB) Predict(features vectorizer.SparseVector) Label {
	return Labels[floats.MaxIdx(m.jointLogLikelihood(features))]
}

// PredictProba returns the posterior probability of every class
func (m *MultinomialNB) PredictProba(features vectorizer.SparseVector) map[Label]float64 {
	proba := make(map[Label]float64, len(Labels))
	jll := m.jointLogLikelihood(features)
	evidence := floats.LogSumExp(jll)
	for c, label := range Labels {
		proba[label] = math.Exp(jll[c] - evidence)
	}
	return proba
}

// ClassCount returns how many training rows carried label
func (m *MultinomialNB) ClassCount(label Label) int {
	c := labelIndex(label)
	if c < 0 || c >= len(m.classCount) {
		return 0
	}
	return m.classCount[c]
}

// FeatureLogProb returns ln P(feature | label), or false when out of range
func (m *MultinomialNB) FeatureLogProb(label Label, feature int) (float64, bool) {
	c := labelIndex(label)
	if c < 0 || feature < 0 || feature >= m.dim {
		return 0, false
	}
	return m.featureLogProb[c][feature], true
}

func (m *MultinomialNB) jointLogLikelihood(features vectorizer.SparseVector) []float64 {
	jll := make([]float64, len(Labels))
	copy(jll, m.classLogPrior)
	for c := range Labels {
		logProb := m.featureLogProb[c]
		for k, idx := range features.Indices {
			// columns beyond the fitted vocabulary carry no evidence
			if idx >= m.dim {
				continue
			}
			jll[c] += features.Values[k] * logProb[idx]
		}
	}
	return jll
}

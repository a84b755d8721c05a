package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/projectdiscovery/sentix/common/vectorizer"
)

func vector(dense ...float64) vectorizer.SparseVector {
	sv := vectorizer.SparseVector{Dim: len(dense)}
	for i, v := range dense {
		if v != 0 {
			sv.Indices = append(sv.Indices, i)
			sv.Values = append(sv.Values, v)
		}
	}
	return sv
}

func fitted(t *testing.T) *MultinomialNB {
	m, err := FitMultinomialNB(
		[]vectorizer.SparseVector{vector(1, 0), vector(0, 1), vector(0, 2)},
		[]Label{Negative, Positive, Positive},
		0,
	)
	require.Nil(t, err)
	return m
}

func TestMultinomialNBFit(t *testing.T) {
	m := fitted(t)
	require.Equal(t, DefaultAlpha, m.Alpha())
	require.Equal(t, 1, m.ClassCount(Negative))
	require.Equal(t, 2, m.ClassCount(Positive))

	// negative counts [1 0]: ln((1+1)/(1+2)), ln((0+1)/(1+2))
	p, ok := m.FeatureLogProb(Negative, 0)
	require.True(t, ok)
	require.InDelta(t, math.Log(2.0/3.0), p, 1e-12)
	p, _ = m.FeatureLogProb(Negative, 1)
	require.InDelta(t, math.Log(1.0/3.0), p, 1e-12)

	// positive counts [0 3]: denominator 3+2
	p, _ = m.FeatureLogProb(Positive, 1)
	require.InDelta(t, math.Log(4.0/5.0), p, 1e-12)

	_, ok = m.FeatureLogProb(Positive, 2)
	require.False(t, ok)
}

func TestMultinomialNBPredict(t *testing.T) {
	m := fitted(t)
	require.Equal(t, Positive, m.Predict(vector(0, 1)))
	require.Equal(t, Negative, m.Predict(vector(3, 0)))

	t.Run("zero vector falls back to the prior", func(t *testing.T) {
		require.Equal(t, Positive, m.Predict(vector(0, 0)))
		proba := m.PredictProba(vector(0, 0))
		require.InDelta(t, 2.0/3.0, proba[Positive], 1e-12)
		require.InDelta(t, 1.0/3.0, proba[Negative], 1e-12)
	})

	t.Run("probabilities sum to one", func(t *testing.T) {
		proba := m.PredictProba(vector(1, 1))
		require.InDelta(t, 1.0, proba[Positive]+proba[Negative], 1e-12)
	})

	t.Run("ties resolve to the first class", func(t *testing.T) {
		balanced, err := FitMultinomialNB([]vectorizer.SparseVector{vector(1, 0), vector(0, 1)}, []Label{Negative, Positive}, 1)
		require.Nil(t, err)
		require.Equal(t, Labels[0], balanced.Predict(vector(0, 0)))
	})

	t.Run("columns past the vocabulary are ignored", func(t *testing.T) {
		wide := vectorizer.SparseVector{Dim: 5, Indices: []int{1, 4}, Values: []float64{1, 7}}
		require.Equal(t, m.Predict(vector(0, 1)), m.Predict(wide))
	})
}

func TestMultinomialNBTrainer(t *testing.T) {
	var trainer Trainer = MultinomialNBTrainer{}
	clf, err := trainer.Fit([]vectorizer.SparseVector{vector(2, 0), vector(0, 2)}, []Label{Negative, Positive})
	require.Nil(t, err)
	require.Equal(t, Positive, clf.Predict(vector(0, 1)))

	m, ok := clf.(*MultinomialNB)
	require.True(t, ok)
	require.Equal(t, DefaultAlpha, m.Alpha())

	clf, err = trainer.Fit(nil, nil)
	require.ErrorIs(t, err, ErrEmptyTrainingSet)
	require.Nil(t, clf)
}

func TestMultinomialNBSingleClass(t *testing.T) {
	m, err := FitMultinomialNB([]vectorizer.SparseVector{vector(1, 0)}, []Label{Positive}, 1)
	require.Nil(t, err)
	require.Equal(t, Positive, m.Predict(vector(0, 1)))
	require.Equal(t, Positive, m.Predict(vector(0, 0)))
}

func TestMultinomialNBFitErrors(t *testing.T) {
	fit := func(features []vectorizer.SparseVector, labels []Label) error {
		m, err := FitMultinomialNB(features, labels, 1)
		if err != nil {
			require.Nil(t, m, "no model is returned on error")
		}
		return err
	}
	require.ErrorIs(t, fit(nil, nil), ErrEmptyTrainingSet)
	require.ErrorIs(t, fit([]vectorizer.SparseVector{vector(1)}, nil), ErrLabelCountMismatch)
	require.ErrorIs(t, fit([]vectorizer.SparseVector{vector(1, 0), vector(1)}, []Label{Negative, Positive}), ErrDimensionMismatch)
	require.ErrorIs(t, fit([]vectorizer.SparseVector{vector(-1, 0)}, []Label{Negative}), ErrNegativeFeature)
	require.NotNil(t, fit([]vectorizer.SparseVector{vector(1, 0)}, []Label{"neutral"}))
}

func TestParseLabel(t *testing.T) {
	label, err := ParseLabel(" Positive ")
	require.Nil(t, err)
	require.Equal(t, Positive, label)

	label, err = ParseLabel("NEGATIVE")
	require.Nil(t, err)
	require.Equal(t, Negative, label)

	_, err = ParseLabel("meh")
	require.NotNil(t, err)
	require.False(t, Label("meh").IsValid())
}

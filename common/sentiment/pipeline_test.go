package sentiment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/projectdiscovery/sentix/common/classifier"
	"github.com/projectdiscovery/sentix/common/dataset"
	"github.com/projectdiscovery/sentix/common/vectorizer"
)

func trained(t *testing.T) *Pipeline {
	train, _ := dataset.Split(dataset.Sample(), dataset.DefaultTestRatio, dataset.DefaultSeed)
	pipeline, err := Train(train, DefaultOptions)
	require.Nil(t, err)
	return pipeline
}

func TestTrain(t *testing.T) {
	pipeline := trained(t)
	stats := pipeline.Stats()
	require.Positive(t, stats.Documents)
	require.Positive(t, stats.VocabularySize)
	require.LessOrEqual(t, stats.VocabularySize, vectorizer.DefaultMaxFeatures)
}

func TestTrainErrors(t *testing.T) {
	_, err := Train(nil, DefaultOptions)
	require.ErrorIs(t, err, dataset.ErrNoRecords)

	_, err = Train([]dataset.Record{{Text: "the and of", Label: classifier.Positive}}, DefaultOptions)
	require.ErrorIs(t, err, vectorizer.ErrEmptyVocabulary)
}

func TestPredict(t *testing.T) {
	pipeline := trained(t)

	t.Run("positive review", func(t *testing.T) {
		prediction := pipeline.Predict("This movie was absolutely wonderful and brilliant!")
		require.Equal(t, classifier.Positive, prediction.Label)
		require.Equal(t, "movie absolutely wonderful brilliant", prediction.Cleaned)
		require.Greater(t, prediction.Confidence, 0.5)
	})

	t.Run("empty review", func(t *testing.T) {
		first := pipeline.Predict("")
		require.True(t, first.Label.IsValid())
		require.Empty(t, first.Cleaned)
		require.Equal(t, first, pipeline.Predict(""))
	})

	t.Run("only stopwords and markup", func(t *testing.T) {
		require.Equal(t, pipeline.Predict("").Label, pipeline.Predict("<br/> the of and!!").Label)
	})

	t.Run("deterministic", func(t *testing.T) {
		review := "Dull plot and terrible acting."
		require.Equal(t, pipeline.Predict(review), pipeline.Predict(review))
	})
}

func TestPredictConcurrent(t *testing.T) {
	pipeline := trained(t)
	expected := pipeline.Predict("wonderful brilliant film")

	var wg sync.WaitGroup
	results := make([]Prediction, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = pipeline.Predict("wonderful brilliant film")
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, expected, got)
	}
}

func TestEvaluate(t *testing.T) {
	train, test := dataset.Split(dataset.Sample(), dataset.DefaultTestRatio, dataset.DefaultSeed)
	pipeline, err := Train(train, DefaultOptions)
	require.Nil(t, err)

	cm := pipeline.Evaluate(test)
	require.Equal(t, len(test), cm.Total())
	report := cm.Report()
	require.GreaterOrEqual(t, report.Accuracy, 0.0)
	require.LessOrEqual(t, report.Accuracy, 1.0)
}

func TestStemmingOption(t *testing.T) {
	options := DefaultOptions
	options.Stem = true
	options.Threads = 2
	pipeline, err := Train(dataset.Sample(), options)
	require.Nil(t, err)
	require.Equal(t, "movi absolut wonder brilliant", pipeline.Normalize("This movie was absolutely wonderful and brilliant!"))
}

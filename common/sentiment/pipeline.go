// Package sentiment wires the normalizer, the tf-idf vectorizer and the naive bayes
// classifier into a pipeline fitted once from a labeled corpus.
package sentiment

import (
	"time"

	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"

	"github.com/projectdiscovery/sentix/common/classifier"
	"github.com/projectdiscovery/sentix/common/dataset"
	"github.com/projectdiscovery/sentix/common/normalizer"
	"github.com/projectdiscovery/sentix/common/vectorizer"
)

const defaultThreads = 10

// Options controls how the pipeline is fitted
type Options struct {
	MaxFeatures int
	Alpha       float64
	Norm        vectorizer.Norm
	Stem        bool
	// Threads bounds the workers normalizing the training corpus
	Threads int
}

// DefaultOptions mirrors the reference model settings
var DefaultOptions = Options{
	MaxFeatures: vectorizer.DefaultMaxFeatures,
	Alpha:       classifier.DefaultAlpha,
	Norm:        vectorizer.NormL2,
	Threads:     defaultThreads,
}

// Prediction is the outcome of classifying one review
type Prediction struct {
	Review     string
	Cleaned    string
	Label      classifier.Label
	Confidence float64
}

// Stats describes the fit
type Stats struct {
	Documents      int
	VocabularySize int
	Duration       time.Duration
}

type probabilistic interface {
	PredictProba(features vectorizer.SparseVector) map[classifier.Label]float64
}

// Pipeline is immutable once Train returns and may be shared by concurrent requests
type Pipeline struct {
	normalizer *normalizer.Normalizer
	vectorizer vectorizer.TextVectorizer
	classifier classifier.Classifier
	stats      Stats
}

// Train fits the vocabulary and the model parameters from the same records
func Train(records []dataset.Record, options Options) (*Pipeline, error) {
	if len(records) == 0 {
		return nil, dataset.ErrNoRecords
	}
	start := time.Now()

	norm := normalizer.New(normalizer.Options{Stem: options.Stem})
	cleaned := normalizeAll(norm, dataset.Texts(records), options.Threads)

	vec := vectorizer.NewTfidf(options.MaxFeatures, options.Norm)
	features, err := vec.FitTransform(cleaned)
	if err != nil {
		return nil, errors.Wrap(err, "could not fit vectorizer")
	}

	var trainer classifier.Trainer = classifier.MultinomialNBTrainer{Alpha: options.Alpha}
	clf, err := trainer.Fit(features, dataset.Labels(records))
	if err != nil {
		return nil, errors.Wrap(err, "could not fit classifier")
	}

	return &Pipeline{
		normalizer: norm,
		vectorizer: vec,
		classifier: clf,
		stats: Stats{
			Documents:      len(records),
			VocabularySize: vec.Dim(),
			Duration:       time.Since(start),
		},
	}, nil
}

// Predict runs normalizer, vectorizer and classifier in sequence. It is total:
// any string, including the empty one, yields a label.
func (p *Pipeline) Predict(review string) Prediction {
	cleaned := p.normalizer.Normalize(review)
	features := p.vectorizer.Transform(cleaned)
	label := p.classifier.Predict(features)

	prediction := Prediction{Review: review, Cleaned: cleaned, Label: label}
	if proba, ok := p.classifier.(probabilistic); ok {
		prediction.Confidence = proba.PredictProba(features)[label]
	}
	return prediction
}

// Normalize exposes the fitted cleaning step
func (p *Pipeline) Normalize(review string) string {
	return p.normalizer.Normalize(review)
}

// Stats returns training statistics
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Evaluate predicts every held-out record and tallies the outcome
func (p *Pipeline) Evaluate(records []dataset.Record) *classifier.ConfusionMatrix {
	actual := make([]classifier.Label, len(records))
	predicted := make([]classifier.Label, len(records))
	for i, record := range records {
		actual[i] = record.Label
		predicted[i] = p.Predict(record.Text).Label
	}
	return classifier.NewConfusionMatrix(actual, predicted)
}

func normalizeAll(norm *normalizer.Normalizer, texts []string, threads int) []string {
	if threads <= 0 {
		threads = defaultThreads
	}
	cleaned := make([]string, len(texts))
	swg := sizedwaitgroup.New(threads)
	for i := range texts {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			cleaned[i] = norm.Normalize(texts[i])
		}(i)
	}
	swg.Wait()
	return cleaned
}

package runner

import (
	"context"
	"fmt"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/projectdiscovery/gologger"

	"github.com/projectdiscovery/sentix/common/classifier"
	"github.com/projectdiscovery/sentix/common/dataset"
	"github.com/projectdiscovery/sentix/common/fileutil"
	"github.com/projectdiscovery/sentix/common/sentiment"
	"github.com/projectdiscovery/sentix/internal/config"
	"github.com/projectdiscovery/sentix/runner/server"
)

// Runner owns the fitted pipeline and serves or prints predictions.
type Runner struct {
	options  *Options
	config   *config.Config
	pipeline *sentiment.Pipeline
	aurora   aurora.Aurora
}

// New loads the configuration and fits the model. Nothing is served yet.
func New(options *Options) (*Runner, error) {
	cfg, err := options.ToConfig()
	if err != nil {
		return nil, errors.Wrap(err, "could not load configuration")
	}

	pipeline, err := Initialize(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not train model")
	}

	return &Runner{
		options:  options,
		config:   cfg,
		pipeline: pipeline,
		aurora:   aurora.NewAurora(!options.NoColor),
	}, nil
}

// Initialize loads the corpus, holds out the test split and fits the pipeline
// on the remainder. An empty dataset path selects the embedded corpus.
func Initialize(cfg *config.Config) (*sentiment.Pipeline, error) {
	var (
		records []dataset.Record
		err     error
	)
	if cfg.Dataset.Path == "" {
		gologger.Info().Msgf("Using embedded sample corpus\n")
		records = dataset.Sample()
	} else {
		records, err = dataset.Load(cfg.Dataset.Path, dataset.Options{
			TextColumn:  cfg.Dataset.TextColumn,
			LabelColumn: cfg.Dataset.LabelColumn,
		})
		if err != nil {
			return nil, err
		}
	}
	gologger.Info().Msgf("Loaded %d labeled reviews\n", len(records))

	train, test := dataset.Split(records, cfg.Dataset.TestRatio, cfg.Dataset.Seed)
	gologger.Info().Msgf("Split corpus: %d train / %d test (seed %d)\n", len(train), len(test), cfg.Dataset.Seed)

	pipeline, err := sentiment.Train(train, sentiment.Options{
		MaxFeatures: cfg.Model.MaxFeatures,
		Alpha:       cfg.Model.Alpha,
		Norm:        cfg.Model.Norm,
		Stem:        cfg.Model.Stem,
		Threads:     cfg.Model.Threads,
	})
	if err != nil {
		return nil, err
	}
	stats := pipeline.Stats()
	gologger.Info().Msgf("Fitted model on %d documents, vocabulary %d terms in %s\n", stats.Documents, stats.VocabularySize, stats.Duration)

	if cfg.Model.Evaluate {
		if len(test) == 0 {
			gologger.Warning().Msgf("Skipping evaluation: held-out split is empty\n")
		} else {
			cm := pipeline.Evaluate(test)
			gologger.Info().Msgf("Held-out evaluation: %s\n", cm.Report().Summary())
			gologger.Print().Msgf("\n%s\n%s\n", cm, cm.Report())
		}
	}

	return pipeline, nil
}

// Pipeline returns the fitted pipeline
func (r *Runner) Pipeline() *sentiment.Pipeline {
	return r.pipeline
}

// Run classifies the reviews given on the command line or piped on stdin, or
// serves the form until ctx is cancelled when there are none.
func (r *Runner) Run(ctx context.Context) error {
	if r.options.Review != "" || r.options.ReviewList != "" || r.options.Stdin {
		return r.classify(ctx)
	}

	srv, err := server.New(r.pipeline, server.Options{
		Listen:    r.config.Server.Listen,
		CacheSize: r.config.Server.CacheSize,
	})
	if err != nil {
		return errors.Wrap(err, "could not create server")
	}
	return srv.ListenAndServe(ctx)
}

func (r *Runner) classify(ctx context.Context) error {
	var reviews []string
	if r.options.Review != "" {
		reviews = append(reviews, r.options.Review)
	}
	if r.options.ReviewList != "" {
		lines, err := fileutil.LoadLines(r.options.ReviewList)
		if err != nil {
			return errors.Wrapf(err, "could not read review list %s", r.options.ReviewList)
		}
		reviews = append(reviews, lines...)
	}
	if r.options.Stdin {
		lines, err := fileutil.ReadLines(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "could not read stdin")
		}
		reviews = append(reviews, lines...)
	}

	for _, review := range reviews {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		prediction := r.pipeline.Predict(review)
		gologger.Debug().Msgf("%s confidence=%.4f cleaned=%q\n", prediction.Label, prediction.Confidence, prediction.Cleaned)
		if r.options.OnResult != nil {
			r.options.OnResult(prediction)
			continue
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", r.colorize(prediction.Label), review)
	}
	return nil
}

func (r *Runner) colorize(label classifier.Label) string {
	switch label {
	case classifier.Positive:
		return r.aurora.Green(label.String()).String()
	case classifier.Negative:
		return r.aurora.Red(label.String()).String()
	}
	return label.String()
}

// Close releases runner resources
func (r *Runner) Close() {
	r.pipeline = nil
}

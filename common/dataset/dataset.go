// Package dataset loads the two-column labeled review corpus used to fit the model.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/projectdiscovery/sentix/common/classifier"
)

const (
	DefaultTextColumn  = "review"
	DefaultLabelColumn = "sentiment"
	DefaultTestRatio   = 0.2
	DefaultSeed        = 42

	maxRowErrors = 10
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrNoRecords     = errors.New("dataset contains no records")
)

//go:embed reviews.csv
var sampleCorpus []byte

// Record is one labeled review
type Record struct {
	Text  string
	Label classifier.Label
}

// Options selects the corpus columns by header name
type Options struct {
	TextColumn  string
	LabelColumn string
}

func (o Options) withDefaults() Options {
	if o.TextColumn == "" {
		o.TextColumn = DefaultTextColumn
	}
	if o.LabelColumn == "" {
		o.LabelColumn = DefaultLabelColumn
	}
	return o
}

// Load reads a CSV corpus from path
func Load(path string, options Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open dataset")
	}
	defer f.Close()

	records, err := Read(f, options)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read dataset %s", path)
	}
	return records, nil
}

// Sample returns the embedded corpus shipped with the binary
func Sample() []Record {
	records, err := Read(bytes.NewReader(sampleCorpus), Options{})
	if err != nil {
		panic(err)
	}
	return records
}

// Read parses a CSV corpus with a header row. Rows with an unknown label are
// reported together; any such row fails the whole read.
func Read(r io.Reader, options Options) ([]Record, error) {
	options = options.withDefaults()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read header")
	}
	textIdx, labelIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, options.TextColumn):
			textIdx = i
		case strings.EqualFold(name, options.LabelColumn):
			labelIdx = i
		}
	}
	var errs error
	if textIdx < 0 {
		errs = multierr.Append(errs, errors.Wrapf(ErrMissingColumn, "text column %q", options.TextColumn))
	}
	if labelIdx < 0 {
		errs = multierr.Append(errs, errors.Wrapf(ErrMissingColumn, "label column %q", options.LabelColumn))
	}
	if errs != nil {
		return nil, errs
	}

	var (
		records   []Record
		rowErrors int
	)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse line %d", line)
		}
		if textIdx >= len(row) || labelIdx >= len(row) {
			rowErrors++
			if rowErrors <= maxRowErrors {
				errs = multierr.Append(errs, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(textIdx, labelIdx)+1, len(row)))
			}
			continue
		}
		label, err := classifier.ParseLabel(row[labelIdx])
		if err != nil {
			rowErrors++
			if rowErrors <= maxRowErrors {
				errs = multierr.Append(errs, fmt.Errorf("line %d: %w", line, err))
			}
			continue
		}
		records = append(records, Record{Text: row[textIdx], Label: label})
	}
	if rowErrors > maxRowErrors {
		errs = multierr.Append(errs, fmt.Errorf("%d more invalid rows", rowErrors-maxRowErrors))
	}
	if errs != nil {
		return nil, errs
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Split shuffles records deterministically with seed and holds out
// ceil(testRatio*n) of them. The input slice is left untouched.
func Split(records []Record, testRatio float64, seed int64) (train, test []Record) {
	n := len(records)
	if testRatio <= 0 || n < 2 {
		train = make([]Record, n)
		copy(train, records)
		return train, nil
	}
	if testRatio >= 1 {
		testRatio = DefaultTestRatio
	}
	testSize := int(math.Ceil(testRatio * float64(n)))
	if testSize >= n {
		testSize = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make([]Record, 0, testSize)
	train = make([]Record, 0, n-testSize)
	for i, idx := range perm {
		if i < testSize {
			test = append(test, records[idx])
		} else {
			train = append(train, records[idx])
		}
	}
	return train, test
}

// Texts returns the review column
func Texts(records []Record) []string {
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}
	return texts
}

// Labels returns the label column
func Labels(records []Record) []classifier.Label {
	labels := make([]classifier.Label, len(records))
	for i, record := range records {
		labels[i] = record.Label
	}
	return labels
}

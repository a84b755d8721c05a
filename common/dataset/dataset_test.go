package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/projectdiscovery/sentix/common/classifier"
)

func TestRead(t *testing.T) {
	input := "\ufeffReview,Sentiment\n" +
		"\"Great, really great\",positive\n" +
		"Awful film,NEGATIVE\n"
	records, err := Read(strings.NewReader(input), Options{})
	require.Nil(t, err)
	require.Equal(t, []Record{
		{Text: "Great, really great", Label: classifier.Positive},
		{Text: "Awful film", Label: classifier.Negative},
	}, records)
	require.Equal(t, []string{"Great, really great", "Awful film"}, Texts(records))
	require.Equal(t, []classifier.Label{classifier.Positive, classifier.Negative}, Labels(records))
}

func TestReadCustomColumns(t *testing.T) {
	input := "id,label,text\n1,positive,loved it\n"
	records, err := Read(strings.NewReader(input), Options{TextColumn: "text", LabelColumn: "label"})
	require.Nil(t, err)
	require.Equal(t, []Record{{Text: "loved it", Label: classifier.Positive}}, records)
}

func TestReadErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Read(strings.NewReader(""), Options{})
		require.ErrorIs(t, err, ErrNoRecords)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := Read(strings.NewReader("review,sentiment\n"), Options{})
		require.ErrorIs(t, err, ErrNoRecords)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := Read(strings.NewReader("text,label\nfoo,positive\n"), Options{})
		require.ErrorIs(t, err, ErrMissingColumn)
		require.Len(t, multierr.Errors(err), 2)
	})

	t.Run("invalid rows are reported together", func(t *testing.T) {
		input := "review,sentiment\nfine,positive\nbad,neutral\nshort\n"
		_, err := Read(strings.NewReader(input), Options{})
		require.NotNil(t, err)
		errs := multierr.Errors(err)
		require.Len(t, errs, 2)
		require.Contains(t, errs[0].Error(), "line 3")
		require.Contains(t, errs[1].Error(), "line 4")
	})

	t.Run("row errors are capped", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("review,sentiment\n")
		for i := 0; i < maxRowErrors+5; i++ {
			sb.WriteString("text,unknown\n")
		}
		_, err := Read(strings.NewReader(sb.String()), Options{})
		errs := multierr.Errors(err)
		require.Len(t, errs, maxRowErrors+1)
		require.Contains(t, errs[maxRowErrors].Error(), "5 more invalid rows")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.Nil(t, os.WriteFile(path, []byte("review,sentiment\nnice,positive\n"), 0644))

	records, err := Load(path, Options{})
	require.Nil(t, err)
	require.Len(t, records, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.NotNil(t, err)
}

func TestSample(t *testing.T) {
	records := Sample()
	require.NotEmpty(t, records)

	counts := make(map[classifier.Label]int)
	for _, record := range records {
		counts[record.Label]++
	}
	require.Positive(t, counts[classifier.Positive])
	require.Positive(t, counts[classifier.Negative])
}

func TestSplit(t *testing.T) {
	records := Sample()
	n := len(records)

	train, test := Split(records, DefaultTestRatio, DefaultSeed)
	require.Len(t, test, (n+4)/5)
	require.Len(t, train, n-len(test))

	// same seed, same partition
	train2, test2 := Split(records, DefaultTestRatio, DefaultSeed)
	require.Equal(t, train, train2)
	require.Equal(t, test, test2)

	// every record lands in exactly one side
	seen := make(map[Record]int)
	for _, r := range append(append([]Record{}, train...), test...) {
		seen[r]++
	}
	for _, r := range records {
		require.Positive(t, seen[r])
	}

	t.Run("no hold out", func(t *testing.T) {
		train, test := Split(records, 0, DefaultSeed)
		require.Equal(t, records, train)
		require.Empty(t, test)
	})

	t.Run("keeps one training row", func(t *testing.T) {
		train, test := Split(records[:2], 0.9, DefaultSeed)
		require.Len(t, train, 1)
		require.Len(t, test, 1)
	})
}

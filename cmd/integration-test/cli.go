package main

import (
	"strings"

	"github.com/projectdiscovery/sentix/internal/testutils"
)

var cliTestcases = map[string]testutils.TestCase{
	"One-shot review": &oneShotReview{},
}

type oneShotReview struct{}

func (h *oneShotReview) Execute() error {
	review := "This movie was absolutely wonderful and brilliant!"
	results, err := testutils.RunSentixBinaryAndGetResults(review, sentixBinary, debug, nil)
	if err != nil {
		return err
	}
	if len(results) != 1 {
		return errIncorrectResultsCount(results)
	}
	expected := "positive\t" + review
	if !strings.EqualFold(results[0], expected) {
		return errIncorrectResult(expected, results[0])
	}
	return nil
}

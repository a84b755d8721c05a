package main

import (
	"context"
	"fmt"

	"github.com/projectdiscovery/sentix/common/sentiment"
	"github.com/projectdiscovery/sentix/internal/testutils"
	"github.com/projectdiscovery/sentix/runner"
)

var libraryTestcases = map[string]testutils.TestCase{
	"Sentix as library": &sentixLibrary{},
}

type sentixLibrary struct {
}

func (h *sentixLibrary) Execute() error {
	var got []sentiment.Prediction

	options := runner.Options{
		Review: "This movie was absolutely wonderful and brilliant!",
		Silent: true,
		OnResult: func(p sentiment.Prediction) {
			got = append(got, p)
		},
	}
	if err := options.ValidateOptions(); err != nil {
		return err
	}

	sentixRunner, err := runner.New(&options)
	if err != nil {
		return err
	}
	defer sentixRunner.Close()

	if err := sentixRunner.Run(context.Background()); err != nil {
		return err
	}

	if len(got) != 1 {
		return errIncorrectResult("1 prediction", fmt.Sprint(len(got)))
	}
	if expected := "positive"; got[0].Label.String() != expected {
		return errIncorrectResult(expected, got[0].Label.String())
	}

	return nil
}

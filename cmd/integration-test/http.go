package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/projectdiscovery/sentix/internal/config"
	"github.com/projectdiscovery/sentix/internal/testutils"
	"github.com/projectdiscovery/sentix/runner"
	"github.com/projectdiscovery/sentix/runner/server"
)

var httpTestcases = map[string]testutils.TestCase{
	"Form without prediction":  &formWithoutPrediction{},
	"Positive review":          &positiveReview{},
	"Multipart review":         &multipartReview{},
	"Empty review":             &emptyReview{},
	"Missing review field":     &missingReviewField{},
	"Unsupported method":       &unsupportedMethod{},
	"Review is echoed escaped": &escapedReview{},
}

var (
	testServerOnce sync.Once
	testServer     *httptest.Server
	testServerErr  error
)

// sharedServer trains on the embedded corpus once for every http case
func sharedServer() (*httptest.Server, error) {
	testServerOnce.Do(func() {
		pipeline, err := runner.Initialize(config.Default())
		if err != nil {
			testServerErr = err
			return
		}
		srv, err := server.New(pipeline, server.Options{})
		if err != nil {
			testServerErr = err
			return
		}
		testServer = httptest.NewServer(srv.Handler())
	})
	return testServer, testServerErr
}

type formWithoutPrediction struct{}

func (h *formWithoutPrediction) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.Get(ts.URL)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errIncorrectResult("200", fmt.Sprint(resp.StatusCode))
	}
	if !strings.Contains(resp.Body, `name="review"`) {
		return fmt.Errorf("form field missing from page")
	}
	if got, ok := testutils.RenderedSentiment(resp.Body); ok {
		return errIncorrectResult("", got)
	}
	return nil
}

type positiveReview struct{}

func (h *positiveReview) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.PostReview(ts.URL, "This movie was absolutely wonderful and brilliant!")
	if err != nil {
		return err
	}
	if got, _ := testutils.RenderedSentiment(resp.Body); got != "positive" {
		return errIncorrectResult("positive", got)
	}
	return nil
}

type multipartReview struct{}

func (h *multipartReview) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.PostMultipart(ts.URL, map[string]string{"review": "This movie was absolutely wonderful and brilliant!"})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errIncorrectResult("200", fmt.Sprint(resp.StatusCode))
	}
	if got, _ := testutils.RenderedSentiment(resp.Body); got != "positive" {
		return errIncorrectResult("positive", got)
	}
	return nil
}

type emptyReview struct{}

func (h *emptyReview) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.PostReview(ts.URL, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errIncorrectResult("200", fmt.Sprint(resp.StatusCode))
	}
	got, ok := testutils.RenderedSentiment(resp.Body)
	if !ok || (got != "positive" && got != "negative") {
		return errIncorrectResult("positive|negative", got)
	}
	return nil
}

type missingReviewField struct{}

func (h *missingReviewField) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.PostForm(ts.URL, url.Values{"comment": {"great"}})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusBadRequest {
		return errIncorrectResult("400", fmt.Sprint(resp.StatusCode))
	}
	return nil
}

type unsupportedMethod struct{}

func (h *unsupportedMethod) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.Do(http.MethodPut, ts.URL, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		return errIncorrectResult("405", fmt.Sprint(resp.StatusCode))
	}
	return nil
}

type escapedReview struct{}

func (h *escapedReview) Execute() error {
	ts, err := sharedServer()
	if err != nil {
		return err
	}
	resp, err := testutils.PostReview(ts.URL, "<script>alert(1)</script> terrible")
	if err != nil {
		return err
	}
	if strings.Contains(resp.Body, "<script>alert(1)</script>") {
		return fmt.Errorf("review rendered unescaped")
	}
	return nil
}

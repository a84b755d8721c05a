package testutils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// TestCase is a single integration test case
type TestCase interface {
	// Execute executes a test case and returns any errors if occurred
	Execute() error
}

// Response is the status and body of one request against the form
type Response struct {
	StatusCode int
	Body       string
}

// RunSentixBinaryAndGetResults classifies review in one-shot mode and returns the non empty output lines
func RunSentixBinaryAndGetResults(review string, sentixBinary string, debug bool, args []string) ([]string, error) {
	cmd := exec.Command(sentixBinary, append([]string{"-review", review, "-no-color"}, args...)...)
	if debug {
		cmd.Args = append(cmd.Args, "-debug")
		cmd.Stderr = os.Stderr
	} else {
		cmd.Args = append(cmd.Args, "-silent")
	}

	data, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	parts := []string{}
	items := strings.Split(string(data), "\n")
	for _, i := range items {
		if i != "" {
			parts = append(parts, i)
		}
	}
	return parts, nil
}

// Get fetches the form page
func Get(baseURL string) (*Response, error) {
	return Do(http.MethodGet, baseURL, nil)
}

// PostReview submits review through the form field
func PostReview(baseURL, review string) (*Response, error) {
	return PostForm(baseURL, url.Values{"review": {review}})
}

// PostForm submits arbitrary form values
func PostForm(baseURL string, values url.Values) (*Response, error) {
	return Do(http.MethodPost, baseURL, values)
}

// PostMultipart submits values as a multipart/form-data body
func PostMultipart(baseURL string, values map[string]string) (*Response, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range values {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return send(http.MethodPost, baseURL, mw.FormDataContentType(), &body)
}

// Do sends a request with an optional urlencoded body
func Do(method, baseURL string, values url.Values) (*Response, error) {
	if values == nil {
		return send(method, baseURL, "", nil)
	}
	return send(method, baseURL, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
}

func send(method, baseURL, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequest(method, baseURL+"/", body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: string(data)}, nil
}

// RenderedSentiment extracts the label shown in the result block, if any
func RenderedSentiment(body string) (string, bool) {
	const marker = `data-sentiment="`
	start := strings.Index(body, marker)
	if start < 0 {
		return "", false
	}
	rest := body[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

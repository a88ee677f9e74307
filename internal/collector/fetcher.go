// Package collector fetches raw market data documents from the analytics API and persists them.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"llamaworker/internal/config"
	"llamaworker/internal/document"
	"llamaworker/pkg/utils"
)

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrBodyTooLarge         = errors.New("response body exceeds limit")
)

// maxErrorBody bounds the response body quoted in errors.
const maxErrorBody = 512

// Fetcher performs single GET requests and decodes JSON bodies. It never retries.
type Fetcher struct {
	client       *http.Client
	headers      *utils.HTTPHelper
	strings      *utils.StringHelper
	maxBodyBytes int64
}

// NewFetcher creates a fetcher with a 30s timeout and no body limit.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: utils.NewHTTPHelper(""),
		strings: utils.NewStringHelper(),
	}
}

// NewFetcherWithConfig creates a fetcher from collector settings.
func NewFetcherWithConfig(cfg *config.CollectorConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		headers:      utils.NewHTTPHelper(cfg.UserAgent),
		strings:      utils.NewStringHelper(),
		maxBodyBytes: cfg.GetMaxBodyBytes(),
	}
}

// FetchJSONWithMetrics returns (payload, statusCode, duration, error).
func (f *Fetcher) FetchJSONWithMetrics(ctx context.Context, url string) (any, int, time.Duration, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, time.Since(startTime), fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = f.headers.BuildHeaders(nil)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, time.Since(startTime), fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := f.readBody(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, time.Since(startTime), err
	}

	if !f.headers.IsSuccess(resp.StatusCode) {
		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: %d: %s",
			ErrUnexpectedStatusCode, resp.StatusCode, f.strings.TruncateString(f.strings.NormalizeWhitespace(string(body)), maxErrorBody))
	}

	payload, err := document.Decode(body)
	if err != nil {
		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("failed to decode response body: %w", err)
	}

	return payload, resp.StatusCode, time.Since(startTime), nil
}

// FetchJSON fetches url and returns the decoded JSON body.
func (f *Fetcher) FetchJSON(ctx context.Context, url string) (any, error) {
	payload, _, _, err := f.FetchJSONWithMetrics(ctx, url)

	return payload, err
}

func (f *Fetcher) readBody(r io.Reader) ([]byte, error) {
	if f.maxBodyBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, f.maxBodyBytes)
	}

	return body, nil
}

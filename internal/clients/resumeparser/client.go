package resumeparser

import (
	"context"
	"errors"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"net/http"
)

const minKeyLength = 10

var (
	ErrParseTimeout      = errors.New("resume parsing timed out")
	ErrParseFailed       = errors.New("resume parsing failed")
	ErrVendorRateLimited = errors.New("resume parser rate limit reached")
)

// Document is an uploaded resume file.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// client holds what both vendors share: the transport, the key and an optional throttle.
type client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	apiKey      string
	url         string
}

func (c *client) SetHTTPClient(httpClient HTTPClient) {
	c.httpClient = httpClient
}

func (c *client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond > 0 {
		c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
	}
}

// Configured reports whether the vendor key looks usable.
func (c *client) Configured() bool {
	return len(c.apiKey) >= minKeyLength
}

func (c *client) sendRequest(ctx context.Context, req *http.Request) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrVendorRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}

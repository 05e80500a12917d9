package resumeparser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const probeDocumentURL = "https://example.com/test.pdf"

// APILayer parses the raw file in a single request.
type APILayer struct {
	client
}

func NewAPILayer(apiKey, endpoint string) *APILayer {
	return &APILayer{client{httpClient: &http.Client{}, apiKey: apiKey, url: endpoint}}
}

func (a *APILayer) Name() string {
	return "APILayer"
}

func (a *APILayer) Parse(ctx context.Context, doc Document) ([]byte, error) {

	req, err := http.NewRequest("POST", a.url, bytes.NewReader(doc.Data))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	return a.sendRequest(ctx, req)
}

// Check asks the by-url endpoint to parse a sample document.
func (a *APILayer) Check(ctx context.Context) error {

	probeURL := strings.TrimSuffix(a.url, "/upload") + "/url?url=" + url.QueryEscape(probeDocumentURL)
	req, err := http.NewRequest("GET", probeURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("apikey", a.apiKey)

	_, err = a.sendRequest(ctx, req)
	return err
}

package resumeparser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	log "github.com/sirupsen/logrus"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

const (
	jobCompleted = "completed"
	jobFailed    = "failed"
)

type submitResponse struct {
	JobID string `json:"job_id"`
}

type statusResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// APYHub submits the resume as a job and polls its status until the result is ready.
type APYHub struct {
	client
	pollInterval    time.Duration
	maxPollAttempts int
}

func NewAPYHub(apiKey, endpoint string) *APYHub {
	return &APYHub{
		client:          client{httpClient: &http.Client{}, apiKey: apiKey, url: endpoint},
		pollInterval:    time.Second,
		maxPollAttempts: 30,
	}
}

func (a *APYHub) SetPolling(interval time.Duration, maxAttempts int) {
	if interval >= 0 {
		a.pollInterval = interval
	}
	if maxAttempts > 0 {
		a.maxPollAttempts = maxAttempts
	}
}

func (a *APYHub) Name() string {
	return "APYHub"
}

func (a *APYHub) Parse(ctx context.Context, doc Document) ([]byte, error) {

	jobID, err := a.submit(ctx, doc)
	if err != nil {
		return nil, err
	}
	log.Debugf("apyhub job %s submitted for %s", jobID, doc.Name)

	for attempt := 1; attempt <= a.maxPollAttempts; attempt++ {
		if err = sleep(ctx, a.pollInterval); err != nil {
			return nil, err
		}

		status, err := a.status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		log.Debugf("apyhub job %s status check %d: %s", jobID, attempt, status.Status)

		switch status.Status {
		case jobCompleted:
			return status.Result, nil
		case jobFailed:
			return nil, fmt.Errorf("%w: apyhub job %s", ErrParseFailed, jobID)
		}
	}

	return nil, fmt.Errorf("%w: apyhub job %s after %d attempts", ErrParseTimeout, jobID, a.maxPollAttempts)
}

// Check probes the endpoint with the configured key.
func (a *APYHub) Check(ctx context.Context) error {
	req, err := http.NewRequest("GET", a.url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("apy-token", a.apiKey)

	_, err = a.sendRequest(ctx, req)
	return err
}

func (a *APYHub) submit(ctx context.Context, doc Document) (string, error) {

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	disposition := mime.FormatMediaType("form-data", map[string]string{"name": "file", "filename": doc.Name})
	if disposition == "" {
		return "", fmt.Errorf("can't encode file name %q", doc.Name)
	}
	header.Set("Content-Disposition", disposition)
	header.Set("Content-Type", doc.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err = part.Write(doc.Data); err != nil {
		return "", err
	}
	if err = writer.WriteField("language", "English"); err != nil {
		return "", err
	}
	if err = writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", a.url, body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("apy-token", a.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := a.sendRequest(ctx, req)
	if err != nil {
		return "", err
	}

	var submitted submitResponse
	if err = json.Unmarshal(raw, &submitted); err != nil {
		return "", fmt.Errorf("error decoding JSON response: %v", err)
	}
	if submitted.JobID == "" {
		return "", fmt.Errorf("no job_id in apyhub response: %s", string(raw))
	}
	return submitted.JobID, nil
}

func (a *APYHub) status(ctx context.Context, jobID string) (*statusResponse, error) {

	req, err := http.NewRequest("GET", a.url+"/job/status/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("apy-token", a.apiKey)

	raw, err := a.sendRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var status statusResponse
	if err = json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}
	return &status, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

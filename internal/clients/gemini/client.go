package gemini

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	//Model15Flash is fastest multimodal model with great performance for diverse, repetitive tasks
	Model15Flash = "gemini-1.5-flash"
	//Model15Pro is next-generation model with a breakthrough 2 million context window
	Model15Pro = "gemini-1.5-pro"
)

const audioInstruction = "Please transcribe this audio in English. Only transcribe what is actually spoken " +
	"in English. Do not translate from other languages."

var ErrModelUnavailable = errors.New("no available gemini model")

// Prompt is one generation request. Audio, when present, is sent as audio/webm.
type Prompt struct {
	Text  string
	Audio []byte
	Model string
}

// backend performs the calls for a given API key.
type backend interface {
	generate(ctx context.Context, apiKey, model string, parts ...genai.Part) (string, error)
	listModels(ctx context.Context, apiKey string) ([]string, error)
}

type Client struct {
	backend           backend
	defaultModels     []string
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
	retryDelay        time.Duration
}

func NewClient(defaultModels ...string) *Client {
	if len(defaultModels) == 0 {
		defaultModels = []string{Model15Flash, Model15Pro}
	}
	return &Client{
		backend:       newGenaiBackend(),
		defaultModels: defaultModels,
		retryDelay:    2 * time.Second,
	}
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	if maxRequestsPerMinute > 0 {
		c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
	}
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	if maxRequestsPerDay > 0 {
		c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
	}
}

// Close releases the underlying per-key clients.
func (c *Client) Close() error {
	if closer, ok := c.backend.(interface{ close() error }); ok {
		return closer.close()
	}
	return nil
}

// GenerateResponse runs the prompt with apiKey. Models that are not found are
// skipped; when none of the candidates exists the available models are discovered
// and tried best first.
func (c *Client) GenerateResponse(ctx context.Context, apiKey string, prompt Prompt) (string, error) {

	parts := []genai.Part{genai.Text(prompt.Text)}
	if len(prompt.Audio) > 0 {
		parts = []genai.Part{
			genai.Blob{MIMEType: "audio/webm", Data: prompt.Audio},
			genai.Text(strings.TrimSpace(prompt.Text + "\n" + audioInstruction)),
		}
	}

	candidates := c.defaultModels
	if prompt.Model != "" {
		candidates = []string{prompt.Model}
	}

	tried := make([]string, 0, len(candidates))
	resp, err := c.tryModels(ctx, apiKey, candidates, parts, &tried)
	if err == nil || !IsModelNotFoundError(err) {
		return resp, err
	}

	log.Warnf("models %v are not available, discovering models", tried)
	available, listErr := c.backend.listModels(ctx, apiKey)
	if listErr != nil {
		return "", fmt.Errorf("%w: tried %v, listing failed: %v", ErrModelUnavailable, tried, listErr)
	}

	discovered := rankModels(lo.Without(available, tried...))
	if len(discovered) == 0 {
		return "", fmt.Errorf("%w: tried %v, available %v", ErrModelUnavailable, tried, available)
	}

	resp, err = c.tryModels(ctx, apiKey, discovered, parts, &tried)
	if err != nil && IsModelNotFoundError(err) {
		return "", fmt.Errorf("%w: tried %v, available %v", ErrModelUnavailable, tried, available)
	}
	return resp, err
}

func (c *Client) tryModels(ctx context.Context, apiKey string, models []string, parts []genai.Part,
	tried *[]string) (string, error) {

	var err error
	for _, model := range models {
		*tried = append(*tried, model)

		var resp string
		resp, err = c.generateWithRetry(ctx, apiKey, model, parts)
		if err == nil {
			return resp, nil
		}
		if !IsModelNotFoundError(err) {
			return "", err
		}
		log.Warnf("model %s is not available: %v", model, err)
	}
	return "", err
}

func (c *Client) generateWithRetry(ctx context.Context, apiKey, model string, parts []genai.Part) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, c.retryDelay, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		resp, err = c.waitAndGenerate(ctx, apiKey, model, parts)
		return err, isInternalError(err)
	})

	return resp, err
}

func (c *Client) waitAndGenerate(ctx context.Context, apiKey, model string, parts []genai.Part) (string, error) {

	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			err := limiter.Wait(ctx)
			if err != nil {
				return "", err
			}
		}
	}

	return c.backend.generate(ctx, apiKey, model, parts...)
}

// rankModels orders discovered models by preference: latest, 1.5 pro, 1.5 flash, pro.
func rankModels(models []string) []string {
	score := func(model string) int {
		s := 0
		if strings.Contains(model, "latest") {
			s += 4
		}
		if strings.Contains(model, "1.5-pro") {
			s += 3
		}
		if strings.Contains(model, "1.5-flash") {
			s += 2
		}
		if strings.Contains(model, "pro") {
			s++
		}
		return s
	}

	ranked := lo.Filter(models, func(model string, _ int) bool {
		return strings.Contains(model, "gemini")
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	return ranked
}

type genaiBackend struct {
	mu      sync.Mutex
	clients map[string]*genai.Client
}

func newGenaiBackend() *genaiBackend {
	return &genaiBackend{clients: make(map[string]*genai.Client)}
}

func (b *genaiBackend) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if client, ok := b.clients[apiKey]; ok {
		return client, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	b.clients[apiKey] = client
	return client, nil
}

func (b *genaiBackend) generate(ctx context.Context, apiKey, model string, parts ...genai.Part) (string, error) {

	client, err := b.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	response, err := client.GenerativeModel(model).GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("response has no candidates")
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("response part is not text")
	}
	return sb.String(), nil
}

func (b *genaiBackend) listModels(ctx context.Context, apiKey string) ([]string, error) {

	client, err := b.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	var models []string
	it := client.ListModels(ctx)
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if lo.Contains(info.SupportedGenerationMethods, "generateContent") {
			models = append(models, strings.TrimPrefix(info.Name, "models/"))
		}
	}
	return models, nil
}

func (b *genaiBackend) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for key, client := range b.clients {
		errs = append(errs, client.Close())
		delete(b.clients, key)
	}
	return errors.Join(errs...)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/clients/gemini"
	"github.com/skillzen/career-api/internal/events"
	"github.com/skillzen/career-api/internal/logger"
	"github.com/skillzen/career-api/internal/metrics"
	"github.com/skillzen/career-api/internal/quota"
)

var (
	ErrNoAPIKey      = errors.New("no gemini api key configured")
	ErrRateLimited   = errors.New("too many requests, wait before retrying")
	ErrQuotaExceeded = errors.New("gemini api quota exceeded")
	ErrInvalidAPIKey = errors.New("gemini api key is invalid")
)

type generator interface {
	GenerateResponse(ctx context.Context, apiKey string, prompt gemini.Prompt) (string, error)
}

type Generation struct {
	Text  string
	Quota quota.Info
}

type QuotaStatus struct {
	Quota     *quota.Info
	Status    quota.Status
	HasBackup bool
	Low       bool
	Exhausted bool
}

// GenerationService proxies prompts to gemini while keeping the quota state current.
type GenerationService struct {
	bus    EventBus.Bus
	quota  *quota.Manager
	client generator
}

func NewGenerationService(bus EventBus.Bus, manager *quota.Manager, client generator) *GenerationService {
	return &GenerationService{bus: bus, quota: manager, client: client}
}

func (s *GenerationService) Generate(ctx context.Context, prompt gemini.Prompt) (*Generation, error) {
	return s.generate(ctx, prompt, false)
}

func (s *GenerationService) Status(ctx context.Context) QuotaStatus {
	return QuotaStatus{
		Quota:     s.quota.QuotaInfo(ctx),
		Status:    s.quota.APIStatus(ctx),
		HasBackup: s.quota.HasBackupAPIKey(ctx),
		Low:       s.quota.IsQuotaLow(ctx),
		Exhausted: s.quota.IsQuotaExhausted(ctx),
	}
}

func (s *GenerationService) HasBackup(ctx context.Context) bool {
	return s.quota.HasBackupAPIKey(ctx)
}

// generate runs one attempt. onBackup is set for the single retry after a key switch,
// which skips the request gate and never switches again.
func (s *GenerationService) generate(ctx context.Context, prompt gemini.Prompt, onBackup bool) (*Generation, error) {

	apiKey, ok := s.quota.CurrentAPIKey(ctx)
	if !ok {
		return nil, ErrNoAPIKey
	}

	if !onBackup && s.quota.ShouldWaitForRateLimit(ctx) {
		metrics.GeminiRequestsCounter.WithLabelValues("throttled").Inc()
		return nil, ErrRateLimited
	}

	if s.quota.IsQuotaExhausted(ctx) {
		if !onBackup && s.switchToBackup(ctx, apiKey, "quota exhausted") {
			return s.generate(ctx, prompt, true)
		}
		metrics.GeminiRequestsCounter.WithLabelValues("quota_exceeded").Inc()
		return nil, ErrQuotaExceeded
	}

	s.quota.RecordAPICall(ctx)
	info := s.quota.DecreaseQuota(ctx)
	metrics.QuotaRemaining.Set(float64(info.Remaining))

	text, err := s.client.GenerateResponse(ctx, apiKey, prompt)
	if err != nil {
		return s.handleError(ctx, prompt, apiKey, onBackup, err)
	}

	s.quota.SetAPIStatus(ctx, quota.StatusOnline)
	metrics.GeminiRequestsCounter.WithLabelValues("success").Inc()
	return &Generation{Text: text, Quota: info}, nil
}

func (s *GenerationService) handleError(ctx context.Context, prompt gemini.Prompt, apiKey string,
	onBackup bool, err error) (*Generation, error) {

	switch {
	case gemini.IsRateLimitError(err):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Warnf("gemini quota exceeded: %v", err)
		s.quota.MarkExhausted(ctx)
		s.quota.SetAPIStatus(ctx, quota.StatusQuotaExceeded)
		metrics.QuotaRemaining.Set(0)

		if !onBackup && s.switchToBackup(ctx, apiKey, "rate limit") {
			return s.generate(ctx, prompt, true)
		}
		metrics.GeminiRequestsCounter.WithLabelValues("quota_exceeded").Inc()
		return nil, fmt.Errorf("%w: %v", ErrQuotaExceeded, err)

	case gemini.IsInvalidKeyError(err):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("gemini api key rejected: %v", err)

		if !onBackup && s.switchToBackup(ctx, apiKey, "invalid key") {
			return s.generate(ctx, prompt, true)
		}
		metrics.GeminiRequestsCounter.WithLabelValues("invalid_key").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)

	case errors.Is(err, gemini.ErrModelUnavailable):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("no gemini model available: %v", err)
		metrics.GeminiRequestsCounter.WithLabelValues("model_unavailable").Inc()
		return nil, err

	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("gemini request failed: %v", err)
		s.quota.SetAPIStatus(ctx, quota.StatusOffline)
		metrics.GeminiRequestsCounter.WithLabelValues("error").Inc()
		return nil, err
	}
}

// switchToBackup activates the backup key and reports whether a different key is now in use.
func (s *GenerationService) switchToBackup(ctx context.Context, apiKey, reason string) bool {

	if !s.quota.HasBackupAPIKey(ctx) || !s.quota.SwitchToBackupAPIKey(ctx) {
		return false
	}

	next, ok := s.quota.CurrentAPIKey(ctx)
	if !ok || next == apiKey {
		return false
	}

	log.Infof("switched gemini api key, reason: %s", reason)
	s.bus.Publish(events.APIKeySwitchedTopic, events.APIKeySwitched{Reason: reason, ActiveIndex: 1})
	return true
}

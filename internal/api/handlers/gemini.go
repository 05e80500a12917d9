package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/skillzen/career-api/internal/clients/gemini"
	"github.com/skillzen/career-api/internal/quota"
	"github.com/skillzen/career-api/internal/services"
	"net/http"
)

const (
	gateRetryAfterSeconds  = 2
	quotaRetryAfterSeconds = 300
)

type GenerationService interface {
	Generate(ctx context.Context, prompt gemini.Prompt) (*services.Generation, error)
	Status(ctx context.Context) services.QuotaStatus
	HasBackup(ctx context.Context) bool
}

type generateRequest struct {
	Prompt  string `json:"prompt" validate:"required_without=Audio"`
	Audio   string `json:"audio" validate:"omitempty,base64"`
	ModelID string `json:"modelId"`
}

type quotaInfoResponse struct {
	Remaining   int `json:"remaining"`
	Total       int `json:"total"`
	APIKeyIndex int `json:"apiKeyIndex"`
}

type generateResponse struct {
	Response  string            `json:"response"`
	QuotaInfo quotaInfoResponse `json:"quotaInfo"`
}

type quotaStatusResponse struct {
	Quota     *quota.Info  `json:"quota"`
	Status    quota.Status `json:"status"`
	HasBackup bool         `json:"hasBackup"`
	Low       bool         `json:"low"`
	Exhausted bool         `json:"exhausted"`
}

var requestValidator = validator.New()

// GenerateHandler handles POST /api/gemini
func GenerateHandler(service GenerationService) echo.HandlerFunc {
	return func(c echo.Context) error {

		var req generateRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, http.StatusBadRequest, "Prompt or audio is required", err.Error())
		}

		prompt := gemini.Prompt{Text: req.Prompt, Model: req.ModelID}
		if req.Audio != "" {
			audio, err := base64.StdEncoding.DecodeString(req.Audio)
			if err != nil {
				return respondError(c, http.StatusBadRequest, "Audio must be base64 encoded", err.Error())
			}
			prompt.Audio = audio
		}

		ctx := c.Request().Context()
		generation, err := service.Generate(ctx, prompt)
		if err != nil {
			return respondGenerationError(c, service, err)
		}

		return c.JSON(http.StatusOK, generateResponse{
			Response: generation.Text,
			QuotaInfo: quotaInfoResponse{
				Remaining:   generation.Quota.Remaining,
				Total:       generation.Quota.Total,
				APIKeyIndex: generation.Quota.APIKeyIndex,
			},
		})
	}
}

// QuotaHandler handles GET /api/quota
func QuotaHandler(service GenerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := service.Status(c.Request().Context())
		return c.JSON(http.StatusOK, quotaStatusResponse{
			Quota:     status.Quota,
			Status:    status.Status,
			HasBackup: status.HasBackup,
			Low:       status.Low,
			Exhausted: status.Exhausted,
		})
	}
}

func respondGenerationError(c echo.Context, service GenerationService, err error) error {
	switch {
	case errors.Is(err, services.ErrNoAPIKey):
		return respondError(c, http.StatusInternalServerError, "Gemini API key not configured", "")

	case errors.Is(err, services.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, errorResponse{
			Error:      "Rate limit exceeded. Please wait a moment before trying again.",
			RetryAfter: gateRetryAfterSeconds,
		})

	case errors.Is(err, services.ErrQuotaExceeded):
		hasBackup := service.HasBackup(c.Request().Context())
		return c.JSON(http.StatusTooManyRequests, errorResponse{
			Error:      "API quota exceeded. Please try again later.",
			Details:    err.Error(),
			RetryAfter: quotaRetryAfterSeconds,
			HasBackup:  &hasBackup,
		})

	case errors.Is(err, services.ErrInvalidAPIKey):
		return respondError(c, http.StatusUnauthorized, "Invalid API key", err.Error())

	case errors.Is(err, gemini.ErrModelUnavailable):
		return respondError(c, http.StatusNotFound, "No available Gemini model", err.Error())

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return respondError(c, http.StatusGatewayTimeout, "Request timed out", err.Error())

	default:
		return respondError(c, http.StatusInternalServerError, "Failed to generate response", err.Error())
	}
}

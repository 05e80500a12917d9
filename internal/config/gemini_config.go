package config

import (
	"fmt"
)

type GeminiConfig struct {
	APIKey               string   `mapstructure:"api_key"`
	APIKey2              string   `mapstructure:"api_key_2"`
	APIKey3              string   `mapstructure:"api_key_3"`
	Models               []string `mapstructure:"models"`
	MaxRequestsPerMinute float32  `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32  `mapstructure:"max_requests_per_day"`
}

// Keys returns the configured credential slots, primary first. Empty slots are kept.
func (config GeminiConfig) Keys() []string {
	return []string{config.APIKey, config.APIKey2, config.APIKey3}
}

func (config GeminiConfig) validate() error {
	if config.MaxRequestsPerMinute < 0 || config.MaxRequestsPerDay < 0 {
		return fmt.Errorf("rate limits can't be negative")
	}
	return nil
}

func (config GeminiConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"gemini.api_key":                 "GEMINI_API_KEY",
		"gemini.api_key_2":               "GEMINI_API_KEY_2",
		"gemini.api_key_3":               "GEMINI_API_KEY_3",
		"gemini.max_requests_per_minute": "GEMINI_MAX_REQUESTS_PER_MINUTE",
		"gemini.max_requests_per_day":    "GEMINI_MAX_REQUESTS_PER_DAY",
	})
}

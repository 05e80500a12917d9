package config

import (
	"errors"
	"fmt"
	"time"
)

type ResumeParserConfig struct {
	APYHubKey            string        `mapstructure:"apyhub_api_key"`
	APILayerKey          string        `mapstructure:"apilayer_api_key"`
	APYHubURL            string        `mapstructure:"apyhub_url"`
	APILayerURL          string        `mapstructure:"apilayer_url"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	MaxPollAttempts      int           `mapstructure:"max_poll_attempts"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
	RetentionDays        int           `mapstructure:"retention_days"`
}

func (config ResumeParserConfig) validate() error {
	var errs []error

	if config.APYHubURL == "" {
		errs = append(errs, fmt.Errorf("missing variable: apyhub_url"))
	}
	if config.APILayerURL == "" {
		errs = append(errs, fmt.Errorf("missing variable: apilayer_url"))
	}
	if config.MaxPollAttempts <= 0 {
		errs = append(errs, fmt.Errorf("max_poll_attempts must be greater than zero"))
	}
	if config.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("retention_days must be greater than zero"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config ResumeParserConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"resume_parser.apyhub_api_key":   "APYHUB_API_KEY",
		"resume_parser.apilayer_api_key": "APILAYER_API_KEY",
		"resume_parser.retention_days":   "RESUME_RETENTION_DAYS",
		"resume_parser.poll_interval":    "APYHUB_POLL_INTERVAL",
	})
}

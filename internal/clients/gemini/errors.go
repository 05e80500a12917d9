package gemini

import (
	"strings"
)

// IsRateLimitError reports errors the provider returns when a key ran out of calls.
func IsRateLimitError(err error) bool {
	return containsAny(err, "429", "quota", "rate limit", "RESOURCE_EXHAUSTED")
}

func IsInvalidKeyError(err error) bool {
	return containsAny(err, "API_KEY_INVALID", "API key not valid")
}

func IsModelNotFoundError(err error) bool {
	return containsAny(err, "404", "not found", "not supported")
}

func isInternalError(err error) bool {
	return containsAny(err, "Error 500")
}

func containsAny(err error, substrings ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range substrings {
		if strings.Contains(msg, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

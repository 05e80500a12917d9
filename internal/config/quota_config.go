package config

import (
	"fmt"
)

type storeType string

const (
	StoreMemory storeType = "memory"
	StoreSqlite storeType = "sqlite"
	StoreRedis  storeType = "redis"
)

type QuotaConfig struct {
	Store     storeType `mapstructure:"store"`
	Namespace string    `mapstructure:"namespace"`
	RedisURL  string    `mapstructure:"redis_url"`
}

func (config QuotaConfig) validate() error {
	switch config.Store {
	case StoreMemory:
		return nil
	case StoreSqlite, StoreRedis:
		if config.Namespace == "" {
			return fmt.Errorf("missing variable: namespace")
		}
	default:
		return fmt.Errorf("unknown quota store: %q", config.Store)
	}

	if config.Store == StoreRedis && config.RedisURL == "" {
		return fmt.Errorf("missing variable: redis_url")
	}
	return nil
}

func (config QuotaConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"quota.store":     "QUOTA_STORE",
		"quota.namespace": "QUOTA_NAMESPACE",
		"quota.redis_url": "REDIS_URL",
	})
}

package quota

// Info is the locally tracked call budget of one API key.
type Info struct {
	Remaining   int   `json:"remaining"`
	Total       int   `json:"total"`
	LastUpdated int64 `json:"lastUpdated"`
	APIKeyIndex int   `json:"apiKeyIndex"`
	// Exhausted is set when the provider reported the key out of quota.
	// Total keeps the configured budget so the key can be restored later.
	Exhausted bool `json:"exhausted,omitempty"`
}

type APIKeyInfo struct {
	Key      string `json:"key"`
	Quota    Info   `json:"quota"`
	IsActive bool   `json:"isActive"`
}

type Status string

const (
	StatusOnline        Status = "online"
	StatusOffline       Status = "offline"
	StatusQuotaExceeded Status = "quota-exceeded"
)

func (s Status) valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusQuotaExceeded:
		return true
	}
	return false
}

package quota

import (
	"context"
	"encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/logger"
	"strconv"
	"time"
)

const (
	// keyQuotaInfo is the legacy single-key record. Kept reserved, never written.
	keyQuotaInfo     = "gemini_quota_info"
	keyAPIStatus     = "gemini_api_status"
	keyAPIStatusTime = "gemini_api_status_time"
	keyAPIKeysInfo   = "gemini_api_keys_info"
	keyLastCallTime  = "gemini_last_call_time"
)

const (
	cacheDuration     = 5 * time.Minute
	rateLimitDelay    = 2 * time.Second
	defaultQuota      = 50
	lowQuotaThreshold = 100
	backupKeyIndex    = 1
	maxAPIKeys        = 3
)

// Store persists raw values by key. Load returns nil, nil for an absent key.
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager tracks per-key budgets, failover and the cached API status.
// A nil store puts it in server mode: nothing is persisted and every
// read returns its server default.
// It does no locking; concurrent writers race and the last write wins.
type Manager struct {
	keys  []string
	store Store
	now   func() time.Time
}

func NewManager(keys []string, store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}

	for _, key := range keys {
		if key != "" && len(m.keys) < maxAPIKeys {
			m.keys = append(m.keys, key)
		}
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) serverMode() bool {
	return m.store == nil
}

func (m *Manager) nowMillis() int64 {
	return m.now().UnixMilli()
}

// APIKeys builds the default key list from configuration. The primary key is active.
func (m *Manager) APIKeys() []APIKeyInfo {
	now := m.nowMillis()
	infos := make([]APIKeyInfo, 0, len(m.keys))
	for i, key := range m.keys {
		infos = append(infos, APIKeyInfo{
			Key: key,
			Quota: Info{
				Remaining:   defaultQuota,
				Total:       defaultQuota,
				LastUpdated: now,
				APIKeyIndex: i,
			},
			IsActive: i == 0,
		})
	}
	return infos
}

// InitializeAPIKeys overwrites persisted key state with the defaults,
// resetting every budget and activating the primary key.
func (m *Manager) InitializeAPIKeys(ctx context.Context) {
	if m.serverMode() {
		return
	}
	m.saveKeys(ctx, m.APIKeys())
}

// CurrentAPIKey returns the active key, falling back to the first configured one.
func (m *Manager) CurrentAPIKey(ctx context.Context) (string, bool) {
	if !m.serverMode() {
		for _, info := range m.loadKeys(ctx) {
			if info.IsActive {
				return info.Key, true
			}
		}
	}

	if len(m.keys) == 0 {
		return "", false
	}
	return m.keys[0], true
}

func (m *Manager) HasBackupAPIKey(ctx context.Context) bool {
	if m.serverMode() {
		return len(m.keys) > 1
	}

	for _, info := range m.loadKeys(ctx) {
		if !info.IsActive {
			return true
		}
	}
	return false
}

// SwitchToBackupAPIKey activates the key at index 1. It never rotates further.
func (m *Manager) SwitchToBackupAPIKey(ctx context.Context) bool {
	if m.serverMode() {
		return false
	}

	infos := m.loadKeys(ctx)
	backup := -1
	for i, info := range infos {
		if info.Quota.APIKeyIndex == backupKeyIndex {
			backup = i
			break
		}
	}
	if backup < 0 {
		return false
	}

	for i := range infos {
		infos[i].IsActive = false
	}
	infos[backup].IsActive = true
	infos[backup].Quota.LastUpdated = m.nowMillis()

	m.saveKeys(ctx, infos)
	log.Infof("switched to backup gemini api key %d", backupKeyIndex)
	return true
}

// QuotaInfo returns the active key's quota if it was updated within the cache window.
func (m *Manager) QuotaInfo(ctx context.Context) *Info {
	if m.serverMode() {
		return nil
	}

	for _, info := range m.loadKeys(ctx) {
		if !info.IsActive {
			continue
		}
		if m.nowMillis()-info.Quota.LastUpdated < cacheDuration.Milliseconds() {
			q := info.Quota
			return &q
		}
		return nil
	}
	return nil
}

// SetQuotaInfo stores q on the active key with a fresh timestamp.
// Without persisted state or an active key it does nothing.
func (m *Manager) SetQuotaInfo(ctx context.Context, q Info) {
	if m.serverMode() {
		return
	}

	infos := m.loadKeys(ctx)
	for i := range infos {
		if infos[i].IsActive {
			q.LastUpdated = m.nowMillis()
			infos[i].Quota = q
			m.saveKeys(ctx, infos)
			return
		}
	}
}

// DecreaseQuota consumes one call from the active key. When no fresh quota is
// cached the key state is re-initialized and the first call is already counted.
func (m *Manager) DecreaseQuota(ctx context.Context) Info {
	now := m.nowMillis()
	if m.serverMode() {
		return Info{LastUpdated: now}
	}

	if current := m.QuotaInfo(ctx); current != nil {
		next := *current
		next.Remaining = max(0, current.Remaining-1)
		next.LastUpdated = now
		m.SetQuotaInfo(ctx, next)
		return next
	}

	next := Info{
		Remaining:   defaultQuota - 1,
		Total:       defaultQuota,
		LastUpdated: now,
		APIKeyIndex: 0,
	}
	m.InitializeAPIKeys(ctx)
	m.SetQuotaInfo(ctx, next)
	return next
}

// ResetQuota sets remaining and total to total. ResetQuota(0) loses the
// configured budget; prefer MarkExhausted for provider-reported exhaustion.
func (m *Manager) ResetQuota(ctx context.Context, total int) Info {
	q := Info{
		Remaining:   total,
		Total:       total,
		LastUpdated: m.nowMillis(),
		APIKeyIndex: 0,
	}
	m.SetQuotaInfo(ctx, q)
	return q
}

// MarkExhausted flags the active key as out of quota, keeping its total.
func (m *Manager) MarkExhausted(ctx context.Context) Info {
	if m.serverMode() {
		return Info{LastUpdated: m.nowMillis(), Exhausted: true}
	}

	infos := m.loadKeys(ctx)
	for i := range infos {
		if infos[i].IsActive {
			infos[i].Quota.Remaining = 0
			infos[i].Quota.Exhausted = true
			infos[i].Quota.LastUpdated = m.nowMillis()
			m.saveKeys(ctx, infos)
			return infos[i].Quota
		}
	}
	return Info{LastUpdated: m.nowMillis(), Exhausted: true}
}

// APIStatus returns the stored status while it is fresh, offline otherwise.
func (m *Manager) APIStatus(ctx context.Context) Status {
	if m.serverMode() {
		return StatusOffline
	}

	raw := m.load(ctx, keyAPIStatus)
	updated, ok := m.loadMillis(ctx, keyAPIStatusTime)
	if raw == nil || !ok {
		return StatusOffline
	}

	status := Status(raw)
	if !status.valid() || m.nowMillis()-updated >= cacheDuration.Milliseconds() {
		return StatusOffline
	}
	return status
}

func (m *Manager) SetAPIStatus(ctx context.Context, status Status) {
	if m.serverMode() {
		return
	}
	m.save(ctx, keyAPIStatus, []byte(status))
	m.saveMillis(ctx, keyAPIStatusTime, m.nowMillis())
}

func (m *Manager) IsQuotaLow(ctx context.Context) bool {
	q := m.QuotaInfo(ctx)
	return q != nil && q.Remaining <= lowQuotaThreshold
}

func (m *Manager) IsQuotaExhausted(ctx context.Context) bool {
	q := m.QuotaInfo(ctx)
	return q != nil && (q.Remaining <= 0 || q.Exhausted)
}

// ShouldWaitForRateLimit reports whether the last recorded call was less than 2s ago.
func (m *Manager) ShouldWaitForRateLimit(ctx context.Context) bool {
	if m.serverMode() {
		return false
	}

	last, ok := m.loadMillis(ctx, keyLastCallTime)
	if !ok {
		return false
	}
	return m.nowMillis()-last < rateLimitDelay.Milliseconds()
}

func (m *Manager) RecordAPICall(ctx context.Context) {
	if m.serverMode() {
		return
	}
	m.saveMillis(ctx, keyLastCallTime, m.nowMillis())
}

// Reset drops every persisted value, the legacy record included, and re-initializes the keys.
func (m *Manager) Reset(ctx context.Context) {
	if m.serverMode() {
		return
	}

	if err := m.store.Clear(ctx); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Errorf("couldn't clear quota state, removing keys one by one: %v", err)
		for _, key := range []string{keyQuotaInfo, keyAPIStatus, keyAPIStatusTime, keyAPIKeysInfo, keyLastCallTime} {
			if err = m.store.Remove(ctx, key); err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
					Errorf("couldn't remove %s: %v", key, err)
			}
		}
	}
	m.InitializeAPIKeys(ctx)
}

func (m *Manager) loadKeys(ctx context.Context) []APIKeyInfo {
	raw := m.load(ctx, keyAPIKeysInfo)
	if raw == nil {
		return nil
	}

	var infos []APIKeyInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Errorf("couldn't decode %s: %v", keyAPIKeysInfo, err)
		return nil
	}
	return infos
}

func (m *Manager) saveKeys(ctx context.Context, infos []APIKeyInfo) {
	raw, err := json.Marshal(infos)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Errorf("couldn't encode %s: %v", keyAPIKeysInfo, err)
		return
	}
	m.save(ctx, keyAPIKeysInfo, raw)
}

func (m *Manager) loadMillis(ctx context.Context, key string) (int64, bool) {
	raw := m.load(ctx, key)
	if raw == nil {
		return 0, false
	}

	value, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Errorf("couldn't parse %s: %v", key, err)
		return 0, false
	}
	return value, true
}

func (m *Manager) saveMillis(ctx context.Context, key string, value int64) {
	m.save(ctx, key, []byte(strconv.FormatInt(value, 10)))
}

func (m *Manager) load(ctx context.Context, key string) []byte {
	raw, err := m.store.Load(ctx, key)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Errorf("couldn't load %s: %v", key, err)
		return nil
	}
	return raw
}

func (m *Manager) save(ctx context.Context, key string, value []byte) {
	if err := m.store.Save(ctx, key, value); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Errorf("couldn't save %s: %v", key, err)
	}
}

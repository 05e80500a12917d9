package quota

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

type mapStore struct {
	values map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{values: map[string][]byte{}}
}

func (s *mapStore) Save(_ context.Context, key string, value []byte) error {
	s.values[key] = value
	return nil
}

func (s *mapStore) Load(_ context.Context, key string) ([]byte, error) {
	return s.values[key], nil
}

func (s *mapStore) Remove(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func (s *mapStore) Clear(_ context.Context) error {
	s.values = map[string][]byte{}
	return nil
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, string, []byte) error   { return errors.New("disk full") }
func (brokenStore) Load(context.Context, string) ([]byte, error) { return nil, errors.New("io error") }
func (brokenStore) Remove(context.Context, string) error         { return errors.New("io error") }
func (brokenStore) Clear(context.Context) error                  { return errors.New("io error") }

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestManager(keys ...string) (*Manager, *mapStore, *fakeClock) {
	store := newMapStore()
	clock := &fakeClock{current: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return NewManager(keys, store, WithClock(clock.now)), store, clock
}

func Test_Manager_WhenInitialized_ShouldActivatePrimaryWithDefaultQuota(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, store, clock := newTestManager("k1", "", "k3")

	m.InitializeAPIKeys(ctx)

	var infos []APIKeyInfo
	assert.NoError(json.Unmarshal(store.values[keyAPIKeysInfo], &infos))
	assert.Len(infos, 2)
	assert.Equal("k1", infos[0].Key)
	assert.True(infos[0].IsActive)
	assert.Equal("k3", infos[1].Key)
	assert.False(infos[1].IsActive)
	assert.Equal(Info{Remaining: 50, Total: 50, LastUpdated: clock.current.UnixMilli(), APIKeyIndex: 1}, infos[1].Quota)

	key, ok := m.CurrentAPIKey(ctx)
	assert.True(ok)
	assert.Equal("k1", key)
}

func Test_Manager_PersistedJSON_ShouldUseExpectedFieldNames(t *testing.T) {

	ctx := context.Background()
	m, store, _ := newTestManager("k1")
	m.InitializeAPIKeys(ctx)

	var raw []map[string]any
	assert.NoError(t, json.Unmarshal(store.values[keyAPIKeysInfo], &raw))
	assert.Contains(t, raw[0], "key")
	assert.Contains(t, raw[0], "isActive")
	assert.Contains(t, raw[0], "quota")

	quota := raw[0]["quota"].(map[string]any)
	for _, field := range []string{"remaining", "total", "lastUpdated", "apiKeyIndex"} {
		assert.Contains(t, quota, field)
	}
	assert.NotContains(t, quota, "exhausted")
}

func Test_Manager_WhenFreshState_DecreaseQuotaShouldReturn49Of50(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager("k1", "k2")

	q := m.DecreaseQuota(ctx)
	assert.Equal(49, q.Remaining)
	assert.Equal(50, q.Total)
	assert.Equal(0, q.APIKeyIndex)

	stored := m.QuotaInfo(ctx)
	if assert.NotNil(stored) {
		assert.Equal(49, stored.Remaining)
	}
}

func Test_Manager_DecreaseQuota_ShouldNeverGoBelowZero(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, clock := newTestManager("k1")
	m.InitializeAPIKeys(ctx)
	m.ResetQuota(ctx, 3)

	var remaining []int
	for i := 0; i < 6; i++ {
		clock.advance(time.Second)
		remaining = append(remaining, m.DecreaseQuota(ctx).Remaining)
	}

	assert.Equal([]int{2, 1, 0, 0, 0, 0}, remaining)
	assert.Equal(3, m.QuotaInfo(ctx).Total)
}

func Test_Manager_WhenQuotaOlderThanFiveMinutes_ShouldBeAbsent(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, clock := newTestManager("k1")
	m.InitializeAPIKeys(ctx)
	m.DecreaseQuota(ctx)

	clock.advance(4*time.Minute + 59*time.Second)
	assert.NotNil(m.QuotaInfo(ctx))

	clock.advance(time.Second)
	assert.Nil(m.QuotaInfo(ctx))
	assert.False(m.IsQuotaLow(ctx))
	assert.False(m.IsQuotaExhausted(ctx))

	q := m.DecreaseQuota(ctx)
	assert.Equal(49, q.Remaining)
	assert.Equal(50, q.Total)
}

func Test_Manager_RateLimitGate_ShouldBlockForTwoSeconds(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, clock := newTestManager("k1")

	assert.False(m.ShouldWaitForRateLimit(ctx))

	m.RecordAPICall(ctx)
	assert.True(m.ShouldWaitForRateLimit(ctx))

	clock.advance(1999 * time.Millisecond)
	assert.True(m.ShouldWaitForRateLimit(ctx))

	clock.advance(time.Millisecond)
	assert.False(m.ShouldWaitForRateLimit(ctx))
}

func Test_Manager_SwitchToBackup_ShouldActivateIndexOneOnly(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager("k1", "k2", "k3")
	m.InitializeAPIKeys(ctx)

	assert.True(m.HasBackupAPIKey(ctx))
	assert.True(m.SwitchToBackupAPIKey(ctx))

	key, _ := m.CurrentAPIKey(ctx)
	assert.Equal("k2", key)

	assert.True(m.SwitchToBackupAPIKey(ctx))
	key, _ = m.CurrentAPIKey(ctx)
	assert.Equal("k2", key)
}

func Test_Manager_WhenNoBackupConfigured_SwitchShouldFailAndKeepState(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, store, _ := newTestManager("k1")
	m.InitializeAPIKeys(ctx)
	before := string(store.values[keyAPIKeysInfo])

	assert.False(m.HasBackupAPIKey(ctx))
	assert.False(m.SwitchToBackupAPIKey(ctx))
	assert.Equal(before, string(store.values[keyAPIKeysInfo]))
}

func Test_Manager_WhenNothingPersisted_CurrentKeyShouldFallBackToConfig(t *testing.T) {

	ctx := context.Background()
	m, _, _ := newTestManager("", "k2")

	key, ok := m.CurrentAPIKey(ctx)
	assert.True(t, ok)
	assert.Equal(t, "k2", key)

	empty, _, _ := newTestManager()
	_, ok = empty.CurrentAPIKey(ctx)
	assert.False(t, ok)
}

func Test_Manager_ResetQuotaToZero_ShouldMarkExhausted(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager("k1", "k2")
	m.InitializeAPIKeys(ctx)

	q := m.ResetQuota(ctx, 0)
	assert.Equal(Info{Remaining: 0, Total: 0, LastUpdated: q.LastUpdated, APIKeyIndex: 0}, q)
	assert.True(m.IsQuotaExhausted(ctx))
	assert.True(m.IsQuotaLow(ctx))
}

func Test_Manager_MarkExhausted_ShouldKeepTotal(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager("k1", "k2")
	m.InitializeAPIKeys(ctx)
	m.DecreaseQuota(ctx)

	q := m.MarkExhausted(ctx)
	assert.True(q.Exhausted)
	assert.Equal(0, q.Remaining)
	assert.Equal(50, q.Total)
	assert.True(m.IsQuotaExhausted(ctx))

	assert.True(m.SwitchToBackupAPIKey(ctx))
	assert.False(m.IsQuotaExhausted(ctx))
}

func Test_Manager_IsQuotaLow_ShouldUseThresholdOfHundred(t *testing.T) {

	ctx := context.Background()
	m, _, _ := newTestManager("k1")
	m.InitializeAPIKeys(ctx)

	m.ResetQuota(ctx, 101)
	assert.False(t, m.IsQuotaLow(ctx))

	m.ResetQuota(ctx, 100)
	assert.True(t, m.IsQuotaLow(ctx))
}

func Test_Manager_APIStatus_ShouldExpireAfterFiveMinutes(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, store, clock := newTestManager("k1")

	assert.Equal(StatusOffline, m.APIStatus(ctx))

	m.SetAPIStatus(ctx, StatusQuotaExceeded)
	assert.Equal(StatusQuotaExceeded, m.APIStatus(ctx))

	clock.advance(5 * time.Minute)
	assert.Equal(StatusOffline, m.APIStatus(ctx))

	m.SetAPIStatus(ctx, StatusOnline)
	store.values[keyAPIStatus] = []byte("sleeping")
	assert.Equal(StatusOffline, m.APIStatus(ctx))
}

func Test_Manager_WhenServerMode_ShouldReturnDefaults(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	clock := &fakeClock{current: time.UnixMilli(1_700_000_000_000)}
	m := NewManager([]string{"k1", "k2"}, nil, WithClock(clock.now))

	m.InitializeAPIKeys(ctx)
	m.RecordAPICall(ctx)
	m.SetAPIStatus(ctx, StatusOnline)

	key, ok := m.CurrentAPIKey(ctx)
	assert.True(ok)
	assert.Equal("k1", key)
	assert.True(m.HasBackupAPIKey(ctx))
	assert.False(m.SwitchToBackupAPIKey(ctx))
	assert.Nil(m.QuotaInfo(ctx))
	assert.Equal(Info{LastUpdated: clock.current.UnixMilli()}, m.DecreaseQuota(ctx))
	assert.Equal(StatusOffline, m.APIStatus(ctx))
	assert.False(m.ShouldWaitForRateLimit(ctx))
	assert.False(m.IsQuotaExhausted(ctx))
}

func Test_Manager_WhenStoreFails_ShouldDegradeToDefaults(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m := NewManager([]string{"k1", "k2"}, brokenStore{})

	m.InitializeAPIKeys(ctx)
	m.RecordAPICall(ctx)
	m.Reset(ctx)

	key, ok := m.CurrentAPIKey(ctx)
	assert.True(ok)
	assert.Equal("k1", key)
	assert.Nil(m.QuotaInfo(ctx))
	assert.False(m.ShouldWaitForRateLimit(ctx))
	assert.Equal(StatusOffline, m.APIStatus(ctx))
	assert.Equal(49, m.DecreaseQuota(ctx).Remaining)
}

func Test_Manager_WhenStoredStateCorrupted_ShouldTreatAsAbsent(t *testing.T) {

	ctx := context.Background()
	m, store, _ := newTestManager("k1")
	store.values[keyAPIKeysInfo] = []byte("{not json")
	store.values[keyLastCallTime] = []byte("yesterday")

	assert.Nil(t, m.QuotaInfo(ctx))
	assert.False(t, m.ShouldWaitForRateLimit(ctx))
}

func Test_Manager_Reset_ShouldDropStateAndReinitialize(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()
	m, store, _ := newTestManager("k1", "k2")
	m.InitializeAPIKeys(ctx)
	m.SwitchToBackupAPIKey(ctx)
	m.RecordAPICall(ctx)
	store.values[keyQuotaInfo] = []byte(`{"remaining":1}`)

	m.Reset(ctx)

	assert.NotContains(store.values, keyQuotaInfo)
	assert.NotContains(store.values, keyLastCallTime)
	key, _ := m.CurrentAPIKey(ctx)
	assert.Equal("k1", key)
}

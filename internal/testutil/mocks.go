package testutil

import (
	"context"
	"sync"
	"time"

	"punchd/internal/models"
	"punchd/internal/providers"
	"punchd/internal/slack"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockTokenProvider implements providers.TokenProviderInterface.
type MockTokenProvider struct {
	TokenVal string
}

func (m *MockTokenProvider) Token() string       { return m.TokenVal }
func (m *MockTokenProvider) HasCredential() bool { return m.TokenVal != "" }

// CountingMetrics implements providers.MetricsProviderInterface and counts
// every call by name.
type CountingMetrics struct {
	mu     sync.Mutex
	Counts map[string]int
}

func NewCountingMetrics() *CountingMetrics {
	return &CountingMetrics{Counts: make(map[string]int)}
}

func (m *CountingMetrics) inc(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counts[name]++
}

func (m *CountingMetrics) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counts[name]
}

func (m *CountingMetrics) IncRequestsTotal(endpoint string, status int) {
	m.inc("requests:" + endpoint)
}
func (m *CountingMetrics) ObserveRequestDuration(endpoint string, _ time.Duration) {
	m.inc("request_duration:" + endpoint)
}
func (m *CountingMetrics) IncCacheHits()   { m.inc("cache_hits") }
func (m *CountingMetrics) IncCacheMisses() { m.inc("cache_misses") }
func (m *CountingMetrics) IncSlackCalls(method string, ok bool) {
	if ok {
		m.inc("slack:" + method + ":ok")
	} else {
		m.inc("slack:" + method + ":error")
	}
}
func (m *CountingMetrics) ObserveResolveDuration(_ time.Duration) { m.inc("resolve_duration") }
func (m *CountingMetrics) ObservePunchDuration(_ time.Duration)   { m.inc("punch_duration") }
func (m *CountingMetrics) IncPostsTotal(outcome string)           { m.inc("posts:" + outcome) }
func (m *CountingMetrics) IncPresenceUpdates(ok bool) {
	if ok {
		m.inc("presence:ok")
	} else {
		m.inc("presence:error")
	}
}
func (m *CountingMetrics) SetTargetsTotal(_ int)   { m.inc("targets_set") }
func (m *CountingMetrics) SetLifecycleState(_ int) { m.inc("state_set") }

// MockStore implements settings.StoreInterface with injectable contents.
type MockStore struct {
	mu        sync.Mutex
	Settings  *models.AppSettings
	Result    models.ValidationResult
	SaveCalls []*models.AppSettings
	ResetCnt  int
	SaveErr   error
	ResetErr  error
	// OnReset, when set, runs after a successful Reset so tests can swap
	// the stored document the way a real wipe would.
	OnReset func(m *MockStore)
}

func (m *MockStore) Load() (*models.AppSettings, models.ValidationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Settings, m.Result
}

func (m *MockStore) Save(s *models.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls = append(m.SaveCalls, s)
	m.Settings = s
	return nil
}

func (m *MockStore) Reset() error {
	m.mu.Lock()
	m.ResetCnt++
	err := m.ResetErr
	onReset := m.OnReset
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if onReset != nil {
		onReset(m)
	}
	return nil
}

// MockSlackClient implements slack.ClientInterface with injectable behavior
// and call recording.
type MockSlackClient struct {
	mu sync.Mutex

	InfoFn     func(channelID string) (*slack.ChannelInfo, error)
	HistoryFn  func(channelID string, oldest time.Time) ([]slack.HistoryMessage, error)
	PostFn     func(channelID, text, threadTs string) (*slack.PostResult, error)
	PresenceFn func(emoji, text string, expiration int64) error

	InfoCalls     int
	HistoryCalls  int
	PostCalls     []PostCall
	PresenceCalls []PresenceCall

	NoCredential bool
}

type PostCall struct {
	ChannelID string
	Text      string
	ThreadTs  string
}

type PresenceCall struct {
	Emoji      string
	Text       string
	Expiration int64
}

func (m *MockSlackClient) HasCredential() bool { return !m.NoCredential }

// PostCallCount is safe to poll while a fan-out is still running.
func (m *MockSlackClient) PostCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PostCalls)
}

func (m *MockSlackClient) GetConversationInfo(_ context.Context, channelID string) (*slack.ChannelInfo, error) {
	m.mu.Lock()
	m.InfoCalls++
	fn := m.InfoFn
	m.mu.Unlock()
	if m.NoCredential {
		return nil, slack.ErrNoCredential
	}
	if fn != nil {
		return fn(channelID)
	}
	return &slack.ChannelInfo{ID: channelID, Name: "general", ContextTeamID: "T001"}, nil
}

func (m *MockSlackClient) GetConversationHistory(_ context.Context, channelID string, oldest time.Time) ([]slack.HistoryMessage, error) {
	m.mu.Lock()
	m.HistoryCalls++
	fn := m.HistoryFn
	m.mu.Unlock()
	if m.NoCredential {
		return nil, slack.ErrNoCredential
	}
	if fn != nil {
		return fn(channelID, oldest)
	}
	return nil, nil
}

func (m *MockSlackClient) PostMessage(_ context.Context, channelID, text, threadTs string) (*slack.PostResult, error) {
	m.mu.Lock()
	m.PostCalls = append(m.PostCalls, PostCall{ChannelID: channelID, Text: text, ThreadTs: threadTs})
	fn := m.PostFn
	m.mu.Unlock()
	if m.NoCredential {
		return nil, slack.ErrNoCredential
	}
	if fn != nil {
		return fn(channelID, text, threadTs)
	}
	return &slack.PostResult{Channel: channelID, Ts: "1.0"}, nil
}

func (m *MockSlackClient) SetPresence(_ context.Context, emoji, text string, expiration int64) error {
	m.mu.Lock()
	m.PresenceCalls = append(m.PresenceCalls, PresenceCall{Emoji: emoji, Text: text, Expiration: expiration})
	fn := m.PresenceFn
	m.mu.Unlock()
	if m.NoCredential {
		return slack.ErrNoCredential
	}
	if fn != nil {
		return fn(emoji, text, expiration)
	}
	return nil
}

package services

import (
	"sync"

	"go.uber.org/atomic"

	"punchd/internal/models"
	"punchd/internal/providers"
	"punchd/internal/settings"
)

type LifecycleState int32

const (
	StateNeedsAuth LifecycleState = iota
	StateNeedsReset
	StateNeedsSetup
	StateReady
)

func (s LifecycleState) String() string {
	switch s {
	case StateNeedsAuth:
		return "needs-auth"
	case StateNeedsReset:
		return "needs-reset"
	case StateNeedsSetup:
		return "needs-setup"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

type LifecycleServiceInterface interface {
	Refresh() LifecycleState
	State() LifecycleState
	Settings() (*models.AppSettings, models.ValidationResult)
	Reset() (LifecycleState, error)
}

// LifecycleService decides what the daemon is allowed to do with the current
// credential and settings document. NeedsReset is sticky: it never decays to
// Ready on its own, only an explicit Reset leaves it, so data loss is always
// acknowledged by the user.
type LifecycleService struct {
	store  settings.StoreInterface
	tokens providers.TokenProviderInterface
	metrics providers.MetricsProviderInterface
	logger providers.Logger

	state atomic.Int32

	mu         sync.Mutex
	settings   *models.AppSettings
	validation models.ValidationResult
}

func NewLifecycleService(store settings.StoreInterface, tokens providers.TokenProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) LifecycleServiceInterface {
	s := &LifecycleService{
		store:   store,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}
	s.Refresh()
	return s
}

// Refresh reloads the settings document and re-evaluates the state.
func (s *LifecycleService) Refresh() LifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, result := s.store.Load()
	s.settings = cfg
	s.validation = result

	state := s.evaluate(cfg, result)
	s.state.Store(int32(state))
	s.metrics.SetLifecycleState(int(state))
	if cfg != nil {
		s.metrics.SetTargetsTotal(len(cfg.Conversations))
	}
	s.logger.Debugf(providers.TypeSettings, "Lifecycle state: %s", state)
	return state
}

func (s *LifecycleService) evaluate(cfg *models.AppSettings, result models.ValidationResult) LifecycleState {
	if !s.tokens.HasCredential() {
		return StateNeedsAuth
	}
	if !result.Valid {
		return StateNeedsReset
	}
	if !cfg.FirstChannelConfigured() {
		return StateNeedsSetup
	}
	return StateReady
}

func (s *LifecycleService) State() LifecycleState {
	return LifecycleState(s.state.Load())
}

// Settings returns the snapshot captured by the last Refresh. The typed
// settings are nil whenever the validation result is not valid.
func (s *LifecycleService) Settings() (*models.AppSettings, models.ValidationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, s.validation
}

// Reset wipes the persisted document and re-evaluates. This is the only way
// out of NeedsReset.
func (s *LifecycleService) Reset() (LifecycleState, error) {
	if err := s.store.Reset(); err != nil {
		return s.State(), err
	}
	s.logger.Infof(providers.TypeSettings, "Settings reset to defaults")
	return s.Refresh(), nil
}

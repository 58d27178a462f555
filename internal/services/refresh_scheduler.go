package services

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"punchd/internal/providers"
	"punchd/internal/services/interfaces"
	"punchd/internal/structures"
)

// RefreshScheduler periodically re-evaluates the lifecycle and re-resolves
// conversations so the channel-info cache stays warm and a new day picks up
// fresh threads. This is a policy layer: a manual resolve works the same
// without it.
type RefreshScheduler struct {
	config    *structures.Config
	logger    providers.Logger
	lifecycle LifecycleServiceInterface
	resolver  ResolverServiceInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *RefreshScheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Resolver.RefreshInterval), func() {
		if err := s.Refresh(); err != nil {
			s.logger.Errorf(providers.TypeResolve, "Scheduled refresh failed: %s", err)
		}
	})

	s.cron.Start()
}

func (s *RefreshScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *RefreshScheduler) Refresh() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	state := s.lifecycle.Refresh()
	if state != StateReady {
		s.logger.Debugf(providers.TypeResolve, "Skipping refresh, lifecycle state is %s", state)
		return nil
	}

	cfg, _ := s.lifecycle.Settings()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Slack.Timeout*2)
	defer cancel()

	resolved := s.resolver.Resolve(ctx, cfg.Conversations)
	s.logger.Infof(providers.TypeResolve, "Refreshed %d conversation targets", len(resolved))
	return nil
}

func NewRefreshScheduler(config *structures.Config, logger providers.Logger, lifecycle LifecycleServiceInterface, resolver ResolverServiceInterface) interfaces.SchedulerInterface {
	return &RefreshScheduler{
		config:    config,
		logger:    logger,
		lifecycle: lifecycle,
		resolver:  resolver,
	}
}

package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"punchd/internal/models"
	"punchd/internal/providers"
	"punchd/internal/slack"
	"punchd/internal/structures"
)

type ResolverServiceInterface interface {
	Resolve(ctx context.Context, targets []models.Conversation) []models.ResolvedConversation
}

// ResolverService matches configured targets against live channel data.
// Every target resolves concurrently and independently: one dead channel
// degrades that single entry, never the batch.
type ResolverService struct {
	client     slack.ClientInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
	logger     providers.Logger
	oldestHour int
	now        func() time.Time
}

func NewResolverService(conf *structures.Config, client slack.ClientInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) ResolverServiceInterface {
	return &ResolverService{
		client:     client,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		oldestHour: conf.Resolver.OldestHour,
		now:        time.Now,
	}
}

// Resolve returns one snapshot per input target, in input order, keyed by
// the target's stable id.
func (rs *ResolverService) Resolve(ctx context.Context, targets []models.Conversation) []models.ResolvedConversation {
	start := time.Now()
	results := make([]models.ResolvedConversation, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target models.Conversation) {
			defer wg.Done()
			results[i] = rs.resolveOne(ctx, target)
		}(i, target)
	}
	wg.Wait()

	rs.metrics.ObserveResolveDuration(time.Since(start))
	return results
}

func (rs *ResolverService) resolveOne(ctx context.Context, target models.Conversation) models.ResolvedConversation {
	result := models.ResolvedConversation{
		ID:        target.ID,
		ChannelID: target.ChannelID,
	}
	if target.ChannelID == "" {
		return result
	}

	// Identity and history have no data dependency on each other, so both
	// fetches go out at once.
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		info, err := rs.channelInfo(ctx, target.ChannelID)
		if err != nil {
			rs.logFetchError(target.ChannelID, "channel info", err)
			return
		}
		result.ChannelName = info.Name
		result.WorkspaceID = info.ContextTeamID
	}()

	if target.SearchMessage != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			messages, err := rs.client.GetConversationHistory(ctx, target.ChannelID, rs.oldestBound())
			if err != nil {
				rs.logFetchError(target.ChannelID, "history", err)
				return
			}
			// Messages arrive newest first; the first substring match is
			// the most recently started thread and wins.
			for _, msg := range messages {
				if msg.Type != "message" {
					continue
				}
				if strings.Contains(msg.Text, target.SearchMessage) {
					result.ThreadTs = msg.Ts
					result.ThreadText = msg.Text
					break
				}
			}
		}()
	}

	wg.Wait()
	return result
}

func (rs *ResolverService) channelInfo(ctx context.Context, channelID string) (*slack.ChannelInfo, error) {
	cacheKey := "info:" + channelID
	if data, ok := rs.cache.Get(cacheKey); ok {
		var info slack.ChannelInfo
		if err := json.Unmarshal(data, &info); err == nil {
			return &info, nil
		}
	}

	info, err := rs.client.GetConversationInfo(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(info); err == nil {
		rs.cache.Set(cacheKey, data)
	}
	return info, nil
}

// oldestBound scopes history to today's attendance window. The fixed
// early-morning lower bound keeps yesterday's thread from matching.
func (rs *ResolverService) oldestBound() time.Time {
	now := rs.now()
	return time.Date(now.Year(), now.Month(), now.Day(), rs.oldestHour, 0, 0, 0, now.Location())
}

func (rs *ResolverService) logFetchError(channelID, what string, err error) {
	if errors.Is(err, slack.ErrNoCredential) {
		rs.logger.Debugf(providers.TypeResolve, "Skipped %s fetch for %s: no credential", what, channelID)
		return
	}
	rs.logger.Warnf(providers.TypeResolve, "Failed to fetch %s for %s: %s", what, channelID, err)
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"

	"punchd/internal/models"
	"punchd/internal/providers"
	"punchd/internal/settings"
	"punchd/internal/slack"
)

var (
	ErrSettingsInvalid = errors.New("settings are invalid, reset required")
	ErrPunchInFlight   = errors.New("another punch submission is in flight")
)

const statusLifetime = 9 * time.Hour

type PunchServiceInterface interface {
	SubmitPunch(ctx context.Context, action models.PunchAction, draft models.PunchDraft, resolved []models.ResolvedConversation) ([]models.PunchOutcome, error)
}

// PunchService fans one attendance message out across every resolved
// conversation and optionally updates the presence status. Failures stay
// local to their channel; the batch always runs to completion and reports
// one outcome per conversation.
type PunchService struct {
	client   slack.ClientInterface
	store    settings.StoreInterface
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
	now      func() time.Time
	inFlight atomic.Bool
}

func NewPunchService(client slack.ClientInterface, store settings.StoreInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) PunchServiceInterface {
	return &PunchService{
		client:  client,
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (ps *PunchService) SubmitPunch(ctx context.Context, action models.PunchAction, draft models.PunchDraft, resolved []models.ResolvedConversation) ([]models.PunchOutcome, error) {
	if !ps.inFlight.CompareAndSwap(false, true) {
		return nil, ErrPunchInFlight
	}
	defer ps.inFlight.Store(false)

	start := time.Now()
	cfg, result := ps.store.Load()
	if !result.Valid {
		return nil, ErrSettingsInvalid
	}

	body := buildMessage(action, draft, cfg.Messages)
	outcomes := make([]models.PunchOutcome, len(resolved))

	var wg sync.WaitGroup

	// Presence is a user-level attribute, updated once per punch, not per
	// channel. It runs alongside the fan-out; neither waits for the other.
	if draft.ChangeStatusEmoji {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ps.updatePresence(ctx, action, draft, cfg)
		}()
	}

	for i, conv := range resolved {
		wg.Add(1)
		go func(i int, conv models.ResolvedConversation) {
			defer wg.Done()
			outcomes[i] = ps.post(ctx, conv, body)
		}(i, conv)
	}
	wg.Wait()

	// Convenience write so the next session pre-fills the form. Outside
	// the validity contract, so a failure is only logged.
	cfg.SavedDraft = &draft
	if err := ps.store.Save(cfg); err != nil {
		ps.logger.Warnf(providers.TypePunch, "Failed to save punch draft: %s", err)
	}

	ps.metrics.ObservePunchDuration(time.Since(start))
	return outcomes, nil
}

func (ps *PunchService) post(ctx context.Context, conv models.ResolvedConversation, body string) models.PunchOutcome {
	outcome := models.PunchOutcome{ID: conv.ID, ChannelID: conv.ChannelID}

	if conv.ChannelID == "" {
		outcome.Skipped = true
		ps.metrics.IncPostsTotal("skipped")
		return outcome
	}

	_, err := ps.client.PostMessage(ctx, conv.ChannelID, body, conv.ThreadTs)
	switch {
	case errors.Is(err, slack.ErrNoCredential):
		outcome.Skipped = true
		ps.metrics.IncPostsTotal("skipped")
	case err != nil:
		outcome.Error = err.Error()
		ps.metrics.IncPostsTotal("failed")
		ps.logger.Errorf(providers.TypePunch, "Failed to post to %s: %s", conv.ChannelID, err)
	default:
		outcome.Ok = true
		ps.metrics.IncPostsTotal("delivered")
	}
	return outcome
}

func (ps *PunchService) updatePresence(ctx context.Context, action models.PunchAction, draft models.PunchDraft, cfg *models.AppSettings) {
	var emoji, text string
	var expiration int64

	if action == models.PunchStart {
		expiration = ps.now().Add(statusLifetime).Unix()
		if draft.InOffice {
			emoji, text = cfg.Status.Emoji.Office, cfg.Status.Text.Office
		} else {
			emoji, text = cfg.Status.Emoji.Telework, cfg.Status.Text.Telework
		}
	} else {
		expiration = ps.nextMidnight().Unix()
		emoji, text = cfg.Status.Emoji.Leave, cfg.Status.Text.Leave
	}

	err := ps.client.SetPresence(ctx, emoji, text, expiration)
	switch {
	case errors.Is(err, slack.ErrNoCredential):
		ps.logger.Debugf(providers.TypePunch, "Skipped presence update: no credential")
	case err != nil:
		ps.metrics.IncPresenceUpdates(false)
		ps.logger.Errorf(providers.TypePunch, "Failed to update presence: %s", err)
	default:
		ps.metrics.IncPresenceUpdates(true)
	}
}

// nextMidnight is the first local midnight strictly after now, so an
// end-of-day status never survives into the next workday.
func (ps *PunchService) nextMidnight() time.Time {
	now := ps.now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}

func buildMessage(action models.PunchAction, draft models.PunchDraft, templates *models.MessageTemplates) string {
	if templates == nil {
		templates = settings.DefaultMessageTemplates()
	}

	label := templates.WorkTypes.Telework
	actions := templates.Actions.Telework
	if draft.InOffice {
		label = templates.WorkTypes.Office
		actions = templates.Actions.Office
	}

	phrase := actions.Start
	if action == models.PunchEnd {
		phrase = actions.End
	}

	return label + phrase + "\n" + draft.AdditionalMessage
}

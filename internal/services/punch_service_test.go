package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchd/internal/models"
	"punchd/internal/settings"
	"punchd/internal/slack"
	"punchd/internal/testutil"
)

func validStoredSettings() *models.AppSettings {
	return &models.AppSettings{
		Version: models.SettingsVersion,
		Conversations: []models.Conversation{
			{ID: "a", ChannelID: "C001"},
		},
		Status: models.StatusSetting{
			Emoji: models.WorkStatus{Office: ":office:", Telework: ":house_with_garden:", Leave: ":soon:"},
			Text:  models.WorkStatus{Office: "出社しています", Telework: "テレワーク", Leave: "退勤しています"},
		},
	}
}

func newTestPunchService(client *testutil.MockSlackClient, store *testutil.MockStore) *PunchService {
	return NewPunchService(client, store, testutil.NewCountingMetrics(), &testutil.MockLogger{}).(*PunchService)
}

func TestSubmitPunchPostsToEveryConversation(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	resolved := []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001", ThreadTs: "100.0"},
		{ID: "b", ChannelID: "C002"},
	}
	draft := models.PunchDraft{InOffice: true, AdditionalMessage: "本日もよろしくお願いします"}

	outcomes, err := ps.SubmitPunch(context.Background(), models.PunchStart, draft, resolved)

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Ok)
	assert.True(t, outcomes[1].Ok)

	require.Len(t, client.PostCalls, 2)
	for _, call := range client.PostCalls {
		assert.Equal(t, "業務開始します\n本日もよろしくお願いします", call.Text)
	}
	byChannel := map[string]string{}
	for _, call := range client.PostCalls {
		byChannel[call.ChannelID] = call.ThreadTs
	}
	assert.Equal(t, "100.0", byChannel["C001"])
	assert.Empty(t, byChannel["C002"])
}

func TestSubmitPunchTeleworkEndMessage(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	_, err := ps.SubmitPunch(context.Background(), models.PunchEnd, models.PunchDraft{}, []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001"},
	})

	require.NoError(t, err)
	require.Len(t, client.PostCalls, 1)
	assert.Equal(t, "テレワーク終了します\n", client.PostCalls[0].Text)
}

func TestSubmitPunchUsesConfiguredTemplates(t *testing.T) {
	client := &testutil.MockSlackClient{}
	cfg := validStoredSettings()
	cfg.Messages = &models.MessageTemplates{
		WorkTypes: models.WorkTypeLabels{Office: "Office work ", Telework: "Remote work "},
		Actions: models.ActionTemplates{
			Office:   models.ActionTemplate{Start: "begins", End: "ends"},
			Telework: models.ActionTemplate{Start: "starts", End: "stops"},
		},
	}
	store := &testutil.MockStore{Settings: cfg, Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{InOffice: true}, []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001"},
	})

	require.NoError(t, err)
	require.Len(t, client.PostCalls, 1)
	assert.Equal(t, "Office work begins\n", client.PostCalls[0].Text)
}

func TestSubmitPunchMiddleFailureDoesNotStopTheFanOut(t *testing.T) {
	client := &testutil.MockSlackClient{
		PostFn: func(channelID, text, threadTs string) (*slack.PostResult, error) {
			if channelID == "C002" {
				return nil, errors.New("is_archived")
			}
			return &slack.PostResult{Channel: channelID, Ts: "1.0"}, nil
		},
	}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	resolved := []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001"},
		{ID: "b", ChannelID: "C002"},
		{ID: "c", ChannelID: "C003"},
	}

	outcomes, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, resolved)

	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Ok)
	assert.False(t, outcomes[1].Ok)
	assert.Equal(t, "is_archived", outcomes[1].Error)
	assert.True(t, outcomes[2].Ok)
	assert.Len(t, client.PostCalls, 3)
}

func TestSubmitPunchBlankChannelSkipped(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	outcomes, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, []models.ResolvedConversation{
		{ID: "a"},
		{ID: "b", ChannelID: "C002"},
	})

	require.NoError(t, err)
	assert.True(t, outcomes[0].Skipped)
	assert.False(t, outcomes[0].Ok)
	assert.True(t, outcomes[1].Ok)
	assert.Len(t, client.PostCalls, 1)
}

func TestSubmitPunchNoCredentialSkipsInsteadOfFailing(t *testing.T) {
	client := &testutil.MockSlackClient{NoCredential: true}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	outcomes, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001"},
	})

	require.NoError(t, err)
	assert.True(t, outcomes[0].Skipped)
	assert.Empty(t, outcomes[0].Error)
}

func TestSubmitPunchInvalidSettingsRejected(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Result: models.InvalidResult(models.ReasonVersionMismatch, nil, nil)}
	ps := newTestPunchService(client, store)

	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, nil)

	assert.ErrorIs(t, err, ErrSettingsInvalid)
	assert.Empty(t, client.PostCalls)
}

func TestSubmitPunchStartPresenceExpiry(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)
	fixed := time.Date(2026, 3, 2, 9, 15, 0, 0, time.Local)
	ps.now = func() time.Time { return fixed }

	draft := models.PunchDraft{ChangeStatusEmoji: true, InOffice: true}
	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, draft, []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001"},
		{ID: "b", ChannelID: "C002"},
		{ID: "c", ChannelID: "C003"},
	})

	require.NoError(t, err)
	require.Len(t, client.PresenceCalls, 1, "presence is per punch, not per channel")
	call := client.PresenceCalls[0]
	assert.Equal(t, ":office:", call.Emoji)
	assert.Equal(t, "出社しています", call.Text)
	assert.Equal(t, fixed.Add(9*time.Hour).Unix(), call.Expiration)
}

func TestSubmitPunchTeleworkPresence(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	draft := models.PunchDraft{ChangeStatusEmoji: true, InOffice: false}
	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, draft, nil)

	require.NoError(t, err)
	require.Len(t, client.PresenceCalls, 1)
	assert.Equal(t, ":house_with_garden:", client.PresenceCalls[0].Emoji)
	assert.Equal(t, "テレワーク", client.PresenceCalls[0].Text)
}

func TestSubmitPunchEndPresenceExpiresAtNextMidnight(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)
	fixed := time.Date(2026, 3, 2, 23, 59, 59, 0, time.Local)
	ps.now = func() time.Time { return fixed }

	draft := models.PunchDraft{ChangeStatusEmoji: true}
	_, err := ps.SubmitPunch(context.Background(), models.PunchEnd, draft, nil)

	require.NoError(t, err)
	require.Len(t, client.PresenceCalls, 1)
	call := client.PresenceCalls[0]
	assert.Equal(t, ":soon:", call.Emoji)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local).Unix(), call.Expiration)
}

func TestSubmitPunchNoPresenceWhenNotRequested(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, nil)

	require.NoError(t, err)
	assert.Empty(t, client.PresenceCalls)
}

func TestSubmitPunchSavesDraftForNextSession(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	draft := models.PunchDraft{ChangeStatusEmoji: true, InOffice: true, AdditionalMessage: "memo"}
	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, draft, nil)

	require.NoError(t, err)
	require.Len(t, store.SaveCalls, 1)
	require.NotNil(t, store.SaveCalls[0].SavedDraft)
	assert.Equal(t, draft, *store.SaveCalls[0].SavedDraft)
}

func TestSubmitPunchDraftSaveFailureIsNotFatal(t *testing.T) {
	client := &testutil.MockSlackClient{}
	store := &testutil.MockStore{
		Settings: validStoredSettings(),
		Result:   models.ValidResult(),
		SaveErr:  errors.New("disk full"),
	}
	ps := newTestPunchService(client, store)

	outcomes, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, []models.ResolvedConversation{
		{ID: "a", ChannelID: "C001"},
	})

	require.NoError(t, err)
	assert.True(t, outcomes[0].Ok)
}

func TestSubmitPunchInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	client := &testutil.MockSlackClient{
		PostFn: func(channelID, text, threadTs string) (*slack.PostResult, error) {
			<-release
			return &slack.PostResult{Channel: channelID, Ts: "1.0"}, nil
		},
	}
	store := &testutil.MockStore{Settings: validStoredSettings(), Result: models.ValidResult()}
	ps := newTestPunchService(client, store)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, []models.ResolvedConversation{
			{ID: "a", ChannelID: "C001"},
		})
		assert.NoError(t, err)
	}()

	// Wait until the first submission is blocked inside the fan-out.
	require.Eventually(t, func() bool {
		return client.PostCallCount() == 1
	}, time.Second, time.Millisecond)

	_, err := ps.SubmitPunch(context.Background(), models.PunchStart, models.PunchDraft{}, nil)
	assert.ErrorIs(t, err, ErrPunchInFlight)

	close(release)
	wg.Wait()
}

func TestBuildMessageFallsBackToDefaultTemplates(t *testing.T) {
	body := buildMessage(models.PunchEnd, models.PunchDraft{InOffice: true}, nil)

	defaults := settings.DefaultMessageTemplates()
	assert.Equal(t, defaults.WorkTypes.Office+defaults.Actions.Office.End+"\n", body)
}

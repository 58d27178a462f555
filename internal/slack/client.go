package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"punchd/internal/providers"
	"punchd/internal/structures"
)

// ErrNoCredential marks calls skipped because no bearer token is held.
// Callers treat it as a deliberate no-op, not a failure.
var ErrNoCredential = errors.New("no slack credential configured")

type ClientInterface interface {
	GetConversationInfo(ctx context.Context, channelID string) (*ChannelInfo, error)
	GetConversationHistory(ctx context.Context, channelID string, oldest time.Time) ([]HistoryMessage, error)
	PostMessage(ctx context.Context, channelID, text, threadTs string) (*PostResult, error)
	SetPresence(ctx context.Context, emoji, text string, expiration int64) error
	HasCredential() bool
}

// Client talks to the Slack Web API with form-encoded POSTs. The http.Client
// timeout bounds every call so one unreachable channel cannot stall a batch.
type Client struct {
	baseUrl    string
	tokens     providers.TokenProviderInterface
	metrics    providers.MetricsProviderInterface
	logger     providers.Logger
	httpClient *http.Client
}

func NewClient(conf *structures.Config, tokens providers.TokenProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) ClientInterface {
	return &Client{
		baseUrl: strings.TrimRight(conf.Slack.BaseUrl, "/"),
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: conf.Slack.Timeout,
		},
	}
}

func (c *Client) HasCredential() bool {
	return c.tokens.HasCredential()
}

func (c *Client) call(ctx context.Context, method string, form url.Values, out any) error {
	if !c.tokens.HasCredential() {
		return ErrNoCredential
	}
	form.Set("token", c.tokens.Token())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncSlackCalls(method, false)
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncSlackCalls(method, false)
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.IncSlackCalls(method, false)
		return fmt.Errorf("%s: %w", method, err)
	}

	c.metrics.IncSlackCalls(method, true)
	return nil
}

func (c *Client) GetConversationInfo(ctx context.Context, channelID string) (*ChannelInfo, error) {
	form := url.Values{}
	form.Set("channel", channelID)

	var resp conversationsInfoResponse
	if err := c.call(ctx, "conversations.info", form, &resp); err != nil {
		return nil, err
	}
	if !resp.Ok || resp.Channel == nil {
		return nil, fmt.Errorf("conversations.info: %s", apiError(resp.Error))
	}
	return resp.Channel, nil
}

func (c *Client) GetConversationHistory(ctx context.Context, channelID string, oldest time.Time) ([]HistoryMessage, error) {
	form := url.Values{}
	form.Set("channel", channelID)
	form.Set("oldest", strconv.FormatInt(oldest.Unix(), 10))

	var resp conversationsHistoryResponse
	if err := c.call(ctx, "conversations.history", form, &resp); err != nil {
		return nil, err
	}
	if !resp.Ok {
		return nil, fmt.Errorf("conversations.history: %s", apiError(resp.Error))
	}
	return resp.Messages, nil
}

func (c *Client) PostMessage(ctx context.Context, channelID, text, threadTs string) (*PostResult, error) {
	form := url.Values{}
	form.Set("channel", channelID)
	form.Set("text", text)
	form.Set("unfurl_media", "false")
	if threadTs != "" {
		form.Set("thread_ts", threadTs)
	}

	var resp postMessageResponse
	if err := c.call(ctx, "chat.postMessage", form, &resp); err != nil {
		return nil, err
	}
	if !resp.Ok {
		return nil, fmt.Errorf("chat.postMessage: %s", apiError(resp.Error))
	}
	return &PostResult{Channel: resp.Channel, Ts: resp.Ts}, nil
}

func (c *Client) SetPresence(ctx context.Context, emoji, text string, expiration int64) error {
	profile, err := json.Marshal(map[string]any{
		"status_emoji":      emoji,
		"status_text":       text,
		"status_expiration": expiration,
	})
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("profile", string(profile))

	var resp profileSetResponse
	if err := c.call(ctx, "users.profile.set", form, &resp); err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("users.profile.set: %s", apiError(resp.Error))
	}
	return nil
}

func apiError(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}

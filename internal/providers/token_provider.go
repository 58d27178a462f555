package providers

import (
	"os"
	"strings"

	"punchd/internal/structures"
)

type TokenProviderInterface interface {
	Token() string
	HasCredential() bool
}

// TokenProvider holds the bearer credential for the messaging API. The
// token is read once at startup from an env var or a file; refreshing it is
// the login collaborator's job. A missing credential is not an error — every
// API call is skipped until one appears on restart.
type TokenProvider struct {
	token string
}

func NewTokenProvider(conf *structures.Config, logger Logger) TokenProviderInterface {
	token := ""

	if conf.Slack.TokenEnv != "" {
		token = os.Getenv(conf.Slack.TokenEnv)
	}
	if token == "" && conf.Slack.TokenFile != "" {
		data, err := os.ReadFile(conf.Slack.TokenFile)
		if err != nil {
			logger.Warnf(TypeApp, "Failed to read token file %s: %s", conf.Slack.TokenFile, err)
		} else {
			token = strings.TrimSpace(string(data))
		}
	}

	if token == "" {
		logger.Warnf(TypeApp, "No Slack credential configured, API calls will be skipped")
	}

	return &TokenProvider{token: token}
}

func (p *TokenProvider) Token() string {
	return p.token
}

func (p *TokenProvider) HasCredential() bool {
	return p.token != ""
}

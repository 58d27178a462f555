package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"punchd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("slack.baseUrl", "https://slack.com/api")
	viper.SetDefault("slack.timeout", "10s")
	viper.SetDefault("resolver.oldestHour", 6)

	viper.BindEnv("logger.level", "PUNCHD_LOG_LEVEL")
	viper.BindEnv("slack.baseUrl", "PUNCHD_SLACK_BASE_URL")
	viper.BindEnv("slack.tokenFile", "PUNCHD_SLACK_TOKEN_FILE")
	viper.BindEnv("resolver.refreshInterval", "PUNCHD_REFRESH_INTERVAL")
	viper.BindEnv("cache.enabled", "PUNCHD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PUNCHD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SlackPunchDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

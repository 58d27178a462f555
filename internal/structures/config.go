package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type SettingsConfig struct {
	FilePath   string `yaml:"filePath" validate:"required|unixPath"`
	ArchiveDir string `yaml:"archiveDir" validate:"required|unixPath"`
}

type SlackConfig struct {
	BaseUrl   string        `yaml:"baseUrl" validate:"required"`
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
	TokenEnv  string        `yaml:"tokenEnv"`
	TokenFile string        `yaml:"tokenFile"`
}

type ResolverConfig struct {
	RefreshInterval time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
	OldestHour      int           `yaml:"oldestHour" validate:"uint|max:23"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Settings  SettingsConfig `yaml:"settings"`
	Slack     SlackConfig    `yaml:"slack"`
	Resolver  ResolverConfig `yaml:"resolver"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

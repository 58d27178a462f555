package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"punchd/internal/structures"
)

type TypeEnum string

const (
	TypeApp      TypeEnum = "app"
	TypeGet      TypeEnum = "get"
	TypePost     TypeEnum = "post"
	TypeSettings TypeEnum = "settings"
	TypeSlack    TypeEnum = "slack"
	TypeResolve  TypeEnum = "resolve"
	TypePunch    TypeEnum = "punch"
)

var logTypes = []TypeEnum{TypeApp, TypeGet, TypePost, TypeSettings, TypeSlack, TypeResolve, TypePunch}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

// NewLogProvider opens one log file per category under the configured
// directory. In debug mode output additionally goes to a console writer.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	p := &LogProvider{
		loggers: make(map[TypeEnum]zerolog.Logger, len(logTypes)),
	}

	for _, t := range logTypes {
		path := filepath.Join(conf.Logger.Dir, string(t)+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		p.files = append(p.files, file)

		var w zerolog.LevelWriter = zerolog.MultiLevelWriter(file)
		if conf.Debug {
			w = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		p.loggers[t] = zerolog.New(w).Level(level).With().Timestamp().Str("type", string(t)).Logger()
	}

	return p, nil
}

func (p *LogProvider) logger(t TypeEnum) zerolog.Logger {
	if l, ok := p.loggers[t]; ok {
		return l
	}
	return p.loggers[TypeApp]
}

func (p *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l := p.logger(t)
	l.Error().Msgf(format, args...)
}

func (p *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l := p.logger(t)
	l.Warn().Msgf(format, args...)
}

func (p *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l := p.logger(t)
	l.Info().Msgf(format, args...)
}

func (p *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l := p.logger(t)
	l.Debug().Msgf(format, args...)
}

func (p *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l := p.logger(t)
	l.Fatal().Msgf(format, args...)
}

func (p *LogProvider) Close() {
	for _, f := range p.files {
		_ = f.Close()
	}
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

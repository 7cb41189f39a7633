// Package log enhanced zap logger
//
// all diagnostics go to stderr by default, stdout is left to the command results.
package log

import (
	"fmt"

	"github.com/Laisky/errors/v2"
	zap "github.com/Laisky/zap"
	"github.com/Laisky/zap/zapcore"
)

// Shared logger of the whole tool, replaced by the command once its
// settings are loaded
var Shared Logger

// Level logger level
type Level string

func (l Level) String() string {
	return string(l)
}

const (
	// LevelDebug Logger level debug
	LevelDebug Level = "debug"
	// LevelInfo Logger level info
	LevelInfo Level = "info"
	// LevelWarn Logger level warn
	LevelWarn Level = "warn"
	// LevelError Logger level error
	LevelError Level = "error"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zap.DebugLevel,
	LevelInfo:  zap.InfoLevel,
	LevelWarn:  zap.WarnLevel,
	LevelError: zap.ErrorLevel,
}

// LevelToZap convert Level to zapcore.Level
func LevelToZap(level Level) (zapcore.Level, error) {
	if lvl, ok := levels[level]; ok {
		return lvl, nil
	}

	return 0, errors.Errorf("invalid level: %q", level)
}

// LevelFromZap convert zapcore.Level to Level
func LevelFromZap(level zapcore.Level) (Level, error) {
	for l, zl := range levels {
		if zl == level {
			return l, nil
		}
	}

	return "", errors.Errorf("invalid level: %s", level)
}

// Encoding log line format
type Encoding string

func (e Encoding) String() string {
	return string(e)
}

const (
	// EncodingConsole human readable, tab separated
	EncodingConsole Encoding = "console"
	// EncodingJSON one json object per line
	EncodingJSON Encoding = "json"
)

// Logger is the subset of zap.Logger the tool uses,
// plus a level shared by a logger and all its children
type Logger interface {
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field)
	Sync() error

	Level() Level
	ChangeLevel(level Level) error
	Named(s string) Logger
	With(fields ...zapcore.Field) Logger
}

type logger struct {
	*zap.Logger

	// zap logger do not expose api to change log's level,
	// so we have to save the pointer of zap.AtomicLevel.
	level zap.AtomicLevel
}

type option struct {
	zap.Config
	name string
}

func (o *option) fillDefault() *option {
	o.name = "shamir"
	o.Config = zap.Config{
		Level:            zap.NewAtomicLevel(),
		Encoding:         EncodingConsole.String(),
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	o.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	o.EncoderConfig.MessageKey = "message"
	o.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	o.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return o
}

func (o *option) applyOpts(optfs ...Option) (*option, error) {
	for _, optf := range optfs {
		if err := optf(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Option for New
type Option func(l *option) error

// WithOutputPaths set output paths, replace the default `stderr`
//
// like "stdout" or a file path
func WithOutputPaths(paths []string) Option {
	return func(c *option) error {
		if len(paths) == 0 {
			return errors.Errorf("output paths should not be empty")
		}

		c.OutputPaths = append([]string{}, paths...)
		return nil
	}
}

// WithEncoding set log line format
func WithEncoding(enc Encoding) Option {
	return func(c *option) error {
		switch enc {
		case EncodingConsole, EncodingJSON:
			c.Encoding = enc.String()
			return nil
		default:
			return errors.Errorf("invalid encoding: %q", enc)
		}
	}
}

// WithName set logger name
func WithName(name string) Option {
	return func(c *option) error {
		c.name = name
		return nil
	}
}

// WithLevel set logger level
func WithLevel(level Level) Option {
	return func(c *option) error {
		lvl, err := LevelToZap(level)
		if err != nil {
			return err
		}

		c.Level.SetLevel(lvl)
		return nil
	}
}

// New create new logger, console encoding to stderr at info level by default
func New(optfs ...Option) (Logger, error) {
	opt, err := new(option).fillDefault().applyOpts(optfs...)
	if err != nil {
		return nil, errors.Wrap(err, "apply options")
	}

	zapLogger, err := opt.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}

	return &logger{
		Logger: zapLogger.Named(opt.name),
		level:  opt.Level,
	}, nil
}

// Level get current level of logger
func (l *logger) Level() Level {
	lvl, err := LevelFromZap(l.level.Level())
	if err != nil {
		panic(err)
	}

	return lvl
}

// ChangeLevel change logger level
//
// Because all children loggers share the same level as their parent logger,
// if you modify one logger's level, it will affect all of its parent and children loggers.
func (l *logger) ChangeLevel(level Level) (err error) {
	lvl, err := LevelToZap(level)
	if err != nil {
		return err
	}

	l.level.SetLevel(lvl)
	l.Debug("set logger level", zap.String("level", level.String()))
	return
}

// Named adds a new path segment to the logger's name. Segments are joined by
// periods.
func (l *logger) Named(s string) Logger {
	return &logger{
		Logger: l.Logger.Named(s),
		level:  l.level,
	}
}

// With creates a child logger and adds structured context to it. Fields added
// to the child don't affect the parent, and vice versa.
func (l *logger) With(fields ...zapcore.Field) Logger {
	return &logger{
		Logger: l.Logger.With(fields...),
		level:  l.level,
	}
}

func init() {
	var err error
	if Shared, err = New(); err != nil {
		panic(fmt.Sprintf("create logger: %+v", err))
	}
}

// Package config settings for shamir-recovery
//
// values come from command line flags and yaml files,
// flags bound by BindPFlags take precedence over files.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Laisky/errors/v2"
	zap "github.com/Laisky/zap"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	gutils "github.com/Laisky/shamir-recovery"
	"github.com/Laisky/shamir-recovery/log"
)

// Config type of project settings
type Config struct {
	sync.RWMutex

	v *viper.Viper
}

// Shared is the settings for this project
//
// enhance viper.Viper with threadsafe and richer features.
//
// Basic Usage
//
//	import "github.com/Laisky/shamir-recovery/config"
//
//	config.Shared.GetString("format")
var Shared = New()

// New new settings
func New() *Config {
	return &Config{
		v: viper.New(),
	}
}

// BindPFlags bind pflags to settings
func (s *Config) BindPFlags(p *pflag.FlagSet) error {
	s.Lock()
	defer s.Unlock()

	return s.v.BindPFlags(p)
}

// GetString get setting by key
func (s *Config) GetString(key string) string {
	s.RLock()
	defer s.RUnlock()

	return s.v.GetString(key)
}

// Unmarshal unmarshals flags and files into a struct,
// fields are matched by their `mapstructure` tags.
//
// durations accept strings like "1m30s".
func (s *Config) Unmarshal(obj interface{}) error {
	s.RLock()
	defer s.RUnlock()

	return s.v.Unmarshal(obj)
}

// ReadConfig replace all file-sourced settings by the content of in
func (s *Config) ReadConfig(in io.Reader) error {
	s.Lock()
	defer s.Unlock()

	return s.v.ReadConfig(in)
}

// MergeConfig merge the content of in into current settings
func (s *Config) MergeConfig(in io.Reader) error {
	s.Lock()
	defer s.Unlock()

	return s.v.MergeConfig(in)
}

type settingsOpt struct {
	enableInclude bool
}

func (o *settingsOpt) applyOptfs(opts ...SettingsOptFunc) (*settingsOpt, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// SettingsOptFunc opt for settings
type SettingsOptFunc func(*settingsOpt) error

// WithSettingsEnableInclude enable `include` in config file
//
// the included file is resolved relative to the entry file's directory,
// settings in the including file override the included one.
func WithSettingsEnableInclude() SettingsOptFunc {
	return func(opt *settingsOpt) error {
		opt.enableInclude = true
		return nil
	}
}

const settingsIncludeKey = "include"

func (s *Config) setConfigType(fpath string) {
	s.Lock()
	defer s.Unlock()

	s.v.SetConfigType(strings.TrimLeft(filepath.Ext(fpath), "."))
}

// LoadFromFile load settings from file
func (s *Config) LoadFromFile(entryFile string, opts ...SettingsOptFunc) (err error) {
	opt, err := new(settingsOpt).applyOptfs(opts...)
	if err != nil {
		return errors.Wrap(err, "apply options")
	}

	logger := log.Shared.With(
		zap.String("file", entryFile),
		zap.Bool("include", opt.enableInclude),
	)

	curFpath := entryFile
	cfgDir := filepath.Dir(entryFile)
	cfgFiles := []string{entryFile}

RECUR_INCLUDE_LOOP:
	for {
		if err = s.readFile(curFpath); err != nil {
			return err
		}

		if !opt.enableInclude {
			break
		}

		if curFpath = s.GetString(settingsIncludeKey); curFpath == "" {
			break
		}

		curFpath = filepath.Join(cfgDir, curFpath)
		for _, f := range cfgFiles {
			if f == curFpath {
				break RECUR_INCLUDE_LOOP
			}
		}

		cfgFiles = append(cfgFiles, curFpath)
	}

	if err = s.loadConfigFiles(cfgFiles); err != nil {
		return err
	}

	logger.Debug("load configs", zap.Strings("config_files", cfgFiles))
	return nil
}

func (s *Config) readFile(fpath string) error {
	fp, err := os.Open(fpath)
	if err != nil {
		return errors.Wrapf(err, "open config file `%s`", fpath)
	}
	defer gutils.CloseQuietly(fp)

	s.setConfigType(fpath)
	if err = s.ReadConfig(fp); err != nil {
		return errors.Wrapf(err, "load config from file `%s`", fpath)
	}

	return nil
}

// loadConfigFiles merge files in reverse order, so the entry file wins
func (s *Config) loadConfigFiles(cfgFiles []string) (err error) {
	for i := len(cfgFiles) - 1; i >= 0; i-- {
		if err = func() error {
			filePath := cfgFiles[i]
			fp, err := os.Open(filePath)
			if err != nil {
				return errors.Wrapf(err, "open config file `%s`", filePath)
			}
			defer gutils.CloseQuietly(fp)

			s.setConfigType(filePath)
			if err = s.MergeConfig(fp); err != nil {
				return errors.Wrapf(err, "merge config file `%s`", filePath)
			}

			return nil
		}(); err != nil {
			return err
		}
	}

	return nil
}

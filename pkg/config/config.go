// Package config resolves waitlist settings from .waitlist.yaml, WAITLIST_*
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/store"
	"tableflip.dev/waitlist/pkg/submission"
)

// Keys understood by Load.
const (
	KeyProject              = "project"
	KeyStore                = "store"
	KeyPath                 = "path"
	KeyDSN                  = "dsn"
	KeyCollection           = "collection"
	KeyUniqueField          = "unique_field"
	KeyCheckDuplicates      = "check_duplicates"
	KeyNotificationDuration = "notification.duration"
	KeyNotificationTick     = "notification.tick"
)

// EnvConfigPath names an extra directory searched for .waitlist.yaml.
const EnvConfigPath = "WAITLIST_CONFIG_PATH"

// ErrMissingSetting is wrapped by Load when a required key is absent.
var ErrMissingSetting = errors.New("config: missing required setting")

// Config is the resolved, validated configuration.
type Config struct {
	Project              string
	Store                store.Backend
	Path                 string
	DSN                  string
	Collection           string
	UniqueField          string
	CheckDuplicates      bool
	NotificationDuration time.Duration
	NotificationTick     time.Duration
	// File is the config file used, if any.
	File string
}

// StoreOptions converts the config to store.Open options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store,
		Path:    c.Path,
		DSN:     c.DSN,
	}
}

// SubmissionOptions converts the config to controller options.
func (c *Config) SubmissionOptions(logger *slog.Logger) []submission.Option {
	opts := []submission.Option{
		submission.WithCollection(c.Collection),
		submission.WithUniqueField(c.UniqueField),
		submission.WithDuplicateCheck(c.CheckDuplicates),
		submission.WithNotificationDuration(c.NotificationDuration),
	}
	if logger != nil {
		opts = append(opts, submission.WithLogger(logger))
	}
	return opts
}

// SetDefaults registers defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStore, string(store.BackendDiskv))
	v.SetDefault(KeyPath, "~/.waitlist.db")
	v.SetDefault(KeyCollection, "waitlist")
	v.SetDefault(KeyUniqueField, "email")
	v.SetDefault(KeyCheckDuplicates, false)
	v.SetDefault(KeyNotificationDuration, notify.DefaultDuration)
	v.SetDefault(KeyNotificationTick, notify.DefaultInterval)
}

// New returns a viper instance wired to the config file search path and the
// WAITLIST_ environment prefix.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(".waitlist") // .yaml is implicit
	v.SetEnvPrefix("WAITLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(EnvConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	return v
}

// Load reads the config file, if any, and validates the result. Startup fails
// fast when a required identifier is missing.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return FromViper(v)
}

// FromViper validates settings already present on v without reading files.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		Project:              strings.TrimSpace(v.GetString(KeyProject)),
		Store:                store.Backend(strings.ToLower(strings.TrimSpace(v.GetString(KeyStore)))),
		DSN:                  strings.TrimSpace(v.GetString(KeyDSN)),
		Collection:           strings.TrimSpace(v.GetString(KeyCollection)),
		UniqueField:          strings.TrimSpace(v.GetString(KeyUniqueField)),
		CheckDuplicates:      v.GetBool(KeyCheckDuplicates),
		NotificationDuration: v.GetDuration(KeyNotificationDuration),
		NotificationTick:     v.GetDuration(KeyNotificationTick),
		File:                 v.ConfigFileUsed(),
	}

	path, err := homedir.Expand(strings.TrimSpace(v.GetString(KeyPath)))
	if err != nil {
		return nil, fmt.Errorf("config: expand %s: %w", KeyPath, err)
	}
	c.Path = path

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required keys and value ranges.
func (c *Config) Validate() error {
	if c.Project == "" {
		return missing(KeyProject)
	}
	if c.Collection == "" {
		return missing(KeyCollection)
	}
	switch c.Store {
	case store.BackendDiskv:
		if c.Path == "" {
			return missing(KeyPath)
		}
	case store.BackendSQLite:
		if c.DSN == "" {
			return missing(KeyDSN)
		}
	case store.BackendMemory:
	default:
		return fmt.Errorf("config: %s: unknown backend %q", KeyStore, c.Store)
	}
	if c.CheckDuplicates && c.UniqueField == "" {
		return missing(KeyUniqueField)
	}
	if c.NotificationDuration <= 0 {
		return fmt.Errorf("config: %s must be positive, got %s", KeyNotificationDuration, c.NotificationDuration)
	}
	if c.NotificationTick <= 0 {
		return fmt.Errorf("config: %s must be positive, got %s", KeyNotificationTick, c.NotificationTick)
	}
	return nil
}

func missing(key string) error {
	env := "WAITLIST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return fmt.Errorf("%w: %s (set it in .waitlist.yaml or %s)", ErrMissingSetting, key, env)
}

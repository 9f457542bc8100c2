package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

const (
	AppName = "jot"
	// ConfigPathEnv names a directory holding .jot.yaml.
	ConfigPathEnv = "JOT_CONFIG_PATH"
	DataFileName  = "tasks.json"

	DefaultSaveDelay    = 2 * time.Second
	DefaultFetchTimeout = 10 * time.Second
)

type Config interface {
	// DataPath is the JSON document file.
	DataPath() string
	// CachePath is the directory holding cached page titles.
	CachePath() string
	SaveDelay() time.Duration
	FetchTimeout() time.Duration
	LogLevel() string
}

// DefaultDataPath is the per-user application data location of the document.
func DefaultDataPath() string {
	p, err := gap.NewScope(gap.User, AppName).DataPath(DataFileName)
	if err != nil || p == "" {
		home, herr := homedir.Dir()
		if herr != nil {
			home = "."
		}
		return filepath.Join(home, "."+AppName, DataFileName)
	}
	return p
}

// LoadConfig reads .jot.yaml from JOT_CONFIG_PATH, the working directory or
// the home directory, with JOT_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultDataPath())
	v.SetDefault("cache", "")
	v.SetDefault("save-delay", DefaultSaveDelay)
	v.SetDefault("fetch-timeout", DefaultFetchTimeout)
	v.SetDefault("log-level", "warn")
	v.SetConfigName("." + AppName) // .yaml is implicit
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(ConfigPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	cache, err := homedir.Expand(v.GetString("cache"))
	if err != nil {
		return nil, fmt.Errorf("store: expand cache: %w", err)
	}
	if cache == "" {
		cache = filepath.Join(filepath.Dir(path), "titles")
	}

	cfg := &fileConfig{
		Path:    path,
		Cache:   cache,
		Delay:   v.GetDuration("save-delay"),
		Timeout: v.GetDuration("fetch-timeout"),
		Level:   v.GetString("log-level"),
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultSaveDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	return cfg, nil
}

// NewConfig builds a Config rooted at an explicit data file, used by tests and
// by callers that already know where the document lives.
func NewConfig(path string) Config {
	return &fileConfig{
		Path:    path,
		Cache:   filepath.Join(filepath.Dir(path), "titles"),
		Delay:   DefaultSaveDelay,
		Timeout: DefaultFetchTimeout,
		Level:   "warn",
	}
}

type fileConfig struct {
	Path    string        `json:"path"`
	Cache   string        `json:"cache"`
	Delay   time.Duration `json:"saveDelay"`
	Timeout time.Duration `json:"fetchTimeout"`
	Level   string        `json:"logLevel"`
}

func (f *fileConfig) DataPath() string            { return f.Path }
func (f *fileConfig) CachePath() string           { return f.Cache }
func (f *fileConfig) SaveDelay() time.Duration    { return f.Delay }
func (f *fileConfig) FetchTimeout() time.Duration { return f.Timeout }
func (f *fileConfig) LogLevel() string            { return f.Level }
